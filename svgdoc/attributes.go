package svgdoc

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
	numparse "github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/image/colornames"
)

var (
	errParamMismatch = errors.New("svg parameter mismatch")
	errInvalidNumber = errors.New("invalid number")
	errInvalidLength = errors.New("invalid length")
)

// skipCommaWhitespace returns the number of separators at the start of b.
func skipCommaWhitespace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

// parseNumbers reads a list of numbers separated by commas or spaces.
func parseNumbers(s string) ([]float64, error) {
	b := []byte(s)
	var out []float64
	i := skipCommaWhitespace(b)
	for i < len(b) {
		f, n := numparse.ParseFloat(b[i:])
		if n == 0 {
			return out, fmt.Errorf("%w at position %d in %q", errInvalidNumber, i+1, s)
		}
		out = append(out, f)
		i += n
		i += skipCommaWhitespace(b[i:])
	}
	return out, nil
}

// parseNumber reads exactly one number.
func parseNumber(s string) (float64, error) {
	b := []byte(strings.TrimSpace(s))
	f, n := numparse.ParseFloat(b)
	if n == 0 || n != len(b) {
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
	return f, nil
}

func readTransformAttr(m1 svgpath.Matrix2D, k string, points []float64) (svgpath.Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(svgpath.Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform reads a transform list. The transforms are
// composed left to right: the last one is applied first.
func parseTransform(v string) (svgpath.Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := svgpath.Identity
	for _, t := range ts {
		t = strings.TrimSpace(t)
		t = strings.TrimLeft(t, ", \t\n\r")
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		points, err := parseNumbers(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

// styleDeclarations returns the presentation attributes of n,
// overridden by the declarations of its style attribute.
func styleDeclarations(n *Node) map[string]string {
	out := make(map[string]string)
	var style string
	for _, attr := range n.Attrs {
		switch k := attr.Name.Local; k {
		case "style":
			style = attr.Value
		case "fill", "stroke", "stroke-dasharray":
			out[k] = strings.TrimSpace(attr.Value)
		}
	}
	for _, pair := range strings.Split(style, ";") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		out[k] = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(kv[1]), "!important"))
	}
	return out
}

// parsePaint decodes a fill or stroke value. Unrecognized syntaxes
// are returned as svgconv.PaintUnknown, not as errors.
// The fallback following a local reference is ignored.
func parsePaint(v string) svgconv.Paint {
	v = strings.TrimSpace(v)
	var p svgconv.Paint
	lower := strings.ToLower(v)
	switch {
	case lower == "none":
		p = svgconv.NoPaint
	case lower == "currentcolor":
		p.Kind = svgconv.PaintCurrentColor
	case lower == "inherit":
		p.Kind = svgconv.PaintInherit
	case strings.HasPrefix(lower, "url("):
		end := strings.IndexByte(v, ')')
		if end < 0 {
			p.Kind = svgconv.PaintUnknown
			break
		}
		ref := strings.Trim(strings.TrimSpace(v[4:end]), `"'`)
		if id, local := strings.CutPrefix(ref, "#"); local {
			p = svgconv.RefPaint(id)
		} else {
			p.Kind, p.ID = svgconv.PaintExternalIRI, ref
		}
	default:
		c, ok := parseColor(lower)
		if !ok {
			p.Kind = svgconv.PaintUnknown
			break
		}
		p = svgconv.ColorPaint(c)
	}
	p.Raw = v
	return p
}

// colorArgs splits the arguments of a functional color notation,
// separated by commas, or by spaces with an optional "/ alpha".
func colorArgs(args string) []string {
	args = strings.TrimSuffix(args, ")")
	args = strings.ReplaceAll(args, "/", " ")
	return strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// readColorComponent reads a number or a percentage of full.
func readColorComponent(v string, full float64) (float64, error) {
	if num, ok := strings.CutSuffix(v, "%"); ok {
		f, err := parseNumber(num)
		return f * full / 100, err
	}
	return parseNumber(v)
}

func clampByte(f float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(f))))
}

// readAlpha reads an opacity, either in [0, 1] or as a percentage.
func readAlpha(v string) (uint8, error) {
	f, err := readColorComponent(v, 1)
	if err != nil {
		return 0, err
	}
	return clampByte(f * 0xff), nil
}

// parseColor supports color keywords, transparent, hexadecimal
// notations, rgb(), rgba(), hsl() and hsla().
func parseColor(v string) (color.NRGBA, bool) {
	if v == "transparent" {
		return color.NRGBA{}, true
	}
	if cn, ok := colornames.Map[v]; ok {
		return color.NRGBA{cn.R, cn.G, cn.B, cn.A}, true
	}
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) == 3 {
			// duplicate characters in case of 3 digits
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.NRGBA{}, false
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, false
		}
		return color.NRGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xff}, true
	}

	name, args, ok := strings.Cut(v, "(")
	if !ok || !strings.HasSuffix(args, ")") {
		return color.NRGBA{}, false
	}
	vals := colorArgs(args)
	if len(vals) != 3 && len(vals) != 4 {
		return color.NRGBA{}, false
	}
	alpha := uint8(0xff)
	if len(vals) == 4 {
		var err error
		if alpha, err = readAlpha(vals[3]); err != nil {
			return color.NRGBA{}, false
		}
	}
	switch strings.TrimSpace(name) {
	case "rgb", "rgba":
		var cvals [3]uint8
		for i, val := range vals[:3] {
			f, err := readColorComponent(val, 0xff)
			if err != nil {
				return color.NRGBA{}, false
			}
			cvals[i] = clampByte(f)
		}
		return color.NRGBA{cvals[0], cvals[1], cvals[2], alpha}, true
	case "hsl", "hsla":
		h, err := parseNumber(strings.TrimSuffix(vals[0], "deg"))
		if err != nil {
			return color.NRGBA{}, false
		}
		sat, err1 := readColorComponent(vals[1], 1)
		light, err2 := readColorComponent(vals[2], 1)
		if err1 != nil || err2 != nil {
			return color.NRGBA{}, false
		}
		r, g, b := hslToRGB(h, sat, light)
		return color.NRGBA{clampByte(r * 0xff), clampByte(g * 0xff), clampByte(b * 0xff), alpha}, true
	default:
		return color.NRGBA{}, false
	}
}

// hslToRGB converts a hue in degrees, and a saturation and
// a lightness in [0, 1], to RGB components in [0, 1].
func hslToRGB(h, s, l float64) (r, g, b float64) {
	s, l = math.Max(0, math.Min(1, s)), math.Max(0, math.Min(1, l))
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// lengthAxis selects the viewport dimension used for percentages.
type lengthAxis uint8

const (
	horizontal lengthAxis = iota
	vertical
	diagonal
)

func (a lengthAxis) reference(vp svgconv.Viewport) float64 {
	switch a {
	case horizontal:
		return vp.Width
	case vertical:
		return vp.Height
	default:
		return vp.Diagonal()
	}
}

// absolute units, in user units (CSS pixels)
var unitFactors = []struct {
	suffix string
	factor float64
}{
	{"px", 1},
	{"pt", 96. / 72},
	{"pc", 16},
	{"mm", 96 / 25.4},
	{"cm", 96 / 2.54},
	{"in", 96},
	{"em", 16},
	{"ex", 8},
}

// parseLength reads a length, resolving percentages against
// the viewport.
func parseLength(v string, vp svgconv.Viewport, axis lengthAxis) (float64, error) {
	v = strings.TrimSpace(v)
	if num, ok := strings.CutSuffix(v, "%"); ok {
		f, err := parseNumber(num)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errInvalidLength, v)
		}
		return f * axis.reference(vp) / 100, nil
	}
	factor := 1.
	for _, u := range unitFactors {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			v, factor = num, u.factor
			break
		}
	}
	f, err := parseNumber(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidLength, v)
	}
	return f * factor, nil
}

// readFraction reads a number or a percentage, as a fraction.
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseNumber(v)
	f /= d
	return
}

// parseDashArray returns nil for "none", and for lists which
// don't describe a valid pattern (negative or all zero values).
// Odd lists are repeated to yield an even number of values.
func parseDashArray(v string, vp svgconv.Viewport) ([]float64, error) {
	v = strings.TrimSpace(v)
	if v == "none" || v == "" {
		return nil, nil
	}
	dashes := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, len(dashes))
	var sum float64
	for i, dstr := range dashes {
		d, err := parseLength(dstr, vp, diagonal)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, nil
		}
		out[i] = d
		sum += d
	}
	if sum == 0 {
		return nil, nil
	}
	if len(out)%2 == 1 {
		out = append(out, out...)
	}
	return out, nil
}

func parseViewBox(v string) (svgconv.ViewBox, error) {
	points, err := parseNumbers(v)
	if err != nil {
		return svgconv.ViewBox{}, err
	}
	if len(points) != 4 {
		return svgconv.ViewBox{}, errParamMismatch
	}
	return svgconv.ViewBox{X: points[0], Y: points[1], Width: points[2], Height: points[3]}, nil
}

var aligns = map[string]svgconv.Align{
	"none":     svgconv.AlignNone,
	"xMinYMin": svgconv.AlignXMinYMin,
	"xMidYMin": svgconv.AlignXMidYMin,
	"xMaxYMin": svgconv.AlignXMaxYMin,
	"xMinYMid": svgconv.AlignXMinYMid,
	"xMidYMid": svgconv.AlignXMidYMid,
	"xMaxYMid": svgconv.AlignXMaxYMid,
	"xMinYMax": svgconv.AlignXMinYMax,
	"xMidYMax": svgconv.AlignXMidYMax,
	"xMaxYMax": svgconv.AlignXMaxYMax,
}

func parsePreserveAspectRatio(v string) (svgconv.PreserveAspectRatio, error) {
	var par svgconv.PreserveAspectRatio
	fields := strings.Fields(v)
	if len(fields) > 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return par, errParamMismatch
	}
	align, ok := aligns[fields[0]]
	if !ok {
		return par, fmt.Errorf("%w: unknown alignment %q", errParamMismatch, fields[0])
	}
	par.Align = align
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			par.Slice = true
		default:
			return par, fmt.Errorf("%w: unknown meetOrSlice %q", errParamMismatch, fields[1])
		}
	}
	return par, nil
}

func parseUnits(v string) (svgconv.Units, error) {
	switch strings.TrimSpace(v) {
	case "objectBoundingBox":
		return svgconv.ObjectBoundingBox, nil
	case "userSpaceOnUse":
		return svgconv.UserSpaceOnUse, nil
	default:
		return 0, fmt.Errorf("%w: unknown units %q", errParamMismatch, v)
	}
}
