package svgdoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
)

var (
	errUnsupportedElement = errors.New("cannot process svg element")
	errNegativeSize       = errors.New("negative size")
	errExternalHref       = errors.New("only the ID CSS selector is supported")
)

// svgFunc decodes the attributes specific to an element.
type svgFunc func(t *traversal, n *Node, ctx svgconv.Context) error

type element struct {
	kind   svgconv.ElementKind
	decode svgFunc
	// whether the children are processed
	container bool
}

var drawFuncs = map[string]element{
	"svg":      {svgconv.KindSVG, svgF, true},
	"g":        {svgconv.KindGroup, nil, true},
	"a":        {svgconv.KindGroup, nil, true},
	"path":     {svgconv.KindShape, pathF, false},
	"rect":     {svgconv.KindShape, rectF, false},
	"circle":   {svgconv.KindShape, circleF, false},
	"ellipse":  {svgconv.KindShape, circleF, false}, // circleF handles ellipse also
	"line":     {svgconv.KindShape, lineF, false},
	"polyline": {svgconv.KindShape, polylineF, false},
	"polygon":  {svgconv.KindShape, polygonF, false},
	"use":      {svgconv.KindUse, useF, false},
	// only processed through a reference
	"pattern": {svgconv.KindPattern, patternF, true},
	"symbol":  {svgconv.KindSymbol, svgF, true},
}

// elements only processed through a reference
var referencedOnly = map[string]bool{
	"pattern": true,
	"symbol":  true,
}

// elements skipped with their subtree, without error
var skippedElements = map[string]bool{
	"defs":           true,
	"title":          true,
	"desc":           true,
	"metadata":       true,
	"style":          true,
	"script":         true,
	"pattern":        true,
	"linearGradient": true,
	"radialGradient": true,
	"clipPath":       true,
	"mask":           true,
	"symbol":         true,
	"marker":         true,
	"filter":         true,
	"text":           true,
	"image":          true,
	"foreignObject":  true,
	"namedview":      true, // sodipodi
}

// attrs visits the attributes of an element, calling fn for each
// of them, and handling the returned error as configured.
func (t *traversal) attrs(n *Node, fn func(name, value string) error) error {
	for _, attr := range n.Attrs {
		if err := fn(attr.Name.Local, attr.Value); err != nil {
			if err := t.handleError(fmt.Errorf("<%s> attribute %s: %w", n.Name, attr.Name.Local, err)); err != nil {
				return err
			}
		}
	}
	return nil
}

func svgF(t *traversal, n *Node, ctx svgconv.Context) error {
	var (
		vp       = ctx.Viewport()
		attrs    svgconv.ViewportAttributes
		vb       svgconv.ViewBox
		par      svgconv.PreserveAspectRatio
		hasVB    bool
		relative = vp.Width == 0 && vp.Height == 0
	)
	err := t.attrs(n, func(name, value string) (err error) {
		switch name {
		case "x":
			attrs.X, err = parseLength(value, vp, horizontal)
		case "y":
			attrs.Y, err = parseLength(value, vp, vertical)
		case "width":
			if relative && strings.HasSuffix(strings.TrimSpace(value), "%") {
				return nil // no reference size: fallback to the view box
			}
			attrs.Width, err = parseLength(value, vp, horizontal)
			if err == nil && attrs.Width < 0 {
				return errNegativeSize
			}
			attrs.HasWidth = err == nil
		case "height":
			if relative && strings.HasSuffix(strings.TrimSpace(value), "%") {
				return nil
			}
			attrs.Height, err = parseLength(value, vp, vertical)
			if err == nil && attrs.Height < 0 {
				return errNegativeSize
			}
			attrs.HasHeight = err == nil
		case "viewBox":
			vb, err = parseViewBox(value)
			hasVB = err == nil
		case "preserveAspectRatio":
			par, err = parsePreserveAspectRatio(value)
		}
		return err
	})
	if err != nil {
		return err
	}
	if s, ok := ctx.(svgconv.ViewportSetter); ok {
		s.SetViewport(attrs)
	}
	if s, ok := ctx.(svgconv.ViewBoxSetter); ok && hasVB {
		s.SetViewBox(vb, par)
	}
	return nil
}

func pathF(t *traversal, n *Node, ctx svgconv.Context) error {
	d, ok := n.attr("d")
	if !ok {
		return nil
	}
	path, err := parsePathData(d)
	// the path is rendered up to the error
	t.emit(ctx, path)
	if err != nil {
		return t.handleError(fmt.Errorf("<path id=%q>: %w", n.ID(), err))
	}
	return nil
}

func rectF(t *traversal, n *Node, ctx svgconv.Context) error {
	var (
		vp                 = ctx.Viewport()
		x, y, w, h, rx, ry float64
		hasRx, hasRy       bool
	)
	err := t.attrs(n, func(name, value string) (err error) {
		switch name {
		case "x":
			x, err = parseLength(value, vp, horizontal)
		case "y":
			y, err = parseLength(value, vp, vertical)
		case "width":
			w, err = parseLength(value, vp, horizontal)
		case "height":
			h, err = parseLength(value, vp, vertical)
		case "rx":
			rx, err = parseLength(value, vp, horizontal)
			hasRx = err == nil
		case "ry":
			ry, err = parseLength(value, vp, vertical)
			hasRy = err == nil
		}
		return err
	})
	if err != nil {
		return err
	}
	if w < 0 || h < 0 {
		return t.handleError(fmt.Errorf("<rect id=%q>: %w", n.ID(), errNegativeSize))
	}
	if w == 0 || h == 0 {
		return nil
	}
	// a negative radius is ignored
	hasRx, hasRy = hasRx && rx >= 0, hasRy && ry >= 0
	if hasRx && !hasRy {
		ry = rx
	} else if hasRy && !hasRx {
		rx = ry
	}
	var path svgpath.Path
	path.AddRoundRect(x, y, x+w, y+h, rx, ry)
	t.emit(ctx, path)
	return nil
}

func circleF(t *traversal, n *Node, ctx svgconv.Context) error {
	var (
		vp             = ctx.Viewport()
		cx, cy, rx, ry float64
		hasRx, hasRy   bool
	)
	err := t.attrs(n, func(name, value string) (err error) {
		switch name {
		case "cx":
			cx, err = parseLength(value, vp, horizontal)
		case "cy":
			cy, err = parseLength(value, vp, vertical)
		case "r":
			rx, err = parseLength(value, vp, diagonal)
			ry = rx
			hasRx, hasRy = true, true
		case "rx":
			rx, err = parseLength(value, vp, horizontal)
			hasRx = true
		case "ry":
			ry, err = parseLength(value, vp, vertical)
			hasRy = true
		}
		return err
	})
	if err != nil {
		return err
	}
	// an ellipse with a single radius uses it for both axes
	if n.Name == "ellipse" {
		if hasRx && !hasRy {
			ry = rx
		} else if hasRy && !hasRx {
			rx = ry
		}
	}
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return nil
	}
	var path svgpath.Path
	path.AddEllipse(cx, cy, rx, ry)
	t.emit(ctx, path)
	return nil
}

func lineF(t *traversal, n *Node, ctx svgconv.Context) error {
	var (
		vp             = ctx.Viewport()
		x1, x2, y1, y2 float64
	)
	err := t.attrs(n, func(name, value string) (err error) {
		switch name {
		case "x1":
			x1, err = parseLength(value, vp, horizontal)
		case "x2":
			x2, err = parseLength(value, vp, horizontal)
		case "y1":
			y1, err = parseLength(value, vp, vertical)
		case "y2":
			y2, err = parseLength(value, vp, vertical)
		}
		return err
	})
	if err != nil {
		return err
	}
	var path svgpath.Path
	path.Start(svgpath.Point{X: x1, Y: y1})
	path.Line(svgpath.Point{X: x2, Y: y2})
	t.emit(ctx, path)
	return nil
}

// readPoints returns the points attribute of polylines and polygons.
// An odd number of coordinates drops the last one.
func readPoints(t *traversal, n *Node) ([]svgpath.Point, error) {
	v, _ := n.attr("points")
	coords, err := parseNumbers(v)
	if err != nil {
		// the points are rendered up to the error
		if err = t.handleError(fmt.Errorf("<%s> attribute points: %w", n.Name, err)); err != nil {
			return nil, err
		}
	}
	if len(coords)%2 != 0 {
		if err = t.handleError(fmt.Errorf("<%s> attribute points: odd number of coordinates", n.Name)); err != nil {
			return nil, err
		}
		coords = coords[:len(coords)-1]
	}
	points := make([]svgpath.Point, len(coords)/2)
	for i := range points {
		points[i] = svgpath.Point{X: coords[2*i], Y: coords[2*i+1]}
	}
	return points, nil
}

func polylineF(t *traversal, n *Node, ctx svgconv.Context) error {
	points, err := readPoints(t, n)
	if err != nil || len(points) < 2 {
		return err
	}
	var path svgpath.Path
	path.AddPolyline(points, false)
	t.emit(ctx, path)
	return nil
}

func polygonF(t *traversal, n *Node, ctx svgconv.Context) error {
	points, err := readPoints(t, n)
	if err != nil || len(points) < 2 {
		return err
	}
	var path svgpath.Path
	path.AddPolyline(points, true)
	t.emit(ctx, path)
	return nil
}

func useF(t *traversal, n *Node, ctx svgconv.Context) error {
	r, ok := ctx.(svgconv.Referencer)
	if !ok {
		return nil
	}
	var (
		vp   = ctx.Viewport()
		x, y float64
	)
	err := t.attrs(n, func(name, value string) (err error) {
		switch name {
		case "href": // xlink:href as well
			value = strings.TrimSpace(value)
			if value == "" {
				return nil
			}
			id, local := strings.CutPrefix(value, "#")
			if !local {
				return errExternalHref
			}
			r.SetHref(id)
		case "x":
			x, err = parseLength(value, vp, horizontal)
		case "y":
			y, err = parseLength(value, vp, vertical)
		case "width", "height":
			axis := horizontal
			if name == "height" {
				axis = vertical
			}
			var size float64
			if size, err = parseLength(value, vp, axis); err != nil {
				return err
			}
			if size < 0 {
				return errNegativeSize
			}
			if name == "width" {
				r.SetWidth(size)
			} else {
				r.SetHeight(size)
			}
		}
		return err
	})
	r.SetOffset(x, y)
	return err
}

// patternTemplate returns the attribute lookup and the content of a
// pattern, following its href chain: missing attributes and children
// are taken from the referenced patterns.
func (t *traversal) patternTemplate(n *Node) (lookup func(name string) (string, bool), content *Node) {
	chain := []*Node{n}
	seen := map[*Node]bool{n: true}
	for current := n; ; {
		href, ok := current.attr("href")
		if !ok {
			break
		}
		id, local := strings.CutPrefix(strings.TrimSpace(href), "#")
		next, found := t.doc.FindByID(id)
		if !local || !found || next.Name != "pattern" || seen[next] {
			break
		}
		seen[next] = true
		chain = append(chain, next)
		current = next
	}
	lookup = func(name string) (string, bool) {
		for _, node := range chain {
			if v, ok := node.attr(name); ok {
				return v, true
			}
		}
		return "", false
	}
	content = n
	for _, node := range chain {
		if len(node.Children) != 0 {
			content = node
			break
		}
	}
	return lookup, content
}

func patternF(t *traversal, n *Node, ctx svgconv.Context) error {
	p, ok := ctx.(svgconv.PatternAttributes)
	if !ok {
		return nil
	}
	lookup, _ := t.patternTemplate(n)
	check := func(name string, err error) error {
		if err == nil {
			return nil
		}
		return t.handleError(fmt.Errorf("<pattern id=%q> attribute %s: %w", n.ID(), name, err))
	}

	units := svgconv.ObjectBoundingBox
	if v, ok := lookup("patternUnits"); ok {
		u, err := parseUnits(v)
		if err := check("patternUnits", err); err != nil {
			return err
		}
		if err == nil {
			units = u
		}
	}
	p.SetPatternUnits(units)

	if v, ok := lookup("patternContentUnits"); ok {
		u, err := parseUnits(v)
		if err := check("patternContentUnits", err); err != nil {
			return err
		}
		if err == nil {
			p.SetPatternContentUnits(u)
		}
	}

	var tile [4]float64 // x, y, width, height
	vp := ctx.Viewport()
	for i, name := range [4]string{"x", "y", "width", "height"} {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		var err error
		if units == svgconv.ObjectBoundingBox {
			tile[i], err = readFraction(v)
		} else {
			tile[i], err = parseLength(v, vp, lengthAxis(i%2))
		}
		if err := check(name, err); err != nil {
			return err
		}
	}
	if tile[2] < 0 || tile[3] < 0 {
		if err := check("width", errNegativeSize); err != nil {
			return err
		}
		tile[2], tile[3] = 0, 0
	}
	p.SetPatternTile(tile[0], tile[1], tile[2], tile[3])

	if v, ok := lookup("patternTransform"); ok {
		m, err := parseTransform(v)
		if err := check("patternTransform", err); err != nil {
			return err
		}
		if err == nil {
			p.SetPatternTransform(m)
		}
	}

	if v, ok := lookup("viewBox"); ok {
		vb, err := parseViewBox(v)
		if err := check("viewBox", err); err != nil {
			return err
		}
		var par svgconv.PreserveAspectRatio
		if pv, ok := lookup("preserveAspectRatio"); ok {
			var perr error
			par, perr = parsePreserveAspectRatio(pv)
			if err := check("preserveAspectRatio", perr); err != nil {
				return err
			}
		}
		if err == nil {
			p.SetViewBox(vb, par)
		}
	}
	return nil
}
