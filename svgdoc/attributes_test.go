package svgdoc

import (
	"encoding/xml"
	"image/color"
	"testing"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPoint(t *testing.T, expected, got svgpath.Point) {
	t.Helper()
	assert.InDelta(t, expected.X, got.X, 1e-9)
	assert.InDelta(t, expected.Y, got.Y, 1e-9)
}

func TestParseNumbers(t *testing.T) {
	nums, err := parseNumbers(" 1,2 3-4.5e1,.5.5 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, -45, 0.5, 0.5}, nums)

	nums, err = parseNumbers("1 2 x")
	require.Error(t, err)
	assert.Equal(t, []float64{1, 2}, nums)
}

func TestParseTransform(t *testing.T) {
	for _, test := range []struct {
		value    string
		in, out  svgpath.Point
		invalids bool
	}{
		{"translate(10,20) scale(2)", svgpath.Point{X: 1, Y: 1}, svgpath.Point{X: 12, Y: 22}, false},
		{"scale(2) translate(10,20)", svgpath.Point{X: 1, Y: 1}, svgpath.Point{X: 22, Y: 42}, false},
		{"translate(5)", svgpath.Point{}, svgpath.Point{X: 5}, false},
		{"scale(3)", svgpath.Point{X: 1, Y: 1}, svgpath.Point{X: 3, Y: 3}, false},
		{"rotate(90)", svgpath.Point{X: 1}, svgpath.Point{Y: 1}, false},
		{"rotate(90, 10, 10)", svgpath.Point{X: 11, Y: 10}, svgpath.Point{X: 10, Y: 11}, false},
		{"matrix(1 0 0 1 5 6)", svgpath.Point{}, svgpath.Point{X: 5, Y: 6}, false},
		{"skewX(45)", svgpath.Point{Y: 1}, svgpath.Point{X: 1, Y: 1}, false},
		{"translate(1,2),scale(2)", svgpath.Point{X: 1}, svgpath.Point{X: 3, Y: 2}, false},
		{"translate(1,2,3)", svgpath.Point{}, svgpath.Point{}, true},
		{"foo(1)", svgpath.Point{}, svgpath.Point{}, true},
		{"translate 1", svgpath.Point{}, svgpath.Point{}, true},
	} {
		m, err := parseTransform(test.value)
		if test.invalids {
			assert.Error(t, err, test.value)
			continue
		}
		require.NoError(t, err, test.value)
		assertPoint(t, test.out, m.Apply(test.in))
	}
}

func TestParseLength(t *testing.T) {
	vp := svgconv.Viewport{Width: 200, Height: 100}
	for _, test := range []struct {
		value    string
		axis     lengthAxis
		expected float64
	}{
		{"10", horizontal, 10},
		{" 10px ", horizontal, 10},
		{"1in", horizontal, 96},
		{"72pt", horizontal, 96},
		{"2.54cm", horizontal, 96},
		{"25.4mm", horizontal, 96},
		{"2em", horizontal, 32},
		{"1e1", horizontal, 10},
		{"50%", horizontal, 100},
		{"50%", vertical, 50},
	} {
		got, err := parseLength(test.value, vp, test.axis)
		require.NoError(t, err, test.value)
		assert.InDelta(t, test.expected, got, 1e-9, test.value)
	}

	for _, value := range []string{"", "abc", "10 apples", "px"} {
		_, err := parseLength(value, vp, horizontal)
		assert.ErrorIs(t, err, errInvalidLength, value)
	}
}

func TestParsePaint(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	for _, test := range []struct {
		value string
		kind  svgconv.PaintKind
		color color.NRGBA
		id    string
	}{
		{"none", svgconv.PaintNone, color.NRGBA{}, ""},
		{"red", svgconv.PaintColor, red, ""},
		{"RED", svgconv.PaintColor, red, ""},
		{"#f00", svgconv.PaintColor, red, ""},
		{"#FF0000", svgconv.PaintColor, red, ""},
		{"rgb(255, 0, 0)", svgconv.PaintColor, red, ""},
		{"rgb(100%,0%,0%)", svgconv.PaintColor, red, ""},
		{"currentColor", svgconv.PaintCurrentColor, color.NRGBA{}, ""},
		{"inherit", svgconv.PaintInherit, color.NRGBA{}, ""},
		{"url(#hatch)", svgconv.PaintIRI, color.NRGBA{}, "hatch"},
		{"url('#hatch')", svgconv.PaintIRI, color.NRGBA{}, "hatch"},
		{"url(other.svg#hatch)", svgconv.PaintExternalIRI, color.NRGBA{}, "other.svg#hatch"},
		{"rgba(255,0,0,0.5)", svgconv.PaintColor, color.NRGBA{R: 0xff, A: 0x80}, ""},
		{"rgb(255 0 0 / 50%)", svgconv.PaintColor, color.NRGBA{R: 0xff, A: 0x80}, ""},
		{"hsl(0, 100%, 50%)", svgconv.PaintColor, red, ""},
		{"hsla(120deg, 100%, 25%, 1)", svgconv.PaintColor, color.NRGBA{G: 0x80, A: 0xff}, ""},
		{"transparent", svgconv.PaintColor, color.NRGBA{}, ""},
		{"rgba(1,2)", svgconv.PaintUnknown, color.NRGBA{}, ""},
		{"hsl(a, 1%, 1%)", svgconv.PaintUnknown, color.NRGBA{}, ""},
		{"#zz0000", svgconv.PaintUnknown, color.NRGBA{}, ""},
		{"foo", svgconv.PaintUnknown, color.NRGBA{}, ""},
		{"url(#hatch", svgconv.PaintUnknown, color.NRGBA{}, ""},
	} {
		p := parsePaint(test.value)
		assert.Equal(t, test.kind, p.Kind, test.value)
		assert.Equal(t, test.color, p.Color, test.value)
		assert.Equal(t, test.id, p.ID, test.value)
		assert.Equal(t, test.value, p.Raw)
	}

	p := parsePaint("url(#hatch) blue")
	assert.Equal(t, svgconv.PaintIRI, p.Kind)
	assert.Equal(t, "hatch", p.ID)
}

func TestParseDashArray(t *testing.T) {
	vp := svgconv.Viewport{Width: 100, Height: 100}
	for _, test := range []struct {
		value    string
		expected []float64
	}{
		{"none", nil},
		{"5,3", []float64{5, 3}},
		{"5", []float64{5, 5}},
		{"5 3 2", []float64{5, 3, 2, 5, 3, 2}},
		{"0 0", nil},
		{"-1 2", nil},
		{"5%, 1mm", []float64{5, 96 / 25.4}},
	} {
		got, err := parseDashArray(test.value, vp)
		require.NoError(t, err, test.value)
		if test.expected == nil {
			assert.Nil(t, got, test.value)
		} else {
			assert.InDeltaSlice(t, test.expected, got, 1e-9, test.value)
		}
	}

	_, err := parseDashArray("1 a", vp)
	assert.Error(t, err)
}

func TestParseViewBox(t *testing.T) {
	vb, err := parseViewBox("0 0, 20 10")
	require.NoError(t, err)
	assert.Equal(t, svgconv.ViewBox{Width: 20, Height: 10}, vb)

	_, err = parseViewBox("0 0 20")
	assert.ErrorIs(t, err, errParamMismatch)
}

func TestParsePreserveAspectRatio(t *testing.T) {
	par, err := parsePreserveAspectRatio("xMinYMax slice")
	require.NoError(t, err)
	assert.Equal(t, svgconv.PreserveAspectRatio{Align: svgconv.AlignXMinYMax, Slice: true}, par)

	par, err = parsePreserveAspectRatio("defer none")
	require.NoError(t, err)
	assert.Equal(t, svgconv.AlignNone, par.Align)

	for _, value := range []string{"", "bogus", "xMidYMid cut", "xMidYMid meet slice"} {
		_, err = parsePreserveAspectRatio(value)
		assert.Error(t, err, value)
	}
}

func TestStyleDeclarations(t *testing.T) {
	n := &Node{Name: "rect", Attrs: []xml.Attr{
		{Name: xml.Name{Local: "fill"}, Value: "red"},
		{Name: xml.Name{Local: "stroke-dasharray"}, Value: "1 2"},
		{Name: xml.Name{Local: "style"}, Value: "fill: url(#p) ; stroke:none;; opacity: 0.5"},
	}}
	assert.Equal(t, map[string]string{
		"fill":             "url(#p)",
		"stroke":           "none",
		"stroke-dasharray": "1 2",
		"opacity":          "0.5",
	}, styleDeclarations(n))
}

func TestReadFraction(t *testing.T) {
	f, err := readFraction("50%")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	f, err = readFraction(" 0.25 ")
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)
}
