package svgpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	var p Path
	p.AddRect(0, 0, 10, 10)
	p.Start(Point{20, 20})
	p.CubeBezier(Point{20, 30}, Point{30, 30}, Point{30, 20})

	pls := p.Flatten(0.01)
	require.Len(t, pls, 2)
	assert.True(t, pls[0].Closed)
	assert.Equal(t, []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, pls[0].Points)

	assert.False(t, pls[1].Closed)
	curve := pls[1].Points
	assert.Greater(t, len(curve), 4)
	assert.Equal(t, Point{20, 20}, curve[0])
	assert.Equal(t, Point{30, 20}, curve[len(curve)-1])
}

func TestFlattenCircleTolerance(t *testing.T) {
	var p Path
	p.AddEllipse(0, 0, 100, 100)
	pls := p.Flatten(0.05)
	require.Len(t, pls, 1)
	for _, pt := range pls[0].Points {
		assert.InDelta(t, 100, math.Hypot(pt.X, pt.Y), 0.1)
	}
}

func TestFlattenAfterClose(t *testing.T) {
	var p Path
	p.Start(Point{0, 0})
	p.Line(Point{5, 0})
	p.Stop(true)
	p.Line(Point{0, 5}) // starts from the subpath start
	pls := p.Flatten(0.1)
	require.Len(t, pls, 2)
	assert.Equal(t, []Point{{0, 0}, {0, 5}}, pls[1].Points)
}

func TestClipLine(t *testing.T) {
	var square Path
	square.AddRect(0, 0, 10, 10)

	var line Path
	line.Start(Point{-5, 5})
	line.Line(Point{15, 5})

	clipped := line.ClipTo(square, 0.1)
	require.Len(t, clipped, 2)
	assert.Equal(t, MoveTo{0, 5}, clipped[0])
	assert.Equal(t, LineTo{10, 5}, clipped[1])

	// fully outside
	var outside Path
	outside.Start(Point{20, 20})
	outside.Line(Point{30, 30})
	assert.Empty(t, outside.ClipTo(square, 0.1))

	// the source is not modified
	assert.Equal(t, "M-5,5 L15,5", line.String())
}

func TestClipInsideKeepsClosed(t *testing.T) {
	var square Path
	square.AddRect(0, 0, 10, 10)
	var inner Path
	inner.AddRect(2, 2, 4, 4)

	clipped := inner.ClipTo(square, 0.1)
	assert.Equal(t, "M2,2 L4,2 L4,4 L2,4 Z", clipped.String())
}

func TestClipClosedCrossing(t *testing.T) {
	var square Path
	square.AddRect(0, 0, 10, 10)
	// a rectangle straddling the right border
	var r Path
	r.AddRect(5, 2, 15, 8)

	clipped := r.ClipTo(square, 0.1)
	// the inside part is one open polyline, joined around the start point
	assert.Equal(t, "M10,8 L5,8 L5,2 L10,2", clipped.String())
}

func TestClipNonZero(t *testing.T) {
	// two overlapping squares with the same orientation: the overlap is inside
	var outline Path
	outline.AddRect(0, 0, 10, 10)
	outline.AddRect(5, 0, 15, 10)

	var line Path
	line.Start(Point{-5, 5})
	line.Line(Point{20, 5})
	clipped := line.ClipTo(outline, 0.1)
	assert.Equal(t, "M0,5 L5,5 L10,5 L15,5", clipped.String())
}

func TestClipEmptyOutline(t *testing.T) {
	var line Path
	line.Start(Point{0, 0})
	line.Line(Point{1, 1})
	assert.Nil(t, line.ClipTo(nil, 0.1))
}
