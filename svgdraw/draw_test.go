package svgdraw

import (
	"fmt"
	"strings"
	"testing"

	"github.com/benoitkugler/svgcut/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logDriver records the driver calls as text.
type logDriver struct {
	calls []string
}

func (d *logDriver) SetDash(dash []float64) { d.calls = append(d.calls, fmt.Sprintf("dash %v", dash)) }

func (d *logDriver) Start(a svgpath.Point) { d.calls = append(d.calls, fmt.Sprintf("M%g,%g", a.X, a.Y)) }

func (d *logDriver) Line(b svgpath.Point) { d.calls = append(d.calls, fmt.Sprintf("L%g,%g", b.X, b.Y)) }

func (d *logDriver) CubeBezier(b, c, e svgpath.Point) {
	d.calls = append(d.calls, fmt.Sprintf("C%g,%g,%g,%g,%g,%g", b.X, b.Y, c.X, c.Y, e.X, e.Y))
}

func (d *logDriver) Stop(closeLoop bool) { d.calls = append(d.calls, fmt.Sprintf("stop %v", closeLoop)) }

func (d *logDriver) Stroke() { d.calls = append(d.calls, "stroke") }

func square(x, y, size float64) svgpath.Path {
	var p svgpath.Path
	p.AddRect(x, y, x+size, y+size)
	return p
}

func TestRecorderDraw(t *testing.T) {
	var rec Recorder
	rec.Plot(square(0, 0, 1), nil, svgpath.Identity)
	// dash expressed in a coordinate system scaled by 2
	inverse := svgpath.Identity.Scale(0.5, 0.5)
	rec.Plot(svgpath.Path{svgpath.MoveTo{X: 0, Y: 0}, svgpath.LineTo{X: 4, Y: 0}}, []float64{1, 2}, inverse)

	var d logDriver
	rec.Draw(&d, svgpath.Identity.Scale(10, 10))
	assert.Equal(t, "dash [] M0,0 L10,0 L10,10 L0,10 stop true stroke "+
		"dash [20 40] M0,0 L40,0 stop false stroke", strings.Join(d.calls, " "))
}

func TestDrawAfterClose(t *testing.T) {
	path := svgpath.Path{
		svgpath.MoveTo{X: 1, Y: 1},
		svgpath.LineTo{X: 2, Y: 1},
		svgpath.Close{},
		svgpath.LineTo{X: 1, Y: 2},
	}
	var d logDriver
	drawPath(&d, path, svgpath.Identity)
	assert.Equal(t, "M1,1 L2,1 stop true M1,1 L1,2 stop false", strings.Join(d.calls, " "))
}

func TestRecorderBounds(t *testing.T) {
	var rec Recorder
	_, ok := rec.Bounds()
	require.False(t, ok)

	rec.Plot(square(0, 0, 1), nil, svgpath.Identity)
	rec.Plot(square(5, -2, 1), nil, svgpath.Identity)
	bbox, ok := rec.Bounds()
	require.True(t, ok)
	assert.Equal(t, svgpath.Rect{MinX: 0, MinY: -2, MaxX: 6, MaxY: 1}, bbox)
}

func TestRootDash(t *testing.T) {
	cut := Cut{Dash: []float64{3, 1}, Inverse: svgpath.Identity.Scale(2, 2)}
	assert.Equal(t, []float64{1.5, 0.5}, cut.RootDash())
	assert.Nil(t, Cut{Inverse: svgpath.Identity}.RootDash())
}

func TestTee(t *testing.T) {
	var r1, r2 Recorder
	tee := Tee{&r1, &r2}
	path := square(0, 0, 1)
	dash := []float64{1, 1}
	tee.Plot(path, dash, svgpath.Identity)

	require.Len(t, r1.Cuts, 1)
	require.Len(t, r2.Cuts, 1)
	assert.Equal(t, r1.Cuts[0], r2.Cuts[0])

	// the first exporter owns a copy
	r2.Cuts[0].Path.Transform(svgpath.Identity.Translate(1, 0))
	r2.Cuts[0].Dash[0] = 5
	assert.Equal(t, "M0,0 L1,0 L1,1 L0,1 Z", r1.Cuts[0].Path.String())
	assert.Equal(t, 1., r1.Cuts[0].Dash[0])
}
