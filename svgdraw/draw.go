// Given the cut paths produced by a conversion, implements how to
// draw them.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png previews or a pdf writer.
package svgdraw

import (
	"slices"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
)

// Driver is implemented by the preview backends.
// Coordinates are expressed in root units.
type Driver interface {
	// SetDash sets the dash pattern of the following strokes,
	// nil meaning a solid line.
	SetDash(dash []float64)

	Start(a svgpath.Point)
	Line(b svgpath.Point)
	CubeBezier(b, c, d svgpath.Point)
	Stop(closeLoop bool)

	// Stroke draws the path built since the last call.
	Stroke()
}

// Cut is one path received by a Recorder.
type Cut struct {
	Path svgpath.Path
	// Dash is expressed in the coordinates of the
	// element which produced the path.
	Dash []float64
	// Inverse maps root coordinates to these element coordinates.
	Inverse svgpath.Matrix2D
}

// RootDash returns the dash pattern scaled to root units.
func (c Cut) RootDash() []float64 {
	if len(c.Dash) == 0 {
		return nil
	}
	scale := c.Inverse.MeanScale()
	if scale == 0 {
		return nil
	}
	out := make([]float64, len(c.Dash))
	for i, d := range c.Dash {
		out[i] = d / scale
	}
	return out
}

var _ svgconv.Exporter = (*Recorder)(nil) // assert interface conformance

// Recorder is an exporter storing the cuts in memory.
type Recorder struct {
	Cuts []Cut
}

func (r *Recorder) Plot(path svgpath.Path, dash []float64, inverse svgpath.Matrix2D) {
	r.Cuts = append(r.Cuts, Cut{Path: path, Dash: dash, Inverse: inverse})
}

// Bounds returns the bounding box of all the cuts.
func (r *Recorder) Bounds() (svgpath.Rect, bool) {
	var (
		out svgpath.Rect
		has bool
	)
	for _, cut := range r.Cuts {
		bbox, ok := cut.Path.Bounds()
		if !ok {
			continue
		}
		if has {
			out = out.Union(bbox)
		} else {
			out, has = bbox, true
		}
	}
	return out, has
}

// Draw sends the recorded cuts to the driver, in order,
// after applying m to them.
func (r *Recorder) Draw(driver Driver, m svgpath.Matrix2D) {
	scale := m.MeanScale()
	for _, cut := range r.Cuts {
		dash := cut.RootDash()
		for i := range dash {
			dash[i] *= scale
		}
		driver.SetDash(dash)
		drawPath(driver, cut.Path, m)
		driver.Stroke()
	}
}

func drawPath(driver Driver, path svgpath.Path, m svgpath.Matrix2D) {
	var (
		start   svgpath.Point
		started bool
	)
	// a segment following a close starts at the subpath start
	ensureStarted := func() {
		if !started {
			driver.Start(start)
			started = true
		}
	}
	for _, op := range path {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if started {
				driver.Stop(false)
			}
			start = m.Apply(svgpath.Point(op))
			driver.Start(start)
			started = true
		case svgpath.LineTo:
			ensureStarted()
			driver.Line(m.Apply(svgpath.Point(op)))
		case svgpath.CubicTo:
			ensureStarted()
			driver.CubeBezier(m.Apply(op[0]), m.Apply(op[1]), m.Apply(op[2]))
		case svgpath.Close:
			if started {
				driver.Stop(true)
				started = false
			}
		}
	}
	if started {
		driver.Stop(false)
	}
}

// Tee is an exporter forwarding the cuts to several exporters.
type Tee []svgconv.Exporter

func (t Tee) Plot(path svgpath.Path, dash []float64, inverse svgpath.Matrix2D) {
	for i, e := range t {
		if i == len(t)-1 { // the last one takes ownership
			e.Plot(path, dash, inverse)
			return
		}
		e.Plot(path.Copy(), slices.Clone(dash), inverse)
	}
}
