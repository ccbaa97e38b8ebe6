// Implements an abstract representation of
// cut paths, which can then be consumed
// by an exporter.
package svgpath

import (
	"fmt"
	"strings"
)

// Point is a position in user units.
type Point struct{ X, Y float64 }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// lerp interpolates between p and q.
func (p Point) lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func cross(a, b Point) float64 { return a.X*b.Y - a.Y*b.X }

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathCubicTo
	pathClose
)

// Operation groups the different path commands.
// Only the minimal subset used by cutting devices is
// supported: higher level commands (arcs, quadratic curves,
// shapes) are reduced to it when the path is built.
type Operation interface {
	command() pathCommand
}

// MoveTo starts a new subpath.
type MoveTo Point

// LineTo draws a straight line from the current point.
type LineTo Point

// CubicTo draws a cubic Bézier curve: the first two points are the
// control points, the last one is the end point.
type CubicTo [3]Point

// Close draws a straight line back to the start of the current subpath.
type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

// Path describes a sequence of basic operations.
// A Close is only meaningful after a MoveTo.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%g,%g", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%g,%g", op.X, op.Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%g,%g,%g,%g,%g,%g", op[0].X, op[0].Y,
				op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Transform applies m to every point of the path, in place.
func (p Path) Transform(m Matrix2D) {
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			p[i] = MoveTo(m.Apply(Point(op)))
		case LineTo:
			p[i] = LineTo(m.Apply(Point(op)))
		case CubicTo:
			p[i] = CubicTo{m.Apply(op[0]), m.Apply(op[1]), m.Apply(op[2])}
		}
	}
}

// Copy returns a deep copy of the path.
func (p Path) Copy() Path {
	return append(Path(nil), p...)
}

// walk calls fn for each drawing segment of the path, with the
// current point before the operation. Close operations are reported
// as a LineTo back to the subpath start.
func (p Path) walk(fn func(from Point, op Operation)) {
	var start, current Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			fn(current, op)
			start, current = Point(op), Point(op)
		case LineTo:
			fn(current, op)
			current = Point(op)
		case CubicTo:
			fn(current, op)
			current = op[2]
		case Close:
			fn(current, LineTo(start))
			current = start
		}
	}
}
