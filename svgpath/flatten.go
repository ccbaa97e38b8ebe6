package svgpath

import "math"

// DefaultTolerance is the default maximum distance, in user units,
// between a curve and its flattened approximation.
const DefaultTolerance = 0.1

// maxFlattenDepth bounds the curve subdivision.
const maxFlattenDepth = 16

// Polyline is a flattened subpath.
type Polyline struct {
	Points []Point
	// Closed is true when the subpath ended with a Close operation.
	// The closing segment is implicit: the first point is not repeated.
	Closed bool
}

// Flatten approximates the path with polylines, one per subpath.
// Curves are subdivided until they are within tolerance of their
// chord.
func (p Path) Flatten(tolerance float64) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var (
		out     []Polyline
		current Polyline
		cursor  Point
		start   Point
	)
	flush := func() {
		if len(current.Points) != 0 {
			out = append(out, current)
		}
		current = Polyline{}
	}
	// ensure a subpath is started, for instance after a Close
	ensure := func() {
		if len(current.Points) == 0 {
			current.Points = append(current.Points, cursor)
		}
	}
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			flush()
			cursor, start = Point(op), Point(op)
			current.Points = append(current.Points, cursor)
		case LineTo:
			ensure()
			cursor = Point(op)
			current.Points = append(current.Points, cursor)
		case CubicTo:
			ensure()
			flattenCubic(cubicBezier{cursor, op[0], op[1], op[2]}, tolerance*tolerance, 0, func(pt Point) {
				current.Points = append(current.Points, pt)
			})
			cursor = op[2]
		case Close:
			if len(current.Points) != 0 {
				current.Closed = true
				flush()
			}
			cursor = start
		}
	}
	flush()
	return out
}

// cubicFlatness returns the maximum distance (squared, times 16)
// from control points to the chord.
func cubicFlatness(c cubicBezier) float64 {
	ux := 3.0*c[1].X - 2.0*c[0].X - c[3].X
	uy := 3.0*c[1].Y - 2.0*c[0].Y - c[3].Y
	vx := 3.0*c[2].X - c[0].X - 2.0*c[3].X
	vy := 3.0*c[2].Y - c[0].Y - 2.0*c[3].Y

	return math.Max(ux*ux+uy*uy, vx*vx+vy*vy)
}

// subdivide splits the curve at t = 0.5 (De Casteljau)
func (c cubicBezier) subdivide() (cubicBezier, cubicBezier) {
	ab := c[0].lerp(c[1], 0.5)
	bc := c[1].lerp(c[2], 0.5)
	cd := c[2].lerp(c[3], 0.5)
	abc := ab.lerp(bc, 0.5)
	bcd := bc.lerp(cd, 0.5)
	mid := abc.lerp(bcd, 0.5)
	return cubicBezier{c[0], ab, abc, mid}, cubicBezier{mid, bcd, cd, c[3]}
}

// flattenCubic calls fn with the points approximating c,
// excluding the start point.
func flattenCubic(c cubicBezier, toleranceSq float64, depth int, fn func(pt Point)) {
	if depth >= maxFlattenDepth || cubicFlatness(c) <= toleranceSq*16 {
		fn(c[3])
		return
	}
	c1, c2 := c.subdivide()
	flattenCubic(c1, toleranceSq, depth+1, fn)
	flattenCubic(c2, toleranceSq, depth+1, fn)
}
