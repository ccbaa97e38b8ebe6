package svgpath

import (
	"math"
	"slices"
)

// paramEpsilon is the minimum parameter span of a kept segment piece.
const paramEpsilon = 1e-9

type segment struct{ a, b Point }

// region is a flattened fill area, using the non-zero winding rule.
// Every subpath is implicitly closed.
type region struct {
	edges  []segment
	bounds Rect
}

func newRegion(outline Path, tolerance float64) region {
	r := region{bounds: emptyRect()}
	for _, pl := range outline.Flatten(tolerance) {
		n := len(pl.Points)
		if n < 2 {
			continue
		}
		for i, pt := range pl.Points {
			r.edges = append(r.edges, segment{pt, pl.Points[(i+1)%n]})
			r.bounds.add(pt)
		}
	}
	return r
}

// winding returns the winding number of pt, using a horizontal ray.
// 0 means outside.
func (r region) winding(pt Point) int {
	if pt.X < r.bounds.MinX || pt.X > r.bounds.MaxX || pt.Y < r.bounds.MinY || pt.Y > r.bounds.MaxY {
		return 0
	}
	var w int
	for _, e := range r.edges {
		w += lineWinding(e.a, e.b, pt)
	}
	return w
}

// lineWinding computes the winding contribution of a line segment.
func lineWinding(p0, p1, pt Point) int {
	if p0.Y <= pt.Y && p1.Y > pt.Y {
		// Upward crossing
		if isLeft(p0, p1, pt) > 0 {
			return 1
		}
	} else if p0.Y > pt.Y && p1.Y <= pt.Y {
		// Downward crossing
		if isLeft(p0, p1, pt) < 0 {
			return -1
		}
	}
	return 0
}

// isLeft returns positive if pt is left of line p0-p1, negative if right, 0 if on.
func isLeft(p0, p1, pt Point) float64 {
	return (p1.X-p0.X)*(pt.Y-p0.Y) - (pt.X-p0.X)*(p1.Y-p0.Y)
}

// intersect returns the parameter t on [a, b] of the intersection with [c, d].
func intersect(a, b, c, d Point) (float64, bool) {
	ab, cd := b.Sub(a), d.Sub(c)
	denom := cross(ab, cd)
	if math.Abs(denom) < 1e-12 { // parallel
		return 0, false
	}
	ac := c.Sub(a)
	t := cross(ac, cd) / denom
	u := cross(ac, ab) / denom
	if t <= 0 || t >= 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// crossings returns the sorted parameters splitting [a, b]
// where it crosses the region boundary, including 0 and 1.
func (r region) crossings(a, b Point) []float64 {
	ts := []float64{0, 1}
	for _, e := range r.edges {
		if t, ok := intersect(a, b, e.a, e.b); ok {
			ts = append(ts, t)
		}
	}
	slices.Sort(ts)
	return ts
}

func at(a, b Point, t float64) Point {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return a.lerp(b, t)
}

// ClipTo returns the parts of p lying inside outline, using the
// non-zero winding rule. Curves of both paths are flattened with the
// given tolerance, so that the result only contains MoveTo, LineTo
// and Close operations. The receiver is not modified.
func (p Path) ClipTo(outline Path, tolerance float64) Path {
	r := newRegion(outline, tolerance)
	if len(r.edges) == 0 {
		return nil
	}
	var out Path
	for _, pl := range p.Flatten(tolerance) {
		r.clipPolyline(pl, &out)
	}
	return out
}

func (r region) clipPolyline(pl Polyline, out *Path) {
	pts := pl.Points
	if len(pts) < 2 {
		return
	}
	if pl.Closed {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}

	var (
		runs   [][]Point
		run    []Point
		broken bool
	)
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		ts := r.crossings(a, b)
		for k := 0; k+1 < len(ts); k++ {
			t0, t1 := ts[k], ts[k+1]
			if t1-t0 < paramEpsilon {
				continue
			}
			p0, p1 := at(a, b, t0), at(a, b, t1)
			if r.winding(p0.lerp(p1, 0.5)) == 0 {
				broken = true
				if len(run) != 0 {
					runs = append(runs, run)
					run = nil
				}
				continue
			}
			if len(run) == 0 {
				run = append(run, p0)
			}
			run = append(run, p1)
		}
	}
	if len(run) != 0 {
		runs = append(runs, run)
	}
	if len(runs) == 0 {
		return
	}

	if pl.Closed && !broken {
		// the whole subpath is inside: keep it closed
		out.AddPolyline(runs[0][:len(runs[0])-1], true)
		return
	}

	if pl.Closed && len(runs) > 1 {
		first, last := runs[0], runs[len(runs)-1]
		if first[0] == pts[0] && last[len(last)-1] == pts[len(pts)-1] {
			// join the pieces meeting at the start point
			runs[0] = append(last, first[1:]...)
			runs = runs[:len(runs)-1]
		}
	}
	for _, run := range runs {
		out.AddPolyline(run, false)
	}
}
