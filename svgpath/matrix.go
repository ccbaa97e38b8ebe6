package svgpath

import "math"

// Matrix2D represents an affine transformation:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the neutral transformation.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

const singularEpsilon = 1e-12

// Mult returns a*b: the resulting matrix applies b first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate appends a translation.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale appends a scaling.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate appends a rotation of theta radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

// SkewX appends a skew along the x axis of theta radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY appends a skew along the y axis of theta radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// Det returns the determinant of the linear part.
func (a Matrix2D) Det() float64 {
	return a.A*a.D - a.B*a.C
}

// Invert returns the inverse of a. ok is false when a is singular,
// in which case the returned matrix is Identity.
func (a Matrix2D) Invert() (inv Matrix2D, ok bool) {
	det := a.Det()
	if math.Abs(det) < singularEpsilon {
		return Identity, false
	}
	invDet := 1 / det
	return Matrix2D{
		A: a.D * invDet,
		B: -a.B * invDet,
		C: -a.C * invDet,
		D: a.A * invDet,
		E: (a.C*a.F - a.D*a.E) * invDet,
		F: (a.B*a.E - a.A*a.F) * invDet,
	}, true
}

// Apply transforms the point p.
func (a Matrix2D) Apply(p Point) Point {
	return Point{
		X: a.A*p.X + a.C*p.Y + a.E,
		Y: a.B*p.X + a.D*p.Y + a.F,
	}
}

// MeanScale returns the geometric mean of the scaling factors of a,
// which is the factor applied to lengths by an isotropic transformation.
func (a Matrix2D) MeanScale() float64 {
	return math.Sqrt(math.Abs(a.Det()))
}
