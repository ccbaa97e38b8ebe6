package svgconv

import (
	"math"

	"github.com/benoitkugler/svgcut/svgpath"
)

// Viewport is the rectangle establishing the reference size
// for percentage lengths, in the coordinates of the element
// declaring it.
type Viewport struct {
	X, Y, Width, Height float64
}

// Diagonal returns the normalized diagonal used to resolve
// percentages of lengths which are neither horizontal nor vertical.
func (v Viewport) Diagonal() float64 {
	return math.Sqrt((v.Width*v.Width + v.Height*v.Height) / 2)
}

// ViewportAttributes are the positioning attributes of an svg element.
// Width and Height default to 100% of the parent viewport when not set.
type ViewportAttributes struct {
	X, Y                float64
	Width, Height       float64
	HasWidth, HasHeight bool
}

// ViewBox is the value of a viewBox attribute.
type ViewBox struct {
	X, Y, Width, Height float64
}

// Align is the alignment part of preserveAspectRatio.
// The zero value is the SVG default, xMidYMid.
type Align uint8

const (
	AlignXMidYMid Align = iota
	AlignNone
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

// factors returns the relative position of the content
// inside the viewport, between 0 and 1.
func (a Align) factors() (fx, fy float64) {
	switch a {
	case AlignXMinYMin:
		return 0, 0
	case AlignXMidYMin:
		return 0.5, 0
	case AlignXMaxYMin:
		return 1, 0
	case AlignXMinYMid:
		return 0, 0.5
	case AlignXMaxYMid:
		return 1, 0.5
	case AlignXMinYMax:
		return 0, 1
	case AlignXMidYMax:
		return 0.5, 1
	case AlignXMaxYMax:
		return 1, 1
	default:
		return 0.5, 0.5
	}
}

// PreserveAspectRatio is the value of the preserveAspectRatio attribute.
// The zero value is "xMidYMid meet".
type PreserveAspectRatio struct {
	Align Align
	Slice bool
}

// Valid returns false for an empty or negative box, which disables
// the mapping.
func (vb ViewBox) Valid() bool { return vb.Width > 0 && vb.Height > 0 }

// Mapping returns the transform mapping the view box onto the
// rectangle (0, 0, width, height).
func (vb ViewBox) Mapping(width, height float64, par PreserveAspectRatio) svgpath.Matrix2D {
	if !vb.Valid() {
		return svgpath.Identity
	}
	sx, sy := width/vb.Width, height/vb.Height
	var tx, ty float64
	if par.Align != AlignNone {
		if par.Slice {
			sx = math.Max(sx, sy)
		} else {
			sx = math.Min(sx, sy)
		}
		sy = sx
		fx, fy := par.Align.factors()
		tx = (width - vb.Width*sx) * fx
		ty = (height - vb.Height*sy) * fy
	}
	return svgpath.Identity.Translate(tx, ty).Scale(sx, sy).Translate(-vb.X, -vb.Y)
}
