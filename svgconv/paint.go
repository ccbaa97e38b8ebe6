package svgconv

import (
	"fmt"
	"image/color"
)

// PaintKind identifies the syntax of a fill or stroke value.
type PaintKind uint8

const (
	PaintNone         PaintKind = iota // none
	PaintColor                         // a solid color
	PaintCurrentColor                  // currentColor
	PaintInherit                       // inherit
	PaintIRI                           // url(#id), with an optional fallback
	PaintExternalIRI                   // url(other.svg#id)
	PaintUnknown                       // anything else
)

func (k PaintKind) String() string {
	switch k {
	case PaintNone:
		return "none"
	case PaintColor:
		return "color"
	case PaintCurrentColor:
		return "currentColor"
	case PaintInherit:
		return "inherit"
	case PaintIRI:
		return "iri"
	case PaintExternalIRI:
		return "external iri"
	default:
		return "unknown"
	}
}

// Paint is a decoded fill or stroke value.
type Paint struct {
	Kind PaintKind

	// Color is set for PaintColor.
	Color color.NRGBA
	// ID is the referenced element id for PaintIRI,
	// or the full reference for PaintExternalIRI.
	ID string
	// Raw is the attribute value, as found in the document.
	Raw string
}

// NoPaint is the "none" value.
var NoPaint = Paint{Kind: PaintNone, Raw: "none"}

// RefPaint returns a local reference to id.
func RefPaint(id string) Paint {
	return Paint{Kind: PaintIRI, ID: id, Raw: fmt.Sprintf("url(#%s)", id)}
}

// ColorPaint returns a solid color value.
func ColorPaint(c color.NRGBA) Paint {
	return Paint{Kind: PaintColor, Color: c, Raw: fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)}
}

// Units selects the coordinate system of pattern attributes.
type Units uint8

// SVG bounds parameter constants
const (
	ObjectBoundingBox Units = iota
	UserSpaceOnUse
)

func (u Units) String() string {
	if u == UserSpaceOnUse {
		return "userSpaceOnUse"
	}
	return "objectBoundingBox"
}
