// Package svgconv implements the conversion core: a stack of element
// contexts, driven by a document traversal, which resolves transforms,
// viewports and pattern fills and hands the resulting cut paths to an
// Exporter.
//
// A traversal creates one context per element with Enter, sets its
// attributes through the capability interfaces (Transformable,
// Painter, PathBuilder...), processes its children and finally
// calls OnExitElement.
package svgconv

import (
	"fmt"

	"github.com/benoitkugler/svgcut/svgpath"
)

// ElementKind is the category of an element, which
// selects the context handling it.
type ElementKind uint8

const (
	KindRoot    ElementKind = iota // the document itself
	KindSVG                        // svg
	KindGroup                      // g
	KindShape                      // path, rect, circle, ellipse, line, polyline, polygon
	KindPattern                    // pattern
	KindUse                        // use
	KindSymbol                     // symbol, only through a use
)

func (k ElementKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSVG:
		return "svg"
	case KindGroup:
		return "g"
	case KindShape:
		return "shape"
	case KindPattern:
		return "pattern"
	case KindUse:
		return "use"
	case KindSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("<kind %d>", uint8(k))
	}
}

// Context is the activation record of an element being processed.
type Context interface {
	Kind() ElementKind
	// Viewport returns the viewport used to resolve percentages
	// in the attributes of the element.
	Viewport() Viewport
	// Transform returns the cumulative transform of the element,
	// mapping its local coordinates to root coordinates.
	Transform() svgpath.Matrix2D
	// OnExitElement must be called exactly once, after all the
	// attributes, path commands and children of the element.
	OnExitElement() error
}

// Transformable is implemented by contexts accepting a transform attribute.
type Transformable interface {
	SetTransform(m svgpath.Matrix2D)
}

// ViewportSetter is implemented by nested svg contexts.
type ViewportSetter interface {
	SetViewport(attrs ViewportAttributes)
}

// ViewBoxSetter is implemented by contexts accepting a viewBox attribute.
type ViewBoxSetter interface {
	SetViewBox(vb ViewBox, par PreserveAspectRatio)
}

// PathBuilder receives the geometry of a shape, reduced to absolute
// move, line, cubic and close commands, in local coordinates.
type PathBuilder interface {
	MoveTo(to svgpath.Point)
	LineTo(to svgpath.Point)
	CubicTo(ctrl1, ctrl2, to svgpath.Point)
	ClosePath()
}

// Painter is implemented by shape contexts.
type Painter interface {
	SetFill(p Paint)
	SetStroke(p Paint)
	// SetDashArray replaces the dash pattern; nil or empty means solid.
	SetDashArray(dash []float64)
}

// PatternAttributes is implemented by pattern contexts.
type PatternAttributes interface {
	ViewBoxSetter
	// SetPatternTile sets the tile rectangle, either in user units or
	// as fractions of the bounding box, depending on the pattern units.
	SetPatternTile(x, y, width, height float64)
	SetPatternUnits(u Units)
	SetPatternContentUnits(u Units)
	SetPatternTransform(m svgpath.Matrix2D)
}

// Referencer is implemented by use contexts.
type Referencer interface {
	SetHref(id string)
	SetOffset(x, y float64)
	// SetWidth and SetHeight override the size of
	// a referenced svg or symbol.
	SetWidth(width float64)
	SetHeight(height float64)
}

// session is shared by all the contexts of a conversion.
type session struct {
	exporter Exporter
	doc      Document
	opts     Options
	root     *Root
	// ids of the elements being loaded through a reference
	active map[string]bool
}

// enterReference marks id as being loaded. It returns false
// if it already is, meaning the reference is cyclic.
func (s *session) enterReference(id string) bool {
	if s.active[id] {
		return false
	}
	s.active[id] = true
	return true
}

func (s *session) exitReference(id string) { delete(s.active, id) }

// withExporter returns a copy of s writing to e.
func (s *session) withExporter(e Exporter) *session {
	out := *s
	out.exporter = e
	return &out
}

// container is implemented by the contexts accepting children.
type container interface {
	Context
	session() *session
	childTransform() svgpath.Matrix2D
	childViewport() Viewport
}

// graphics holds the state shared by element contexts.
type graphics struct {
	s               *session
	parentTransform svgpath.Matrix2D
	local           svgpath.Matrix2D
	viewport        Viewport
}

func newGraphics(parent container) graphics {
	return graphics{
		s:               parent.session(),
		parentTransform: parent.childTransform(),
		local:           svgpath.Identity,
		viewport:        parent.childViewport(),
	}
}

// SetTransform sets the local transform attribute of the element.
func (g *graphics) SetTransform(m svgpath.Matrix2D) { g.local = m }

func (g *graphics) Transform() svgpath.Matrix2D { return g.parentTransform.Mult(g.local) }

func (g *graphics) Viewport() Viewport { return g.viewport }

func (g *graphics) session() *session { return g.s }

// Enter creates the context for a child element of the given kind.
// The outermost element must be an svg, entered with a *Root parent.
// Patterns may only be entered while resolving a fill reference,
// and symbols while resolving a use.
func Enter(parent Context, kind ElementKind) (Context, error) {
	c, ok := parent.(container)
	if !ok {
		return nil, fmt.Errorf("%w: %s can't have a %s child", ErrUnsupportedElement, parent.Kind(), kind)
	}

	switch parent := parent.(type) {
	case *Root:
		if kind != KindSVG {
			return nil, fmt.Errorf("%w: root element must be svg, got %s", ErrUnsupportedElement, kind)
		}
		return &SVGContext{graphics: newGraphics(c), outermost: true}, nil
	case *patternPseudoContext:
		if kind != KindPattern {
			return nil, fmt.Errorf("%w: fill must reference a pattern, got %s", ErrUnsupportedElement, kind)
		}
		return newPatternContext(parent), nil
	case *UseContext:
		switch kind {
		case KindSVG:
			return &SVGContext{graphics: newGraphics(c), useSize: parent.size}, nil
		case KindSymbol:
			return &SVGContext{graphics: newGraphics(c), useSize: parent.size, symbol: true}, nil
		}
	}

	switch kind {
	case KindSVG:
		return &SVGContext{graphics: newGraphics(c)}, nil
	case KindGroup:
		return &GroupContext{graphics: newGraphics(c)}, nil
	case KindShape:
		return &ShapeContext{graphics: newGraphics(c), stroke: true}, nil
	case KindUse:
		return &UseContext{graphics: newGraphics(c)}, nil
	case KindSymbol:
		return nil, fmt.Errorf("%w: symbol outside of a use", ErrUnsupportedElement)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedElement, kind)
	}
}
