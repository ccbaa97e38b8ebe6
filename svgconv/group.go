package svgconv

import (
	"github.com/benoitkugler/svgcut/svgpath"
)

// Root is the parent of the outermost svg element.
type Root struct {
	s    *session
	page Viewport
}

type emptyDocument struct{}

func (emptyDocument) FindByID(string) (Node, bool) { return nil, false }

func (emptyDocument) LoadReferenced(Node, []ElementKind, Context) error { return nil }

// NewRoot starts a conversion, writing to exporter.
// doc may be nil if the document has no references.
func NewRoot(exporter Exporter, doc Document, opts Options) *Root {
	if doc == nil {
		doc = emptyDocument{}
	}
	r := &Root{}
	r.s = &session{
		exporter: exporter,
		doc:      doc,
		opts:     opts.withDefaults(),
		root:     r,
		active:   make(map[string]bool),
	}
	return r
}

func (r *Root) Kind() ElementKind { return KindRoot }

// Viewport returns the size of the outermost svg element, once
// it has been processed.
func (r *Root) Viewport() Viewport { return r.page }

func (r *Root) Transform() svgpath.Matrix2D { return svgpath.Identity }

func (r *Root) OnExitElement() error { return nil }

func (r *Root) session() *session { return r.s }

func (r *Root) childTransform() svgpath.Matrix2D { return svgpath.Identity }

func (r *Root) childViewport() Viewport { return r.page }

// GroupContext handles g elements.
type GroupContext struct {
	graphics
}

func (g *GroupContext) Kind() ElementKind { return KindGroup }

func (g *GroupContext) OnExitElement() error { return nil }

func (g *GroupContext) childTransform() svgpath.Matrix2D { return g.Transform() }

func (g *GroupContext) childViewport() Viewport { return g.viewport }

// SVGContext handles svg elements, which establish a new viewport,
// and symbols instantiated by a use element.
type SVGContext struct {
	graphics

	attrs      ViewportAttributes
	viewBox    ViewBox
	hasViewBox bool
	par        PreserveAspectRatio
	// width and height of the referencing use element, if any
	useSize ViewportAttributes

	outermost bool
	symbol    bool
}

func (c *SVGContext) Kind() ElementKind {
	if c.symbol {
		return KindSymbol
	}
	return KindSVG
}

func (c *SVGContext) SetViewport(attrs ViewportAttributes) { c.attrs = attrs }

// SetViewBox sets the viewBox and preserveAspectRatio attributes.
// An invalid box is ignored.
func (c *SVGContext) SetViewBox(vb ViewBox, par PreserveAspectRatio) {
	if !vb.Valid() {
		return
	}
	c.viewBox, c.hasViewBox, c.par = vb, true, par
}

// size returns the resolved width and height, which default to
// the parent viewport, or the view box for the outermost element.
// The size of a referencing use element takes precedence.
func (c *SVGContext) size() (w, h float64) {
	w, h = c.viewport.Width, c.viewport.Height
	if c.outermost && c.hasViewBox {
		w, h = c.viewBox.Width, c.viewBox.Height
	}
	if c.attrs.HasWidth {
		w = c.attrs.Width
	}
	if c.attrs.HasHeight {
		h = c.attrs.Height
	}
	if c.useSize.HasWidth {
		w = c.useSize.Width
	}
	if c.useSize.HasHeight {
		h = c.useSize.Height
	}
	return w, h
}

func (c *SVGContext) childTransform() svgpath.Matrix2D {
	m := c.Transform()
	if !c.outermost { // x and y are ignored on the outermost element
		m = m.Translate(c.attrs.X, c.attrs.Y)
	}
	if c.hasViewBox {
		w, h := c.size()
		m = m.Mult(c.viewBox.Mapping(w, h, c.par))
	}
	return m
}

func (c *SVGContext) childViewport() Viewport {
	if c.hasViewBox {
		return Viewport{c.viewBox.X, c.viewBox.Y, c.viewBox.Width, c.viewBox.Height}
	}
	w, h := c.size()
	return Viewport{Width: w, Height: h}
}

func (c *SVGContext) OnExitElement() error {
	if c.outermost {
		w, h := c.size()
		c.s.root.page = Viewport{Width: w, Height: h}
	}
	return nil
}
