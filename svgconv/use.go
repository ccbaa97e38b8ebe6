package svgconv

import (
	"log/slog"

	"github.com/benoitkugler/svgcut/svgpath"
)

// elements a use may reference
var useKinds = []ElementKind{KindSVG, KindGroup, KindShape, KindUse, KindSymbol}

// UseContext handles use elements: the referenced element is
// processed as a child, translated by the x and y attributes.
type UseContext struct {
	graphics

	href string
	x, y float64
	// only Width, Height and their flags are used
	size ViewportAttributes
}

func (c *UseContext) Kind() ElementKind { return KindUse }

// SetHref sets the id of the referenced element.
func (c *UseContext) SetHref(id string) { c.href = id }

func (c *UseContext) SetOffset(x, y float64) { c.x, c.y = x, y }

func (c *UseContext) SetWidth(width float64) { c.size.Width, c.size.HasWidth = width, true }

func (c *UseContext) SetHeight(height float64) { c.size.Height, c.size.HasHeight = height, true }

func (c *UseContext) childTransform() svgpath.Matrix2D {
	return c.Transform().Translate(c.x, c.y)
}

func (c *UseContext) childViewport() Viewport { return c.viewport }

// OnExitElement loads the referenced element. Missing, cyclic or
// invalid references are logged and skipped.
func (c *UseContext) OnExitElement() error {
	if c.href == "" {
		Logger().Warn("Only use tags with href are supported")
		return nil
	}
	node, ok := c.s.doc.FindByID(c.href)
	if !ok {
		Logger().Warn("Unknown referenced element", slog.String("attribute", "href"), slog.String("id", c.href))
		return nil
	}
	if !c.s.enterReference(c.href) {
		Logger().Warn("Cyclic reference", slog.String("attribute", "href"), slog.String("id", c.href))
		return nil
	}
	defer c.s.exitReference(c.href)

	if err := c.s.doc.LoadReferenced(node, useKinds, c); err != nil {
		Logger().Warn("Invalid referenced element", slog.String("attribute", "href"),
			slog.String("id", c.href), slog.Any("error", err))
	}
	return nil
}
