package svgconv

import (
	"log/slog"

	"github.com/benoitkugler/svgcut/svgpath"
)

// ShapeContext handles shape elements. The geometry is accumulated
// in local coordinates and exported when the element exits.
// A shape is only filled when its fill references a pattern.
type ShapeContext struct {
	graphics

	path svgpath.Path
	// dash pattern set by stroke-dasharray
	dash []float64
	// id of the pattern referenced by fill, empty for no fill
	fill string
	// whether the outline should be plotted
	stroke bool
}

func (c *ShapeContext) Kind() ElementKind { return KindShape }

func (c *ShapeContext) MoveTo(to svgpath.Point) { c.path.Start(to) }

func (c *ShapeContext) LineTo(to svgpath.Point) { c.path.Line(to) }

func (c *ShapeContext) CubicTo(ctrl1, ctrl2, to svgpath.Point) { c.path.CubeBezier(ctrl1, ctrl2, to) }

func (c *ShapeContext) ClosePath() { c.path.Stop(true) }

// SetDashArray replaces the dash pattern. An empty value clears it.
func (c *ShapeContext) SetDashArray(dash []float64) {
	if len(dash) == 0 {
		c.dash = nil
		return
	}
	c.dash = dash
}

// SetFill only supports references to patterns.
func (c *ShapeContext) SetFill(p Paint) {
	switch p.Kind {
	case PaintNone:
		c.fill = ""
	case PaintIRI:
		c.fill = p.ID
	default:
		unsupportedPaint("fill", p)
	}
}

// SetStroke only supports "none": every other value
// keeps the outline plotted.
func (c *ShapeContext) SetStroke(p Paint) {
	switch p.Kind {
	case PaintNone:
		c.stroke = false
	default:
		unsupportedPaint("stroke", p)
	}
}

// unsupportedPaint logs an ignored paint value. Plain colors
// are only reported at debug level.
func unsupportedPaint(attribute string, p Paint) {
	if p.Kind == PaintColor {
		Logger().Debug("Ignoring color value for attribute",
			slog.String("attribute", attribute), slog.String("value", p.Raw))
		return
	}
	Logger().Warn("Unsupported value type for attribute",
		slog.String("attribute", attribute), slog.String("value", p.Raw), slog.String("kind", p.Kind.String()))
}

// OnExitElement transforms the path to root coordinates, fills it with
// the referenced pattern if any, then plots it. The pattern output
// always precedes the outline.
// A shape without geometry, or with a singular transform, emits nothing.
func (c *ShapeContext) OnExitElement() error {
	if len(c.path) == 0 {
		return nil
	}
	m := c.Transform()
	inverse, ok := m.Invert()
	if !ok {
		Logger().Debug("Singular transform for shape")
		c.path, c.dash = nil, nil
		return nil
	}
	c.path.Transform(m)

	if c.fill != "" {
		c.fillPattern(m)
	}

	if c.stroke {
		// the exporter takes ownership of the path and dash pattern
		path, dash := c.path, c.dash
		c.path, c.dash = nil, nil
		c.s.exporter.Plot(path, dash, inverse)
		return nil
	}
	c.path.Clear()
	return nil
}

// fillPattern loads the pattern referenced by fill, clipped to the
// shape outline. A dangling reference is silently ignored, and an
// invalid one only logged: the outline is still plotted.
func (c *ShapeContext) fillPattern(m svgpath.Matrix2D) {
	node, ok := c.s.doc.FindByID(c.fill)
	if !ok {
		return
	}
	if !c.s.enterReference(c.fill) {
		Logger().Warn("Cyclic reference", slog.String("attribute", "fill"), slog.String("id", c.fill))
		return
	}
	defer c.s.exitReference(c.fill)

	pseudo := &patternPseudoContext{
		s:         c.s,
		transform: m,
		viewport:  c.viewport,
		outline:   c.path,
	}
	if err := c.s.doc.LoadReferenced(node, []ElementKind{KindPattern}, pseudo); err != nil {
		Logger().Warn("Invalid referenced element", slog.String("attribute", "fill"),
			slog.String("id", c.fill), slog.Any("error", err))
	}
}
