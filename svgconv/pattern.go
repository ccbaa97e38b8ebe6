package svgconv

import (
	"log/slog"
	"math"
	"slices"

	"github.com/benoitkugler/svgcut/svgpath"
)

// patternPseudoContext is the parent of a pattern loaded to fill
// a shape. It carries the state of the referencing shape.
type patternPseudoContext struct {
	s *session
	// cumulative transform of the shape
	transform svgpath.Matrix2D
	viewport  Viewport
	// shape path, in root coordinates
	outline svgpath.Path
}

func (p *patternPseudoContext) Kind() ElementKind { return KindPattern }

func (p *patternPseudoContext) Viewport() Viewport { return p.viewport }

func (p *patternPseudoContext) Transform() svgpath.Matrix2D { return p.transform }

func (p *patternPseudoContext) OnExitElement() error { return nil }

func (p *patternPseudoContext) session() *session { return p.s }

func (p *patternPseudoContext) childTransform() svgpath.Matrix2D { return p.transform }

func (p *patternPseudoContext) childViewport() Viewport { return p.viewport }

// recordedCut is a cut produced by the pattern content, in
// content coordinates.
type recordedCut struct {
	path    svgpath.Path
	dash    []float64
	inverse svgpath.Matrix2D
}

type cutRecorder []recordedCut

func (r *cutRecorder) Plot(path svgpath.Path, dash []float64, inverse svgpath.Matrix2D) {
	*r = append(*r, recordedCut{path, dash, inverse})
}

// PatternContext handles a pattern element referenced by a fill.
// Its children are recorded in content coordinates, then repeated
// over every tile intersecting the shape and clipped to its outline.
type PatternContext struct {
	pseudo *patternPseudoContext
	// session of the children, writing to content
	sub     *session
	content cutRecorder

	x, y, width, height float64
	units               Units
	contentUnits        Units
	patternTransform    svgpath.Matrix2D
	viewBox             ViewBox
	hasViewBox          bool
	par                 PreserveAspectRatio
}

func newPatternContext(pseudo *patternPseudoContext) *PatternContext {
	p := &PatternContext{
		pseudo:           pseudo,
		units:            ObjectBoundingBox,
		contentUnits:     UserSpaceOnUse,
		patternTransform: svgpath.Identity,
	}
	p.sub = pseudo.s.withExporter(&p.content)
	return p
}

func (p *PatternContext) Kind() ElementKind { return KindPattern }

func (p *PatternContext) Viewport() Viewport { return p.pseudo.viewport }

func (p *PatternContext) Transform() svgpath.Matrix2D {
	return p.pseudo.transform.Mult(p.patternTransform)
}

func (p *PatternContext) SetPatternTile(x, y, width, height float64) {
	p.x, p.y, p.width, p.height = x, y, width, height
}

func (p *PatternContext) SetPatternUnits(u Units) { p.units = u }

func (p *PatternContext) SetPatternContentUnits(u Units) { p.contentUnits = u }

func (p *PatternContext) SetPatternTransform(m svgpath.Matrix2D) { p.patternTransform = m }

// SetViewBox overrides the content units. An invalid box is ignored.
func (p *PatternContext) SetViewBox(vb ViewBox, par PreserveAspectRatio) {
	if !vb.Valid() {
		return
	}
	p.viewBox, p.hasViewBox, p.par = vb, true, par
}

func (p *PatternContext) session() *session { return p.sub }

// children are recorded in content space
func (p *PatternContext) childTransform() svgpath.Matrix2D { return svgpath.Identity }

func (p *PatternContext) childViewport() Viewport {
	if p.hasViewBox {
		return Viewport{p.viewBox.X, p.viewBox.Y, p.viewBox.Width, p.viewBox.Height}
	}
	return p.pseudo.viewport
}

// tile returns the tile rectangle, in pattern coordinates.
// bbox is the bounding box of the shape, in its user space.
func (p *PatternContext) tile(bbox svgpath.Rect) Viewport {
	if p.units == ObjectBoundingBox {
		return Viewport{
			X:      bbox.MinX + p.x*bbox.Width(),
			Y:      bbox.MinY + p.y*bbox.Height(),
			Width:  p.width * bbox.Width(),
			Height: p.height * bbox.Height(),
		}
	}
	return Viewport{p.x, p.y, p.width, p.height}
}

// contentMapping maps content coordinates to tile coordinates,
// whose origin is the tile corner.
func (p *PatternContext) contentMapping(tile Viewport, bbox svgpath.Rect) svgpath.Matrix2D {
	if p.hasViewBox {
		return p.viewBox.Mapping(tile.Width, tile.Height, p.par)
	}
	if p.contentUnits == ObjectBoundingBox {
		return svgpath.Identity.Scale(bbox.Width(), bbox.Height())
	}
	return svgpath.Identity
}

// OnExitElement repeats the recorded content over the tiles covering
// the shape, and plots it clipped to the shape outline.
func (p *PatternContext) OnExitElement() error {
	if len(p.content) == 0 {
		return nil
	}
	outline := p.pseudo.outline
	shapeInv, ok := p.pseudo.transform.Invert()
	if !ok {
		Logger().Debug("Singular transform for pattern fill")
		return nil
	}
	local := outline.Copy()
	local.Transform(shapeInv)
	bbox, ok := local.Bounds()
	if !ok {
		return nil
	}

	tile := p.tile(bbox)
	if !(tile.Width > 0 && tile.Height > 0) {
		Logger().Debug("Empty pattern tile", slog.Float64("width", tile.Width), slog.Float64("height", tile.Height))
		return nil
	}
	base := p.Transform()
	baseInv, ok := base.Invert()
	if !ok {
		Logger().Debug("Singular pattern transform")
		return nil
	}
	content := p.contentMapping(tile, bbox)

	// area to cover, in pattern coordinates
	inTile := outline.Copy()
	inTile.Transform(baseInv)
	area, _ := inTile.Bounds()
	i0, i1 := math.Floor((area.MinX-tile.X)/tile.Width), math.Ceil((area.MaxX-tile.X)/tile.Width)
	j0, j1 := math.Floor((area.MinY-tile.Y)/tile.Height), math.Ceil((area.MaxY-tile.Y)/tile.Height)

	maxTiles := p.sub.opts.MaxPatternTiles
	if count := (i1 - i0) * (j1 - j0); count > float64(maxTiles) {
		Logger().Warn("Too many pattern tiles, output is truncated",
			slog.Float64("tiles", count), slog.Int("max", maxTiles))
	}

	var (
		exporter  = p.pseudo.s.exporter
		tolerance = p.sub.opts.FlattenTolerance
		bounds, _ = outline.Bounds()
		n         int
	)
	for j := j0; j < j1; j++ {
		for i := i0; i < i1; i++ {
			if n == maxTiles {
				return nil
			}
			n++
			t := base.Translate(tile.X+i*tile.Width, tile.Y+j*tile.Height).Mult(content)
			tInv, _ := t.Invert()
			for _, cut := range p.content {
				path := cut.path.Copy()
				path.Transform(t)
				if pb, ok := path.Bounds(); !ok || !pb.Overlaps(bounds) {
					continue
				}
				clipped := path.ClipTo(outline, tolerance)
				if len(clipped) == 0 {
					continue
				}
				exporter.Plot(clipped, slices.Clone(cut.dash), cut.inverse.Mult(tInv))
			}
		}
	}
	return nil
}
