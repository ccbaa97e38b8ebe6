// Implements a raster backend to preview cut paths,
// by wrapping rasterx.
package svgraster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgdraw"
	"github.com/benoitkugler/svgcut/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var errEmptyImage = errors.New("empty image: nothing to render")

var _ svgdraw.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer strokes paths with a rasterx.Dasher.
type Renderer struct {
	dasher    *rasterx.Dasher
	lineWidth fixed.Int26_6
}

// NewRenderer returns a renderer stroking lines of the given
// width, in pixels.
// If scanner is nil, a default scanner rasterx.ScannerGV is used
// on a new image.
func NewRenderer(width, height int, lineWidth float64, scanner rasterx.Scanner) *Renderer {
	if scanner == nil {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		scanner = rasterx.NewScannerGV(width, height, img, img.Bounds())
	}
	rd := &Renderer{dasher: rasterx.NewDasher(width, height, scanner), lineWidth: fToFixed(lineWidth)}
	rd.dasher.SetColor(color.Black)
	rd.SetDash(nil)
	return rd
}

func fToFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(f * 64)
}

func toFixed(p svgpath.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fToFixed(p.X), Y: fToFixed(p.Y)}
}

func (rd *Renderer) SetDash(dash []float64) {
	rd.dasher.SetStroke(rd.lineWidth, fToFixed(4), rasterx.ButtCap, rasterx.ButtCap,
		rasterx.RoundGap, rasterx.Round, dash, 0)
}

func (rd *Renderer) Start(a svgpath.Point) { rd.dasher.Start(toFixed(a)) }

func (rd *Renderer) Line(b svgpath.Point) { rd.dasher.Line(toFixed(b)) }

func (rd *Renderer) CubeBezier(b, c, d svgpath.Point) {
	rd.dasher.CubeBezier(toFixed(b), toFixed(c), toFixed(d))
}

func (rd *Renderer) Stop(closeLoop bool) { rd.dasher.Stop(closeLoop) }

func (rd *Renderer) Stroke() {
	rd.dasher.Draw()
	rd.dasher.Clear()
}

// Exporter records the cuts of a conversion, and
// renders them as an image.
type Exporter struct {
	svgdraw.Recorder

	// LineWidth is the stroke width in pixels.
	// Zero means 1.
	LineWidth float64
}

// Image renders the cuts in black, on a white background.
// page is the area to render, in user units, usually the Result
// of the conversion: if empty, the bounding box of the cuts is used.
// scale is the number of pixels per user unit.
func (e *Exporter) Image(page svgconv.Viewport, scale float64) (*image.RGBA, error) {
	if page.Width <= 0 || page.Height <= 0 {
		bbox, ok := e.Bounds()
		if !ok {
			return nil, errEmptyImage
		}
		page = svgconv.Viewport{X: bbox.MinX, Y: bbox.MinY, Width: bbox.Width(), Height: bbox.Height()}
	}
	if scale <= 0 {
		scale = 1
	}
	w, h := int(math.Ceil(page.Width*scale)), int(math.Ceil(page.Height*scale))
	if w == 0 || h == 0 {
		return nil, errEmptyImage
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	lineWidth := e.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	renderer := NewRenderer(w, h, lineWidth, scanner)
	e.Draw(renderer, svgpath.Identity.Scale(scale, scale).Translate(-page.X, -page.Y))
	return img, nil
}

// WritePNG renders the cuts, see Image, and encodes them as PNG.
func (e *Exporter) WritePNG(out io.Writer, page svgconv.Viewport, scale float64) error {
	img, err := e.Image(page, scale)
	if err != nil {
		return err
	}
	return png.Encode(out, img)
}
