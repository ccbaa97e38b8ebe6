// Implements a PDF backend to preview cut paths,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"errors"
	"io"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgdraw"
	"github.com/benoitkugler/svgcut/svgpath"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// PointsPerUnit converts user units (CSS pixels, 96 per inch)
// to PDF points (72 per inch).
const PointsPerUnit = 0.75

var errEmptyPage = errors.New("empty page: nothing to render")

var _ svgdraw.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer strokes paths on the current page of a PDF document.
type Renderer struct {
	pdf *gofpdf.Fpdf
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
func NewRenderer(pdf *gofpdf.Fpdf) *Renderer {
	return &Renderer{pdf: pdf}
}

func (r *Renderer) SetDash(dash []float64) {
	if dash == nil {
		dash = []float64{}
	}
	r.pdf.SetDashPattern(dash, 0)
}

func (r *Renderer) Start(a svgpath.Point) { r.pdf.MoveTo(a.X, a.Y) }

func (r *Renderer) Line(b svgpath.Point) { r.pdf.LineTo(b.X, b.Y) }

func (r *Renderer) CubeBezier(b, c, d svgpath.Point) {
	r.pdf.CurveBezierCubicTo(b.X, b.Y, c.X, c.Y, d.X, d.Y)
}

func (r *Renderer) Stop(closeLoop bool) {
	if closeLoop {
		r.pdf.ClosePath()
	}
}

func (r *Renderer) Stroke() { r.pdf.DrawPath("D") }

// Exporter records the cuts of a conversion, and
// renders them as a one page PDF document.
type Exporter struct {
	svgdraw.Recorder

	// LineWidth is the stroke width, in points.
	// Zero means a hairline.
	LineWidth float64
	Title     string
	// JobID, if not nil, is written in the document subject.
	JobID uuid.UUID
}

// Render writes the PDF document. page is the page size in user units,
// usually the Result of the conversion. If empty, the bounding box
// of the cuts is used.
func (e *Exporter) Render(w io.Writer, page svgconv.Viewport) error {
	if page.Width <= 0 || page.Height <= 0 {
		bbox, ok := e.Bounds()
		if !ok {
			return errEmptyPage
		}
		page = svgconv.Viewport{X: bbox.MinX, Y: bbox.MinY, Width: bbox.Width(), Height: bbox.Height()}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: page.Width * PointsPerUnit, Ht: page.Height * PointsPerUnit},
	})
	pdf.SetCreator("svgcut", true)
	if e.Title != "" {
		pdf.SetTitle(e.Title, true)
	}
	if e.JobID != uuid.Nil {
		pdf.SetSubject("job "+e.JobID.String(), true)
	}
	pdf.AddPage()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(e.LineWidth)

	m := svgpath.Identity.Scale(PointsPerUnit, PointsPerUnit).Translate(-page.X, -page.Y)
	e.Draw(NewRenderer(pdf), m)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
