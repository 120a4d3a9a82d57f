// Package export writes a board snapshot to PDF or PNG.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"SketchRoom/internal/geom"
	"SketchRoom/internal/render"
	"SketchRoom/internal/state"
)

// Padding is the margin kept around the drawing, in logical units.
const Padding = 20

// A4 in points, used for empty boards.
const (
	emptyWidth  = 595
	emptyHeight = 842
)

// pdfSurface maps render calls onto a gofpdf document. Units are points.
type pdfSurface struct {
	pdf        *gofpdf.Fpdf
	w, h       float64
	zoom       float64
	panX, panY float64
}

func newPDFSurface(w, h float64) *pdfSurface {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetFont("Helvetica", "", state.DefaultFontSize)
	return &pdfSurface{pdf: p, w: w, h: h, zoom: 1}
}

func (s *pdfSurface) pt(x, y float64) (float64, float64) {
	return x*s.zoom + s.panX, y*s.zoom + s.panY
}

func rgb(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}

func (s *pdfSurface) Reset(background color.Color) {
	s.zoom, s.panX, s.panY = 1, 0, 0
	s.pdf.SetFillColor(rgb(background))
	s.pdf.Rect(0, 0, s.w, s.h, "F")
}

func (s *pdfSurface) SetTransform(zoom, panX, panY float64) {
	s.zoom, s.panX, s.panY = zoom, panX, panY
	s.pdf.SetLineWidth(render.StrokeWidth * zoom)
}

func (s *pdfSurface) SetColor(c color.Color) {
	r, g, b := rgb(c)
	s.pdf.SetDrawColor(r, g, b)
	s.pdf.SetFillColor(r, g, b)
	s.pdf.SetTextColor(r, g, b)
}

func (s *pdfSurface) Line(x0, y0, x1, y1 float64) {
	ax, ay := s.pt(x0, y0)
	bx, by := s.pt(x1, y1)
	s.pdf.Line(ax, ay, bx, by)
}

func (s *pdfSurface) Polyline(pts []state.Point, closed bool) {
	if closed {
		out := make([]gofpdf.PointType, len(pts))
		for i, p := range pts {
			out[i].X, out[i].Y = s.pt(p.X, p.Y)
		}
		s.pdf.Polygon(out, "D")
		return
	}
	for i := 1; i < len(pts); i++ {
		s.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
	}
}

func (s *pdfSurface) Circle(cx, cy, r float64) {
	x, y := s.pt(cx, cy)
	s.pdf.Circle(x, y, r*s.zoom, "D")
}

func (s *pdfSurface) StrokeRect(x, y, w, h float64) {
	ax, ay := s.pt(x, y)
	s.pdf.Rect(ax, ay, w*s.zoom, h*s.zoom, "D")
}

func (s *pdfSurface) FillRect(x, y, w, h float64) {
	ax, ay := s.pt(x, y)
	s.pdf.Rect(ax, ay, w*s.zoom, h*s.zoom, "F")
}

func (s *pdfSurface) Text(x, y float64, txt string, size float64) {
	ax, ay := s.pt(x, y)
	s.pdf.SetFontSize(size * s.zoom)
	s.pdf.Text(ax, ay, txt)
}

// drawable drops shapes the renderer would skip so they cannot skew the
// page extent.
func drawable(shapes []state.Shape) []state.Shape {
	out := make([]state.Shape, 0, len(shapes))
	for _, s := range shapes {
		if render.Valid(s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// page returns the page size and the pan that maps the drawing into it.
func page(shapes []state.Shape) (w, h, panX, panY float64) {
	box, ok := geom.Extent(shapes, Padding)
	if !ok {
		return emptyWidth, emptyHeight, 0, 0
	}
	return math.Max(box.Width, 1), math.Max(box.Height, 1), -box.X, -box.Y
}

// PDF renders shapes onto a single page sized to fit them.
func PDF(w io.Writer, shapes []state.Shape) error {
	shapes = drawable(shapes)
	pw, ph, panX, panY := page(shapes)
	surf := newPDFSurface(pw, ph)
	render.NewRenderer(render.LightPalette, nil).Render(surf, render.Frame{
		Shapes: shapes,
		Zoom:   1,
		PanX:   panX,
		PanY:   panY,
	})
	if err := surf.pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := surf.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
