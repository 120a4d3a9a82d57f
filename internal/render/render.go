// Package render redraws a board from scratch on every frame. It holds no
// state between frames beyond its palette.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"go.uber.org/zap"

	"SketchRoom/internal/geom"
	"SketchRoom/internal/logging"
	"SketchRoom/internal/state"
)

const (
	// ArrowHeadLength is the length of each arrowhead stroke in logical units.
	ArrowHeadLength = 10
	// ArrowHeadAngle is the angle between the shaft and each head stroke.
	ArrowHeadAngle = math.Pi / 6
	// HandleSize is the side of a selection handle square in logical units.
	HandleSize = 8
)

// ErrInvalidShape is returned by Valid for shapes that cannot be drawn.
var ErrInvalidShape = errors.New("invalid shape")

// Surface is an immediate-mode 2D drawing target. Coordinates passed to the
// drawing calls are logical; the surface applies the current transform.
type Surface interface {
	// Reset restores the identity transform and clears the whole device
	// area to the background colour.
	Reset(background color.Color)
	// SetTransform applies translate(panX, panY) then scale(zoom).
	SetTransform(zoom, panX, panY float64)
	SetColor(c color.Color)
	Line(x0, y0, x1, y1 float64)
	Polyline(pts []state.Point, closed bool)
	Circle(cx, cy, r float64)
	StrokeRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	Text(x, y float64, s string, size float64)
}

// Frame is everything needed to draw one frame.
type Frame struct {
	Shapes     []state.Shape
	Zoom       float64
	PanX, PanY float64
	// Selected gets handles drawn on top of everything else.
	Selected state.Shape
	// Preview is an in-progress shape that is not yet in Shapes.
	Preview state.Shape
}

// Palette holds the colours used for a frame.
type Palette struct {
	Background color.Color
	Stroke     color.Color
	Handle     color.Color
}

// DarkPalette is white ink on black with blue handles.
var DarkPalette = Palette{
	Background: color.Black,
	Stroke:     color.White,
	Handle:     color.RGBA{B: 255, A: 255},
}

// LightPalette is used for exports.
var LightPalette = Palette{
	Background: color.White,
	Stroke:     color.Black,
	Handle:     color.RGBA{B: 255, A: 255},
}

// Renderer draws frames onto a Surface.
type Renderer struct {
	Palette Palette
	log     *zap.SugaredLogger
}

// NewRenderer returns a renderer using p. A nil logger uses logging.Log.
func NewRenderer(p Palette, log *zap.SugaredLogger) *Renderer {
	if log == nil {
		log = logging.Log
	}
	return &Renderer{Palette: p, log: log.Named("render")}
}

// Render clears dst and draws the frame: every shape in list order, then
// the preview, then the handles of the selected shape.
func (r *Renderer) Render(dst Surface, f Frame) {
	zoom := f.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	dst.Reset(r.Palette.Background)
	dst.SetTransform(zoom, f.PanX, f.PanY)

	dst.SetColor(r.Palette.Stroke)
	for _, s := range f.Shapes {
		r.drawSafe(dst, s)
	}
	if f.Preview != nil {
		r.drawSafe(dst, f.Preview)
	}
	if f.Selected != nil && Valid(f.Selected) == nil {
		dst.SetColor(r.Palette.Handle)
		DrawHandles(dst, f.Selected)
	}
}

func (r *Renderer) drawSafe(dst Surface, s state.Shape) {
	if err := Valid(s); err != nil {
		r.log.Debugw("skipping shape", "error", err)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warnw("shape draw failed", "id", s.ShapeID(), "kind", s.Kind(), "panic", rec)
		}
	}()
	DrawShape(dst, s)
}

// Valid reports whether s can be drawn.
func Valid(s state.Shape) error {
	if s == nil {
		return fmt.Errorf("%w: nil", ErrInvalidShape)
	}
	var nums []float64
	switch v := s.(type) {
	case *state.Rect:
		nums = []float64{v.X, v.Y, v.Width, v.Height}
	case *state.Diamond:
		nums = []float64{v.X, v.Y, v.Width, v.Height}
	case *state.Circle:
		nums = []float64{v.CenterX, v.CenterY, v.Radius}
	case *state.Line:
		nums = []float64{v.StartX, v.StartY, v.EndX, v.EndY}
	case *state.Arrow:
		nums = []float64{v.StartX, v.StartY, v.EndX, v.EndY}
	case *state.Pencil:
		if len(v.Points) == 0 {
			return fmt.Errorf("%w: pencil %q has no points", ErrInvalidShape, v.ID)
		}
		for _, p := range v.Points {
			nums = append(nums, p.X, p.Y)
		}
	case *state.Text:
		if v.Content == "" {
			return fmt.Errorf("%w: text %q is empty", ErrInvalidShape, v.ID)
		}
		if v.Size() > state.MaxFontSize {
			return fmt.Errorf("%w: text %q font size %g exceeds %d", ErrInvalidShape, v.ID, v.Size(), state.MaxFontSize)
		}
		nums = []float64{v.X, v.Y, v.Size()}
	default:
		return fmt.Errorf("%w: unsupported %T", ErrInvalidShape, s)
	}
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: %s %q has non-finite coordinates", ErrInvalidShape, s.Kind(), s.ShapeID())
		}
	}
	return nil
}

// DrawShape draws a single shape with the current colour.
func DrawShape(dst Surface, s state.Shape) {
	switch v := s.(type) {
	case *state.Rect:
		dst.StrokeRect(v.X, v.Y, v.Width, v.Height)
	case *state.Diamond:
		dst.Polyline(DiamondPoints(v.Frame), true)
	case *state.Circle:
		dst.Circle(v.CenterX, v.CenterY, math.Abs(v.Radius))
	case *state.Line:
		dst.Line(v.StartX, v.StartY, v.EndX, v.EndY)
	case *state.Arrow:
		dst.Line(v.StartX, v.StartY, v.EndX, v.EndY)
		for _, p := range ArrowHead(v.Segment) {
			dst.Line(v.EndX, v.EndY, p.X, p.Y)
		}
	case *state.Pencil:
		if len(v.Points) == 1 {
			p := v.Points[0]
			dst.Line(p.X, p.Y, p.X, p.Y)
			return
		}
		dst.Polyline(v.Points, false)
	case *state.Text:
		dst.Text(v.X, v.Y, v.Content, v.Size())
	}
}

// DrawHandles draws the grab points of s as filled squares: box handles,
// line endpoints or stroke points, matching what geom.HitTest grabs.
func DrawHandles(dst Surface, s state.Shape) {
	for _, h := range geom.GrabPoints(s) {
		dst.FillRect(h.X-HandleSize/2, h.Y-HandleSize/2, HandleSize, HandleSize)
	}
}

// ArrowHead returns the free ends of the two head strokes, which meet at
// the segment end.
func ArrowHead(seg state.Segment) [2]state.Point {
	angle := math.Atan2(seg.EndY-seg.StartY, seg.EndX-seg.StartX)
	return [2]state.Point{
		{
			X: seg.EndX - ArrowHeadLength*math.Cos(angle-ArrowHeadAngle),
			Y: seg.EndY - ArrowHeadLength*math.Sin(angle-ArrowHeadAngle),
		},
		{
			X: seg.EndX - ArrowHeadLength*math.Cos(angle+ArrowHeadAngle),
			Y: seg.EndY - ArrowHeadLength*math.Sin(angle+ArrowHeadAngle),
		},
	}
}

// DiamondPoints returns the rhombus through the edge midpoints of f,
// starting at the top and running clockwise.
func DiamondPoints(f state.Frame) []state.Point {
	cx := f.X + f.Width/2
	cy := f.Y + f.Height/2
	return []state.Point{
		{X: cx, Y: f.Y},
		{X: f.X + f.Width, Y: cy},
		{X: cx, Y: f.Y + f.Height},
		{X: f.X, Y: cy},
	}
}
