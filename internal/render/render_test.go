package render

import (
	"fmt"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchRoom/internal/state"
)

type recorder struct {
	ops []string
	col color.Color
}

func (r *recorder) Reset(bg color.Color) { r.ops = append(r.ops, "reset") }
func (r *recorder) SetTransform(z, px, py float64) {
	r.ops = append(r.ops, fmt.Sprintf("transform %g %g %g", z, px, py))
}
func (r *recorder) SetColor(c color.Color) { r.col = c }
func (r *recorder) Line(x0, y0, x1, y1 float64) {
	r.ops = append(r.ops, fmt.Sprintf("line %g %g %g %g", x0, y0, x1, y1))
}
func (r *recorder) Polyline(pts []state.Point, closed bool) {
	r.ops = append(r.ops, fmt.Sprintf("polyline %d %t", len(pts), closed))
}
func (r *recorder) Circle(cx, cy, rad float64) {
	r.ops = append(r.ops, fmt.Sprintf("circle %g %g %g", cx, cy, rad))
}
func (r *recorder) StrokeRect(x, y, w, h float64) {
	r.ops = append(r.ops, fmt.Sprintf("rect %g %g %g %g", x, y, w, h))
}
func (r *recorder) FillRect(x, y, w, h float64) {
	r.ops = append(r.ops, fmt.Sprintf("fill %g %g %g %g", x, y, w, h))
}
func (r *recorder) Text(x, y float64, s string, size float64) {
	r.ops = append(r.ops, fmt.Sprintf("text %g %g %s %g", x, y, s, size))
}

func rect(id string, x, y, w, h float64) *state.Rect {
	return &state.Rect{Base: state.Base{ID: id}, Frame: state.Frame{X: x, Y: y, Width: w, Height: h}}
}

func TestRenderOrder(t *testing.T) {
	rec := &recorder{}
	sel := rect("a", 0, 0, 10, 10)
	f := Frame{
		Shapes: []state.Shape{
			sel,
			&state.Circle{CenterX: 5, CenterY: 5, Radius: 3},
			&state.Text{X: 1, Y: 2, Content: "hi"},
		},
		Zoom:     2,
		PanX:     3,
		PanY:     4,
		Selected: sel,
	}
	NewRenderer(DarkPalette, nil).Render(rec, f)

	require.Len(t, rec.ops, 2+3+8)
	assert.Equal(t, "reset", rec.ops[0])
	assert.Equal(t, "transform 2 3 4", rec.ops[1])
	assert.Equal(t, "rect 0 0 10 10", rec.ops[2])
	assert.Equal(t, "circle 5 5 3", rec.ops[3])
	assert.Equal(t, "text 1 2 hi 16", rec.ops[4])
	// top-left handle centred on the corner
	assert.Equal(t, "fill -4 -4 8 8", rec.ops[5])
	assert.Equal(t, DarkPalette.Handle, rec.col)
}

func TestRenderSkipsInvalidShapes(t *testing.T) {
	rec := &recorder{}
	f := Frame{
		Shapes: []state.Shape{
			&state.Pencil{},
			rect("nan", math.NaN(), 0, 1, 1),
			&state.Text{Content: ""},
			&state.Line{Segment: state.Segment{EndX: 4, EndY: 4}},
		},
		Zoom: 1,
	}
	NewRenderer(DarkPalette, nil).Render(rec, f)
	assert.Equal(t, []string{"reset", "transform 1 0 0", "line 0 0 4 4"}, rec.ops)
}

func TestRenderPreviewBeforeHandles(t *testing.T) {
	rec := &recorder{}
	sel := rect("a", 0, 0, 10, 10)
	f := Frame{
		Shapes:   []state.Shape{sel},
		Zoom:     1,
		Selected: sel,
		Preview:  &state.Line{Segment: state.Segment{EndX: 1, EndY: 1}},
	}
	NewRenderer(DarkPalette, nil).Render(rec, f)
	assert.Equal(t, "line 0 0 1 1", rec.ops[3])
	assert.Equal(t, "fill -4 -4 8 8", rec.ops[4])
}

func TestRenderZeroZoomFallsBack(t *testing.T) {
	rec := &recorder{}
	NewRenderer(DarkPalette, nil).Render(rec, Frame{})
	assert.Equal(t, []string{"reset", "transform 1 0 0"}, rec.ops)
}

func TestArrowHead(t *testing.T) {
	head := ArrowHead(state.Segment{StartX: 0, StartY: 0, EndX: 100, EndY: 0})
	for _, p := range head {
		assert.InDelta(t, 100-10*math.Cos(math.Pi/6), p.X, 1e-9)
		assert.InDelta(t, 5, math.Abs(p.Y), 1e-9)
	}
	assert.InDelta(t, -head[0].Y, head[1].Y, 1e-9)
}

func TestDrawShapes(t *testing.T) {
	rec := &recorder{}
	DrawShape(rec, &state.Arrow{Segment: state.Segment{EndX: 10}})
	DrawShape(rec, &state.Diamond{Frame: state.Frame{Width: 4, Height: 2}})
	DrawShape(rec, &state.Pencil{Points: []state.Point{{X: 1, Y: 1}}})
	DrawShape(rec, &state.Pencil{Points: []state.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}})
	require.Len(t, rec.ops, 6)
	assert.Equal(t, "line 0 0 10 0", rec.ops[0])
	assert.Equal(t, "polyline 4 true", rec.ops[3])
	assert.Equal(t, "line 1 1 1 1", rec.ops[4])
	assert.Equal(t, "polyline 2 false", rec.ops[5])

	pts := DiamondPoints(state.Frame{Width: 4, Height: 2})
	assert.Equal(t, []state.Point{{X: 2, Y: 0}, {X: 4, Y: 1}, {X: 2, Y: 2}, {X: 0, Y: 1}}, pts)
}

func TestValid(t *testing.T) {
	assert.ErrorIs(t, Valid(nil), ErrInvalidShape)
	assert.ErrorIs(t, Valid(&state.Circle{Radius: math.Inf(1)}), ErrInvalidShape)
	assert.NoError(t, Valid(&state.Pencil{Points: []state.Point{{}}}))
}

func TestRasterDrawsPixels(t *testing.T) {
	r := NewRaster(40, 40)
	NewRenderer(DarkPalette, nil).Render(r, Frame{
		Shapes: []state.Shape{&state.Line{Segment: state.Segment{StartX: 0, StartY: 10, EndX: 39, EndY: 10}}},
		Zoom:   1,
	})
	img := r.Image()
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(20, 10))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(20, 30))
}

func TestRasterClipsFarGeometry(t *testing.T) {
	r := NewRaster(10, 10)
	r.Reset(color.Black)
	r.SetColor(color.White)
	r.Line(-1e12, 5, 1e12, 5)
	r.Circle(0, 0, 1e9)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, r.Image().RGBAAt(5, 5))
}

func TestClipSegment(t *testing.T) {
	b := NewRaster(10, 10).Image().Bounds()
	_, _, _, _, ok := clipSegment(-5, -5, -1, -1, b)
	assert.False(t, ok)
	x0, _, x1, _, ok := clipSegment(-5, 5, 15, 5, b)
	require.True(t, ok)
	assert.InDelta(t, 0, x0, 1e-9)
	assert.InDelta(t, 10, x1, 1e-9)
}

func TestValidRejectsOversizedText(t *testing.T) {
	assert.NoError(t, Valid(&state.Text{Content: "W", FontSize: state.MaxFontSize}))
	assert.ErrorIs(t, Valid(&state.Text{Content: "W", FontSize: 100000}), ErrInvalidShape)

	rec := &recorder{}
	NewRenderer(DarkPalette, nil).Render(rec, Frame{
		Shapes: []state.Shape{&state.Text{Content: "W", FontSize: 100000}},
		Zoom:   1,
	})
	assert.Equal(t, []string{"reset", "transform 1 0 0"}, rec.ops)
}

func TestRasterSkipsTextFarLargerThanImage(t *testing.T) {
	r := NewRaster(100, 100)
	r.Reset(color.Black)
	r.SetColor(color.White)
	r.SetTransform(5, 0, 0)
	r.Text(0, 90, "W", state.MaxFontSize)
	r.Text(0, 90, "W", math.NaN())
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			require.Equal(t, color.RGBA{A: 255}, r.Image().RGBAAt(x, y))
		}
	}

	r.SetTransform(1, 0, 0)
	r.Text(10, 60, "W", 40)
	lit := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if r.Image().RGBAAt(x, y).R > 0 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestFaceCacheIsBounded(t *testing.T) {
	for i := 0; i < 3*MaxCachedFaces; i++ {
		_, err := faceForSize(10 + float64(i))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, faces.len(), MaxCachedFaces)

	f1, err := faceForSize(12.1)
	require.NoError(t, err)
	f2, err := faceForSize(12)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
}

func TestDrawHandlesFollowGrabPoints(t *testing.T) {
	rec := &recorder{}
	DrawHandles(rec, &state.Line{Segment: state.Segment{StartX: 0, StartY: 0, EndX: 100, EndY: 50}})
	assert.Equal(t, []string{"fill -4 -4 8 8", "fill 96 46 8 8"}, rec.ops)

	rec = &recorder{}
	DrawHandles(rec, &state.Pencil{Points: []state.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 4}}})
	assert.Len(t, rec.ops, 3)

	rec = &recorder{}
	DrawHandles(rec, rect("r", 0, 0, 10, 10))
	assert.Len(t, rec.ops, 8)
}
