package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"SketchRoom/internal/board"
	"SketchRoom/internal/geom"
	"SketchRoom/internal/logging"
	"SketchRoom/internal/render"
)

const (
	// MinimapPadding is added around the drawing before it is fitted.
	MinimapPadding = 50
	minimapWidth   = 180
	minimapHeight  = 120
)

// minimap shows the whole board plus the visible area. Tapping it centres
// the view on the tapped point.
type minimap struct {
	widget.BaseWidget
	ctrl     *board.Controller
	renderer *render.Renderer
	raster   *render.Raster
}

var _ fyne.Tappable = (*minimap)(nil)

func newMinimap(ctrl *board.Controller, p render.Palette) *minimap {
	m := &minimap{ctrl: ctrl, renderer: render.NewRenderer(p, logging.Log)}
	m.ExtendBaseWidget(m)
	return m
}

// fit maps the union of the drawing and the visible area into a w×h box:
// mini = canvas*scale + offset.
func (m *minimap) fit(w, h float64) (scale, offX, offY float64, visible geom.Box) {
	visible = m.ctrl.VisibleRect()
	area := visible
	if ext, ok := m.ctrl.Extent(MinimapPadding); ok {
		area = union(ext, visible)
	}
	if area.Width <= 0 || area.Height <= 0 || w <= 0 || h <= 0 {
		return 1, 0, 0, visible
	}
	scale = math.Min(w/area.Width, h/area.Height)
	offX = (w-area.Width*scale)/2 - area.X*scale
	offY = (h-area.Height*scale)/2 - area.Y*scale
	return scale, offX, offY, visible
}

func union(a, b geom.Box) geom.Box {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	return geom.Box{
		X:      x,
		Y:      y,
		Width:  math.Max(a.MaxX(), b.MaxX()) - x,
		Height: math.Max(a.MaxY(), b.MaxY()) - y,
	}
}

func (m *minimap) paint(w, h int) image.Image {
	if m.raster == nil {
		m.raster = render.NewRaster(w, h)
	} else {
		m.raster.Resize(w, h)
	}
	scale, offX, offY, visible := m.fit(float64(w), float64(h))
	frame := m.ctrl.Frame()
	m.renderer.Render(m.raster, render.Frame{
		Shapes: frame.Shapes,
		Zoom:   scale,
		PanX:   offX,
		PanY:   offY,
	})
	m.raster.SetColor(m.renderer.Palette.Handle)
	m.raster.StrokeRect(visible.X, visible.Y, visible.Width, visible.Height)
	return m.raster.Image()
}

func (m *minimap) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewRaster(m.paint)
	img.SetMinSize(fyne.NewSize(minimapWidth, minimapHeight))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(img, border))
}

func (m *minimap) Tapped(e *fyne.PointEvent) {
	size := m.Size()
	scale, offX, offY, _ := m.fit(float64(size.Width), float64(size.Height))
	cx := (float64(e.Position.X) - offX) / scale
	cy := (float64(e.Position.Y) - offY) / scale
	m.ctrl.CenterOn(cx, cy)
}
