package ui

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchRoom/internal/board"
	"SketchRoom/internal/render"
	"SketchRoom/internal/state"
)

func newAttached(t *testing.T, opts board.Options) (*BoardWidget, *board.Controller) {
	t.Helper()
	test.NewTempApp(t)
	if opts.Room == "" {
		opts.Room = "room"
	}
	ctrl := board.New(context.Background(), opts)
	t.Cleanup(ctrl.Close)
	bw := NewBoardWidget(render.DarkPalette)
	bw.Attach(ctrl)
	return bw, ctrl
}

func mouse(x, y float32, btn desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     btn,
	}
}

func TestBoardWidgetDrawsThroughController(t *testing.T) {
	bw, ctrl := newAttached(t, board.Options{})
	ctrl.SetTool(board.ToolRect)

	bw.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	bw.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 30)}})
	bw.MouseMoved(mouse(40, 30, desktop.MouseButtonPrimary))
	bw.MouseUp(mouse(60, 40, desktop.MouseButtonPrimary))

	shapes := ctrl.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, state.Frame{X: 10, Y: 10, Width: 50, Height: 30}, shapes[0].(*state.Rect).Frame)
	assert.Equal(t, board.ToolSelect, ctrl.Tool())
}

func TestBoardWidgetPanZoomAndKeys(t *testing.T) {
	bw, ctrl := newAttached(t, board.Options{})

	bw.MouseDown(mouse(0, 0, desktop.MouseButtonSecondary))
	bw.MouseMoved(mouse(30, 20, desktop.MouseButtonSecondary))
	bw.MouseUp(mouse(30, 20, desktop.MouseButtonSecondary))
	zoom, panX, panY := ctrl.View()
	assert.Equal(t, 1.0, zoom)
	assert.Equal(t, 30.0, panX)
	assert.Equal(t, 20.0, panY)

	bw.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 20)},
		Scrolled:   fyne.Delta{DY: 10},
	})
	zoom, _, _ = ctrl.View()
	assert.InDelta(t, 1.1, zoom, 1e-9)

	// 0 alone does nothing, Ctrl+0 resets
	bw.TypedKey(&fyne.KeyEvent{Name: fyne.Key0})
	zoom, _, _ = ctrl.View()
	assert.InDelta(t, 1.1, zoom, 1e-9)

	bw.KeyDown(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	bw.TypedKey(&fyne.KeyEvent{Name: fyne.Key0})
	bw.KeyUp(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	zoom, panX, panY = ctrl.View()
	assert.Equal(t, 1.0, zoom)
	assert.Zero(t, panX)
	assert.Zero(t, panY)
}

func TestBoardWidgetDeleteKey(t *testing.T) {
	bw, ctrl := newAttached(t, board.Options{})
	ctrl.SetTool(board.ToolRect)
	bw.MouseDown(mouse(0, 0, desktop.MouseButtonPrimary))
	bw.MouseMoved(mouse(20, 20, desktop.MouseButtonPrimary))
	bw.MouseUp(mouse(20, 20, desktop.MouseButtonPrimary))
	require.NotNil(t, ctrl.Selected())

	bw.TypedKey(&fyne.KeyEvent{Name: fyne.KeyDelete})
	assert.Empty(t, ctrl.Shapes())
}

func TestBoardWidgetPaintsDevicePixels(t *testing.T) {
	bw, _ := newAttached(t, board.Options{})
	bw.Resize(fyne.NewSize(40, 30))

	img := bw.paint(80, 60)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestModifierMapping(t *testing.T) {
	assert.Equal(t, board.ModShift|board.ModSuper, modsOf(fyne.KeyModifierShift|fyne.KeyModifierSuper))
	assert.Equal(t, board.ButtonTertiary, buttonOf(desktop.MouseButtonTertiary))
	assert.Equal(t, board.ButtonPrimary, buttonOf(desktop.MouseButtonPrimary))
}

func TestToolPickerMirrorsWithoutEcho(t *testing.T) {
	test.NewTempApp(t)
	var picked []board.Tool
	p := newToolPicker(func(tl board.Tool) { picked = append(picked, tl) })

	p.show(board.ToolCircle)
	assert.Equal(t, "circle", p.radio.Selected)
	assert.Empty(t, picked)

	p.radio.SetSelected("arrow")
	assert.Equal(t, []board.Tool{board.ToolArrow}, picked)
}

func TestMinimapTapCentersView(t *testing.T) {
	_, ctrl := newAttached(t, board.Options{})
	ctrl.SetViewport(100, 100)

	m := newMinimap(ctrl, render.DarkPalette)
	m.Resize(fyne.NewSize(200, 100))

	// nothing drawn: the map shows the viewport at scale 1, centred
	scale, offX, offY, _ := m.fit(200, 100)
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, 50.0, offX)
	assert.Equal(t, 0.0, offY)

	m.Tapped(&fyne.PointEvent{Position: fyne.NewPos(60, 30)})
	r := ctrl.VisibleRect()
	assert.InDelta(t, -40, r.X, 1e-9)
	assert.InDelta(t, -20, r.Y, 1e-9)
}

func TestTextOverlaySubmitAndCancel(t *testing.T) {
	_, ctrl := newAttached(t, board.Options{})
	overlay := &textOverlay{layer: container.NewWithoutLayout()}
	win := test.NewTempWindow(t, overlay.layer)

	ctrl.SetTool(board.ToolText)
	ctrl.PointerDown(board.PointerEvent{X: 12, Y: 34})
	overlay.show(win, ctrl, state.Point{X: 12, Y: 34})
	require.NotNil(t, overlay.open)
	assert.Len(t, overlay.layer.Objects, 1)

	overlay.open.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.Nil(t, overlay.open)
	assert.Empty(t, overlay.layer.Objects)
	assert.Empty(t, ctrl.Shapes())

	ctrl.PointerDown(board.PointerEvent{X: 12, Y: 34})
	overlay.show(win, ctrl, state.Point{X: 12, Y: 34})
	overlay.open.OnSubmitted("note")
	shapes := ctrl.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, "note", shapes[0].(*state.Text).Content)
	assert.Nil(t, overlay.open)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Room r1 · connected · 3 shapes", statusText("r1", true, 3))
	assert.Equal(t, "Room r1 · offline · 0 shapes", statusText("r1", false, 0))
}
