package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchRoom/internal/board"
	"SketchRoom/internal/logging"
	"SketchRoom/internal/render"
)

// BoardWidget shows one board and forwards pointer, wheel and key input to
// its controller. Frames are painted from a snapshot on fyne's paint
// schedule, so the controller never touches fyne objects.
type BoardWidget struct {
	widget.BaseWidget

	mu       sync.Mutex
	ctrl     *board.Controller
	renderer *render.Renderer
	raster   *render.Raster

	button  board.Button
	mods    board.Modifier
	last    fyne.Position
	pressed bool

	statusBar *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ fyne.Focusable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Keyable = (*BoardWidget)(nil)

func NewBoardWidget(p render.Palette) *BoardWidget {
	b := &BoardWidget{
		renderer:  render.NewRenderer(p, logging.Log),
		statusBar: widget.NewLabel("Offline"),
	}
	b.ExtendBaseWidget(b)
	return b
}

// Attach binds the widget to a controller. Input before Attach is dropped.
func (b *BoardWidget) Attach(c *board.Controller) {
	b.mu.Lock()
	b.ctrl = c
	b.mu.Unlock()
	if s := b.Size(); s.Width > 0 && s.Height > 0 {
		c.SetViewport(float64(s.Width), float64(s.Height))
	}
	b.Refresh()
}

func (b *BoardWidget) controller() *board.Controller {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctrl
}

// StatusBar is the label the shell places under the board.
func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// SetStatus is safe to call from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

// scaledSurface maps logical units onto device pixels on HiDPI canvases.
type scaledSurface struct {
	*render.Raster
	scale float64
}

func (s scaledSurface) SetTransform(zoom, panX, panY float64) {
	s.Raster.SetTransform(zoom*s.scale, panX*s.scale, panY*s.scale)
}

// paint is the canvas.Raster generator. w and h are device pixels.
func (b *BoardWidget) paint(w, h int) image.Image {
	if b.raster == nil {
		b.raster = render.NewRaster(w, h)
	} else {
		b.raster.Resize(w, h)
	}
	scale := 1.0
	if size := b.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}

	var frame render.Frame
	if c := b.controller(); c != nil {
		frame = c.Frame()
	} else {
		frame.Zoom = 1
	}
	b.renderer.Render(scaledSurface{Raster: b.raster, scale: scale}, frame)
	return b.raster.Image()
}

func (b *BoardWidget) pointer(pos fyne.Position) board.PointerEvent {
	return board.PointerEvent{
		X:      float64(pos.X),
		Y:      float64(pos.Y),
		Button: b.button,
		Mods:   b.mods,
	}
}

func buttonOf(btn desktop.MouseButton) board.Button {
	switch btn {
	case desktop.MouseButtonSecondary:
		return board.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return board.ButtonTertiary
	}
	return board.ButtonPrimary
}

func modsOf(m fyne.KeyModifier) board.Modifier {
	var out board.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= board.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= board.ModControl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= board.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= board.ModSuper
	}
	return out
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	c := b.controller()
	if c == nil {
		return
	}
	if cv := fyne.CurrentApp().Driver().CanvasForObject(b); cv != nil {
		cv.Focus(b)
	}
	b.button = buttonOf(e.Button)
	b.mods = modsOf(e.Modifier)
	b.last = e.Position
	b.pressed = true
	c.PointerDown(b.pointer(e.Position))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	c := b.controller()
	if c == nil || !b.pressed {
		return
	}
	b.pressed = false
	b.last = e.Position
	c.PointerUp(b.pointer(e.Position))
}

// move drops repeats: fyne reports a held drag through both Dragged and
// MouseMoved on some drivers.
func (b *BoardWidget) move(pos fyne.Position) {
	c := b.controller()
	if c == nil || pos == b.last {
		return
	}
	b.last = pos
	c.PointerMove(b.pointer(pos))
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) { b.move(e.Position) }
func (b *BoardWidget) Dragged(e *fyne.DragEvent) { b.move(e.Position) }
func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut() {}
func (b *BoardWidget) DragEnd() {}

// Scrolled zooms around the cursor. fyne reports wheel-up as positive DY.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if c := b.controller(); c != nil {
		c.Wheel(-float64(e.Scrolled.DY), float64(e.Position.X), float64(e.Position.Y))
	}
}

func (b *BoardWidget) FocusGained() {}
func (b *BoardWidget) FocusLost() { b.mods = 0 }
func (b *BoardWidget) TypedRune(rune) {}

func (b *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	if c := b.controller(); c != nil {
		c.KeyDown(board.Key(e.Name), b.mods)
	}
}

func modifierKey(name fyne.KeyName) board.Modifier {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return board.ModShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return board.ModControl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return board.ModAlt
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return board.ModSuper
	}
	return 0
}

// KeyDown and KeyUp only track held modifiers for TypedKey.
func (b *BoardWidget) KeyDown(e *fyne.KeyEvent) { b.mods |= modifierKey(e.Name) }
func (b *BoardWidget) KeyUp(e *fyne.KeyEvent) { b.mods &^= modifierKey(e.Name) }

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewRaster(b.paint)
	return &boardWidgetRenderer{board: b, image: img}
}

type boardWidgetRenderer struct {
	board *BoardWidget
	image *canvas.Raster
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.image.Resize(size)
	if c := r.board.controller(); c != nil {
		c.SetViewport(float64(size.Width), float64(size.Height))
	}
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	r.image.Refresh()
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image}
}

func (r *boardWidgetRenderer) Destroy() {}
