// Package board is the interaction controller. It owns the authoritative
// shape list of one canvas, the view transform, the selection and the
// pointer state machine, and reconciles local edits with the relayed stream.
package board

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"SketchRoom/internal/geom"
	"SketchRoom/internal/logging"
	bnet "SketchRoom/internal/net"
	"SketchRoom/internal/render"
	"SketchRoom/internal/state"
	"SketchRoom/internal/transform"
	"SketchRoom/internal/view"
)

const (
	// DragThreshold is how far, per axis in logical units, the pointer must
	// travel before a press on a shape becomes a drag.
	DragThreshold = 3
	// DefaultThrottle spaces live update broadcasts during a drag.
	DefaultThrottle = 50 * time.Millisecond
)

// Sync is the outbound half of the sync channel plus handler registration.
// *net.Channel satisfies it.
type Sync interface {
	SendUpsert(s state.Shape, isNew bool) error
	SendDelete(id string) error
	SendClearAll() error
	SetHandlers(h bnet.Handlers)
}

// HistorySource returns the shapes previously recorded for a room.
type HistorySource interface {
	Fetch(ctx context.Context, room string) ([]state.Shape, error)
}

type mode int

const (
	modeIdle mode = iota
	modeDrawing
	modeDragging
	modeResizing
	modeErasing
	modePanning
)

// Options configures a Controller. Every field is optional.
type Options struct {
	Room    string
	Sync    Sync
	History HistorySource
	// Surface receives every frame; OnFrame runs after each one.
	Surface render.Surface
	OnFrame func()
	Palette *render.Palette
	// OnToolChange reports tool switches the controller makes on its own.
	OnToolChange func(Tool)
	// OnTextEntry asks the shell to open a text overlay at the given logical
	// and screen points. The shell answers with SubmitText or CancelText.
	OnTextEntry      func(canvas, screen state.Point)
	MinZoom, MaxZoom float64
	Throttle         time.Duration
	Now              func() time.Time
	Log              *zap.SugaredLogger
}

// Controller serialises pointer, keyboard and network events on one mutex.
// Callbacks and network sends run after the mutex is released.
type Controller struct {
	mu sync.Mutex

	room     string
	sync     Sync
	surface  render.Surface
	renderer *render.Renderer
	onFrame  func()
	onTool   func(Tool)
	onText   func(canvas, screen state.Point)
	throttle time.Duration
	now      func() time.Time
	log      *zap.SugaredLogger

	shapes   *state.Room
	view     *view.Transform
	tool     Tool
	selected state.Shape
	mode     mode
	closed   bool

	handle   int
	grabX    float64
	grabY    float64
	down     state.Point
	last     state.Point
	dragged  bool
	lastSent time.Time
	anchor   state.Point
	path     []state.Point
	preview  state.Shape
	textAt   *state.Point
	viewW    float64
	viewH    float64
	pending  []func()
}

// New builds a controller, seeds it from the room history and draws the
// first frame. A failed history fetch starts the room empty.
func New(ctx context.Context, opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = logging.Log
	}
	palette := render.DarkPalette
	if opts.Palette != nil {
		palette = *opts.Palette
	}
	c := &Controller{
		room:     opts.Room,
		sync:     opts.Sync,
		surface:  opts.Surface,
		renderer: render.NewRenderer(palette, log),
		onFrame:  opts.OnFrame,
		onTool:   opts.OnToolChange,
		onText:   opts.OnTextEntry,
		throttle: opts.Throttle,
		now:      opts.Now,
		log:      log.Named("board"),
		view:     view.New(opts.MinZoom, opts.MaxZoom),
		tool:     ToolSelect,
		handle:   geom.NoHandle,
	}
	if c.throttle <= 0 {
		c.throttle = DefaultThrottle
	}
	if c.now == nil {
		c.now = time.Now
	}

	var seed []state.Shape
	if opts.History != nil {
		shapes, err := opts.History.Fetch(ctx, opts.Room)
		if err != nil {
			c.log.Warnw("history unavailable, starting empty", "room", opts.Room, "error", err)
		} else {
			seed = shapes
		}
	}
	c.shapes = state.NewRoom(seed)
	c.log.Infow("room ready", "room", opts.Room, "shapes", c.shapes.Len())

	if c.sync != nil {
		c.sync.SetHandlers(bnet.Handlers{
			OnUpsert:   c.remoteUpsert,
			OnDelete:   c.remoteDelete,
			OnClearAll: c.remoteClearAll,
		})
	}

	c.lock()
	c.redraw()
	c.unlock()
	return c
}

func (c *Controller) lock() { c.mu.Lock() }

// unlock releases the mutex and then runs the deferred side effects in the
// order they were queued.
func (c *Controller) unlock() {
	queued := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, f := range queued {
		f()
	}
}

func (c *Controller) after(f func()) { c.pending = append(c.pending, f) }

func (c *Controller) frame() render.Frame {
	panX, panY := c.view.Pan()
	return render.Frame{
		Shapes:   c.shapes.Shapes(),
		Zoom:     c.view.Zoom(),
		PanX:     panX,
		PanY:     panY,
		Selected: c.selected,
		Preview:  c.preview,
	}
}

func (c *Controller) redraw() {
	if c.closed {
		return
	}
	if c.surface != nil {
		c.renderer.Render(c.surface, c.frame())
	}
	if c.onFrame != nil {
		c.after(c.onFrame)
	}
}

func (c *Controller) broadcastUpsert(s state.Shape, isNew bool) {
	if c.sync == nil {
		return
	}
	snapshot := s.Clone()
	c.after(func() { _ = c.sync.SendUpsert(snapshot, isNew) })
}

func (c *Controller) broadcastDelete(id string) {
	if c.sync == nil {
		return
	}
	c.after(func() { _ = c.sync.SendDelete(id) })
}

func (c *Controller) deselect() {
	c.selected = nil
	c.handle = geom.NoHandle
	c.dragged = false
}

// SetTool switches tools. Any pending text entry is cancelled and the
// selection cleared.
func (c *Controller) SetTool(t Tool) {
	if !t.Valid() {
		c.log.Warnw("unknown tool", "tool", t)
		return
	}
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	c.tool = t
	c.textAt = nil
	c.preview = nil
	c.path = nil
	c.mode = modeIdle
	c.deselect()
	c.redraw()
}

// autoSelect switches to the select tool with s selected, so a freshly
// placed shape is immediately adjustable.
func (c *Controller) autoSelect(s state.Shape) {
	c.tool = ToolSelect
	c.selected = s
	c.handle = geom.NoHandle
	c.dragged = false
	if c.onTool != nil {
		f := c.onTool
		c.after(func() { f(ToolSelect) })
	}
}

// PointerDown starts a gesture.
func (c *Controller) PointerDown(ev PointerEvent) {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	if ev.panGesture() {
		c.view.StartPan(ev.X, ev.Y)
		c.mode = modePanning
		return
	}

	p := c.view.ScreenToCanvas(ev.X, ev.Y)
	switch {
	case c.tool == ToolText:
		at := p
		c.textAt = &at
		if c.onText != nil {
			f := c.onText
			screen := state.Point{X: ev.X, Y: ev.Y}
			c.after(func() { f(at, screen) })
		}
	case c.tool == ToolSelect:
		hit, ok := geom.HitTest(c.shapes.Shapes(), p, c.selected)
		if !ok {
			c.deselect()
			c.mode = modeIdle
			c.redraw()
			return
		}
		c.selected = hit.Shape
		c.handle = hit.Handle
		c.down, c.last = p, p
		c.dragged = false
		if hit.Handle == geom.NoHandle {
			box := geom.BoundingBox(hit.Shape)
			c.grabX, c.grabY = p.X-box.X, p.Y-box.Y
			c.mode = modeDragging
		} else {
			c.mode = modeResizing
		}
		c.redraw()
	case c.tool == ToolEraser:
		c.mode = modeErasing
		c.eraseAt(p)
	case c.tool.draws():
		c.anchor = p
		c.mode = modeDrawing
		if c.tool == ToolPencil {
			c.path = []state.Point{p}
		}
		c.preview = c.build(p)
		c.redraw()
	}
}

// PointerMove advances the current gesture.
func (c *Controller) PointerMove(ev PointerEvent) {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	if c.mode == modePanning {
		if c.view.UpdatePan(ev.X, ev.Y) {
			c.redraw()
		}
		return
	}

	p := c.view.ScreenToCanvas(ev.X, ev.Y)
	switch c.mode {
	case modeDragging, modeResizing:
		if c.selected == nil {
			return
		}
		if !c.dragged {
			if math.Abs(p.X-c.down.X) <= DragThreshold && math.Abs(p.Y-c.down.Y) <= DragThreshold {
				return
			}
			c.dragged = true
		}
		if c.mode == modeDragging {
			transform.Move(c.selected, p.X, p.Y, c.grabX, c.grabY)
		} else {
			transform.Resize(c.selected, c.handle, p.X, p.Y, c.last.X, c.last.Y)
		}
		c.last = p
		c.redraw()
		if now := c.now(); c.lastSent.IsZero() || now.Sub(c.lastSent) > c.throttle {
			c.lastSent = now
			c.broadcastUpsert(c.selected, false)
		}
	case modeErasing:
		c.eraseAt(p)
	case modeDrawing:
		if c.tool == ToolPencil {
			c.path = append(c.path, p)
		}
		c.preview = c.build(p)
		c.redraw()
	}
}

// PointerUp finishes the current gesture.
func (c *Controller) PointerUp(ev PointerEvent) {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	m := c.mode
	c.mode = modeIdle
	switch m {
	case modePanning:
		c.view.EndPan()
	case modeDragging, modeResizing:
		if c.selected == nil || !c.dragged {
			// a plain click keeps the selection
			c.redraw()
			return
		}
		c.broadcastUpsert(c.selected, false)
		c.lastSent = time.Time{}
		c.deselect()
		c.redraw()
	case modeDrawing:
		s := c.build(c.view.ScreenToCanvas(ev.X, ev.Y))
		c.preview = nil
		c.path = nil
		if s == nil {
			c.redraw()
			return
		}
		s.SetShapeID(state.NewID())
		c.shapes.Add(s)
		c.broadcastUpsert(s, true)
		if c.tool != ToolPencil {
			c.autoSelect(s)
		}
		c.redraw()
	}
}

// build materialises the in-progress shape from the anchor and p.
func (c *Controller) build(p state.Point) state.Shape {
	a := c.anchor
	w, h := p.X-a.X, p.Y-a.Y
	seg := state.Segment{StartX: a.X, StartY: a.Y, EndX: p.X, EndY: p.Y}
	switch c.tool {
	case ToolRect:
		return &state.Rect{Frame: state.Frame{X: a.X, Y: a.Y, Width: w, Height: h}}
	case ToolDiamond:
		return &state.Diamond{Frame: state.Frame{X: a.X, Y: a.Y, Width: w, Height: h}}
	case ToolCircle:
		r := math.Max(w, h) / 2
		return &state.Circle{CenterX: a.X + r, CenterY: a.Y + r, Radius: math.Abs(r)}
	case ToolLine:
		return &state.Line{Segment: seg}
	case ToolArrow:
		return &state.Arrow{Segment: seg}
	case ToolPencil:
		if len(c.path) == 0 {
			return nil
		}
		return &state.Pencil{Points: append([]state.Point(nil), c.path...)}
	}
	return nil
}

// eraseAt deletes the topmost shape under p, if any.
func (c *Controller) eraseAt(p state.Point) {
	hit, ok := geom.HitTest(c.shapes.Shapes(), p, nil)
	if !ok {
		return
	}
	id := hit.Shape.ShapeID()
	c.shapes.Remove(id)
	if c.selected != nil && c.selected.ShapeID() == id {
		c.deselect()
	}
	c.broadcastDelete(id)
	c.redraw()
}

// SubmitText commits the pending text entry. Blank content cancels it.
func (c *Controller) SubmitText(content string) {
	c.lock()
	defer c.unlock()
	if c.closed || c.textAt == nil {
		return
	}
	at := *c.textAt
	c.textAt = nil
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	t := &state.Text{X: at.X, Y: at.Y, Content: content, FontSize: state.DefaultFontSize}
	t.SetShapeID(state.NewID())
	c.shapes.Add(t)
	c.broadcastUpsert(t, true)
	c.autoSelect(t)
	c.redraw()
}

// CancelText drops the pending text entry.
func (c *Controller) CancelText() {
	c.lock()
	defer c.unlock()
	c.textAt = nil
}

// KeyDown handles the delete and reset-view shortcuts.
func (c *Controller) KeyDown(k Key, mods Modifier) {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	switch {
	case k == KeyDelete || k == KeyBackspace:
		if c.selected == nil {
			return
		}
		id := c.selected.ShapeID()
		if _, ok := c.shapes.Remove(id); !ok {
			return
		}
		c.deselect()
		c.mode = modeIdle
		c.broadcastDelete(id)
		c.redraw()
	case k == Key0 && mods&(ModControl|ModSuper) != 0:
		c.view.Reset()
		c.redraw()
	case k == KeyEscape:
		c.textAt = nil
		c.deselect()
		c.mode = modeIdle
		c.redraw()
	}
}

// Wheel zooms one notch around the screen point.
func (c *Controller) Wheel(dy, sx, sy float64) {
	c.lock()
	defer c.unlock()
	c.view.Wheel(dy, sx, sy)
	c.redraw()
}

// SetZoom zooms around the centre of the viewport.
func (c *Controller) SetZoom(z float64) {
	c.lock()
	defer c.unlock()
	c.view.ZoomAt(z, c.viewW/2, c.viewH/2)
	c.redraw()
}

// ResetView restores zoom 1 and pan (0, 0).
func (c *Controller) ResetView() {
	c.lock()
	defer c.unlock()
	c.view.Reset()
	c.redraw()
}

// CenterOn pans so the canvas point lands mid-viewport.
func (c *Controller) CenterOn(cx, cy float64) {
	c.lock()
	defer c.unlock()
	c.view.CenterOn(cx, cy, c.viewW, c.viewH)
	c.redraw()
}

// SetViewport records the on-screen size of the canvas.
func (c *Controller) SetViewport(w, h float64) {
	c.lock()
	defer c.unlock()
	if c.viewW == w && c.viewH == h {
		return
	}
	c.viewW, c.viewH = w, h
	c.redraw()
}

// Redraw draws a fresh frame.
func (c *Controller) Redraw() {
	c.lock()
	defer c.unlock()
	c.redraw()
}

// ClearAll empties the board locally and for every other member.
func (c *Controller) ClearAll() {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	c.clear()
	if c.sync != nil {
		c.after(func() { _ = c.sync.SendClearAll() })
	}
	c.redraw()
}

func (c *Controller) clear() {
	c.shapes.Clear()
	c.deselect()
	if c.mode == modeDragging || c.mode == modeResizing || c.mode == modeErasing {
		c.mode = modeIdle
	}
}

func (c *Controller) remoteUpsert(s state.Shape) {
	if s == nil || state.New(s.Kind()) == nil {
		c.log.Warnw("dropping remote shape without a known type")
		return
	}
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	id := state.EnsureID(s)
	mine := c.selected != nil && c.selected.ShapeID() == id
	if mine && c.manipulating() {
		c.log.Debugw("suppressing echo for dragged shape", "id", id)
		return
	}
	c.shapes.Upsert(s)
	if mine {
		c.selected = s
	}
	c.redraw()
}

// manipulating reports whether the selected shape is under an active drag
// or resize that has crossed the threshold.
func (c *Controller) manipulating() bool {
	return (c.mode == modeDragging || c.mode == modeResizing) && c.dragged
}

func (c *Controller) remoteDelete(id string) {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	if _, ok := c.shapes.Remove(id); !ok {
		return
	}
	if c.selected != nil && c.selected.ShapeID() == id {
		c.deselect()
		if c.mode == modeDragging || c.mode == modeResizing {
			c.mode = modeIdle
		}
	}
	c.redraw()
}

func (c *Controller) remoteClearAll() {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	c.clear()
	c.redraw()
}

// Close unregisters the network handlers. Later events are ignored.
func (c *Controller) Close() {
	c.lock()
	defer c.unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.sync != nil {
		c.after(func() { c.sync.SetHandlers(bnet.Handlers{}) })
	}
}

// Len is the number of shapes on the board.
func (c *Controller) Len() int {
	c.lock()
	defer c.unlock()
	return c.shapes.Len()
}

// Shapes returns copies of the shapes in draw order.
func (c *Controller) Shapes() []state.Shape {
	c.lock()
	defer c.unlock()
	out := c.shapes.Shapes()
	for i, s := range out {
		out[i] = s.Clone()
	}
	return out
}

// Selected returns a copy of the selected shape, or nil.
func (c *Controller) Selected() state.Shape {
	c.lock()
	defer c.unlock()
	if c.selected == nil {
		return nil
	}
	return c.selected.Clone()
}

func (c *Controller) Tool() Tool {
	c.lock()
	defer c.unlock()
	return c.tool
}

// View returns the current zoom and pan.
func (c *Controller) View() (zoom, panX, panY float64) {
	c.lock()
	defer c.unlock()
	panX, panY = c.view.Pan()
	return c.view.Zoom(), panX, panY
}

// Frame returns a detached copy of the current frame, for shells that paint
// on their own schedule.
func (c *Controller) Frame() render.Frame {
	c.lock()
	defer c.unlock()
	f := c.frame()
	for i, s := range f.Shapes {
		f.Shapes[i] = s.Clone()
	}
	if f.Selected != nil {
		f.Selected = f.Selected.Clone()
	}
	if f.Preview != nil {
		f.Preview = f.Preview.Clone()
	}
	return f
}

// VisibleRect returns the canvas area currently inside the viewport.
func (c *Controller) VisibleRect() geom.Box {
	c.lock()
	defer c.unlock()
	tl := c.view.ScreenToCanvas(0, 0)
	br := c.view.ScreenToCanvas(c.viewW, c.viewH)
	return geom.Box{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// Extent returns the padded bounds of the content, for minimap layout.
func (c *Controller) Extent(pad float64) (geom.Box, bool) {
	c.lock()
	defer c.unlock()
	return geom.Extent(c.shapes.Shapes(), pad)
}
