package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchRoom/internal/board"
	"SketchRoom/internal/logging"
	bnet "SketchRoom/internal/net"
	"SketchRoom/internal/render"
	"SketchRoom/internal/state"
)

// TextEntryWidth is the initial width of the text overlay.
const TextEntryWidth = 220

// Session is what the desktop shell needs to open a room. A nil Channel
// runs the board offline.
type Session struct {
	Room             string
	ShareLink        string
	Channel          *bnet.Channel
	History          board.HistorySource
	MinZoom, MaxZoom float64
	Throttle         time.Duration
}

// textEntry is the overlay used by the text tool. Enter submits and Escape
// cancels.
type textEntry struct {
	widget.Entry
	onCancel func()
}

func newTextEntry() *textEntry {
	e := &textEntry{}
	e.ExtendBaseWidget(e)
	e.SetPlaceHolder("Type and press Enter")
	return e
}

func (e *textEntry) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape && e.onCancel != nil {
		e.onCancel()
		return
	}
	e.Entry.TypedKey(k)
}

// textOverlay owns at most one open text entry above the board.
type textOverlay struct {
	layer *fyne.Container
	open  *textEntry
}

func (o *textOverlay) close() {
	if o.open != nil {
		o.layer.Remove(o.open)
		o.open = nil
	}
}

func (o *textOverlay) show(win fyne.Window, ctrl *board.Controller, at state.Point) {
	o.close()
	e := newTextEntry()
	e.OnSubmitted = func(s string) {
		o.close()
		ctrl.SubmitText(s)
	}
	e.onCancel = func() {
		o.close()
		ctrl.CancelText()
	}
	e.Resize(fyne.NewSize(TextEntryWidth, e.MinSize().Height))
	e.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	o.open = e
	o.layer.Add(e)
	win.Canvas().Focus(e)
}

func statusText(room string, online bool, shapes int) string {
	conn := "offline"
	if online {
		conn = "connected"
	}
	return fmt.Sprintf("Room %s · %s · %d shapes", room, conn, shapes)
}

// Run opens the board window and blocks until it is closed.
func Run(ctx context.Context, s Session) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.NewWithID("io.sketchroom.desktop")
	win := a.NewWindow("SketchRoom · " + s.Room)
	win.Resize(fyne.NewSize(1024, 768))

	boardWidget := NewBoardWidget(render.DarkPalette)
	overlay := &textOverlay{layer: container.NewWithoutLayout()}

	var (
		ctrl   *board.Controller
		picker *toolPicker
		mini   *minimap
		syncer board.Sync
	)
	if s.Channel != nil {
		syncer = s.Channel
	}
	online := func() bool { return s.Channel != nil && s.Channel.Ready() }

	ctrl = board.New(ctx, board.Options{
		Room:    s.Room,
		Sync:    syncer,
		History: s.History,
		OnFrame: func() {
			fyne.Do(func() {
				if ctrl == nil {
					return
				}
				boardWidget.Refresh()
				if mini != nil {
					mini.Refresh()
				}
				boardWidget.statusBar.SetText(statusText(s.Room, online(), ctrl.Len()))
			})
		},
		OnToolChange: func(t board.Tool) {
			fyne.Do(func() {
				if picker != nil {
					picker.show(t)
				}
			})
		},
		OnTextEntry: func(_, screen state.Point) {
			fyne.Do(func() {
				if ctrl != nil {
					overlay.show(win, ctrl, screen)
				}
			})
		},
		MinZoom:  s.MinZoom,
		MaxZoom:  s.MaxZoom,
		Throttle: s.Throttle,
		Log:      logging.Log,
	})
	boardWidget.Attach(ctrl)
	mini = newMinimap(ctrl, render.DarkPalette)

	var toolbar fyne.CanvasObject
	toolbar, picker = NewToolbar(win, ctrl, s.ShareLink)

	// Ctrl+0 (Cmd+0 on macOS) resets the view even when the board lacks focus.
	win.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.Key0,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) { ctrl.ResetView() })

	if s.Channel != nil {
		go func() {
			err := s.Channel.Listen(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Log.Warnw("sync channel closed", "room", s.Room, "error", err)
			}
			boardWidget.SetStatus(statusText(s.Room, false, ctrl.Len()))
		}()
	}

	win.SetOnClosed(func() {
		ctrl.Close()
		if s.Channel != nil {
			if err := s.Channel.Close(); err != nil {
				logging.Log.Debugw("closing sync channel", "error", err)
			}
		}
		cancel()
	})

	side := container.NewVBox(widget.NewLabel("Overview"), mini)
	content := container.NewBorder(
		toolbar,
		boardWidget.StatusBar(),
		nil,
		side,
		container.NewStack(boardWidget, overlay.layer),
	)
	win.SetContent(content)
	ctrl.Redraw()
	win.Canvas().Focus(boardWidget)
	win.ShowAndRun()
}
