package ui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchRoom/internal/board"
	"SketchRoom/internal/export"
	"SketchRoom/internal/logging"
)

// ZoomStep is the relative change applied by the zoom buttons.
const ZoomStep = 1.25

// toolPicker is a radio group over board.Tools. show mirrors switches the
// controller makes on its own without echoing them back.
type toolPicker struct {
	radio   *widget.RadioGroup
	syncing bool
}

func newToolPicker(onPick func(board.Tool)) *toolPicker {
	p := &toolPicker{}
	names := make([]string, len(board.Tools))
	for i, t := range board.Tools {
		names[i] = string(t)
	}
	p.radio = widget.NewRadioGroup(names, func(s string) {
		if p.syncing || s == "" {
			return
		}
		onPick(board.Tool(s))
	})
	p.radio.Horizontal = true
	p.radio.Required = true
	p.show(board.ToolSelect)
	return p
}

func (p *toolPicker) show(t board.Tool) {
	p.syncing = true
	p.radio.SetSelected(string(t))
	p.syncing = false
}

// exportTo writes the board to the chosen file. An unnamed file gets PDF.
func exportTo(ctrl *board.Controller, writer fyne.URIWriteCloser) error {
	defer func() {
		if err := writer.Close(); err != nil {
			logging.Log.Warnw("closing export", "uri", writer.URI().String(), "error", err)
		}
	}()
	name := writer.URI().Name()
	if filepath.Ext(name) == "" {
		name += ".pdf"
	}
	return export.Write(writer, name, ctrl.Shapes())
}

// NewToolbar builds the tool picker and the board actions. The returned
// picker is driven by the controller's OnToolChange.
func NewToolbar(win fyne.Window, ctrl *board.Controller, shareLink string) (fyne.CanvasObject, *toolPicker) {
	picker := newToolPicker(ctrl.SetTool)

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), func() {
			z, _, _ := ctrl.View()
			ctrl.SetZoom(z * ZoomStep)
		}),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() {
			z, _, _ := ctrl.View()
			ctrl.SetZoom(z / ZoomStep)
		}),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), ctrl.ResetView),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, win)
					return
				}
				if w == nil {
					return
				}
				if err := exportTo(ctrl, w); err != nil {
					logging.Log.Errorw("export failed", "error", err)
					dialog.ShowError(err, win)
				}
			}, win)
			save.SetFileName("board.pdf")
			save.Show()
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			dialog.ShowConfirm("Clear board", "Remove every shape for everyone in the room?", func(ok bool) {
				if ok {
					ctrl.ClearAll()
				}
			}, win)
		}),
	)

	items := []fyne.CanvasObject{
		widget.NewLabel("Tool:"),
		picker.radio,
		widget.NewSeparator(),
		actions,
		layout.NewSpacer(),
	}
	if shareLink != "" {
		copyLink := widget.NewButtonWithIcon("Copy link", theme.ContentCopyIcon(), func() {
			win.Clipboard().SetContent(shareLink)
		})
		items = append(items, widget.NewLabel(shareLink), copyLink)
	}
	return container.NewHBox(items...), picker
}
