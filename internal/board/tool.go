package board

// Tool gates which pointer transitions are legal.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolPencil  Tool = "pencil"
	ToolEraser  Tool = "eraser"
	ToolRect    Tool = "rect"
	ToolCircle  Tool = "circle"
	ToolLine    Tool = "line"
	ToolArrow   Tool = "arrow"
	ToolDiamond Tool = "diamond"
	ToolText    Tool = "text"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolPencil, ToolEraser, ToolRect, ToolCircle, ToolLine, ToolArrow, ToolDiamond, ToolText}

func (t Tool) Valid() bool {
	for _, k := range Tools {
		if k == t {
			return true
		}
	}
	return false
}

// draws reports whether the tool builds a shape from a drag.
func (t Tool) draws() bool {
	switch t {
	case ToolPencil, ToolRect, ToolCircle, ToolLine, ToolArrow, ToolDiamond:
		return true
	}
	return false
}

// Button is the pointer button of an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// Modifier is a bit set of held keys.
type Modifier uint

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// PointerEvent carries a pointer position in screen coordinates.
type PointerEvent struct {
	X, Y   float64
	Button Button
	Mods   Modifier
}

// panGesture reports whether the event starts a pan instead of an edit.
func (e PointerEvent) panGesture() bool {
	return e.Button != ButtonPrimary || e.Mods&ModShift != 0
}

// Key names the keys the controller reacts to.
type Key string

const (
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "BackSpace"
	KeyEscape    Key = "Escape"
	Key0         Key = "0"
)
