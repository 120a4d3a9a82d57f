package state

// Point is a logical canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Kind discriminates the shape variants on the wire and in type switches.
type Kind string

const (
	KindRect    Kind = "rect"
	KindDiamond Kind = "diamond"
	KindCircle  Kind = "circle"
	KindLine    Kind = "line"
	KindArrow   Kind = "arrow"
	KindPencil  Kind = "pencil"
	KindText    Kind = "text"
)

// DefaultFontSize is used for text shapes that carry no explicit size.
const DefaultFontSize = 16

// MaxFontSize bounds text size. Larger text is treated as corrupt.
const MaxFontSize = 400

// Shape is one drawing primitive. The set of implementations is closed:
// *Rect, *Diamond, *Circle, *Line, *Arrow, *Pencil and *Text.
type Shape interface {
	Kind() Kind
	ShapeID() string
	SetShapeID(id string)
	Clone() Shape
	shape()
}

// Base carries the identity shared by every shape.
type Base struct {
	ID string `json:"id,omitempty"`
}

func (b *Base) ShapeID() string { return b.ID }
func (b *Base) SetShapeID(id string) { b.ID = id }
func (b *Base) shape() {}

// Frame is a corner plus a signed extent. Width and height keep the sign of
// the drag that created them.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Segment is a directed pair of endpoints.
type Segment struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

type Rect struct {
	Base
	Frame
}

type Diamond struct {
	Base
	Frame
}

type Circle struct {
	Base
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

type Line struct {
	Base
	Segment
}

// Arrow is a line whose head is derived from the segment angle at draw time.
type Arrow struct {
	Base
	Segment
}

// Pencil is a freehand stroke; Points are kept in stroke order.
type Pencil struct {
	Base
	Points []Point `json:"points"`
}

// Text is anchored at its baseline origin (X, Y).
type Text struct {
	Base
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize,omitempty"`
}

func (*Rect) Kind() Kind { return KindRect }
func (*Diamond) Kind() Kind { return KindDiamond }
func (*Circle) Kind() Kind { return KindCircle }
func (*Line) Kind() Kind { return KindLine }
func (*Arrow) Kind() Kind { return KindArrow }
func (*Pencil) Kind() Kind { return KindPencil }
func (*Text) Kind() Kind { return KindText }

func (r *Rect) Clone() Shape { c := *r; return &c }
func (d *Diamond) Clone() Shape { c := *d; return &c }
func (c *Circle) Clone() Shape { cp := *c; return &cp }
func (l *Line) Clone() Shape { c := *l; return &c }
func (a *Arrow) Clone() Shape { c := *a; return &c }
func (t *Text) Clone() Shape { c := *t; return &c }

func (p *Pencil) Clone() Shape {
	c := *p
	c.Points = append([]Point(nil), p.Points...)
	return &c
}

// Size returns the font size, falling back to DefaultFontSize.
func (t *Text) Size() float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return DefaultFontSize
}

// New returns an empty shape of the given kind, or nil if the kind is unknown.
func New(k Kind) Shape {
	switch k {
	case KindRect:
		return &Rect{}
	case KindDiamond:
		return &Diamond{}
	case KindCircle:
		return &Circle{}
	case KindLine:
		return &Line{}
	case KindArrow:
		return &Arrow{}
	case KindPencil:
		return &Pencil{}
	case KindText:
		return &Text{}
	}
	return nil
}
