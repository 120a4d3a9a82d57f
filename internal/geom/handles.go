package geom

import "SketchRoom/internal/state"

// Handle indices. Corners run clockwise from the top-left, then the edge
// midpoints clockwise from the top. Resize interprets indices by position.
const (
	HandleTopLeft = iota
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
	HandleTop
	HandleRight
	HandleBottom
	HandleLeft

	HandleCount
)

// NoHandle marks a hit on a shape body rather than a handle.
const NoHandle = -1

// Handles returns the eight resize handles around the bounding box of s.
func Handles(s state.Shape) [HandleCount]state.Point {
	b := BoundingBox(s)
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	return [HandleCount]state.Point{
		{X: b.X, Y: b.Y},
		{X: b.MaxX(), Y: b.Y},
		{X: b.MaxX(), Y: b.MaxY()},
		{X: b.X, Y: b.MaxY()},
		{X: cx, Y: b.Y},
		{X: b.MaxX(), Y: cy},
		{X: cx, Y: b.MaxY()},
		{X: b.X, Y: cy},
	}
}

// GrabPoints returns the points that start a resize when s is selected,
// indexed the way transform.Resize expects: start and end for lines and
// arrows, each stroke point for pencils, the box handles otherwise.
func GrabPoints(s state.Shape) []state.Point {
	switch v := s.(type) {
	case *state.Line:
		return endpoints(v.Segment)
	case *state.Arrow:
		return endpoints(v.Segment)
	case *state.Pencil:
		return append([]state.Point(nil), v.Points...)
	}
	h := Handles(s)
	return h[:]
}

func endpoints(seg state.Segment) []state.Point {
	return []state.Point{{X: seg.StartX, Y: seg.StartY}, {X: seg.EndX, Y: seg.EndY}}
}
