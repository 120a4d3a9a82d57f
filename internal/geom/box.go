// Package geom holds the pure geometry over shapes: bounding boxes, resize
// handles and hit-testing. Nothing here mutates a shape.
package geom

import (
	"math"
	"unicode/utf8"

	"SketchRoom/internal/state"
)

// textWidthFactor approximates the advance of one glyph as a fraction of
// the font size; glyph metrics are not measured.
const textWidthFactor = 0.6

// Box is an axis-aligned rectangle with non-negative extent.
type Box struct {
	X, Y, Width, Height float64
}

func (b Box) MaxX() float64 { return b.X + b.Width }
func (b Box) MaxY() float64 { return b.Y + b.Height }

// Contains reports whether p lies inside b, edges included.
func (b Box) Contains(p state.Point) bool {
	return p.X >= b.X && p.X <= b.MaxX() && p.Y >= b.Y && p.Y <= b.MaxY()
}

// Union returns the smallest box covering both b and o.
func (b Box) Union(o Box) Box {
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.MaxX(), o.MaxX())
	maxY := math.Max(b.MaxY(), o.MaxY())
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// normalize folds a signed extent into a box anchored at its minimum corner.
func normalize(x, y, w, h float64) Box {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return Box{X: x, Y: y, Width: w, Height: h}
}

// BoundingBox returns the axis-aligned bounds of s. A pencil stroke with no
// points yields the zero box; callers that care check Empty first.
func BoundingBox(s state.Shape) Box {
	switch v := s.(type) {
	case *state.Rect:
		return normalize(v.X, v.Y, v.Width, v.Height)
	case *state.Diamond:
		return normalize(v.X, v.Y, v.Width, v.Height)
	case *state.Circle:
		r := math.Abs(v.Radius)
		return Box{X: v.CenterX - r, Y: v.CenterY - r, Width: 2 * r, Height: 2 * r}
	case *state.Line:
		return segmentBox(v.Segment)
	case *state.Arrow:
		return segmentBox(v.Segment)
	case *state.Pencil:
		return pointsBox(v.Points)
	case *state.Text:
		size := v.Size()
		n := utf8.RuneCountInString(v.Content)
		if n == 0 {
			n = 1
		}
		return Box{X: v.X, Y: v.Y - size, Width: float64(n) * size * textWidthFactor, Height: size}
	}
	return Box{}
}

// Empty reports whether s has no geometry to bound.
func Empty(s state.Shape) bool {
	if p, ok := s.(*state.Pencil); ok {
		return len(p.Points) == 0
	}
	return s == nil
}

func segmentBox(seg state.Segment) Box {
	return normalize(seg.StartX, seg.StartY, seg.EndX-seg.StartX, seg.EndY-seg.StartY)
}

func pointsBox(pts []state.Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
