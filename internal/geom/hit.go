package geom

import (
	"math"

	"SketchRoom/internal/state"
)

const (
	// HandleTolerance is the grab radius around a handle, in logical units.
	HandleTolerance = 8
	// SegmentTolerance is the grab radius around a stroke segment.
	SegmentTolerance = 6
)

// Hit is the result of a successful hit test. Handle is NoHandle for a hit
// on the shape body.
type Hit struct {
	Shape  state.Shape
	Handle int
}

// Near reports whether a and b are within tol of each other on both axes.
func Near(a, b state.Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// ClosestPoint returns the point on segment ab nearest to p.
func ClosestPoint(p, a, b state.Point) state.Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / len2
	t = math.Max(0, math.Min(1, t))
	return state.Point{X: a.X + t*dx, Y: a.Y + t*dy}
}

// DistToSegment is the Euclidean distance from p to segment ab.
func DistToSegment(p, a, b state.Point) float64 {
	c := ClosestPoint(p, a, b)
	return math.Hypot(p.X-c.X, p.Y-c.Y)
}

// NearSegment reports whether p is within tol of segment ab.
func NearSegment(p, a, b state.Point, tol float64) bool {
	return Near(p, ClosestPoint(p, a, b), tol)
}

// Contains reports whether p falls on the body of s.
func Contains(s state.Shape, p state.Point) bool {
	switch v := s.(type) {
	case *state.Rect, *state.Diamond, *state.Text:
		return BoundingBox(v).Contains(p)
	case *state.Circle:
		dx := p.X - v.CenterX
		dy := p.Y - v.CenterY
		return dx*dx+dy*dy <= v.Radius*v.Radius
	case *state.Line:
		return nearSeg(p, v.Segment)
	case *state.Arrow:
		return nearSeg(p, v.Segment)
	case *state.Pencil:
		if len(v.Points) == 1 {
			return Near(p, v.Points[0], SegmentTolerance)
		}
		for i := 0; i+1 < len(v.Points); i++ {
			if NearSegment(p, v.Points[i], v.Points[i+1], SegmentTolerance) {
				return true
			}
		}
	}
	return false
}

func nearSeg(p state.Point, seg state.Segment) bool {
	return NearSegment(p, state.Point{X: seg.StartX, Y: seg.StartY}, state.Point{X: seg.EndX, Y: seg.EndY}, SegmentTolerance)
}

// HitTest finds what lies under p. Grab points of the selected shape win
// over everything else; otherwise shapes are scanned topmost first.
func HitTest(shapes []state.Shape, p state.Point, selected state.Shape) (Hit, bool) {
	if selected != nil {
		for i, h := range GrabPoints(selected) {
			if Near(p, h, HandleTolerance) {
				return Hit{Shape: selected, Handle: i}, true
			}
		}
	}
	for i := len(shapes) - 1; i >= 0; i-- {
		if Contains(shapes[i], p) {
			return Hit{Shape: shapes[i], Handle: NoHandle}, true
		}
	}
	return Hit{Handle: NoHandle}, false
}
