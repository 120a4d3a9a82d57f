// Package transform mutates shapes in place for drag and resize gestures.
// Callers own redraw and broadcast.
package transform

import (
	"math"

	"SketchRoom/internal/geom"
	"SketchRoom/internal/state"
)

const (
	// MinExtent keeps rectangles and diamonds from collapsing or inverting.
	MinExtent = 6
	// MinRadius keeps a resized circle grabbable.
	MinRadius = 2
	// MinFontSize is the floor for text scaled through a resize handle.
	MinFontSize = 8
	// FontScale converts vertical pointer travel into font-size change.
	FontScale = 0.05
)

// Translate shifts every positional field of s by (dx, dy).
func Translate(s state.Shape, dx, dy float64) {
	switch v := s.(type) {
	case *state.Rect:
		v.X += dx
		v.Y += dy
	case *state.Diamond:
		v.X += dx
		v.Y += dy
	case *state.Circle:
		v.CenterX += dx
		v.CenterY += dy
	case *state.Line:
		shiftSegment(&v.Segment, dx, dy)
	case *state.Arrow:
		shiftSegment(&v.Segment, dx, dy)
	case *state.Pencil:
		for i := range v.Points {
			v.Points[i].X += dx
			v.Points[i].Y += dy
		}
	case *state.Text:
		v.X += dx
		v.Y += dy
	}
}

func shiftSegment(seg *state.Segment, dx, dy float64) {
	seg.StartX += dx
	seg.StartY += dy
	seg.EndX += dx
	seg.EndY += dy
}

// Move places the top-left of the bounding box of s at the pointer minus
// the grab offset recorded when the drag began.
func Move(s state.Shape, pointerX, pointerY, grabOffsetX, grabOffsetY float64) {
	b := geom.BoundingBox(s)
	dx := pointerX - grabOffsetX - b.X
	dy := pointerY - grabOffsetY - b.Y
	if dx == 0 && dy == 0 {
		return
	}
	Translate(s, dx, dy)
}

// Resize applies a handle drag. The meaning of handle depends on the kind:
// box handles for rectangles and diamonds, endpoint 0/1 for lines and
// arrows, a point index for pencils. Circles follow the pointer distance
// and text turns vertical travel since the last sample into font size.
func Resize(s state.Shape, handle int, pointerX, pointerY, lastX, lastY float64) {
	switch v := s.(type) {
	case *state.Rect:
		v.Frame = resizeFrame(v, handle, pointerX, pointerY)
	case *state.Diamond:
		v.Frame = resizeFrame(v, handle, pointerX, pointerY)
	case *state.Circle:
		v.Radius = math.Max(MinRadius, math.Hypot(pointerX-v.CenterX, pointerY-v.CenterY))
	case *state.Line:
		moveEndpoint(&v.Segment, handle, pointerX, pointerY)
	case *state.Arrow:
		moveEndpoint(&v.Segment, handle, pointerX, pointerY)
	case *state.Text:
		v.FontSize = math.Min(state.MaxFontSize, math.Max(MinFontSize, v.Size()+(pointerY-lastY)*FontScale))
	case *state.Pencil:
		if handle >= 0 && handle < len(v.Points) {
			v.Points[handle] = state.Point{X: pointerX, Y: pointerY}
		}
	}
}

func moveEndpoint(seg *state.Segment, handle int, x, y float64) {
	switch handle {
	case 0:
		seg.StartX, seg.StartY = x, y
	case 1:
		seg.EndX, seg.EndY = x, y
	}
}

// resizeFrame moves the edges selected by handle to the pointer. Edges that
// do not move stay pinned when the clamp kicks in.
func resizeFrame(s state.Shape, handle int, x, y float64) state.Frame {
	b := geom.BoundingBox(s)
	left, top, right, bottom := b.X, b.Y, b.MaxX(), b.MaxY()

	var moveLeft, moveTop, moveRight, moveBottom bool
	switch handle {
	case geom.HandleTopLeft:
		moveLeft, moveTop = true, true
	case geom.HandleTopRight:
		moveRight, moveTop = true, true
	case geom.HandleBottomRight:
		moveRight, moveBottom = true, true
	case geom.HandleBottomLeft:
		moveLeft, moveBottom = true, true
	case geom.HandleTop:
		moveTop = true
	case geom.HandleRight:
		moveRight = true
	case geom.HandleBottom:
		moveBottom = true
	case geom.HandleLeft:
		moveLeft = true
	}

	if moveLeft {
		left = math.Min(x, right-MinExtent)
	}
	if moveRight {
		right = math.Max(x, left+MinExtent)
	}
	if moveTop {
		top = math.Min(y, bottom-MinExtent)
	}
	if moveBottom {
		bottom = math.Max(y, top+MinExtent)
	}
	return state.Frame{
		X:      left,
		Y:      top,
		Width:  math.Max(MinExtent, right-left),
		Height: math.Max(MinExtent, bottom-top),
	}
}
