package geom

import "SketchRoom/internal/state"

// Extent returns the union of the bounding boxes of all non-empty shapes,
// padded by pad on every side. ok is false when there is nothing to bound.
func Extent(shapes []state.Shape, pad float64) (Box, bool) {
	var (
		out Box
		ok  bool
	)
	for _, s := range shapes {
		if Empty(s) {
			continue
		}
		b := BoundingBox(s)
		if !ok {
			out, ok = b, true
			continue
		}
		out = out.Union(b)
	}
	if !ok {
		return Box{}, false
	}
	return Box{X: out.X - pad, Y: out.Y - pad, Width: out.Width + 2*pad, Height: out.Height + 2*pad}, true
}
