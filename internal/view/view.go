// Package view keeps the zoom and pan of a board and converts between
// screen and canvas coordinates: canvas = (screen - pan) / zoom.
package view

import (
	"math"

	"SketchRoom/internal/state"
)

const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 5.0
	// WheelStep is the relative zoom change per wheel notch.
	WheelStep = 0.1
)

// Transform is the 2D scale+translate applied to the canvas. The zero value
// is not usable; use New.
type Transform struct {
	zoom       float64
	panX, panY float64
	minZoom    float64
	maxZoom    float64

	panning          bool
	anchorX, anchorY float64
}

// New returns an identity transform with zoom clamped to [minZoom, maxZoom].
// Non-positive or inverted bounds fall back to the defaults.
func New(minZoom, maxZoom float64) *Transform {
	if minZoom <= 0 || maxZoom < minZoom {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	return &Transform{zoom: 1, minZoom: minZoom, maxZoom: maxZoom}
}

func (t *Transform) Zoom() float64 { return t.zoom }
func (t *Transform) Pan() (x, y float64) { return t.panX, t.panY }
func (t *Transform) Bounds() (minZoom, maxZoom float64) { return t.minZoom, t.maxZoom }
func (t *Transform) Panning() bool { return t.panning }

// ScreenToCanvas maps a device point into logical canvas coordinates.
func (t *Transform) ScreenToCanvas(x, y float64) state.Point {
	return state.Point{X: (x - t.panX) / t.zoom, Y: (y - t.panY) / t.zoom}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (t *Transform) CanvasToScreen(x, y float64) state.Point {
	return state.Point{X: x*t.zoom + t.panX, Y: y*t.zoom + t.panY}
}

func (t *Transform) clamp(z float64) float64 {
	if math.IsNaN(z) {
		return t.zoom
	}
	return math.Max(t.minZoom, math.Min(t.maxZoom, z))
}

// SetZoom changes the zoom without moving the pan.
func (t *Transform) SetZoom(z float64) {
	t.zoom = t.clamp(z)
}

// ZoomAt changes the zoom so that the canvas point under the screen point
// (sx, sy) stays under it.
func (t *Transform) ZoomAt(z, sx, sy float64) {
	anchor := t.ScreenToCanvas(sx, sy)
	t.zoom = t.clamp(z)
	t.panX = sx - anchor.X*t.zoom
	t.panY = sy - anchor.Y*t.zoom
}

// Wheel zooms one notch in (dy < 0) or out (dy > 0) around the cursor.
func (t *Transform) Wheel(dy, sx, sy float64) {
	switch {
	case dy > 0:
		t.ZoomAt(t.zoom*(1-WheelStep), sx, sy)
	case dy < 0:
		t.ZoomAt(t.zoom*(1+WheelStep), sx, sy)
	}
}

// SetPan moves the canvas origin to the given screen offset.
func (t *Transform) SetPan(x, y float64) {
	t.panX, t.panY = x, y
}

// StartPan begins a pan gesture anchored at the screen point.
func (t *Transform) StartPan(sx, sy float64) {
	t.panning = true
	t.anchorX = sx - t.panX
	t.anchorY = sy - t.panY
}

// UpdatePan follows the pointer while a pan gesture is active. It reports
// whether the pan changed.
func (t *Transform) UpdatePan(sx, sy float64) bool {
	if !t.panning {
		return false
	}
	t.panX = sx - t.anchorX
	t.panY = sy - t.anchorY
	return true
}

// EndPan finishes the pan gesture. It reports whether one was active.
func (t *Transform) EndPan() bool {
	was := t.panning
	t.panning = false
	return was
}

// Reset restores zoom 1 and pan (0, 0).
func (t *Transform) Reset() {
	t.zoom = 1
	t.panX, t.panY = 0, 0
	t.panning = false
}

// CenterOn pans so that the canvas point (cx, cy) lands in the middle of a
// viewport of the given screen size. Used by minimap navigation.
func (t *Transform) CenterOn(cx, cy, viewportW, viewportH float64) {
	t.panX = viewportW/2 - cx*t.zoom
	t.panY = viewportH/2 - cy*t.zoom
}
