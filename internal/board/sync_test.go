package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bnet "SketchRoom/internal/net"
	"SketchRoom/internal/state"
)

// connectedPair returns two controllers in the same room whose channels
// talk to each other directly.
func connectedPair(t *testing.T) (*Controller, *Controller) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	a, b := pipe()
	chA := bnet.NewChannel(a, "room", nil)
	chB := bnet.NewChannel(b, "room", nil)
	go func() { _ = chA.Listen(ctx) }()
	go func() { _ = chB.Listen(ctx) }()

	ctrlA := New(ctx, Options{Room: "room", Sync: chA})
	ctrlB := New(ctx, Options{Room: "room", Sync: chB})
	t.Cleanup(ctrlA.Close)
	t.Cleanup(ctrlB.Close)
	return ctrlA, ctrlB
}

func eventuallyLen(t *testing.T, c *Controller, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.Shapes()) == n }, time.Second, 5*time.Millisecond)
}

func TestCreateThenDeletePropagates(t *testing.T) {
	a, b := connectedPair(t)

	a.SetTool(ToolRect)
	drag(a, state.Point{X: 10, Y: 10}, state.Point{X: 110, Y: 60})
	eventuallyLen(t, b, 1)

	got := b.Shapes()[0].(*state.Rect)
	want := a.Shapes()[0].(*state.Rect)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, state.Frame{X: 10, Y: 10, Width: 100, Height: 50}, got.Frame)

	// the new rect is still selected on a
	a.KeyDown(KeyDelete, 0)
	assert.Empty(t, a.Shapes())
	eventuallyLen(t, b, 0)
}

func TestDragPropagatesFinalPosition(t *testing.T) {
	a, b := connectedPair(t)

	a.SetTool(ToolCircle)
	drag(a, state.Point{X: 0, Y: 0}, state.Point{X: 20, Y: 20})
	eventuallyLen(t, b, 1)

	a.SetTool(ToolSelect)
	a.PointerDown(at(10, 10))
	a.PointerMove(at(30, 10))
	a.PointerMove(at(50, 10))
	a.PointerUp(at(50, 10))

	require.Eventually(t, func() bool {
		c := b.Shapes()[0].(*state.Circle)
		return c.CenterX == 50 && c.CenterY == 10
	}, time.Second, 5*time.Millisecond)
}

func TestClearAllConverges(t *testing.T) {
	a, b := connectedPair(t)

	a.SetTool(ToolLine)
	drag(a, state.Point{}, state.Point{X: 10, Y: 10})
	b.SetTool(ToolPencil)
	drag(b, state.Point{X: 50, Y: 50}, state.Point{X: 60, Y: 60})
	eventuallyLen(t, a, 2)
	eventuallyLen(t, b, 2)

	b.ClearAll()
	assert.Empty(t, b.Shapes())
	eventuallyLen(t, a, 0)
}
