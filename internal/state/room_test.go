package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomAssignsMissingIDs(t *testing.T) {
	r := NewRoom([]Shape{&Rect{}, nil, &Circle{Base: Base{ID: "keep"}}})
	require.Equal(t, 2, r.Len())
	shapes := r.Shapes()
	assert.NotEmpty(t, shapes[0].ShapeID())
	assert.Equal(t, "keep", shapes[1].ShapeID())
}

func TestUpsertReplacesByID(t *testing.T) {
	r := NewRoom(nil)
	r.Add(&Rect{Base: Base{ID: "a"}, Frame: Frame{X: 1}})
	r.Add(&Rect{Base: Base{ID: "b"}})

	replaced := r.Upsert(&Rect{Base: Base{ID: "a"}, Frame: Frame{X: 42}})
	assert.True(t, replaced)
	require.Equal(t, 2, r.Len())
	got, idx := r.Find("a")
	assert.Equal(t, 0, idx, "replacement keeps z-order")
	assert.Equal(t, 42.0, got.(*Rect).X)

	assert.False(t, r.Upsert(&Line{Base: Base{ID: "c"}}))
	assert.Equal(t, 3, r.Len())
}

func TestRemoveAndClear(t *testing.T) {
	r := NewRoom([]Shape{&Rect{Base: Base{ID: "a"}}, &Rect{Base: Base{ID: "b"}}})

	_, ok := r.Remove("missing")
	assert.False(t, ok)

	s, ok := r.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.ShapeID())
	assert.Equal(t, 1, r.Len())

	r.Clear()
	assert.Zero(t, r.Len())
}

func TestShapesReturnsCopy(t *testing.T) {
	r := NewRoom([]Shape{&Rect{Base: Base{ID: "a"}}})
	shapes := r.Shapes()
	shapes[0] = nil
	s, _ := r.Find("a")
	assert.NotNil(t, s)
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
