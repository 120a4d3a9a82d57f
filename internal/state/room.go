package state

// Room is the authoritative, arrival-ordered shape list for one canvas.
// Later entries draw on top. It is not safe for concurrent use; the owning
// controller serialises access.
type Room struct {
	shapes []Shape
}

// NewRoom seeds a room, assigning ids to entries that lack one.
func NewRoom(seed []Shape) *Room {
	r := &Room{shapes: make([]Shape, 0, len(seed))}
	for _, s := range seed {
		if s == nil {
			continue
		}
		EnsureID(s)
		r.shapes = append(r.shapes, s)
	}
	return r
}

// Shapes returns the shapes in draw order. The slice is a copy; the shapes
// themselves are shared.
func (r *Room) Shapes() []Shape {
	out := make([]Shape, len(r.shapes))
	copy(out, r.shapes)
	return out
}

func (r *Room) Len() int { return len(r.shapes) }

// Add appends s on top of the stack.
func (r *Room) Add(s Shape) {
	EnsureID(s)
	r.shapes = append(r.shapes, s)
}

// Find returns the shape with the given id and its index, or (nil, -1).
func (r *Room) Find(id string) (Shape, int) {
	for i, s := range r.shapes {
		if s.ShapeID() == id {
			return s, i
		}
	}
	return nil, -1
}

// Upsert replaces the shape with the same id in place, or appends it.
// It reports whether an existing entry was replaced.
func (r *Room) Upsert(s Shape) bool {
	EnsureID(s)
	if _, i := r.Find(s.ShapeID()); i >= 0 {
		r.shapes[i] = s
		return true
	}
	r.shapes = append(r.shapes, s)
	return false
}

// Remove deletes the shape with the given id.
func (r *Room) Remove(id string) (Shape, bool) {
	s, i := r.Find(id)
	if i < 0 {
		return nil, false
	}
	r.shapes = append(r.shapes[:i], r.shapes[i+1:]...)
	return s, true
}

// Clear empties the room.
func (r *Room) Clear() {
	r.shapes = nil
}
