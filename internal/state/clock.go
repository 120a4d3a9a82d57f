package state

import "github.com/segmentio/ksuid"

// NewID returns a shape id built from the current time and a random
// payload, so ids minted by different clients do not collide.
func NewID() string {
	return ksuid.New().String()
}

// EnsureID assigns a fresh id to s if it has none and returns the id.
func EnsureID(s Shape) string {
	if s.ShapeID() == "" {
		s.SetShapeID(NewID())
	}
	return s.ShapeID()
}
