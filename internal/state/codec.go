package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingKind is returned when a shape document has no "type" field.
	ErrMissingKind = errors.New("shape has no type")
	// ErrUnknownKind is returned for a "type" outside the known variants.
	ErrUnknownKind = errors.New("unknown shape type")
)

// Encode serialises a shape including its "type" discriminator.
func Encode(s Shape) ([]byte, error) {
	if s == nil {
		return nil, ErrMissingKind
	}
	return json.Marshal(s)
}

// Decode parses a single shape document.
func Decode(data []byte) (Shape, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}
	if head.Type == "" {
		return nil, ErrMissingKind
	}
	s := New(head.Type)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Type)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return s, nil
}

func (r *Rect) MarshalJSON() ([]byte, error) {
	type plain Rect
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindRect, (*plain)(r)})
}

func (d *Diamond) MarshalJSON() ([]byte, error) {
	type plain Diamond
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindDiamond, (*plain)(d)})
}

func (c *Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindCircle, (*plain)(c)})
}

func (l *Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindLine, (*plain)(l)})
}

func (a *Arrow) MarshalJSON() ([]byte, error) {
	type plain Arrow
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindArrow, (*plain)(a)})
}

func (p *Pencil) MarshalJSON() ([]byte, error) {
	type plain Pencil
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindPencil, (*plain)(p)})
}

func (t *Text) MarshalJSON() ([]byte, error) {
	type plain Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindText, (*plain)(t)})
}
