package net

import (
	"encoding/json"
	"errors"
	"fmt"

	"SketchRoom/internal/state"
)

// Type names one wire event.
type Type string

const (
	TypeJoinRoom  Type = "join_room"
	TypeLeaveRoom Type = "leave_room"
	TypeChat      Type = "chat"
	TypeUpdate    Type = "update"
	TypeDelete    Type = "delete"
	TypeClearAll  Type = "clear_all"
	TypeError     Type = "error"
)

// ErrMalformed wraps every inbound decoding failure.
var ErrMalformed = errors.New("malformed envelope")

// Envelope is one JSON frame on the relay connection. For chat and update,
// Message holds a JSON string of {"shape": ...}; the double encoding is kept
// for interop with existing relays and clients.
type Envelope struct {
	Type    Type            `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Message string          `json:"message,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DeletePayload is the payload of a delete envelope.
type DeletePayload struct {
	ID string `json:"id"`
}

type shapeMessage struct {
	Shape json.RawMessage `json:"shape"`
}

// ShapeMessage encodes s as the inner {"shape": ...} document.
func ShapeMessage(s state.Shape) (string, error) {
	raw, err := state.Encode(s)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(shapeMessage{Shape: raw})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseShapeMessage decodes the inner {"shape": ...} document.
func ParseShapeMessage(msg string) (state.Shape, error) {
	if msg == "" {
		return nil, fmt.Errorf("%w: empty message", ErrMalformed)
	}
	var sm shapeMessage
	if err := json.Unmarshal([]byte(msg), &sm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(sm.Shape) == 0 || string(sm.Shape) == "null" {
		return nil, fmt.Errorf("%w: missing shape", ErrMalformed)
	}
	s, err := state.Decode(sm.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s, nil
}

func NewJoin(room string) Envelope { return Envelope{Type: TypeJoinRoom, RoomID: room} }
func NewLeave(room string) Envelope { return Envelope{Type: TypeLeaveRoom, RoomID: room} }
func NewClearAll(room string) Envelope { return Envelope{Type: TypeClearAll, RoomID: room} }

// NewUpsert wraps s in a chat envelope when isNew, else in an update.
func NewUpsert(room string, s state.Shape, isNew bool) (Envelope, error) {
	msg, err := ShapeMessage(s)
	if err != nil {
		return Envelope{}, err
	}
	t := TypeUpdate
	if isNew {
		t = TypeChat
	}
	return Envelope{Type: t, RoomID: room, Message: msg}, nil
}

func NewDelete(room, id string) (Envelope, error) {
	p, err := json.Marshal(DeletePayload{ID: id})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: TypeDelete, RoomID: room, Payload: p}, nil
}

// ParseEnvelope decodes one frame.
func ParseEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return e, nil
}

// Shape decodes the shape carried by a chat or update envelope.
func (e Envelope) Shape() (state.Shape, error) {
	return ParseShapeMessage(e.Message)
}

// DeleteID returns the target id of a delete envelope. The id is read from
// payload, or from a legacy message string of {"id": ...}.
func (e Envelope) DeleteID() (string, error) {
	var p DeletePayload
	switch {
	case len(e.Payload) > 0:
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case e.Message != "":
		if err := json.Unmarshal([]byte(e.Message), &p); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if p.ID == "" {
		return "", fmt.Errorf("%w: delete without id", ErrMalformed)
	}
	return p.ID, nil
}

func (e Envelope) Encode() ([]byte, error) { return json.Marshal(e) }
