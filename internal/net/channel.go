package net

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"SketchRoom/internal/logging"
	"SketchRoom/internal/state"
)

// ErrNotReady is returned by sends while the connection is absent or closed.
// Callers treat it as a dropped message.
var ErrNotReady = errors.New("channel not ready")

// Conn is the duplex message connection a Channel wraps. *websocket.Conn
// satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Handlers receive decoded inbound events. Nil fields are ignored.
type Handlers struct {
	OnUpsert   func(s state.Shape)
	OnDelete   func(id string)
	OnClearAll func()
}

// Channel serialises local edits onto a room connection and routes inbound
// envelopes to Handlers. Sends are best effort: nothing is queued or retried.
type Channel struct {
	room string
	log  *zap.SugaredLogger

	mu       sync.Mutex
	conn     Conn
	ready    bool
	handlers Handlers
}

// NewChannel wraps conn for room. A nil conn yields a channel that drops
// every send.
func NewChannel(conn Conn, room string, log *zap.SugaredLogger) *Channel {
	if log == nil {
		log = logging.Log
	}
	return &Channel{
		room:  room,
		log:   log.Named("sync"),
		conn:  conn,
		ready: conn != nil,
	}
}

func (c *Channel) Room() string { return c.room }

// Ready reports whether sends currently reach the connection.
func (c *Channel) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// SetHandlers replaces the inbound callbacks. The zero value unregisters.
func (c *Channel) SetHandlers(h Handlers) {
	c.mu.Lock()
	c.handlers = h
	c.mu.Unlock()
}

// Join declares membership of the channel's room.
func (c *Channel) Join() error { return c.send(NewJoin(c.room)) }

// SendUpsert broadcasts s as a creation when isNew, else as an update.
func (c *Channel) SendUpsert(s state.Shape, isNew bool) error {
	e, err := NewUpsert(c.room, s, isNew)
	if err != nil {
		c.log.Warnw("encode shape", "error", err)
		return err
	}
	return c.send(e)
}

func (c *Channel) SendDelete(id string) error {
	e, err := NewDelete(c.room, id)
	if err != nil {
		return err
	}
	return c.send(e)
}

func (c *Channel) SendClearAll() error { return c.send(NewClearAll(c.room)) }

func (c *Channel) send(e Envelope) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		c.log.Debugw("dropping send", "type", e.Type, "error", ErrNotReady)
		return ErrNotReady
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.ready = false
		c.log.Warnw("write failed, channel closed", "type", e.Type, "error", err)
		return ErrNotReady
	}
	return nil
}

// Dispatch decodes one inbound frame and invokes the matching handler.
// Malformed frames are logged and dropped.
func (c *Channel) Dispatch(data []byte) {
	e, err := ParseEnvelope(data)
	if err != nil {
		c.log.Warnw("dropping inbound message", "error", err)
		return
	}
	if e.RoomID != "" && e.RoomID != c.room {
		c.log.Debugw("ignoring message for other room", "room", e.RoomID)
		return
	}

	c.mu.Lock()
	h := c.handlers
	c.mu.Unlock()

	switch e.Type {
	case TypeChat, TypeUpdate:
		s, err := e.Shape()
		if err != nil {
			c.log.Warnw("dropping inbound message", "type", e.Type, "error", err)
			return
		}
		if h.OnUpsert != nil {
			h.OnUpsert(s)
		}
	case TypeDelete:
		id, err := e.DeleteID()
		if err != nil {
			c.log.Warnw("dropping inbound message", "type", e.Type, "error", err)
			return
		}
		if h.OnDelete != nil {
			h.OnDelete(id)
		}
	case TypeClearAll:
		if h.OnClearAll != nil {
			h.OnClearAll()
		}
	case TypeError:
		c.log.Warnw("relay reported error", "message", e.Message)
	default:
		c.log.Debugw("ignoring message", "type", e.Type)
	}
}

// Listen feeds inbound frames to Dispatch until the connection fails or ctx
// is cancelled. The channel is no longer ready once Listen returns.
func (c *Channel) Listen(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotReady
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.markClosed()
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.markClosed()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		c.Dispatch(data)
	}
}

func (c *Channel) markClosed() {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
}

// Close leaves the room and closes the connection.
func (c *Channel) Close() error {
	if c.Ready() {
		_ = c.send(NewLeave(c.room))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = false
	c.handlers = Handlers{}
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
