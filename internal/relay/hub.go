// Package relay is the room fan-out server. It forwards shape events to
// every other member of a room and keeps a best-effort history for late
// joiners; it never interprets shapes beyond their ids.
package relay

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"SketchRoom/internal/logging"
	bnet "SketchRoom/internal/net"
)

var tracer = otel.Tracer("sketchroom/relay")

// Hub tracks room membership for every connected client.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	members map[*Client]map[string]bool

	History *History
	Metrics *Metrics
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = logging.Log
	}
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		members: make(map[*Client]map[string]bool),
		History: NewHistory(),
		Metrics: &Metrics{},
		log:     log.Named("relay"),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.members[c] = make(map[string]bool)
	h.mu.Unlock()
	h.Metrics.IncConnections()
	h.log.Infow("client connected", "client", c.ID, "user", c.User)
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms, ok := h.members[c]
	if !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	rooms[room] = true
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(h.members[c], room)
	if members := h.rooms[room]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// remove drops c from every room and closes its queue.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	rooms, ok := h.members[c]
	if !ok {
		h.mu.Unlock()
		return
	}
	for room := range rooms {
		h.leaveLocked(c, room)
	}
	delete(h.members, c)
	close(c.send)
	h.mu.Unlock()

	h.Metrics.DecConnections()
	h.log.Infow("client disconnected", "client", c.ID, "user", c.User)
}

// Members returns the number of clients joined to room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast queues data to every member of room except sender.
func (h *Hub) Broadcast(room string, data []byte, sender *Client) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.rooms[room] {
		if c == sender {
			continue
		}
		if !c.enqueue(data) {
			h.Metrics.IncQueueFull()
			h.log.Warnw("client lagging, frame dropped", "client", c.ID, "room", room)
			continue
		}
		h.Metrics.IncOut()
		n++
	}
	return n
}

// handle processes one inbound frame from c.
func (h *Hub) handle(c *Client, data []byte) {
	h.Metrics.IncIn()
	e, err := bnet.ParseEnvelope(data)
	if err != nil {
		h.Metrics.IncMalformed()
		h.log.Warnw("dropping frame", "client", c.ID, "error", err)
		return
	}

	_, span := tracer.Start(context.Background(), "relay."+string(e.Type),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("room.id", e.RoomID),
			attribute.String("client.id", c.ID),
		),
	)
	defer span.End()

	if e.RoomID == "" {
		h.Metrics.IncMalformed()
		span.SetStatus(codes.Error, "missing room")
		h.log.Warnw("dropping frame without room", "client", c.ID, "type", e.Type)
		return
	}

	switch e.Type {
	case bnet.TypeJoinRoom:
		h.join(c, e.RoomID)
		h.log.Debugw("joined", "client", c.ID, "room", e.RoomID)
	case bnet.TypeLeaveRoom:
		h.leave(c, e.RoomID)
		h.log.Debugw("left", "client", c.ID, "room", e.RoomID)
	case bnet.TypeChat, bnet.TypeUpdate, bnet.TypeDelete, bnet.TypeClearAll:
		h.History.Record(e)
		out, err := e.Encode()
		if err != nil {
			span.RecordError(err)
			return
		}
		n := h.Broadcast(e.RoomID, out, c)
		span.SetAttributes(attribute.Int("relay.recipients", n))
	default:
		h.log.Debugw("ignoring frame", "client", c.ID, "type", e.Type)
	}
}
