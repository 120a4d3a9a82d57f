package relay

import (
	"sync"

	bnet "SketchRoom/internal/net"
)

type entry struct {
	id      string
	message string
}

// History keeps a best-effort, in-memory log of each room's live shapes so
// late joiners can seed their board. Creations append, updates replace,
// deletes remove and clear_all empties the room.
type History struct {
	mu    sync.RWMutex
	rooms map[string][]entry
}

func NewHistory() *History {
	return &History{rooms: make(map[string][]entry)}
}

// Record applies one relayed envelope. It reports whether the envelope
// changed the room's history.
func (h *History) Record(e bnet.Envelope) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch e.Type {
	case bnet.TypeChat, bnet.TypeUpdate:
		s, err := e.Shape()
		if err != nil {
			return false
		}
		id := s.ShapeID()
		entries := h.rooms[e.RoomID]
		if id != "" {
			for i := range entries {
				if entries[i].id == id {
					entries[i].message = e.Message
					return true
				}
			}
		}
		h.rooms[e.RoomID] = append(entries, entry{id: id, message: e.Message})
		return true
	case bnet.TypeDelete:
		id, err := e.DeleteID()
		if err != nil {
			return false
		}
		entries := h.rooms[e.RoomID]
		for i := range entries {
			if entries[i].id == id {
				h.rooms[e.RoomID] = append(entries[:i:i], entries[i+1:]...)
				return true
			}
		}
		return false
	case bnet.TypeClearAll:
		_, had := h.rooms[e.RoomID]
		delete(h.rooms, e.RoomID)
		return had
	}
	return false
}

// Messages returns the room history in arrival order.
func (h *History) Messages(room string) bnet.HistoryResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	entries := h.rooms[room]
	out := bnet.HistoryResponse{Messages: make([]bnet.HistoryMessage, len(entries))}
	for i, en := range entries {
		out.Messages[i] = bnet.HistoryMessage{Message: en.message}
	}
	return out
}

// Len returns the number of shapes recorded for room.
func (h *History) Len(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
