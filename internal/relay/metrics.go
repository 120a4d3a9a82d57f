package relay

import "sync/atomic"

// Metrics counts relay traffic for the /metrics endpoint.
type Metrics struct {
	Connections int64 // currently open sockets
	MessagesIn  int64 // frames read from clients
	MessagesOut int64 // frames queued to clients
	Malformed   int64 // frames dropped as undecodable
	QueueFull   int64 // frames dropped because a client lagged
}

func (m *Metrics) IncConnections() { atomic.AddInt64(&m.Connections, 1) }
func (m *Metrics) DecConnections() { atomic.AddInt64(&m.Connections, -1) }
func (m *Metrics) IncIn() { atomic.AddInt64(&m.MessagesIn, 1) }
func (m *Metrics) IncOut() { atomic.AddInt64(&m.MessagesOut, 1) }
func (m *Metrics) IncMalformed() { atomic.AddInt64(&m.Malformed, 1) }
func (m *Metrics) IncQueueFull() { atomic.AddInt64(&m.QueueFull, 1) }

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"connections":  atomic.LoadInt64(&m.Connections),
		"messages_in":  atomic.LoadInt64(&m.MessagesIn),
		"messages_out": atomic.LoadInt64(&m.MessagesOut),
		"malformed":    atomic.LoadInt64(&m.Malformed),
		"queue_full":   atomic.LoadInt64(&m.QueueFull),
	}
}
