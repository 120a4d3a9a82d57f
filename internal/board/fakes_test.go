package board

import (
	"context"
	"errors"
	"sync"
	"time"

	bnet "SketchRoom/internal/net"
	"SketchRoom/internal/state"
)

type sent struct {
	shape state.Shape
	isNew bool
}

// fakeSync records outbound traffic and exposes the registered handlers.
type fakeSync struct {
	mu       sync.Mutex
	upserts  []sent
	deletes  []string
	clears   int
	handlers bnet.Handlers
}

func (f *fakeSync) SendUpsert(s state.Shape, isNew bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, sent{shape: s.Clone(), isNew: isNew})
	return nil
}

func (f *fakeSync) SendDelete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeSync) SendClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

func (f *fakeSync) SetHandlers(h bnet.Handlers) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = h
}

func (f *fakeSync) h() bnet.Handlers {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers
}

type historyFunc func(ctx context.Context, room string) ([]state.Shape, error)

func (f historyFunc) Fetch(ctx context.Context, room string) ([]state.Shape, error) {
	return f(ctx, room)
}

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

var errPipeClosed = errors.New("pipe closed")

// pipeConn is one end of an in-memory message connection pair.
type pipeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	peer   *pipeConn
	once   sync.Once
}

func pipe() (*pipeConn, *pipeConn) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	a := &pipeConn{in: ba, out: ab, closed: make(chan struct{})}
	b := &pipeConn{in: ab, out: ba, closed: make(chan struct{})}
	a.peer, b.peer = b, a
	return a, b
}

func (p *pipeConn) ReadMessage() (int, []byte, error) {
	select {
	case d := <-p.in:
		return 1, d, nil
	case <-p.closed:
		return 0, nil, errPipeClosed
	case <-p.peer.closed:
		return 0, nil, errPipeClosed
	}
}

func (p *pipeConn) WriteMessage(_ int, data []byte) error {
	select {
	case <-p.closed:
		return errPipeClosed
	case <-p.peer.closed:
		return errPipeClosed
	default:
	}
	p.out <- append([]byte(nil), data...)
	return nil
}

func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
