package net

import (
	"errors"
	"sync"
)

var errPipeClosed = errors.New("pipe closed")

// pipeConn is one end of an in-memory Conn pair.
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
	default:
	}
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
