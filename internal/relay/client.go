package relay

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendQueue  = 64
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 1 << 20
)

// Client is one relay socket. Writes go through a buffered queue drained by
// writePump so a slow reader never blocks fan-out.
type Client struct {
	ID   string
	User string

	ws   *websocket.Conn
	send chan []byte
	hub  *Hub
}

func newClient(hub *Hub, ws *websocket.Conn, id, user string) *Client {
	return &Client{
		ID:   id,
		User: user,
		ws:   ws,
		send: make(chan []byte, sendQueue),
		hub:  hub,
	}
}

// enqueue queues b without blocking; a full queue drops the frame.
func (c *Client) enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		c.hub.handle(c, payload)
	}
}
