package net

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HandshakeTimeout bounds the websocket upgrade.
const HandshakeTimeout = 10 * time.Second

// Dial connects to the relay at rawURL, joins room and returns the channel.
// user is passed as the "user" query parameter for relay logs.
func Dial(ctx context.Context, rawURL, room, user string, log *zap.SugaredLogger) (*Channel, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse relay url: %w", err)
	}
	if user != "" {
		q := u.Query()
		q.Set("user", user)
		u.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", u.Host, err)
	}

	ch := NewChannel(conn, room, log)
	if err := ch.Join(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("join room %q: %w", room, err)
	}
	ch.log.Infow("joined room", "room", room, "relay", u.Host)
	return ch, nil
}
