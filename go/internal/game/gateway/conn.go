package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the subset of *websocket.Conn the Manager drives
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPingHandler(h func(appData string) error)
	Close() error
}

// Dialer opens a channel to url
type Dialer interface {
	DialContext(ctx context.Context, url string, header http.Header) (Conn, error)
}

// WebsocketDialer dials with gorilla/websocket
type WebsocketDialer struct {
	Dialer *websocket.Dialer
}

// NewWebsocketDialer returns a dialer using gorilla's default settings
func NewWebsocketDialer() *WebsocketDialer {
	return &WebsocketDialer{Dialer: websocket.DefaultDialer}
}

func (d *WebsocketDialer) DialContext(ctx context.Context, url string, header http.Header) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return conn, nil
}

// TokenSource supplies the opaque platform credential sent when dialing
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that never changes
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
