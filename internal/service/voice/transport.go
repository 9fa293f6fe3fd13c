package voice

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Transport is one live bidirectional link to the speech model. Receive
// is called from a single goroutine; Send may be called from the input
// pump and the tool dispatcher, so implementations must be write-safe.
type Transport interface {
	Send(msg ClientMessage) error
	Receive() (ServerMessage, error)
	Close() error
}

// Dialer opens a transport for one session.
type Dialer interface {
	Dial(ctx context.Context, apiKey string, setup SetupMessage) (Transport, error)
}

// WebSocketDialer speaks the model's websocket protocol: one JSON object
// per text frame, setup sent first.
type WebSocketDialer struct {
	URL string
}

func NewWebSocketDialer(url string) *WebSocketDialer {
	return &WebSocketDialer{URL: url}
}

func (d *WebSocketDialer) Dial(ctx context.Context, apiKey string, setup SetupMessage) (Transport, error) {
	header := http.Header{}
	if apiKey != "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, d.URL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial speech model: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	t := &wsTransport{conn: conn}
	if err := t.Send(ClientMessage{Setup: &setup}); err != nil {
		t.Close()
		return nil, fmt.Errorf("failed to send session setup: %w", err)
	}
	return t, nil
}

// wsTransport guards writes with a mutex; gorilla connections allow only
// one concurrent writer.
type wsTransport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

func (t *wsTransport) Send(msg ClientMessage) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.closed {
		return websocket.ErrCloseSent
	}
	return t.conn.WriteJSON(msg)
}

func (t *wsTransport) Receive() (ServerMessage, error) {
	var msg ServerMessage
	if err := t.conn.ReadJSON(&msg); err != nil {
		return ServerMessage{}, err
	}
	return msg, nil
}

func (t *wsTransport) Close() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}
