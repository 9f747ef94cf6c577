package rpc

import (
	"context"

	"golang.org/x/net/websocket"
)

// Conn is one established connection to the prompt server. Receive blocks
// until a full message arrives; it returns io.EOF when the peer closes.
type Conn interface {
	Send(data []byte) error
	Receive() ([]byte, error)
	Close() error
}

// Dialer opens connections to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// WebSocketDialer dials ws:// and wss:// endpoints.
type WebSocketDialer struct {
	// Origin is sent in the handshake. Servers that ignore it accept any value.
	Origin string
}

// Dial performs the WebSocket handshake with endpoint.
func (d WebSocketDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	origin := d.Origin
	if origin == "" {
		origin = "http://localhost/"
	}
	cfg, err := websocket.NewConfig(endpoint, origin)
	if err != nil {
		return nil, err
	}
	ws, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, err
	}
	return &wsConn{ws: ws}, nil
}

type wsConn struct {
	ws *websocket.Conn
}

func (c *wsConn) Send(data []byte) error {
	// Text frame: the server parses the payload as a string.
	return websocket.Message.Send(c.ws, string(data))
}

func (c *wsConn) Receive() ([]byte, error) {
	var data []byte
	if err := websocket.Message.Receive(c.ws, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
