package rpc

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	promptlet "github.com/Paranoid-AF/promptlet"
	"github.com/google/uuid"
)

// Caller issues one request and returns its outcome.
type Caller interface {
	Call(ctx context.Context, method string, args map[string]any, timeout time.Duration) Outcome
}

// Client opens a fresh Session for every call against a fixed endpoint.
// Calls are synchronous; the client never has two requests in flight.
type Client struct {
	endpoint string
	dialer   Dialer
}

// NewClient creates a client for endpoint. A nil dialer uses WebSocketDialer.
func NewClient(endpoint string, dialer Dialer) *Client {
	if dialer == nil {
		dialer = WebSocketDialer{}
	}
	return &Client{endpoint: endpoint, dialer: dialer}
}

// Endpoint returns the configured server address.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call sends method with args and waits up to timeout for the outcome.
func (c *Client) Call(ctx context.Context, method string, args map[string]any, timeout time.Duration) Outcome {
	req := NewRequest(method, args)
	start := time.Now()
	out := NewSession(c.endpoint, c.dialer).Run(ctx, req, timeout)
	slog.Debug("rpc call", "id", req.ID, "name", method, "kind", out.Kind, "elapsed", time.Since(start))
	return out
}

// NewRequest builds a request for method. The id is a UUIDv7, which is
// ordered by creation time; nil args are sent as an empty object.
func NewRequest(method string, args map[string]any) *promptlet.Request {
	if args == nil {
		args = map[string]any{}
	}
	return &promptlet.Request{
		JSONRPC:   promptlet.ProtocolVersion,
		Name:      method,
		Arguments: args,
		ID:        newRequestID(),
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return id.String()
}
