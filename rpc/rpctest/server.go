// Package rpctest provides an in-process prompt server for tests. It speaks
// the same one-request-per-connection WebSocket protocol as the real server.
package rpctest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	promptlet "github.com/Paranoid-AF/promptlet"
	"golang.org/x/net/websocket"
)

// Handler returns the raw reply for req. A nil reply closes the connection
// without sending anything. ctx is cancelled when the server shuts down.
type Handler func(ctx context.Context, req *promptlet.Request) []byte

// closeWait bounds how long a connection waits for the client to hang up
// after the reply has been sent.
const closeWait = 5 * time.Second

// Server is a test prompt server bound to a loopback port.
type Server struct {
	// URL is the ws:// endpoint, including the /ws path.
	URL string

	srv     *httptest.Server
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc

	requests     atomic.Int64
	clientCloses atomic.Int64

	mu       sync.Mutex
	received []promptlet.Request
}

// NewServer starts a server answering every request with h. It is closed
// automatically when the test ends.
func NewServer(t testing.TB, h Handler) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{handler: h, ctx: ctx, cancel: cancel}
	s.srv = httptest.NewServer(websocket.Handler(s.handleConn))
	s.URL = "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
	t.Cleanup(s.Close)
	return s
}

// Close stops the server and releases blocked handlers.
func (s *Server) Close() {
	s.cancel()
	s.srv.Close()
}

// Requests returns how many well-formed requests the server received.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// ClientCloses returns how many connections were closed by the client after
// a reply was sent.
func (s *Server) ClientCloses() int {
	return int(s.clientCloses.Load())
}

// Received returns a copy of the decoded requests in arrival order.
func (s *Server) Received() []promptlet.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]promptlet.Request, len(s.received))
	copy(out, s.received)
	return out
}

func (s *Server) handleConn(ws *websocket.Conn) {
	defer ws.Close()

	var raw []byte
	if err := websocket.Message.Receive(ws, &raw); err != nil {
		return
	}
	slog.Debug("request", "data", string(raw))

	var req promptlet.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		reply, _ := json.Marshal(promptlet.Response{
			JSONRPC: promptlet.ProtocolVersion,
			Error:   &promptlet.Error{Code: -32700, Message: "Parse error: " + err.Error()},
		})
		websocket.Message.Send(ws, string(reply))
		return
	}

	s.requests.Add(1)
	s.mu.Lock()
	s.received = append(s.received, req)
	s.mu.Unlock()

	reply := s.handler(s.ctx, &req)
	if reply == nil {
		return
	}
	if err := websocket.Message.Send(ws, string(reply)); err != nil {
		return
	}

	// The client is expected to hang up once it has the reply.
	ws.SetReadDeadline(time.Now().Add(closeWait))
	if err := websocket.Message.Receive(ws, &raw); err != nil {
		if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
			return
		}
		s.clientCloses.Add(1)
	}
}

// Text answers with a success result holding one text block per argument.
func Text(texts ...string) Handler {
	return func(_ context.Context, req *promptlet.Request) []byte {
		content := make([]promptlet.ContentBlock, 0, len(texts))
		for _, t := range texts {
			content = append(content, promptlet.ContentBlock{Type: "text", Text: t})
		}
		return Marshal(promptlet.Response{
			JSONRPC: promptlet.ProtocolVersion,
			ID:      req.ID,
			Result:  &promptlet.Result{Content: content},
		})
	}
}

// Fail answers with an error object carrying message.
func Fail(code int, message string) Handler {
	return func(_ context.Context, req *promptlet.Request) []byte {
		return Marshal(promptlet.Response{
			JSONRPC: promptlet.ProtocolVersion,
			ID:      req.ID,
			Error:   &promptlet.Error{Code: code, Message: message},
		})
	}
}

// Raw answers with body verbatim.
func Raw(body string) Handler {
	return func(context.Context, *promptlet.Request) []byte {
		return []byte(body)
	}
}

// Hang never answers; the connection stays open until the server closes.
func Hang() Handler {
	return func(ctx context.Context, _ *promptlet.Request) []byte {
		<-ctx.Done()
		return nil
	}
}

// Hangup closes the connection without answering.
func Hangup() Handler {
	return func(context.Context, *promptlet.Request) []byte {
		return nil
	}
}

// Marshal encodes v, panicking on failure. For test fixtures only.
func Marshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic("rpctest: " + err.Error())
	}
	return data
}
