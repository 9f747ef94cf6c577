// Package rpc implements the single-shot request/response gateway to the
// prompt server: one connection, one request, one outcome.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	promptlet "github.com/Paranoid-AF/promptlet"
)

// State is the position of a session in its lifecycle.
type State int32

const (
	Idle State = iota
	Connecting
	AwaitingResponse
	Completed
	Closed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case AwaitingResponse:
		return "awaiting_response"
	case Completed:
		return "completed"
	case Closed:
		return "closed"
	case TimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether no transition may leave s.
func (s State) Terminal() bool {
	return s == Completed || s == Closed || s == TimedOut
}

// noResult is the outcome of a connection that closes before any message.
var noResult = Outcome{Kind: ConnectionFailure, Message: "no result: connection closed by server"}

// Session drives a single request over a single connection. A Session is
// used once; create a new one per call.
type Session struct {
	endpoint string
	dialer   Dialer
	signal   *Signal
	state    atomic.Int32

	// mu guards conn and shutdown. The caller goroutine only touches them
	// through stop().
	mu       sync.Mutex
	conn     Conn
	shutdown bool

	closeOnce  sync.Once
	closes     atomic.Int32
	workerDone chan struct{}
}

// NewSession creates an idle session for endpoint.
func NewSession(endpoint string, dialer Dialer) *Session {
	return &Session{
		endpoint:   endpoint,
		dialer:     dialer,
		signal:     NewSignal(),
		workerDone: make(chan struct{}),
	}
}

// State returns the current lifecycle state. The outcome is published before
// the terminal state is recorded, so State is final only once WorkerDone is
// closed.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Closes returns how many times the connection was closed (0 or 1).
func (s *Session) Closes() int {
	return int(s.closes.Load())
}

// WorkerDone is closed when the network worker has exited.
func (s *Session) WorkerDone() <-chan struct{} {
	return s.workerDone
}

// advance moves to next unless the session is already terminal.
func (s *Session) advance(next State) bool {
	for {
		cur := State(s.state.Load())
		if cur.Terminal() {
			return false
		}
		if s.state.CompareAndSwap(int32(cur), int32(next)) {
			return true
		}
	}
}

// Run sends req and blocks up to timeout for the outcome. The connection and
// worker are released on every path; after a timeout the release happens
// asynchronously and Run does not wait for it.
func (s *Session) Run(ctx context.Context, req *promptlet.Request, timeout time.Duration) Outcome {
	if !s.state.CompareAndSwap(int32(Idle), int32(Connecting)) {
		return Failed(ProtocolFailure, "session already used")
	}

	dialCtx, cancelDial := context.WithCancel(context.Background())
	go s.work(dialCtx, cancelDial, req)

	if out, ok := s.signal.Wait(ctx, timeout); ok {
		return out
	}

	msg := fmt.Sprintf("timed out after %s waiting for %q", timeout, req.Name)
	if err := ctx.Err(); err != nil {
		msg = fmt.Sprintf("request %q canceled: %v", req.Name, err)
	}
	timedOut := Outcome{Kind: Timeout, Message: msg}
	if !s.signal.Fire(timedOut) {
		// The worker fired between the deadline and here.
		out, _ := s.signal.Outcome()
		return out
	}
	s.advance(TimedOut)
	slog.Debug("rpc timeout", "id", req.ID, "name", req.Name, "timeout", timeout)

	cancelDial()
	if conn := s.stop(); conn != nil {
		go s.closeConn(conn)
	}
	return timedOut
}

// stop marks the session shut down and returns the attached connection, if
// any. A worker still dialing closes its connection as soon as it attaches.
func (s *Session) stop() Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
	return s.conn
}

func (s *Session) closeConn(conn Conn) {
	s.closeOnce.Do(func() {
		if err := conn.Close(); err != nil {
			slog.Debug("rpc close", "error", err)
		}
		s.closes.Add(1)
	})
}

// attach publishes conn to the session. It returns false if the caller has
// already given up, in which case conn must be closed by the worker.
func (s *Session) attach(conn Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return false
	}
	s.conn = conn
	return true
}

// finish fires the signal and records the terminal state for o.
func (s *Session) finish(o Outcome, state State) {
	if s.signal.Fire(o) {
		s.advance(state)
	}
}

func (s *Session) work(ctx context.Context, cancel context.CancelFunc, req *promptlet.Request) {
	defer close(s.workerDone)
	defer cancel()

	conn, err := s.dialer.Dial(ctx, s.endpoint)
	if err != nil {
		s.finish(Failed(ConnectionFailure, "connect %s: %v", s.endpoint, err), Completed)
		return
	}
	defer s.closeConn(conn)
	if !s.attach(conn) {
		return
	}
	s.advance(AwaitingResponse)

	data, err := json.Marshal(req)
	if err != nil {
		s.finish(Failed(ProtocolFailure, "encode request: %v", err), Completed)
		return
	}
	slog.Debug("rpc send", "id", req.ID, "name", req.Name)
	if err := conn.Send(data); err != nil {
		s.finish(Failed(ConnectionFailure, "send request: %v", err), Completed)
		return
	}

	payload, err := conn.Receive()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.finish(noResult, Closed)
			return
		}
		s.finish(Failed(ConnectionFailure, "error: %v", err), Completed)
		return
	}

	slog.Debug("rpc receive", "id", req.ID, "bytes", len(payload))
	s.finish(ParseResponse(payload), Completed)
}

// ParseResponse maps one server message onto an Outcome. A result with a
// content list is a Success carrying the last text block; an error object is
// a ProtocolFailure carrying its message.
func ParseResponse(payload []byte) Outcome {
	var resp promptlet.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Failed(ProtocolFailure, "parse response: %v", err)
	}

	switch {
	case resp.Result.HasContent():
		text, _ := resp.Result.LastText()
		return Succeeded(text)
	case resp.Error != nil:
		return Outcome{Kind: ProtocolFailure, Message: resp.Error.Message}
	default:
		return Failed(ProtocolFailure, "response has neither result content nor error")
	}
}
