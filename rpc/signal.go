package rpc

import (
	"context"
	"sync"
	"time"
)

// Signal is a single-use handoff of an Outcome from the network worker to the
// waiting caller. Any number of goroutines may Fire it; only the first call
// records its outcome and wakes waiters.
type Signal struct {
	once    sync.Once
	done    chan struct{}
	outcome Outcome
}

// NewSignal returns an unfired Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire records o and wakes all waiters. It returns false if the signal had
// already fired, in which case o is discarded.
func (s *Signal) Fire(o Outcome) bool {
	fired := false
	s.once.Do(func() {
		s.outcome = o
		fired = true
		close(s.done)
	})
	return fired
}

// Done is closed once the signal has fired.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the recorded outcome without blocking.
func (s *Signal) Outcome() (Outcome, bool) {
	select {
	case <-s.done:
		return s.outcome, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the signal fires, timeout elapses, or ctx is done.
// ok is false when the wait ended without the signal firing.
func (s *Signal) Wait(ctx context.Context, timeout time.Duration) (o Outcome, ok bool) {
	if timeout <= 0 {
		return s.Outcome()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.done:
		return s.outcome, true
	case <-timer.C:
		return Outcome{}, false
	case <-ctx.Done():
		return Outcome{}, false
	}
}
