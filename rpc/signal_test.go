package rpc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSignalFireOnce(t *testing.T) {
	s := NewSignal()
	if !s.Fire(Succeeded("first")) {
		t.Fatal("expected first Fire to succeed")
	}
	if s.Fire(Succeeded("second")) {
		t.Error("expected second Fire to be ignored")
	}
	out, ok := s.Outcome()
	if !ok || out.Text != "first" {
		t.Errorf("expected first outcome, got %+v (ok=%v)", out, ok)
	}
}

func TestSignalConcurrentFire(t *testing.T) {
	s := NewSignal()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Fire(Succeeded("x")) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Errorf("expected exactly one winning Fire, got %d", wins.Load())
	}
}

func TestSignalWaitWakesAllWaiters(t *testing.T) {
	s := NewSignal()
	var wg sync.WaitGroup
	results := make([]bool, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := s.Wait(context.Background(), 5*time.Second)
			results[i] = ok
		}()
	}
	time.Sleep(10 * time.Millisecond)
	s.Fire(Failed(ProtocolFailure, "boom"))
	wg.Wait()
	for i, ok := range results {
		if !ok {
			t.Errorf("waiter %d did not observe the signal", i)
		}
	}
}

func TestSignalWaitTimeout(t *testing.T) {
	s := NewSignal()
	start := time.Now()
	_, ok := s.Wait(context.Background(), 20*time.Millisecond)
	if ok {
		t.Fatal("expected timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("wait overran its bound: %s", elapsed)
	}
	if _, fired := s.Outcome(); fired {
		t.Error("timeout must not fire the signal")
	}
}

func TestSignalWaitAlreadyFired(t *testing.T) {
	s := NewSignal()
	s.Fire(Succeeded("done"))
	out, ok := s.Wait(context.Background(), time.Millisecond)
	if !ok || out.Text != "done" {
		t.Errorf("expected fired outcome, got %+v (ok=%v)", out, ok)
	}
}

func TestSignalWaitContextCancelled(t *testing.T) {
	s := NewSignal()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := s.Wait(ctx, time.Minute); ok {
		t.Error("expected cancelled wait to report not fired")
	}
}

func TestSignalWaitZeroTimeout(t *testing.T) {
	s := NewSignal()
	if _, ok := s.Wait(context.Background(), 0); ok {
		t.Error("expected zero timeout on unfired signal to report not fired")
	}
	s.Fire(Succeeded("x"))
	if _, ok := s.Wait(context.Background(), 0); !ok {
		t.Error("expected zero timeout on fired signal to report fired")
	}
}

func TestSignalDoneChannel(t *testing.T) {
	s := NewSignal()
	select {
	case <-s.Done():
		t.Fatal("Done closed before Fire")
	default:
	}
	s.Fire(Succeeded(""))
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Fire")
	}
}
