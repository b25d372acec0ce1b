package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestChangeBusCoalescesBurstIntoSingleFire(t *testing.T) {
	var fires int32
	bus := newChangeBus(20*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&fires, 1)
	})
	for i := 0; i < 5; i++ {
		bus.Signal()
		time.Sleep(3 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&fires); got != 1 {
		t.Fatalf("expected exactly 1 fire, got %d", got)
	}
}

func TestChangeBusStopPreventsFire(t *testing.T) {
	var fires int32
	bus := newChangeBus(10*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&fires, 1)
	})
	bus.Signal()
	bus.Stop()
	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&fires); got != 0 {
		t.Fatalf("expected no fire after Stop, got %d", got)
	}

	bus.Signal() // signaling a stopped bus must stay inert
	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&fires); got != 0 {
		t.Fatalf("expected Signal after Stop to stay inert, got %d", got)
	}
}

func TestChangeBusFiresAfterWindowFromLastSignal(t *testing.T) {
	fired := make(chan time.Time, 1)
	bus := newChangeBus(30*time.Millisecond, func(context.Context) {
		fired <- time.Now()
	})
	start := time.Now()
	bus.Signal()
	time.Sleep(20 * time.Millisecond)
	bus.Signal() // restarts the window; fire should land ~30ms after this, not the first signal

	select {
	case at := <-fired:
		if at.Sub(start) < 45*time.Millisecond {
			t.Fatalf("expected fire to be pushed out by the second signal, fired after %v", at.Sub(start))
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected bus to fire")
	}
}
