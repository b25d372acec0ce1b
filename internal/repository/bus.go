package repository

import (
	"context"
	"sync"
	"time"
)

// changeBus coalesces bursts of signal_item_changed calls into a single
// reload, per spec.md §4.2 ("Multiple signal_item_changed calls... within
// a burst window of 100ms collapse to a single reload") and §5 ("the
// change-bus coalescer runs on the same thread via a single-shot timer").
// Adapted in shape from the teacher's sync.Worker (stop-channel-guarded
// background loop), but a debounced single-shot timer replaces the
// periodic ticker: each Signal restarts the window, so reload fires
// window after the *last* event of a burst rather than the first.
type changeBus struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	fire   func(context.Context)
	stopped bool
}

func newChangeBus(window time.Duration, fire func(context.Context)) *changeBus {
	return &changeBus{window: window, fire: fire}
}

// Signal restarts the coalescing window. Safe for concurrent callers
// (multiple providers, or a runtime-preference change, on the same tick).
func (b *changeBus) Signal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, func() {
		b.fire(context.Background())
	})
}

// Stop cancels any pending reload and prevents further scheduling.
func (b *changeBus) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
}
