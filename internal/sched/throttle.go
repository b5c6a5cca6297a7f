package sched

import (
	"sync"
	"time"
)

// Edge selects which edge of the throttle interval fires.
type Edge int

const (
	// Leading runs the first call immediately and suppresses the rest of
	// the interval.
	Leading Edge = iota
	// Trailing delays the latest call to the end of the interval.
	Trailing
)

// Throttler rate-limits calls to at most one per interval with the
// configured edge policy.
type Throttler struct {
	mu       sync.Mutex
	interval time.Duration
	edge     Edge
	last     time.Time
	timer    *time.Timer
	pending  func()
	stopped  bool
}

// NewThrottler creates a Throttler with the given interval and edge policy.
func NewThrottler(interval time.Duration, edge Edge) *Throttler {
	return &Throttler{interval: interval, edge: edge}
}

// Call submits fn under the throttle policy. With Leading, fn runs inline
// when the interval has elapsed since the previous run; with Trailing, fn
// replaces any pending invocation scheduled for the end of the interval.
// It reports whether the call was suppressed (dropped or superseded).
func (t *Throttler) Call(fn func()) bool {
	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()
		return true
	}

	if t.edge == Leading {
		now := time.Now()
		if t.last.IsZero() || now.Sub(t.last) >= t.interval {
			t.last = now
			t.mu.Unlock()
			fn()
			return false
		}
		t.mu.Unlock()
		return true
	}

	suppressed := t.pending != nil
	t.pending = fn
	if t.timer == nil {
		t.timer = time.AfterFunc(t.interval, t.fire)
	}
	t.mu.Unlock()
	return suppressed
}

func (t *Throttler) fire() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	stopped := t.stopped
	t.mu.Unlock()

	if fn != nil && !stopped {
		fn()
	}
}

// Stop cancels any pending invocation and releases the timer. The Throttler
// ignores further Calls.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
