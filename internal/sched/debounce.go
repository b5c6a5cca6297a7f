// Package sched provides the timer primitives backing debounced and
// throttled invocation. Both types serialize their internal state with a
// mutex and own a single timer that is released on Stop.
package sched

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of calls into a single trailing invocation:
// each Call restarts the interval, and only the last function passed within
// a burst runs once the interval elapses without further calls.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	pending  func()
	stopped  bool
}

// NewDebouncer creates a Debouncer with the given interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Call schedules fn to run once the interval elapses without another Call.
// It reports whether a previously pending invocation was superseded.
func (d *Debouncer) Call(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}

	superseded := d.pending != nil
	d.pending = fn

	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.fire)
	} else {
		d.timer.Reset(d.interval)
	}
	return superseded
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	stopped := d.stopped
	d.mu.Unlock()

	if fn != nil && !stopped {
		fn()
	}
}

// Stop cancels any pending invocation and releases the timer. The Debouncer
// ignores further Calls.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
