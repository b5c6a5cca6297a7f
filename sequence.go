package apirequest

import "sync/atomic"

// sequenceGuard assigns a monotonically increasing sequence number to each
// request attempt. A settlement is only allowed to touch state while its
// captured sequence number equals the counter's present value; anything else
// is a superseded attempt arriving late.
//
// The counter is instance-owned, never shared across hooks.
type sequenceGuard struct {
	n uint64
}

// next increments the counter and returns the new value, marking the start
// of a fresh attempt.
func (g *sequenceGuard) next() uint64 {
	return atomic.AddUint64(&g.n, 1)
}

// current returns the counter's present value.
func (g *sequenceGuard) current() uint64 {
	return atomic.LoadUint64(&g.n)
}

// isCurrent reports whether seq identifies the latest attempt.
func (g *sequenceGuard) isCurrent(seq uint64) bool {
	return atomic.LoadUint64(&g.n) == seq
}

// invalidate advances the counter without starting an attempt, so any
// response that later arrives for the previous attempt is discarded.
func (g *sequenceGuard) invalidate() uint64 {
	return atomic.AddUint64(&g.n, 1)
}
