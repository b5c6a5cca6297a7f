package apirequest

import (
	"context"
	"net/url"
)

// Transport performs one request attempt and resolves it to a discriminated
// result: a completed round trip yields an *Envelope (which may still carry a
// nonzero application code), a transport-level failure yields a non-nil error.
// A Transport must never panic; a panicking transport is a contract violation
// and is reported through the hook's violation handler.
type Transport func(ctx context.Context, req Request) (*Envelope, error)

// Request describes one attempt as handed to the Transport.
type Request struct {
	Path   string
	Method string
	Query  url.Values
	Body   interface{}
}

// Envelope is the application-level result of a completed round trip.
// Code 0 is the success sentinel; any other value is a logical failure that
// still carries a usable Message and Payload.
type Envelope struct {
	Code    int
	Message string
	Payload interface{}
}

// Override carries per-call overrides for Send. Zero-value fields fall back
// to the hook's configured defaults.
type Override struct {
	Path   string
	Method string
	Query  url.Values
	Body   interface{}
}

// FormatFunc post-processes a raw payload before it is stored in state.
type FormatFunc func(payload interface{}) interface{}

// UpdateFunc derives a new payload from the previous one for Mutate.
type UpdateFunc func(prev interface{}) interface{}

// Presenter receives the outcome of every settled attempt together with the
// opaque configuration supplied via WithPresenter. It is a presentation hook
// (modal dialogs, toasts); the core never inspects the config.
type Presenter func(outcome Outcome, config interface{})

// Outcome is what a Presenter sees: exactly one of Envelope or Err is set.
type Outcome struct {
	Envelope *Envelope
	Err      error
}

// ThrottleEdge selects which edge of the throttle interval fires.
type ThrottleEdge int

const (
	// EdgeLeading fires immediately and suppresses calls for the interval.
	EdgeLeading ThrottleEdge = iota
	// EdgeTrailing delays the latest call to the end of the interval.
	EdgeTrailing
)

// Option represents a configuration option for a Hook.
type Option func(*Hook)
