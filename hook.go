package apirequest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/pyfile/MakeItxiaGreatAgain/internal/sched"
)

// Hook is a single-flight request tracker. One instance owns one State and
// one attempt sequence; concurrent overlapping triggers are reconciled by
// discarding every settlement except the latest attempt's. It is safe for
// concurrent use.
type Hook struct {
	transport Transport
	ctx       context.Context

	path         string
	method       string
	requestQuery url.Values
	requestBody  interface{}
	manual       bool
	formatResult FormatFunc

	debounceInterval time.Duration
	throttleInterval time.Duration
	throttleEdge     ThrottleEdge

	onLoad         func()
	onSuccess      func(Envelope)
	onFail         func(Envelope)
	onError        func(error)
	onUnsuccessful func()

	presenter       Presenter
	presenterConfig interface{}
	violation       func(error)

	logger  Logger
	debug   *DebugConfig
	metrics *MetricsCollector

	debouncer *sched.Debouncer
	throttler *sched.Throttler

	mu     sync.Mutex
	seq    sequenceGuard
	state  State
	closed bool

	queue     *taskQueue
	closeOnce sync.Once

	validationError error
}

// New constructs a Hook around the given transport using the provided
// functional options. A best effort validation is performed; call IsValid /
// ValidationError for errors. Unless WithManual is configured the hook
// schedules exactly one automatic attempt; it runs asynchronously and is
// observed through state and callbacks.
func New(transport Transport, options ...Option) *Hook {
	h := &Hook{
		transport:    transport,
		ctx:          context.Background(),
		method:       "GET",
		throttleEdge: EdgeLeading,
		debug:        DefaultDebugConfig(),
	}

	for _, option := range options {
		option(h)
	}

	if err := h.ValidateConfiguration(); err != nil {
		h.validationError = err
	}

	if h.validationError == nil {
		if h.debounceInterval > 0 {
			h.debouncer = sched.NewDebouncer(h.debounceInterval)
		} else if h.throttleInterval > 0 {
			edge := sched.Leading
			if h.throttleEdge == EdgeTrailing {
				edge = sched.Trailing
			}
			h.throttler = sched.NewThrottler(h.throttleInterval, edge)
		}
	}

	h.state = State{Loading: !h.manual && h.validationError == nil}
	h.queue = newTaskQueue()

	if !h.manual && h.validationError == nil {
		// The automatic first attempt bypasses debounce/throttle wrapping,
		// matching explicit Send semantics for the initial fetch.
		go h.send(nil)
	}

	return h
}

// IsValid reports whether configuration validation passed at construction.
func (h *Hook) IsValid() bool {
	return h.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (h *Hook) ValidationError() error {
	return h.validationError
}

// Send triggers a request attempt, optionally merging a per-call Override
// over the configured defaults. When a debounce or throttle interval is
// configured the call is routed through that policy; otherwise it starts an
// attempt immediately. Send never blocks on the network and never returns an
// error; outcomes are observed through state and callbacks.
func (h *Hook) Send(overrides ...Override) {
	if h.validationError != nil {
		if h.logger != nil {
			h.logger.Error("Send on invalid hook", "error", h.validationError)
		}
		return
	}

	var ov *Override
	if len(overrides) > 0 {
		ov = &overrides[0]
	}

	switch {
	case h.debouncer != nil:
		if h.debouncer.Call(func() { h.send(ov) }) {
			h.metrics.RecordSuppressed("debounce")
		}
	case h.throttler != nil:
		if h.throttler.Call(func() { h.send(ov) }) {
			h.metrics.RecordSuppressed("throttle")
		}
	default:
		h.send(ov)
	}
}

// Abort advances the attempt sequence without issuing a new request, so the
// in-flight attempt's eventual settlement is discarded. State is otherwise
// left untouched.
func (h *Hook) Abort() {
	h.mu.Lock()
	seq := h.seq.invalidate()
	h.mu.Unlock()

	h.metrics.RecordAbort()
	if h.debugEnabled() && h.debug.LogRequests && h.logger != nil {
		h.logger.Debug("Attempt aborted", "supersededBy", seq)
	}
}

// Mutate replaces the payload locally without any network activity. If v is
// a func(interface{}) interface{} it is applied to the previous payload;
// any other value replaces the payload verbatim. Loading, code, message and
// error are untouched and no lifecycle callback fires.
func (h *Hook) Mutate(v interface{}) {
	if update, ok := v.(func(interface{}) interface{}); ok {
		h.MutateFunc(update)
		return
	}
	h.dispatchMutate(action{kind: actionMutate, payload: v})
}

// MutateFunc applies update to the previous payload; the typed counterpart
// of Mutate for callers that always pass a function.
func (h *Hook) MutateFunc(update UpdateFunc) {
	h.dispatchMutate(action{kind: actionMutate, update: update})
}

// State returns a snapshot of the current request state.
func (h *Hook) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Loading reports whether an attempt is outstanding.
func (h *Hook) Loading() bool { return h.State().Loading }

// Code returns the application-level code of the last completed attempt,
// or nil while loading or after a transport failure.
func (h *Hook) Code() *int { return h.State().Code }

// Message returns the status message of the last completed attempt, if any.
func (h *Hook) Message() *string { return h.State().Message }

// Payload returns the last materialized (or mutated) payload.
func (h *Hook) Payload() interface{} { return h.State().Payload }

// Err returns the transport failure of the last attempt, if any.
func (h *Hook) Err() error { return h.State().Err }

// Close tears the hook down: the in-flight attempt (if any) is invalidated,
// scheduler timers are released and the callback queue is drained. Close is
// idempotent, safe to call from within a lifecycle callback (it then returns
// without waiting for the queue to finish), and does not cancel the
// underlying transport call; it only guarantees the eventual result is
// discarded.
func (h *Hook) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.seq.invalidate()
		h.mu.Unlock()

		if h.debouncer != nil {
			h.debouncer.Stop()
		}
		if h.throttler != nil {
			h.throttler.Stop()
		}
		h.queue.close()
	})
}

// send starts one attempt: fresh sequence, start action, transport call on
// its own goroutine.
func (h *Hook) send(ov *Override) {
	req := h.buildRequest(ov)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		if h.debugEnabled() && h.debug.LogRequests && h.logger != nil {
			h.logger.Debug("Send ignored", "reason", ErrClosed)
		}
		return
	}
	seq := h.seq.next()
	h.applyAction(action{kind: actionStart, seq: seq})
	h.scheduleCallback("OnLoad", h.onLoad)
	h.mu.Unlock()

	var requestID string
	if h.debugEnabled() && h.debug.RequestIDGen != nil {
		requestID = h.debug.RequestIDGen()
	}
	if h.debugEnabled() && h.debug.LogRequests && h.logger != nil {
		h.logger.Debug("Starting attempt", "requestID", requestID, "seq", seq, "method", req.Method, "path", req.Path)
	}

	h.metrics.RecordAttemptStart(req.Method, req.Path)

	go h.attempt(seq, req, requestID)
}

func (h *Hook) buildRequest(ov *Override) Request {
	req := Request{
		Path:   h.path,
		Method: h.method,
		Query:  h.requestQuery,
		Body:   h.requestBody,
	}
	if ov == nil {
		return req
	}
	if ov.Path != "" {
		req.Path = ov.Path
	}
	if ov.Method != "" {
		req.Method = ov.Method
	}
	if ov.Query != nil {
		req.Query = ov.Query
	}
	if ov.Body != nil {
		req.Body = ov.Body
	}
	return req
}

// attempt runs the transport call and hands the settlement to the reducer,
// guarded by the sequence captured at trigger time.
func (h *Hook) attempt(seq uint64, req Request, requestID string) {
	start := time.Now()
	env, err := h.callTransport(seq, req, requestID)
	h.settle(seq, req, env, err, time.Since(start), requestID)
}

// callTransport invokes the transport, converting a panic (which the
// transport contract forbids) into a Contract error so the hook can never
// hang in the loading state.
func (h *Hook) callTransport(seq uint64, req Request, requestID string) (env *Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			cerr := &RequestError{
				Type:      ErrorTypeContract,
				Message:   "transport panicked",
				Cause:     fmt.Errorf("%w: %v", ErrTransportContract, r),
				RequestID: requestID,
				Method:    req.Method,
				Path:      req.Path,
				Sequence:  seq,
				Timestamp: time.Now(),
			}
			h.reportViolation(cerr)
			env, err = nil, cerr
		}
	}()
	return h.transport(h.ctx, req)
}

func (h *Hook) reportViolation(err error) {
	if h.violation != nil {
		h.violation(err)
		return
	}
	if h.logger != nil {
		h.logger.Error("Transport contract violation", "error", err)
	}
}

func (h *Hook) settle(seq uint64, req Request, env *Envelope, err error, elapsed time.Duration, requestID string) {
	var act action
	if err == nil && env != nil {
		act = action{kind: actionSuccess, seq: seq, code: env.Code, message: env.Message, payload: env.Payload}
	} else {
		act = action{kind: actionFailure, seq: seq, err: err}
	}

	h.mu.Lock()
	if h.closed || !h.seq.isCurrent(seq) {
		h.mu.Unlock()
		h.metrics.RecordAttemptEnd(req.Method, req.Path)
		h.metrics.RecordStaleDrop(req.Method, req.Path)
		if h.debugEnabled() && h.debug.LogStale && h.logger != nil {
			h.logger.Debug("Stale settlement discarded", "requestID", requestID, "seq", seq)
		}
		return
	}
	h.applyAction(act)
	snapshot := h.state

	// Callbacks are enqueued before the lock is released so their queue
	// order matches commit order: a concurrent trigger cannot slot its
	// OnLoad between this settlement's commit and its callbacks.
	var outcome Outcome
	switch {
	case act.kind == actionFailure:
		outcome = Outcome{Err: snapshot.Err}
		if h.onError != nil {
			failure := snapshot.Err
			h.scheduleCallback("OnError", func() { h.onError(failure) })
		}
		h.scheduleCallback("OnUnsuccessful", h.onUnsuccessful)

	case env.Code == 0:
		result := Envelope{Code: env.Code, Message: env.Message, Payload: snapshot.Payload}
		outcome = Outcome{Envelope: &result}
		if h.onSuccess != nil {
			h.scheduleCallback("OnSuccess", func() { h.onSuccess(result) })
		}

	default:
		result := Envelope{Code: env.Code, Message: env.Message, Payload: snapshot.Payload}
		outcome = Outcome{Envelope: &result}
		if h.onFail != nil {
			h.scheduleCallback("OnFail", func() { h.onFail(result) })
		}
		h.scheduleCallback("OnUnsuccessful", h.onUnsuccessful)
	}

	if h.presenter != nil {
		present := h.presenter
		config := h.presenterConfig
		h.scheduleCallback("Presenter", func() { present(outcome, config) })
	}
	h.mu.Unlock()

	h.metrics.RecordAttemptEnd(req.Method, req.Path)
	h.metrics.RecordAttempt(req.Method, req.Path, outcomeLabel(act, env), elapsed)

	if h.debugEnabled() && h.debug.LogRequests && h.logger != nil {
		h.logger.Debug("Attempt settled", "requestID", requestID, "seq", seq, "duration", elapsed)
	}
}

func outcomeLabel(act action, env *Envelope) string {
	if act.kind == actionFailure {
		if act.err != nil && isContractError(act.err) {
			return "contract"
		}
		return "transport_failure"
	}
	if env.Code == 0 {
		return "success"
	}
	return "app_failure"
}

func isContractError(err error) bool {
	re, ok := err.(*RequestError)
	return ok && re.Type == ErrorTypeContract
}

func (h *Hook) dispatchMutate(act action) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	act.seq = h.seq.current()
	h.applyAction(act)
	h.mu.Unlock()
}

// applyAction runs act through the reducer. Callers must hold h.mu. An
// action of a kind the reducer does not recognize is logged and dropped
// rather than crashing or corrupting state.
func (h *Hook) applyAction(act action) {
	if act.kind < actionStart || act.kind > actionMutate {
		if h.logger != nil {
			h.logger.Warn("Dropping action of unknown kind", "kind", int(act.kind))
		}
		return
	}
	h.state = reduce(h.state, act, h.seq.current(), h.formatResult)
}

// scheduleCallback defers fn to the hook's serial queue so it runs strictly
// after the state transition that scheduled it.
func (h *Hook) scheduleCallback(name string, fn func()) {
	if fn == nil {
		return
	}
	if h.debugEnabled() && h.debug.LogCallbacks && h.logger != nil {
		h.logger.Debug("Scheduling callback", "callback", name)
	}
	h.queue.enqueue(fn)
}

func (h *Hook) debugEnabled() bool {
	return h.debug != nil && h.debug.Enabled
}
