package apirequest

// State is the externally observed record of the last attempt. It is owned
// exclusively by one Hook instance and only ever replaced wholesale by the
// reducer; callers receive copies.
type State struct {
	// Loading is true while an attempt is outstanding (and on construction
	// unless manual mode is requested).
	Loading bool
	// Code is the application-level result code of the last completed
	// attempt; nil while loading and after a transport failure.
	Code *int
	// Message is the human-readable status of the last completed attempt.
	Message *string
	// Payload is the last successfully materialized result, possibly
	// post-processed by FormatResult or overwritten by Mutate.
	Payload interface{}
	// Err is set only after a transport failure and cleared by any
	// subsequent start or success.
	Err error
}

type actionKind int

const (
	actionStart actionKind = iota
	actionSuccess
	actionFailure
	actionMutate
)

// action is the tagged unit the reducer consumes. Every action carries the
// sequence number captured when its originating attempt was triggered;
// mutate actions are stamped with the current sequence at dispatch time.
type action struct {
	kind    actionKind
	seq     uint64
	code    int
	message string
	payload interface{}
	err     error
	update  UpdateFunc
}

// reduce is the pure transition function over State. An action whose
// sequence number no longer matches current is stale and leaves the state
// untouched; this is the sole defense against out-of-order completions.
func reduce(state State, act action, current uint64, format FormatFunc) State {
	if act.seq != current {
		return state
	}

	switch act.kind {
	case actionStart:
		state.Loading = true
		state.Err = nil
		return state

	case actionSuccess:
		payload := act.payload
		if format != nil {
			payload = format(payload)
		}
		code := act.code
		message := act.message
		state.Loading = false
		state.Code = &code
		state.Message = &message
		state.Payload = payload
		state.Err = nil
		return state

	case actionFailure:
		err := act.err
		if err == nil {
			err = ErrNetwork
		}
		state.Loading = false
		state.Code = nil
		state.Message = nil
		state.Payload = nil
		state.Err = err
		return state

	case actionMutate:
		if act.update != nil {
			state.Payload = act.update(state.Payload)
		} else {
			state.Payload = act.payload
		}
		return state
	}

	// Unknown kinds never reach the reducer: applyAction logs and drops
	// them before dispatch. Falling through here stays a no-op.
	return state
}
