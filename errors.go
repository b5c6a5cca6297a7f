package apirequest

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure scenarios
var (
	// ErrNetwork is the default error stored in state when a transport
	// failure carries no error of its own.
	ErrNetwork = errors.New("apirequest: network error")

	// ErrTransportContract is stored in state when the transport itself
	// panics, which its contract forbids.
	ErrTransportContract = errors.New("apirequest: transport contract violation")

	// ErrClosed is reported when an operation is attempted on a closed hook.
	ErrClosed = errors.New("apirequest: hook closed")
)

// Error type identifiers for RequestError.
const (
	ErrorTypeValidation = "Validation"
	ErrorTypeTransport  = "Transport"
	ErrorTypeContract   = "Contract"
)

// RequestError is a typed error carrying diagnostic context about the
// attempt it belongs to.
type RequestError struct {
	Type      string
	Message   string
	Cause     error
	RequestID string
	Method    string
	Path      string
	Sequence  uint64
	Timestamp time.Time
	Duration  time.Duration
}

// Error implements error interface.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Sequence > 0 {
		msg = fmt.Sprintf("%s (attempt %d)", msg, e.Sequence)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *RequestError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*RequestError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *RequestError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.Path != "" {
		info += fmt.Sprintf("Path: %s\n", e.Path)
	}
	if e.Sequence > 0 {
		info += fmt.Sprintf("Attempt: %d\n", e.Sequence)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}
