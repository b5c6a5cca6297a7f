package apirequest

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestValidateConfigurationValid(t *testing.T) {
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithMethod("POST"),
		WithRequestQuery(url.Values{"q": {"1"}}),
		WithRequestBody(map[string]string{"k": "v"}),
		WithManual(),
		WithDebounce(200*time.Millisecond),
	)
	defer h.Close()

	if !h.IsValid() {
		t.Errorf("Expected valid configuration, got %v", h.ValidationError())
	}
}

func TestValidateConfigurationMissingPath(t *testing.T) {
	h := New(successTransport(0, "ok", nil), WithManual())
	defer h.Close()

	assertValidationProblem(t, h, "path is required")
}

func TestValidateConfigurationNilTransport(t *testing.T) {
	h := New(nil, WithPath(testPath), WithManual())
	defer h.Close()

	assertValidationProblem(t, h, "transport must not be nil")
}

func TestValidateConfigurationEmptyMethod(t *testing.T) {
	h := New(successTransport(0, "ok", nil), WithPath(testPath), WithMethod(""), WithManual())
	defer h.Close()

	assertValidationProblem(t, h, "method must not be empty")
}

func TestValidateConfigurationDebounceThrottleExclusive(t *testing.T) {
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithManual(),
		WithDebounce(100*time.Millisecond),
		WithThrottle(100*time.Millisecond, EdgeLeading),
	)
	defer h.Close()

	assertValidationProblem(t, h, "mutually exclusive")
}

func TestValidateConfigurationNegativeIntervals(t *testing.T) {
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithManual(),
		WithDebounce(-1*time.Second),
	)
	defer h.Close()

	assertValidationProblem(t, h, "debounce interval must be non-negative")
}

func TestValidateConfigurationExtremeIntervals(t *testing.T) {
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithManual(),
		WithThrottle(2*time.Minute, EdgeTrailing),
	)
	defer h.Close()

	assertValidationProblem(t, h, "throttle interval > 1m")
}

func TestValidateConfigurationDebugNeedsLogger(t *testing.T) {
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithManual(),
		WithDebug(),
	)
	defer h.Close()

	assertValidationProblem(t, h, "logger must be set when debug is enabled")
}

func TestWithSimpleLoggerSatisfiesDebugValidation(t *testing.T) {
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithManual(),
		WithSimpleLogger(),
	)
	defer h.Close()

	if !h.IsValid() {
		t.Errorf("Expected WithSimpleLogger to satisfy debug validation, got %v", h.ValidationError())
	}
}

func TestWithRequestIDGenerator(t *testing.T) {
	gen := func() string { return "fixed-id" }
	h := New(successTransport(0, "ok", nil),
		WithPath(testPath),
		WithManual(),
		WithSimpleLogger(),
		WithRequestIDGenerator(gen),
	)
	defer h.Close()

	if got := h.debug.RequestIDGen(); got != "fixed-id" {
		t.Errorf("Expected custom request ID generator, got %s", got)
	}
}

func assertValidationProblem(t *testing.T, h *Hook, fragment string) {
	t.Helper()

	err := h.ValidationError()
	if err == nil {
		t.Fatalf("Expected validation error mentioning %q, got nil", fragment)
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Type != ErrorTypeValidation {
		t.Fatalf("Expected RequestError of type Validation, got %v", err)
	}
	if !strings.Contains(reqErr.Cause.Error(), fragment) {
		t.Errorf("Expected validation problems to mention %q, got %v", fragment, reqErr.Cause)
	}
}
