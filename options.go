package apirequest

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// WithPath sets the default request path (required).
func WithPath(path string) Option {
	return func(h *Hook) {
		h.path = path
	}
}

// WithMethod sets the default HTTP method (default GET).
func WithMethod(method string) Option {
	return func(h *Hook) {
		h.method = method
	}
}

// WithRequestQuery sets the default query parameters.
func WithRequestQuery(query url.Values) Option {
	return func(h *Hook) {
		h.requestQuery = query
	}
}

// WithRequestBody sets the default request body.
func WithRequestBody(body interface{}) Option {
	return func(h *Hook) {
		h.requestBody = body
	}
}

// WithManual disables the automatic first attempt; the hook stays idle
// (loading false) until Send is called.
func WithManual() Option {
	return func(h *Hook) {
		h.manual = true
	}
}

// WithFormatResult sets a pure payload transform applied to every
// successfully materialized payload before it is stored in state.
func WithFormatResult(format FormatFunc) Option {
	return func(h *Hook) {
		h.formatResult = format
	}
}

// WithDebounce wraps Send so bursts of calls within the interval collapse to
// the trailing call. Mutually exclusive with WithThrottle.
func WithDebounce(interval time.Duration) Option {
	return func(h *Hook) {
		h.debounceInterval = interval
	}
}

// WithThrottle wraps Send so calls are rate-limited to at most one per
// interval with the given edge policy. Mutually exclusive with WithDebounce.
func WithThrottle(interval time.Duration, edge ThrottleEdge) Option {
	return func(h *Hook) {
		h.throttleInterval = interval
		h.throttleEdge = edge
	}
}

// WithContext sets the context handed to the transport on every attempt.
// Cancelling it does not abort the hook; use Abort or Close for that.
func WithContext(ctx context.Context) Option {
	return func(h *Hook) {
		h.ctx = ctx
	}
}

// WithOnLoad registers a callback fired after every start transition.
func WithOnLoad(fn func()) Option {
	return func(h *Hook) {
		h.onLoad = fn
	}
}

// WithOnSuccess registers a callback fired when an attempt settles with the
// success sentinel code 0. The envelope carries the formatted payload.
func WithOnSuccess(fn func(Envelope)) Option {
	return func(h *Hook) {
		h.onSuccess = fn
	}
}

// WithOnFail registers a callback fired when an attempt settles with a
// nonzero application code.
func WithOnFail(fn func(Envelope)) Option {
	return func(h *Hook) {
		h.onFail = fn
	}
}

// WithOnError registers a callback fired on transport failure.
func WithOnError(fn func(error)) Option {
	return func(h *Hook) {
		h.onError = fn
	}
}

// WithOnUnsuccessful registers a callback fired after OnFail or OnError,
// whichever applies.
func WithOnUnsuccessful(fn func()) Option {
	return func(h *Hook) {
		h.onUnsuccessful = fn
	}
}

// WithPresenter registers a presentation hook invoked after every settled
// attempt with the outcome and the given opaque configuration.
func WithPresenter(fn Presenter, config interface{}) Option {
	return func(h *Hook) {
		h.presenter = fn
		h.presenterConfig = config
	}
}

// WithViolationHandler routes transport contract violations (a panicking
// transport) to a supervising layer instead of the logger.
func WithViolationHandler(fn func(error)) Option {
	return func(h *Hook) {
		h.violation = fn
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(h *Hook) {
		h.logger = logger
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(h *Hook) {
		if h.debug == nil {
			h.debug = DefaultDebugConfig()
		}
		h.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(h *Hook) {
		h.debug = config
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(h *Hook) {
		if h.debug == nil {
			h.debug = DefaultDebugConfig()
		}
		h.debug.Enabled = true
		h.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(h *Hook) {
		if h.debug == nil {
			h.debug = DefaultDebugConfig()
		}
		h.debug.RequestIDGen = gen
	}
}

// WithMetrics enables Prometheus metrics collection on the default registerer.
func WithMetrics() Option {
	return func(h *Hook) {
		h.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(h *Hook) {
		h.metrics = collector
	}
}

// ValidateConfiguration validates the hook configuration and returns an
// error if invalid.
func (h *Hook) ValidateConfiguration() error {
	var problems []string

	problems = append(problems, h.validateRequestConfig()...)
	problems = append(problems, h.validateSchedulerConfig()...)
	problems = append(problems, h.validateDebugConfig()...)
	problems = append(problems, h.validateExtremeValues()...)

	if len(problems) > 0 {
		return &RequestError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}

func (h *Hook) validateRequestConfig() []string {
	var problems []string

	if h.transport == nil {
		problems = append(problems, "transport must not be nil")
	}

	if h.path == "" {
		problems = append(problems, "path is required")
	}

	if h.method == "" {
		problems = append(problems, "method must not be empty")
	}

	if h.ctx == nil {
		problems = append(problems, "context must not be nil")
	}

	return problems
}

func (h *Hook) validateSchedulerConfig() []string {
	var problems []string

	if h.debounceInterval < 0 {
		problems = append(problems, "debounce interval must be non-negative")
	}

	if h.throttleInterval < 0 {
		problems = append(problems, "throttle interval must be non-negative")
	}

	if h.debounceInterval > 0 && h.throttleInterval > 0 {
		problems = append(problems, "debounce and throttle are mutually exclusive")
	}

	if h.throttleEdge != EdgeLeading && h.throttleEdge != EdgeTrailing {
		problems = append(problems, "throttle edge must be EdgeLeading or EdgeTrailing")
	}

	return problems
}

func (h *Hook) validateDebugConfig() []string {
	var problems []string

	if h.debug != nil && h.debug.Enabled {
		if h.debug.RequestIDGen == nil {
			problems = append(problems, "debug RequestIDGen must be set when debug is enabled")
		}
		if h.logger == nil {
			problems = append(problems, "logger must be set when debug is enabled")
		}
	}

	return problems
}

func (h *Hook) validateExtremeValues() []string {
	var problems []string

	if h.debounceInterval > time.Minute {
		problems = append(problems, "debounce interval > 1m would delay requests excessively")
	}

	if h.throttleInterval > time.Minute {
		problems = append(problems, "throttle interval > 1m would delay requests excessively")
	}

	return problems
}
