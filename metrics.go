package apirequest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the hook's attempt
// lifecycle. It is safe for concurrent use and may be shared across hooks.
type MetricsCollector struct {
	attemptsTotal    *prometheus.CounterVec
	attemptDuration  *prometheus.HistogramVec
	attemptsInFlight *prometheus.GaugeVec

	staleResponsesTotal *prometheus.CounterVec

	abortsTotal prometheus.Counter

	suppressedCallsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		attemptsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "apirequest_attempts_total",
				Help: "Total number of settled request attempts by outcome",
			},
			[]string{"method", "path", "outcome"},
		),
		attemptDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apirequest_attempt_duration_seconds",
				Help:    "Duration of request attempts in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		attemptsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "apirequest_attempts_in_flight",
				Help: "Number of request attempts currently in flight",
			},
			[]string{"method", "path"},
		),
		staleResponsesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "apirequest_stale_responses_total",
				Help: "Total number of settlements discarded as superseded",
			},
			[]string{"method", "path"},
		),
		abortsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "apirequest_aborts_total",
				Help: "Total number of explicit aborts",
			},
		),
		suppressedCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "apirequest_suppressed_calls_total",
				Help: "Total number of Send calls collapsed by debounce or throttle",
			},
			[]string{"mode"},
		),
		registry: registry,
	}

	return mc
}

// RecordAttempt records a settled attempt's outcome and duration.
func (mc *MetricsCollector) RecordAttempt(method, path, outcome string, duration time.Duration) {
	if mc == nil {
		return
	}

	mc.attemptsTotal.WithLabelValues(method, path, outcome).Inc()
	mc.attemptDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAttemptStart increments in-flight gauge.
func (mc *MetricsCollector) RecordAttemptStart(method, path string) {
	if mc == nil {
		return
	}

	mc.attemptsInFlight.WithLabelValues(method, path).Inc()
}

// RecordAttemptEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordAttemptEnd(method, path string) {
	if mc == nil {
		return
	}

	mc.attemptsInFlight.WithLabelValues(method, path).Dec()
}

// RecordStaleDrop increments the discarded-settlement counter.
func (mc *MetricsCollector) RecordStaleDrop(method, path string) {
	if mc == nil {
		return
	}

	mc.staleResponsesTotal.WithLabelValues(method, path).Inc()
}

// RecordAbort increments the abort counter.
func (mc *MetricsCollector) RecordAbort() {
	if mc == nil {
		return
	}

	mc.abortsTotal.Inc()
}

// RecordSuppressed increments the suppressed-call counter for a mode
// ("debounce" or "throttle").
func (mc *MetricsCollector) RecordSuppressed(mode string) {
	if mc == nil {
		return
	}

	mc.suppressedCallsTotal.WithLabelValues(mode).Inc()
}
