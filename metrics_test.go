package apirequest

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewMetricsCollectorWithRegistry(registry)

	if collector == nil {
		t.Fatal("NewMetricsCollectorWithRegistry() returned nil")
	}

	if collector.attemptsTotal == nil {
		t.Error("attemptsTotal metric not initialized")
	}

	if collector.attemptDuration == nil {
		t.Error("attemptDuration metric not initialized")
	}

	if collector.attemptsInFlight == nil {
		t.Error("attemptsInFlight metric not initialized")
	}

	if collector.staleResponsesTotal == nil {
		t.Error("staleResponsesTotal metric not initialized")
	}

	if collector.abortsTotal == nil {
		t.Error("abortsTotal metric not initialized")
	}

	if collector.suppressedCallsTotal == nil {
		t.Error("suppressedCallsTotal metric not initialized")
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var mc *MetricsCollector

	mc.RecordAttempt("GET", testPath, "success", time.Millisecond)
	mc.RecordAttemptStart("GET", testPath)
	mc.RecordAttemptEnd("GET", testPath)
	mc.RecordStaleDrop("GET", testPath)
	mc.RecordAbort()
	mc.RecordSuppressed("debounce")
}

func TestRecordAttemptCountsByOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordAttempt("GET", testPath, "success", 5*time.Millisecond)
	mc.RecordAttempt("GET", testPath, "success", 7*time.Millisecond)
	mc.RecordAttempt("GET", testPath, "app_failure", time.Millisecond)

	success := testutil.ToFloat64(mc.attemptsTotal.WithLabelValues("GET", testPath, "success"))
	if success != 2 {
		t.Errorf("Expected 2 success attempts, got %v", success)
	}

	appFailure := testutil.ToFloat64(mc.attemptsTotal.WithLabelValues("GET", testPath, "app_failure"))
	if appFailure != 1 {
		t.Errorf("Expected 1 app_failure attempt, got %v", appFailure)
	}
}

func TestRecordInFlightGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordAttemptStart("GET", testPath)
	mc.RecordAttemptStart("GET", testPath)
	mc.RecordAttemptEnd("GET", testPath)

	inFlight := testutil.ToFloat64(mc.attemptsInFlight.WithLabelValues("GET", testPath))
	if inFlight != 1 {
		t.Errorf("Expected 1 attempt in flight, got %v", inFlight)
	}
}

func TestHookRecordsStaleDropAndSuppression(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordStaleDrop("GET", testPath)
	mc.RecordAbort()
	mc.RecordSuppressed("debounce")
	mc.RecordSuppressed("debounce")

	if got := testutil.ToFloat64(mc.staleResponsesTotal.WithLabelValues("GET", testPath)); got != 1 {
		t.Errorf("Expected 1 stale drop, got %v", got)
	}
	if got := testutil.ToFloat64(mc.abortsTotal); got != 1 {
		t.Errorf("Expected 1 abort, got %v", got)
	}
	if got := testutil.ToFloat64(mc.suppressedCallsTotal.WithLabelValues("debounce")); got != 2 {
		t.Errorf("Expected 2 suppressed calls, got %v", got)
	}
}

func TestWithMetricsCollectorWiresHookLifecycle(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	h := New(successTransport(5, "denied", nil),
		WithPath(testPath),
		WithManual(),
		WithMetricsCollector(mc),
	)
	defer h.Close()

	h.Send()
	waitUntil(t, "attempt to settle", func() bool {
		return testutil.ToFloat64(mc.attemptsTotal.WithLabelValues("GET", testPath, "app_failure")) == 1
	})

	if got := testutil.ToFloat64(mc.attemptsInFlight.WithLabelValues("GET", testPath)); got != 0 {
		t.Errorf("Expected in-flight gauge back to 0, got %v", got)
	}
}
