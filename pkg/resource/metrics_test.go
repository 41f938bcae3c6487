package resource

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountFetchesAndFailures(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegistry(registry), WithNamespace("test"))

	failed := make(chan struct{}, 4)
	// jsonClient with no fixtures answers every key with a 404.
	r := New[user](jsonClient(nil)).
		WithMetrics(metrics).
		OnFailure(func(error) { failed <- struct{}{} })

	r.Request("users/1")
	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for failure")
	}

	r.Retry()
	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for retry failure")
	}

	if got := testutil.ToFloat64(metrics.fetchesTotal); got != 2 {
		t.Errorf("fetches_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.failuresTotal.WithLabelValues("status")); got != 2 {
		t.Errorf(`failures_total{kind="status"} = %v, want 2`, got)
	}
	if got := testutil.ToFloat64(metrics.inFlight); got != 0 {
		t.Errorf("in_flight = %v, want 0 after completion", got)
	}
}

func TestMetricsRegistersOnCustomRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(WithRegistry(registry), WithSubsystem("fetch"))

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	// Counters without observations are still registered; the vec is not
	// exported until a label combination is observed.
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}
}
