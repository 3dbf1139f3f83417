package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveSearch("contains", OutcomeOK, time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "search_requests_total", "search_duration_seconds")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 series, got %d", n)
	}
}

func TestMetrics_Observers(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveSearch("fuzzy", OutcomeEmpty, 2*time.Millisecond)
	m.ObserveSearch("fuzzy", OutcomeEmpty, time.Millisecond)
	if got := testutil.ToFloat64(m.SearchRequests.WithLabelValues("fuzzy", OutcomeEmpty)); got != 2 {
		t.Fatalf("search_requests_total{fuzzy,empty} = %v; want 2", got)
	}

	m.ObserveIndexBuild(12, time.Second, nil)
	m.ObserveIndexBuild(0, time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(m.IndexBuilds.WithLabelValues(OutcomeOK)); got != 1 {
		t.Fatalf("index builds ok = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.IndexBuilds.WithLabelValues(OutcomeError)); got != 1 {
		t.Fatalf("index builds error = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.IndexDocuments); got != 12 {
		t.Fatalf("index documents = %v; want 12 (failed builds keep the last size)", got)
	}

	m.ObserveAnchor("paragraph", true)
	m.ObserveAnchor("none", false)
	if got := testutil.ToFloat64(m.AnchorResolution.WithLabelValues("paragraph", OutcomeResolved)); got != 1 {
		t.Fatalf("anchor paragraph resolved = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.AnchorResolution.WithLabelValues("none", OutcomeUnresolved)); got != 1 {
		t.Fatalf("anchor none unresolved = %v; want 1", got)
	}
}
