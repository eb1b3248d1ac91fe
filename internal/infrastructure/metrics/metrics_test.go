package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

var _ usecase.Recorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.EntriesAppended == nil || m.HTTPRequests == nil || m.StatementCache == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.SubjectRegistered()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestRecorderMethods(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.EntryAppended(domain.KindCharge)
	m.EntryAppended(domain.KindCharge)
	m.EntryRemoved(domain.KindSale)
	m.StatementCacheLookup(true)
	m.StatementCacheLookup(false)
	m.StatementCacheLookup(false)
	m.Discrepancy("s1")

	if got := testutil.ToFloat64(m.EntriesAppended.WithLabelValues("charge")); got != 2 {
		t.Fatalf("expected 2 charge entries, got %v", got)
	}
	if got := testutil.ToFloat64(m.EntriesRemoved.WithLabelValues("sale")); got != 1 {
		t.Fatalf("expected 1 removed sale, got %v", got)
	}
	if got := testutil.ToFloat64(m.StatementCache.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 cache misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.Discrepancies); got != 1 {
		t.Fatalf("expected 1 discrepancy, got %v", got)
	}
}
