package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/bookkeeper/internal/domain"
)

// Metrics holds all Prometheus metrics. It implements usecase.Recorder.
type Metrics struct {
	// Ledger metrics
	EntriesAppended    *prometheus.CounterVec
	EntriesRemoved     *prometheus.CounterVec
	SubjectsRegistered prometheus.Counter
	Discrepancies      prometheus.Counter

	// Cache metrics
	StatementCache *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates and registers all metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates and registers all metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EntriesAppended: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_entries_appended_total",
				Help: "Total number of ledger entries appended by kind",
			},
			[]string{"kind"},
		),
		EntriesRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_entries_removed_total",
				Help: "Total number of ledger entries removed by kind",
			},
			[]string{"kind"},
		),
		SubjectsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_subjects_registered_total",
			Help: "Total number of subjects registered",
		}),
		Discrepancies: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_balance_discrepancies_total",
			Help: "Total number of subject balance discrepancies found by reconciliation",
		}),

		StatementCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_statement_cache_lookups_total",
				Help: "Statement cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookkeeper_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_idempotent_replays_total",
			Help: "Total responses replayed for a repeated idempotency key",
		}),
	}
}

// EntryAppended counts an appended entry.
func (m *Metrics) EntryAppended(kind domain.EntryKind) {
	m.EntriesAppended.WithLabelValues(string(kind)).Inc()
}

// EntryRemoved counts a removed entry.
func (m *Metrics) EntryRemoved(kind domain.EntryKind) {
	m.EntriesRemoved.WithLabelValues(string(kind)).Inc()
}

// SubjectRegistered counts a registered subject.
func (m *Metrics) SubjectRegistered() {
	m.SubjectsRegistered.Inc()
}

// StatementCacheLookup counts a statement cache hit or miss.
func (m *Metrics) StatementCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StatementCache.WithLabelValues(result).Inc()
}

// Discrepancy counts a reconciliation discrepancy. The subject is logged
// by the caller, not used as a label.
func (m *Metrics) Discrepancy(string) {
	m.Discrepancies.Inc()
}
