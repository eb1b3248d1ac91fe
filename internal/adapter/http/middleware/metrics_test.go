package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestVectors() (*prometheus.CounterVec, *prometheus.HistogramVec) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_requests_total"}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_duration_seconds"}, []string{"method", "path"})
	return requests, duration
}

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	requests, duration := newTestVectors()

	r := chi.NewRouter()
	r.Use(Metrics(requests, duration))
	r.Get("/api/v1/subjects/{id}/statement", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"01ABC", "01DEF"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/subjects/"+id+"/statement", nil))
	}

	got := testutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "/api/v1/subjects/{id}/statement", "418"))
	if got != 2 {
		t.Fatalf("expected 2 requests under the route pattern, got %v", got)
	}

	if count := testutil.CollectAndCount(duration); count != 1 {
		t.Fatalf("expected one duration series, got %d", count)
	}
}

func TestMetricsMiddlewareUnmatchedPath(t *testing.T) {
	requests, duration := newTestVectors()

	handler := Metrics(requests, duration)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/123", nil))

	if got := testutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "unmatched", "404")); got != 1 {
		t.Fatalf("expected unmatched request to be counted, got %v", got)
	}
}
