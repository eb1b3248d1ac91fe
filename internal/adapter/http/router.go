package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SubjectHandler *handler.SubjectHandler
	EntryHandler   *handler.EntryHandler
	ReportHandler  *handler.ReportHandler
	HealthHandler  *handler.HealthHandler

	Logger zerolog.Logger

	// Optional
	RateLimiter    *middleware.RateLimiter
	Idempotency    *middleware.IdempotencyMiddleware
	RequestMetrics func(http.Handler) http.Handler
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.RequestMetrics != nil {
		r.Use(cfg.RequestMetrics)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		// Subjects
		r.Route("/subjects", func(r chi.Router) {
			r.Post("/", cfg.SubjectHandler.Register)
			r.Get("/", cfg.SubjectHandler.List)
			r.Get("/{id}", cfg.SubjectHandler.Get)
			r.Delete("/{id}", cfg.SubjectHandler.Delete)
			r.Get("/{id}/entries", cfg.EntryHandler.ListBySubject)
			r.Get("/{id}/statement", cfg.ReportHandler.Statement)
			r.Get("/{id}/statement/export", cfg.ReportHandler.ExportStatement)
			r.Get("/{id}/reconciliation", cfg.ReportHandler.ReconcileSubject)
		})

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Append)
			r.Post("/trade", cfg.EntryHandler.Trade)
			r.Post("/exchange", cfg.EntryHandler.Exchange)
			r.Post("/expense", cfg.EntryHandler.Expense)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Delete("/{id}", cfg.EntryHandler.Remove)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/balances", cfg.ReportHandler.Balances)
			r.Get("/balances/export", cfg.ReportHandler.ExportBalances)
			r.Get("/debtors", cfg.ReportHandler.Debtors)
			r.Get("/creditors", cfg.ReportHandler.Creditors)
			r.Get("/inventory", cfg.ReportHandler.Inventory)
			r.Get("/rollup", cfg.ReportHandler.Rollup)
			r.Get("/daily/{date}", cfg.ReportHandler.Daily)
			r.Get("/expenses", cfg.ReportHandler.Expenses)
			r.Get("/reconciliation", cfg.ReportHandler.ReconcileAll)
		})
	})

	return r
}
