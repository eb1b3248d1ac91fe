package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/adapter/export"
	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Statement(ctx context.Context, subjectID string) (*usecase.Statement, error)
	Balances(ctx context.Context) ([]usecase.SubjectBalance, error)
	TopDebtors(ctx context.Context, limit int) ([]usecase.RankedSubject, error)
	TopCreditors(ctx context.Context, limit int) ([]usecase.RankedSubject, error)
	Inventory(ctx context.Context) (*usecase.InventoryReport, error)
	Rollup(ctx context.Context, bucketing domain.Bucketing, dateRange *domain.DateRange) ([]domain.PeriodTotal, error)
	Daily(ctx context.Context, date string) (*domain.DailySummary, error)
	Expenses(ctx context.Context, dateRange *domain.DateRange) ([]domain.ExpenseTotal, error)
}

// ReconciliationService defines the reconciliation behavior needed by ReportHandler.
type ReconciliationService interface {
	ReconcileSubject(ctx context.Context, subjectID string) (*usecase.ReconciliationResult, error)
	ReconcileAll(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReportHandler serves ledger views, aggregates and exports.
type ReportHandler struct {
	reportUC    ReportService
	reconcileUC ReconciliationService
	currency    domain.Currency
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService, reconcileUC ReconciliationService, currency domain.Currency) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, reconcileUC: reconcileUC, currency: currency}
}

// Statement returns a subject's entries with running balances.
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.statement(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(stmt))
}

// ExportStatement writes a subject statement as csv or xlsx.
func (h *ReportHandler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.statement(w, r)
	if !ok {
		return
	}

	h.export(w, r, "statement-"+stmt.Subject.Code, export.StatementTable(stmt, h.currency))
}

func (h *ReportHandler) statement(w http.ResponseWriter, r *http.Request) (*usecase.Statement, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing subject ID", "")
		return nil, false
	}

	stmt, err := h.reportUC.Statement(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to build statement", err)
		return nil, false
	}

	return stmt, true
}

// Balances returns the ledger view summary of every subject.
func (h *ReportHandler) Balances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportUC.Balances(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to compute balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromUseCase(rows))
}

// ExportBalances writes the balances report as csv or xlsx.
func (h *ReportHandler) ExportBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportUC.Balances(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to compute balances", err)
		return
	}

	h.export(w, r, "balances", export.BalancesTable(rows, h.currency))
}

// Debtors returns the subjects owing the most.
func (h *ReportHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportUC.TopDebtors(r.Context(), parseIntQuery(r, "limit", 0))
	if err != nil {
		writeDomainError(w, r, "failed to rank debtors", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RankingFromUseCase(rows))
}

// Creditors returns the subjects owed the most.
func (h *ReportHandler) Creditors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportUC.TopCreditors(r.Context(), parseIntQuery(r, "limit", 0))
	if err != nil {
		writeDomainError(w, r, "failed to rank creditors", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RankingFromUseCase(rows))
}

// Inventory returns stock and profit figures.
func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.Inventory(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to compute inventory", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InventoryFromUseCase(report))
}

// Rollup returns period totals for the bucket query parameter
// (daily, weekly, monthly or yearly; monthly by default).
func (h *ReportHandler) Rollup(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = string(domain.BucketMonthly)
	}

	bucketing, err := domain.ParseBucketing(bucket)
	if err != nil {
		writeDomainError(w, r, "invalid bucket", err)
		return
	}

	dateRange, err := parseDateRange(r)
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}

	periods, err := h.reportUC.Rollup(r.Context(), bucketing, dateRange)
	if err != nil {
		writeDomainError(w, r, "failed to compute rollup", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(periods))
}

// Daily returns the day-end summary for the date path parameter.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportUC.Daily(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, r, "failed to compute daily summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyFromDomain(summary))
}

// Expenses returns totals per expense category.
func (h *ReportHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}

	totals, err := h.reportUC.Expenses(r.Context(), dateRange)
	if err != nil {
		writeDomainError(w, r, "failed to compute expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(totals))
}

// ReconcileSubject compares one subject's stored balance with its entries.
func (h *ReportHandler) ReconcileSubject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing subject ID", "")
		return
	}

	result, err := h.reconcileUC.ReconcileSubject(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to reconcile subject", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// ReconcileAll reconciles every subject.
func (h *ReportHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcileUC.ReconcileAll(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to reconcile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, name string, table export.Table) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatCSV
	}

	var write func(io.Writer, export.Table) error

	switch format {
	case formatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		write = export.WriteCSV
	case formatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		write = export.WriteXLSX
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format", format)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, format))

	if err := write(w, table); err != nil {
		// Headers are already sent; the client sees a truncated file.
		zerolog.Ctx(r.Context()).Error().Err(err).Str("export", name).Msg("export failed")
	}
}
