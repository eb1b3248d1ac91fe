package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	Append(ctx context.Context, input usecase.AppendEntryInput) (*domain.Entry, error)
	RecordTrade(ctx context.Context, input usecase.RecordTradeInput) (*domain.Entry, error)
	RecordExchange(ctx context.Context, input usecase.RecordExchangeInput) (*domain.Entry, error)
	RecordExpense(ctx context.Context, input usecase.RecordExpenseInput) (*domain.Entry, error)
	Remove(ctx context.Context, id string) error
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*domain.Entry, error)
	ListAll(ctx context.Context, dateRange *domain.DateRange) ([]*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC  EntryService
	currency domain.Currency
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService, currency domain.Currency) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, currency: currency}
}

// Append appends a raw debit/credit entry.
func (h *EntryHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req dto.AppendEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.currency)
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return
	}

	h.created(w, r, func(ctx context.Context) (*domain.Entry, error) {
		return h.entryUC.Append(ctx, input)
	})
}

// Trade records a sale or purchase from quantity and unit price.
func (h *EntryHandler) Trade(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordTradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return
	}

	h.created(w, r, func(ctx context.Context) (*domain.Entry, error) {
		return h.entryUC.RecordTrade(ctx, input)
	})
}

// Exchange records a currency exchange.
func (h *EntryHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordExchangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.currency)
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return
	}

	h.created(w, r, func(ctx context.Context) (*domain.Entry, error) {
		return h.entryUC.RecordExchange(ctx, input)
	})
}

// Expense records an entity-less expense.
func (h *EntryHandler) Expense(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.currency)
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return
	}

	h.created(w, r, func(ctx context.Context) (*domain.Entry, error) {
		return h.entryUC.RecordExpense(ctx, input)
	})
}

func (h *EntryHandler) created(w http.ResponseWriter, r *http.Request, record func(context.Context) (*domain.Entry, error)) {
	entry, err := record(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to record entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Remove hard-deletes an entry.
func (h *EntryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	if err := h.entryUC.Remove(r.Context(), id); err != nil {
		writeDomainError(w, r, "failed to remove entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists all entries in ledger order, optionally within from/to.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}

	entries, err := h.entryUC.ListAll(r.Context(), dateRange)
	if err != nil {
		writeDomainError(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListBySubject lists a subject's entries in ledger order.
func (h *EntryHandler) ListBySubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "id")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "missing subject ID", "")
		return
	}

	entries, err := h.entryUC.ListBySubject(r.Context(), subjectID)
	if err != nil {
		writeDomainError(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
