package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// SubjectService defines the behavior needed by SubjectHandler.
type SubjectService interface {
	Register(ctx context.Context, input usecase.RegisterSubjectInput) (*usecase.RegisterSubjectResult, error)
	GetSubject(ctx context.Context, id string) (*domain.Subject, error)
	ListSubjects(ctx context.Context, input usecase.ListSubjectsInput) ([]*domain.Subject, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Subject, error)
	DeleteSubject(ctx context.Context, id string) error
}

// SubjectHandler handles subject-related HTTP requests.
type SubjectHandler struct {
	subjectUC SubjectService
	currency  domain.Currency
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectUC SubjectService, currency domain.Currency) *SubjectHandler {
	return &SubjectHandler{subjectUC: subjectUC, currency: currency}
}

// Register registers a new subject.
func (h *SubjectHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.currency)
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return
	}

	result, err := h.subjectUC.Register(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to register subject", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegisterSubjectFromResult(result))
}

// Get retrieves a subject by ID.
func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing subject ID", "")
		return
	}

	subject, err := h.subjectUC.GetSubject(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get subject", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SubjectFromDomain(subject))
}

// List lists subjects, or searches them when q is given.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)

	var (
		subjects []*domain.Subject
		err      error
	)

	if q := r.URL.Query().Get("q"); q != "" {
		subjects, err = h.subjectUC.Search(r.Context(), q, limit)
	} else {
		subjects, err = h.subjectUC.ListSubjects(r.Context(), usecase.ListSubjectsInput{
			Limit:  limit,
			Offset: parseIntQuery(r, "offset", 0),
		})
	}
	if err != nil {
		writeDomainError(w, r, "failed to list subjects", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSubjectsResponse{
		Subjects: dto.SubjectsFromDomain(subjects),
		Total:    int64(len(subjects)),
	})
}

// Delete removes a subject that has no entries.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing subject ID", "")
		return
	}

	if err := h.subjectUC.DeleteSubject(r.Context(), id); err != nil {
		writeDomainError(w, r, "failed to delete subject", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
