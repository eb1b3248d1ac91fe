package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

type subjectServiceStub struct {
	registerFn func(ctx context.Context, input usecase.RegisterSubjectInput) (*usecase.RegisterSubjectResult, error)
	getFn      func(ctx context.Context, id string) (*domain.Subject, error)
	listFn     func(ctx context.Context, input usecase.ListSubjectsInput) ([]*domain.Subject, error)
	searchFn   func(ctx context.Context, query string, limit int) ([]*domain.Subject, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *subjectServiceStub) Register(ctx context.Context, input usecase.RegisterSubjectInput) (*usecase.RegisterSubjectResult, error) {
	return s.registerFn(ctx, input)
}

func (s *subjectServiceStub) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return s.getFn(ctx, id)
}

func (s *subjectServiceStub) ListSubjects(ctx context.Context, input usecase.ListSubjectsInput) ([]*domain.Subject, error) {
	return s.listFn(ctx, input)
}

func (s *subjectServiceStub) Search(ctx context.Context, query string, limit int) ([]*domain.Subject, error) {
	return s.searchFn(ctx, query, limit)
}

func (s *subjectServiceStub) DeleteSubject(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSubjectHandler_Register_Success(t *testing.T) {
	var captured usecase.RegisterSubjectInput
	h := NewSubjectHandler(&subjectServiceStub{
		registerFn: func(_ context.Context, input usecase.RegisterSubjectInput) (*usecase.RegisterSubjectResult, error) {
			captured = input
			return &usecase.RegisterSubjectResult{
				Subject: &domain.Subject{ID: "s1", Code: "C-0001", Name: input.Name, Category: domain.CategoryBuyer},
			}, nil
		},
	}, domain.DefaultCurrency)

	body, _ := json.Marshal(dto.RegisterSubjectRequest{Name: "Karim", OpeningCharge: "1,500"})
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/subjects", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.OpeningCharge.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected parsed opening charge, got %s", captured.OpeningCharge)
	}

	var resp dto.RegisterSubjectResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Subject.Code != "C-0001" || resp.OpeningEntry != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSubjectHandler_Register_Errors(t *testing.T) {
	h := NewSubjectHandler(&subjectServiceStub{
		registerFn: func(context.Context, usecase.RegisterSubjectInput) (*usecase.RegisterSubjectResult, error) {
			return nil, domain.ErrDuplicatePhone
		},
	}, domain.DefaultCurrency)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"unknown field", `{"name":"x","balance":"5"}`, http.StatusBadRequest},
		{"bad opening charge", `{"name":"x","opening_charge":"abc"}`, http.StatusBadRequest},
		{"duplicate phone", `{"name":"x","phone":"0700123456"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/subjects", bytes.NewBufferString(tt.body)))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSubjectHandler_Get(t *testing.T) {
	h := NewSubjectHandler(&subjectServiceStub{
		getFn: func(_ context.Context, id string) (*domain.Subject, error) {
			if id == "s1" {
				return &domain.Subject{ID: "s1", Code: "C-0001"}, nil
			}
			return nil, domain.ErrSubjectNotFound
		},
	}, domain.DefaultCurrency)

	rec := httptest.NewRecorder()
	h.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/subjects/s1", nil), "id", "s1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/subjects/nope", nil), "id", "nope"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/subjects/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", rec.Code)
	}
}

func TestSubjectHandler_List_SearchesWithQuery(t *testing.T) {
	var listed, searched bool
	h := NewSubjectHandler(&subjectServiceStub{
		listFn: func(_ context.Context, input usecase.ListSubjectsInput) ([]*domain.Subject, error) {
			listed = true
			if input.Limit != 5 || input.Offset != 10 {
				t.Fatalf("unexpected pagination %+v", input)
			}
			return []*domain.Subject{{ID: "s1"}}, nil
		},
		searchFn: func(_ context.Context, query string, _ int) ([]*domain.Subject, error) {
			searched = true
			if query != "karim" {
				t.Fatalf("unexpected query %q", query)
			}
			return []*domain.Subject{{ID: "s1"}, {ID: "s2"}}, nil
		},
	}, domain.DefaultCurrency)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/subjects?limit=5&offset=10", nil))
	if rec.Code != http.StatusOK || !listed {
		t.Fatalf("expected list call, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/subjects?q=karim", nil))

	var resp dto.ListSubjectsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !searched || resp.Total != 2 {
		t.Fatalf("expected search results, got %+v", resp)
	}
}

func TestSubjectHandler_Delete(t *testing.T) {
	h := NewSubjectHandler(&subjectServiceStub{
		deleteFn: func(_ context.Context, id string) error {
			if id == "busy" {
				return domain.ErrSubjectHasEntries
			}
			return nil
		},
	}, domain.DefaultCurrency)

	rec := httptest.NewRecorder()
	h.Delete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/subjects/idle", nil), "id", "idle"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/subjects/busy", nil), "id", "busy"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
