package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/bookkeeper/internal/adapter/http"
	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bookkeeper/internal/adapter/repository/postgres"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

type testLedger struct {
	server   *httptest.Server
	subjects *usecase.SubjectUseCase
	entries  *usecase.EntryUseCase
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	subjectRepo := memory.NewSubjectRepository(store)
	entryRepo := memory.NewEntryRepository(store)
	idGen := postgresRepo.NewULIDGenerator()
	currency := domain.DefaultCurrency
	recorder := usecase.NopRecorder{}

	subjects := usecase.NewSubjectUseCase(txManager, subjectRepo, entryRepo, idGen, usecase.NoRetry{}, nil, recorder, currency)
	entries := usecase.NewEntryUseCase(txManager, entryRepo, subjectRepo, idGen, usecase.NoRetry{}, nil, recorder, currency)
	reports := usecase.NewReportUseCase(subjectRepo, entryRepo, nil, recorder, 0, decimal.NewFromInt(500))
	reconcile := usecase.NewReconciliationUseCase(subjectRepo, entryRepo, recorder)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SubjectHandler: handler.NewSubjectHandler(subjects, currency),
		EntryHandler:   handler.NewEntryHandler(entries, currency),
		ReportHandler:  handler.NewReportHandler(reports, reconcile, currency),
		HealthHandler:  handler.NewHealthHandler(),
		Logger:         zerolog.Nop(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testLedger{server: server, subjects: subjects, entries: entries}
}

func (l *testLedger) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--url", l.server.URL}, args...))
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (l *testLedger) register(t *testing.T, name string) *domain.Subject {
	t.Helper()

	result, err := l.subjects.Register(context.Background(), usecase.RegisterSubjectInput{Name: name})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return result.Subject
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("کریم تریدرز", 6); got != "کری..." {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}

func TestSubjectsCommands(t *testing.T) {
	l := newTestLedger(t)

	out, err := l.run(t, "subjects", "register", "--name", "Karim Traders", "--phone", "0700123456")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !strings.Contains(out, "Registered C-0001 Karim Traders") {
		t.Fatalf("unexpected register output: %q", out)
	}

	out, err = l.run(t, "subjects", "list", "-q", "karim")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "C-0001") || !strings.Contains(out, "0700123456") {
		t.Fatalf("unexpected list output: %q", out)
	}

	_, err = l.run(t, "subjects", "register", "--name", "Other", "--phone", "0700123456")
	if err == nil || !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected conflict error, got %v", err)
	}

	_, err = l.run(t, "subjects", "get", "missing")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestEntriesAndStatement(t *testing.T) {
	l := newTestLedger(t)
	karim := l.register(t, "Karim")

	if _, err := l.run(t, "entries", "append", "--subject", karim.ID, "--date", "2024-01-01", "--kind", "charge", "--debit", "1000"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	out, err := l.run(t, "entries", "append", "--subject", karim.ID, "--date", "2024-01-02", "--kind", "payment", "--credit", "400")
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if !strings.Contains(out, "Appended entry") {
		t.Fatalf("unexpected append output: %q", out)
	}

	out, err = l.run(t, "statement", karim.ID)
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}
	if !strings.Contains(out, "Position: debtor") || !strings.Contains(out, "600") {
		t.Fatalf("unexpected statement output: %q", out)
	}

	out, err = l.run(t, "entries", "list", "--subject", karim.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Count(out, "2024-01-0") != 2 {
		t.Fatalf("expected two entries, got %q", out)
	}

	_, err = l.run(t, "entries", "list", "--from", "2024-01-01")
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected validation error, got %v", err)
	}

	out, err = l.run(t, "balances")
	if err != nil {
		t.Fatalf("balances failed: %v", err)
	}
	if !strings.Contains(out, "C-0001") || !strings.Contains(out, "debtor") {
		t.Fatalf("unexpected balances output: %q", out)
	}

	_, err = l.run(t, "subjects", "delete", karim.ID)
	if err == nil || !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected restrict on delete, got %v", err)
	}
}

func TestReconcileCommand(t *testing.T) {
	l := newTestLedger(t)
	karim := l.register(t, "Karim")

	_, err := l.entries.Append(context.Background(), usecase.AppendEntryInput{
		SubjectID: karim.ID, Date: "2024-01-01", Kind: domain.KindCharge, Debit: decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	out, err := l.run(t, "reconcile")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !strings.Contains(out, "Reconciliation PASSED") {
		t.Fatalf("unexpected reconcile output: %q", out)
	}

	out, err = l.run(t, "reconcile", karim.ID)
	if err != nil {
		t.Fatalf("subject reconcile failed: %v", err)
	}
	if !strings.Contains(out, "recorded 250") {
		t.Fatalf("unexpected subject reconcile output: %q", out)
	}
}

func TestExportCommand(t *testing.T) {
	l := newTestLedger(t)
	karim := l.register(t, "Karim")

	_, err := l.entries.Append(context.Background(), usecase.AppendEntryInput{
		SubjectID: karim.ID, Date: "2024-01-01", Kind: domain.KindCharge, Debit: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	out, err := l.run(t, "export", "statement", karim.ID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(out, "Date,Kind,Description,Debit,Credit,Balance") {
		t.Fatalf("unexpected csv: %q", out)
	}

	path := filepath.Join(t.TempDir(), "balances.xlsx")
	if _, err := l.run(t, "export", "balances", "--format", "xlsx", "-o", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("expected xlsx archive")
	}

	_, err = l.run(t, "export", "balances", "--format", "pdf")
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}
