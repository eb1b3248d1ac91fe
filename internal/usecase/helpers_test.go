package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type cacheRecorder struct {
	usecase.NopRecorder
	mu     sync.Mutex
	hits   int
	misses int
}

func (r *cacheRecorder) StatementCacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
		return
	}
	r.misses++
}

// ledger wires every use case over an in-memory store.
type ledger struct {
	store     *memory.Store
	subjects  *usecase.SubjectUseCase
	entries   *usecase.EntryUseCase
	reports   *usecase.ReportUseCase
	reconcile *usecase.ReconciliationUseCase
	cache     *mapCache
	recorder  *cacheRecorder
}

func newLedger(t *testing.T) *ledger {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	entryRepo := memory.NewEntryRepository(store)
	subjectRepo := memory.NewSubjectRepository(store)
	ids := &sequentialIDs{}
	cache := newMapCache()
	recorder := &cacheRecorder{}

	return &ledger{
		store:     store,
		subjects:  usecase.NewSubjectUseCase(txManager, subjectRepo, entryRepo, ids, usecase.NoRetry{}, cache, recorder, domain.DefaultCurrency),
		entries:   usecase.NewEntryUseCase(txManager, entryRepo, subjectRepo, ids, usecase.NoRetry{}, cache, recorder, domain.DefaultCurrency),
		reports:   usecase.NewReportUseCase(subjectRepo, entryRepo, cache, recorder, time.Minute, decimal.NewFromInt(500)),
		reconcile: usecase.NewReconciliationUseCase(subjectRepo, entryRepo, recorder),
		cache:     cache,
		recorder:  recorder,
	}
}

func (l *ledger) register(t *testing.T, name string, category domain.SubjectCategory) *domain.Subject {
	t.Helper()

	result, err := l.subjects.Register(context.Background(), usecase.RegisterSubjectInput{Name: name, Category: category})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return result.Subject
}

func (l *ledger) post(t *testing.T, subjectID, date string, kind domain.EntryKind, debit, credit int64) *domain.Entry {
	t.Helper()

	entry, err := l.entries.Append(context.Background(), usecase.AppendEntryInput{
		SubjectID: subjectID,
		Date:      date,
		Kind:      kind,
		Debit:     decimal.NewFromInt(debit),
		Credit:    decimal.NewFromInt(credit),
	})
	if err != nil {
		t.Fatalf("append %s entry: %v", kind, err)
	}
	return entry
}

func requireDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("expected %d, got %s", want, got)
	}
}
