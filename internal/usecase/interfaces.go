package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// EntryRepository is the Entry Store. Listings are ordered by date, then by
// insertion sequence.
type EntryRepository interface {
	// Append stores the entry and assigns its insertion sequence.
	Append(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// Remove hard-deletes an entry and returns it.
	Remove(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*domain.Entry, error)
	// ListAll returns every entry, optionally restricted to an inclusive date range.
	ListAll(ctx context.Context, dateRange *domain.DateRange) ([]*domain.Entry, error)
	CountBySubject(ctx context.Context, tx Transaction, subjectID string) (int64, error)
}

// SubjectRepository defines data access for subjects.
type SubjectRepository interface {
	Create(ctx context.Context, tx Transaction, subject *domain.Subject) error
	// NextCodeSeq returns the next value of the subject code counter.
	NextCodeSeq(ctx context.Context, tx Transaction) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.Subject, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Subject, error)
	ExistsByPhone(ctx context.Context, tx Transaction, phone string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Subject, error)
	ListAll(ctx context.Context) ([]*domain.Subject, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Subject, error)
	// AddToBalance moves the denormalized balance by delta.
	AddToBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation that failed with a transient store error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// NoRetry runs the operation exactly once.
type NoRetry struct{}

func (NoRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}

// Recorder receives business metrics.
type Recorder interface {
	EntryAppended(kind domain.EntryKind)
	EntryRemoved(kind domain.EntryKind)
	SubjectRegistered()
	StatementCacheLookup(hit bool)
	Discrepancy(subjectID string)
}

// NopRecorder discards every metric.
type NopRecorder struct{}

func (NopRecorder) EntryAppended(domain.EntryKind) {}
func (NopRecorder) EntryRemoved(domain.EntryKind)  {}
func (NopRecorder) SubjectRegistered()             {}
func (NopRecorder) StatementCacheLookup(bool)      {}
func (NopRecorder) Discrepancy(string)             {}
