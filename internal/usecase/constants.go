package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultStatementTTL is how long a cached subject statement stays valid.
	// Every mutation of the subject invalidates it earlier.
	DefaultStatementTTL = 10 * time.Minute

	// DefaultTopLimit is the size of debtor and creditor rankings.
	DefaultTopLimit = 10

	// MaxSearchResults caps subject search results.
	MaxSearchResults = 100

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessing is stored under a key while its first request runs.
	IdempotencyProcessing = "processing"
)

// statementCacheKey is the cache key of a subject statement.
func statementCacheKey(subjectID string) string {
	return "statement:" + subjectID
}
