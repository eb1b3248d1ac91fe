package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository. db is usually a *pgxpool.Pool.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Append inserts the entry and stores the sequence assigned by the database.
func (r *EntryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	seq, err := queriesFor(tx, r.queries).CreateEntry(ctx, generated.CreateEntryParams{
		ID:          entry.ID,
		SubjectID:   textOrNull(entry.SubjectID),
		EntryDate:   timeToPgDate(entry.Date),
		Description: entry.Description,
		Kind:        string(entry.Kind),
		Category:    string(entry.Category),
		Debit:       decimalToNumeric(entry.Debit),
		Credit:      decimalToNumeric(entry.Credit),
		Fee:         decimalToNumeric(entry.Fee),
		Quantity:    nullDecimalToNumeric(entry.Quantity),
		UnitPrice:   nullDecimalToNumeric(entry.UnitPrice),
		Rate:        nullDecimalToNumeric(entry.Rate),
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEntryID, entry.ID)
		case pgErrForeignKeyViolation:
			return domain.ErrSubjectNotFound
		}
		return err
	}

	entry.Seq = seq
	return nil
}

// Remove hard-deletes an entry and returns it.
func (r *EntryRepository) Remove(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	row, err := queriesFor(tx, r.queries).DeleteEntry(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToEntry(row), nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row, err := r.queries.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToEntry(row), nil
}

// ListBySubject returns the subject's entries ordered by date and sequence.
func (r *EntryRepository) ListBySubject(ctx context.Context, subjectID string) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesBySubject(ctx, textOrNull(subjectID))
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListAll returns every entry ordered by date and sequence, optionally
// restricted to an inclusive date range.
func (r *EntryRepository) ListAll(ctx context.Context, dateRange *domain.DateRange) ([]*domain.Entry, error) {
	var (
		rows []generated.Entry
		err  error
	)

	if dateRange == nil {
		rows, err = r.queries.ListEntries(ctx)
	} else {
		rows, err = r.queries.ListEntriesBetween(ctx, generated.ListEntriesBetweenParams{
			StartDate: timeToPgDate(dateRange.Start),
			EndDate:   timeToPgDate(dateRange.End),
		})
	}
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// CountBySubject counts the subject's entries.
func (r *EntryRepository) CountBySubject(ctx context.Context, tx usecase.Transaction, subjectID string) (int64, error) {
	return queriesFor(tx, r.queries).CountEntriesBySubject(ctx, textOrNull(subjectID))
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		Seq:         row.Seq,
		ID:          row.ID,
		SubjectID:   row.SubjectID.String,
		Date:        domain.TruncateDate(row.EntryDate.Time),
		Description: row.Description,
		Kind:        domain.EntryKind(row.Kind),
		Category:    domain.ExpenseCategory(row.Category),
		Debit:       numericToDecimal(row.Debit),
		Credit:      numericToDecimal(row.Credit),
		Fee:         numericToDecimal(row.Fee),
		Quantity:    numericToNullDecimal(row.Quantity),
		UnitPrice:   numericToNullDecimal(row.UnitPrice),
		Rate:        numericToNullDecimal(row.Rate),
		CreatedAt:   row.CreatedAt.Time,
	}
}
