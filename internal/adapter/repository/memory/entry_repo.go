package memory

import (
	"context"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Append stores a copy of the entry and assigns its insertion sequence.
func (r *EntryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	return r.store.within(ctx, tx, func(t *Tx) error {
		s := t.store
		if _, exists := s.byID[entry.ID]; exists {
			return domain.ErrDuplicateEntryID
		}

		s.entrySeq++
		entry.Seq = s.entrySeq

		stored := cloneEntry(entry)
		s.insertAt(s.insertPosition(stored), stored)

		t.onRollback(func() {
			if i := s.indexOf(stored); i >= 0 {
				s.removeAt(i)
			}
		})

		return nil
	})
}

// Remove hard-deletes an entry.
func (r *EntryRepository) Remove(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	var removed *domain.Entry

	err := r.store.within(ctx, tx, func(t *Tx) error {
		s := t.store
		e, ok := s.byID[id]
		if !ok {
			return domain.ErrEntryNotFound
		}

		i := s.indexOf(e)
		s.removeAt(i)
		removed = cloneEntry(e)

		t.onRollback(func() {
			s.insertAt(s.insertPosition(e), e)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(_ context.Context, id string) (*domain.Entry, error) {
	var found *domain.Entry
	r.store.read(func() {
		if e, ok := r.store.byID[id]; ok {
			found = cloneEntry(e)
		}
	})

	if found == nil {
		return nil, domain.ErrEntryNotFound
	}
	return found, nil
}

// ListBySubject returns the subject's entries in canonical order.
func (r *EntryRepository) ListBySubject(_ context.Context, subjectID string) ([]*domain.Entry, error) {
	result := make([]*domain.Entry, 0)
	r.store.read(func() {
		for _, e := range r.store.entries {
			if e.SubjectID == subjectID {
				result = append(result, cloneEntry(e))
			}
		}
	})
	return result, nil
}

// ListAll returns all entries in canonical order, optionally restricted to
// an inclusive date range.
func (r *EntryRepository) ListAll(_ context.Context, dateRange *domain.DateRange) ([]*domain.Entry, error) {
	result := make([]*domain.Entry, 0)
	r.store.read(func() {
		for _, e := range r.store.entries {
			if dateRange != nil && !dateRange.Contains(e.Date) {
				continue
			}
			result = append(result, cloneEntry(e))
		}
	})
	return result, nil
}

// CountBySubject counts the subject's entries.
func (r *EntryRepository) CountBySubject(ctx context.Context, tx usecase.Transaction, subjectID string) (int64, error) {
	var n int64
	err := r.store.within(ctx, tx, func(t *Tx) error {
		for _, e := range t.store.entries {
			if e.SubjectID == subjectID {
				n++
			}
		}
		return nil
	})
	return n, err
}
