package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// SubjectRepository implements usecase.SubjectRepository.
type SubjectRepository struct {
	store *Store
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(store *Store) *SubjectRepository {
	return &SubjectRepository{store: store}
}

// Create stores a copy of the subject.
func (r *SubjectRepository) Create(ctx context.Context, tx usecase.Transaction, subject *domain.Subject) error {
	return r.store.within(ctx, tx, func(t *Tx) error {
		s := t.store
		if _, exists := s.subjects[subject.ID]; exists {
			return domain.ErrDuplicateSubjectID
		}

		s.subjects[subject.ID] = cloneSubject(subject)
		s.order = append(s.order, subject.ID)

		t.onRollback(func() {
			delete(s.subjects, subject.ID)
			s.order = s.order[:len(s.order)-1]
		})

		return nil
	})
}

// NextCodeSeq advances the subject code counter. Codes are never reused,
// even when the registration is rolled back.
func (r *SubjectRepository) NextCodeSeq(ctx context.Context, tx usecase.Transaction) (int64, error) {
	var n int64
	err := r.store.within(ctx, tx, func(t *Tx) error {
		t.store.codeSeq++
		n = t.store.codeSeq
		return nil
	})
	return n, err
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(_ context.Context, id string) (*domain.Subject, error) {
	var found *domain.Subject
	r.store.read(func() {
		if s, ok := r.store.subjects[id]; ok {
			found = cloneSubject(s)
		}
	})

	if found == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return found, nil
}

// GetByIDForUpdate retrieves a subject inside a transaction. The store is
// exclusively held by the transaction, so no row lock is needed.
func (r *SubjectRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Subject, error) {
	var found *domain.Subject
	err := r.store.within(ctx, tx, func(t *Tx) error {
		s, ok := t.store.subjects[id]
		if !ok {
			return domain.ErrSubjectNotFound
		}
		found = cloneSubject(s)
		return nil
	})
	return found, err
}

// ExistsByPhone reports whether a subject with the phone exists.
func (r *SubjectRepository) ExistsByPhone(ctx context.Context, tx usecase.Transaction, phone string) (bool, error) {
	exists := false
	err := r.store.within(ctx, tx, func(t *Tx) error {
		for _, s := range t.store.subjects {
			if s.Phone == phone {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

// List returns subjects in code order with pagination.
func (r *SubjectRepository) List(_ context.Context, limit, offset int) ([]*domain.Subject, error) {
	result := make([]*domain.Subject, 0)
	r.store.read(func() {
		for i := offset; i < len(r.store.order) && len(result) < limit; i++ {
			result = append(result, cloneSubject(r.store.subjects[r.store.order[i]]))
		}
	})
	return result, nil
}

// ListAll returns every subject in code order.
func (r *SubjectRepository) ListAll(_ context.Context) ([]*domain.Subject, error) {
	result := make([]*domain.Subject, 0)
	r.store.read(func() {
		for _, id := range r.store.order {
			result = append(result, cloneSubject(r.store.subjects[id]))
		}
	})
	return result, nil
}

// Search returns subjects whose name, phone or code contains query.
func (r *SubjectRepository) Search(_ context.Context, query string, limit int) ([]*domain.Subject, error) {
	result := make([]*domain.Subject, 0)
	r.store.read(func() {
		for _, id := range r.store.order {
			if len(result) >= limit {
				break
			}
			if s := r.store.subjects[id]; s.Matches(query) {
				result = append(result, cloneSubject(s))
			}
		}
	})
	return result, nil
}

// AddToBalance moves the subject's denormalized balance by delta.
func (r *SubjectRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal) error {
	return r.store.within(ctx, tx, func(t *Tx) error {
		s, ok := t.store.subjects[id]
		if !ok {
			return domain.ErrSubjectNotFound
		}

		previous := s.Balance
		s.Balance = s.Balance.Add(delta)

		t.onRollback(func() {
			s.Balance = previous
		})

		return nil
	})
}

// Delete removes a subject. Entry checks are the caller's responsibility.
func (r *SubjectRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	return r.store.within(ctx, tx, func(t *Tx) error {
		st := t.store
		s, ok := st.subjects[id]
		if !ok {
			return domain.ErrSubjectNotFound
		}

		pos := -1
		for i, sid := range st.order {
			if sid == id {
				pos = i
				break
			}
		}

		delete(st.subjects, id)
		st.order = append(st.order[:pos], st.order[pos+1:]...)

		t.onRollback(func() {
			st.subjects[id] = s
			st.order = append(st.order, "")
			copy(st.order[pos+1:], st.order[pos:])
			st.order[pos] = id
		})

		return nil
	})
}
