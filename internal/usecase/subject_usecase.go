package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// SubjectUseCase handles subject registration and lookup.
type SubjectUseCase struct {
	txManager   TransactionManager
	subjectRepo SubjectRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	recorder    Recorder
	currency    domain.Currency
}

// NewSubjectUseCase creates a new SubjectUseCase. cache may be nil.
func NewSubjectUseCase(
	txManager TransactionManager,
	subjectRepo SubjectRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	recorder Recorder,
	currency domain.Currency,
) *SubjectUseCase {
	return &SubjectUseCase{
		txManager:   txManager,
		subjectRepo: subjectRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		recorder:    recorder,
		currency:    currency,
	}
}

// RegisterSubjectInput represents input for registering a subject.
type RegisterSubjectInput struct {
	Name     string
	Phone    string
	Category domain.SubjectCategory
	// OpeningCharge, when positive, is recorded as a charge entry together
	// with the registration (for example a travel package price).
	OpeningCharge      decimal.Decimal
	OpeningDate        string
	OpeningDescription string
}

// RegisterSubjectResult is a registered subject and its opening entry, if any.
type RegisterSubjectResult struct {
	Subject      *domain.Subject
	OpeningEntry *domain.Entry
}

// Register validates and stores a new subject with the next code.
func (uc *SubjectUseCase) Register(ctx context.Context, input RegisterSubjectInput) (*RegisterSubjectResult, error) {
	if err := domain.ValidateSubjectName(input.Name); err != nil {
		return nil, err
	}

	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	category, err := domain.ParseSubjectCategory(string(input.Category))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subject := &domain.Subject{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Phone:     phone,
		Category:  category,
		Balance:   decimal.Zero,
		CreatedAt: now,
	}

	opening, err := uc.openingEntry(subject, input, now)
	if err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if phone != "" {
			exists, err := uc.subjectRepo.ExistsByPhone(txCtx, tx, phone)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %s", domain.ErrDuplicatePhone, phone)
			}
		}

		n, err := uc.subjectRepo.NextCodeSeq(txCtx, tx)
		if err != nil {
			return err
		}
		subject.Code = domain.SubjectCode(n)
		subject.Balance = decimal.Zero

		if err := uc.subjectRepo.Create(txCtx, tx, subject); err != nil {
			return err
		}

		if opening != nil {
			if err := uc.entryRepo.Append(txCtx, tx, opening); err != nil {
				return err
			}
			if err := uc.subjectRepo.AddToBalance(txCtx, tx, subject.ID, opening.Net()); err != nil {
				return err
			}
			subject.Balance = opening.Net()
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.SubjectRegistered()
	if opening != nil {
		uc.recorder.EntryAppended(opening.Kind)
	}

	zerolog.Ctx(ctx).Debug().
		Str("subject_id", subject.ID).
		Str("code", subject.Code).
		Msg("subject registered")

	return &RegisterSubjectResult{Subject: subject, OpeningEntry: opening}, nil
}

func (uc *SubjectUseCase) openingEntry(subject *domain.Subject, input RegisterSubjectInput, now time.Time) (*domain.Entry, error) {
	if !input.OpeningCharge.IsPositive() {
		return nil, nil
	}

	amount, err := uc.currency.Quantize(input.OpeningCharge)
	if err != nil {
		return nil, err
	}

	date := domain.TruncateDate(now)
	if input.OpeningDate != "" {
		date, err = domain.ParseDate(input.OpeningDate)
		if err != nil {
			return nil, err
		}
	}

	if !domain.KindCharge.Allows(subject.Category) {
		return nil, fmt.Errorf("%w: opening charge for %s subject", domain.ErrCategoryMismatch, subject.Category)
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		SubjectID:   subject.ID,
		Date:        date,
		Description: input.OpeningDescription,
		Kind:        domain.KindCharge,
		Debit:       amount,
		Credit:      decimal.Zero,
		Fee:         decimal.Zero,
		CreatedAt:   now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetSubject retrieves a subject by ID.
func (uc *SubjectUseCase) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return uc.subjectRepo.GetByID(ctx, id)
}

// ListSubjectsInput represents input for listing subjects.
type ListSubjectsInput struct {
	Limit  int
	Offset int
}

// ListSubjects lists subjects by code with pagination.
func (uc *SubjectUseCase) ListSubjects(ctx context.Context, input ListSubjectsInput) ([]*domain.Subject, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.subjectRepo.List(ctx, limit, offset)
}

// Search finds subjects whose name, phone or code contains query.
func (uc *SubjectUseCase) Search(ctx context.Context, query string, limit int) ([]*domain.Subject, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	return uc.subjectRepo.Search(ctx, strings.TrimSpace(query), limit)
}

// DeleteSubject removes a subject that has no ledger entries. Subjects
// with entries cannot be deleted; their entries must be removed first.
func (uc *SubjectUseCase) DeleteSubject(ctx context.Context, id string) error {
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if _, err := uc.subjectRepo.GetByIDForUpdate(txCtx, tx, id); err != nil {
			return err
		}

		count, err := uc.entryRepo.CountBySubject(txCtx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d entries", domain.ErrSubjectHasEntries, count)
		}

		if err := uc.subjectRepo.Delete(txCtx, tx, id); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, statementCacheKey(id)); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("subject_id", id).Msg("failed to invalidate statement cache")
		}
	}

	return nil
}
