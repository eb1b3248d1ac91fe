package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// EntryUseCase handles entry business logic.
type EntryUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	subjectRepo SubjectRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	recorder    Recorder
	currency    domain.Currency
}

// NewEntryUseCase creates a new EntryUseCase. cache may be nil.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	subjectRepo SubjectRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	recorder Recorder,
	currency domain.Currency,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		subjectRepo: subjectRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		recorder:    recorder,
		currency:    currency,
	}
}

// AppendEntryInput represents input for a raw debit/credit entry.
type AppendEntryInput struct {
	SubjectID   string
	Date        string
	Description string
	Kind        domain.EntryKind
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Append validates and stores a raw entry. An empty kind is an adjustment.
func (uc *EntryUseCase) Append(ctx context.Context, input AppendEntryInput) (*domain.Entry, error) {
	kind := input.Kind
	if kind == "" {
		kind = domain.KindAdjustment
	}

	debit, err := uc.currency.Quantize(input.Debit)
	if err != nil {
		return nil, err
	}

	credit, err := uc.currency.Quantize(input.Credit)
	if err != nil {
		return nil, err
	}

	entry, err := uc.newEntry(input.SubjectID, input.Date, input.Description, kind)
	if err != nil {
		return nil, err
	}

	entry.Debit = debit
	entry.Credit = credit

	return uc.store(ctx, entry)
}

// RecordTradeInput represents input for a quantity-based sale or purchase.
type RecordTradeInput struct {
	SubjectID   string
	Date        string
	Description string
	Kind        domain.EntryKind
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// RecordTrade stores a sale or purchase. The amount is quantity times unit
// price, posted on the side the kind table assigns.
func (uc *EntryUseCase) RecordTrade(ctx context.Context, input RecordTradeInput) (*domain.Entry, error) {
	rule, ok := input.Kind.Rule()
	if !ok || rule.Stock == domain.StockNone {
		return nil, fmt.Errorf("%w: %q is not a trade kind", domain.ErrUnknownKind, input.Kind)
	}

	if !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	if input.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidUnitPrice
	}

	total, err := uc.currency.Quantize(input.Quantity.Mul(input.UnitPrice))
	if err != nil {
		return nil, err
	}

	entry, err := uc.newEntry(input.SubjectID, input.Date, input.Description, input.Kind)
	if err != nil {
		return nil, err
	}

	entry.Quantity = decimal.NewNullDecimal(input.Quantity)
	entry.UnitPrice = decimal.NewNullDecimal(input.UnitPrice)
	post(entry, rule.Direction, total)

	return uc.store(ctx, entry)
}

// RecordExchangeInput represents input for a currency-exchange entry.
type RecordExchangeInput struct {
	SubjectID   string
	Date        string
	Description string
	Kind        domain.EntryKind
	Amount      decimal.Decimal
	// Rate defaults to 1 when not set.
	Rate decimal.NullDecimal
	Fee  decimal.Decimal
}

var exchangeKinds = map[domain.EntryKind]bool{
	domain.KindWin:     true,
	domain.KindReceipt: true,
	domain.KindSell:    true,
	domain.KindBuy:     true,
}

// RecordExchange stores a win, receipt, sell or buy entry whose amount is
// amount times rate. The fee is commission income.
func (uc *EntryUseCase) RecordExchange(ctx context.Context, input RecordExchangeInput) (*domain.Entry, error) {
	if !exchangeKinds[input.Kind] {
		return nil, fmt.Errorf("%w: %q is not an exchange kind", domain.ErrUnknownKind, input.Kind)
	}

	rule, _ := input.Kind.Rule()

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	rate := decimal.NewFromInt(1)
	if input.Rate.Valid {
		if !input.Rate.Decimal.IsPositive() {
			return nil, domain.ErrInvalidRate
		}
		rate = input.Rate.Decimal
	}

	total, err := uc.currency.Quantize(input.Amount.Mul(rate))
	if err != nil {
		return nil, err
	}

	fee, err := uc.currency.Quantize(input.Fee)
	if err != nil {
		return nil, err
	}

	entry, err := uc.newEntry(input.SubjectID, input.Date, input.Description, input.Kind)
	if err != nil {
		return nil, err
	}

	entry.Rate = decimal.NewNullDecimal(rate)
	entry.Fee = fee
	post(entry, rule.Direction, total)

	return uc.store(ctx, entry)
}

// RecordExpenseInput represents input for a business expense.
type RecordExpenseInput struct {
	Date        string
	Description string
	Category    domain.ExpenseCategory
	Amount      decimal.Decimal
}

// RecordExpense stores an entity-less expense credit.
func (uc *EntryUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*domain.Entry, error) {
	category := input.Category
	if category == "" {
		category = domain.ExpenseMisc
	}

	amount, err := uc.currency.Quantize(input.Amount)
	if err != nil {
		return nil, err
	}

	entry, err := uc.newEntry("", input.Date, input.Description, domain.KindExpense)
	if err != nil {
		return nil, err
	}

	entry.Category = category
	entry.Credit = amount

	return uc.store(ctx, entry)
}

// Remove hard-deletes an entry. The subject's denormalized balance is moved
// back in the same transaction.
func (uc *EntryUseCase) Remove(ctx context.Context, id string) error {
	var removed *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		entry, err := uc.entryRepo.Remove(txCtx, tx, id)
		if err != nil {
			return err
		}

		// An orphaned entry has no stored total left to move.
		if entry.HasSubject() {
			err := uc.subjectRepo.AddToBalance(txCtx, tx, entry.SubjectID, entry.Net().Neg())
			if err != nil && !errors.Is(err, domain.ErrSubjectNotFound) {
				return err
			}
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		removed = entry
		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidate(ctx, removed.SubjectID)
	uc.recorder.EntryRemoved(removed.Kind)

	zerolog.Ctx(ctx).Debug().
		Str("entry_id", removed.ID).
		Str("subject_id", removed.SubjectID).
		Msg("entry removed")

	return nil
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListBySubject lists a subject's entries in chronological order.
func (uc *EntryUseCase) ListBySubject(ctx context.Context, subjectID string) ([]*domain.Entry, error) {
	if _, err := uc.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return uc.entryRepo.ListBySubject(ctx, subjectID)
}

// ListAll lists every entry in chronological order, optionally restricted
// to an inclusive date range.
func (uc *EntryUseCase) ListAll(ctx context.Context, dateRange *domain.DateRange) ([]*domain.Entry, error) {
	if dateRange != nil {
		if err := dateRange.Validate(); err != nil {
			return nil, err
		}
	}
	return uc.entryRepo.ListAll(ctx, dateRange)
}

func (uc *EntryUseCase) newEntry(subjectID, date, description string, kind domain.EntryKind) (*domain.Entry, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	return &domain.Entry{
		ID:          uc.idGen.Generate(),
		SubjectID:   subjectID,
		Date:        d,
		Description: description,
		Kind:        kind,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		Fee:         decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func post(entry *domain.Entry, direction domain.Direction, total decimal.Decimal) {
	if direction == domain.DirectionCredit {
		entry.Credit = total
		return
	}
	entry.Debit = total
}

// store validates the entry, checks the referenced subject and appends the
// entry together with the subject balance update in one transaction.
func (uc *EntryUseCase) store(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if entry.HasSubject() {
			subject, err := uc.subjectRepo.GetByIDForUpdate(txCtx, tx, entry.SubjectID)
			if err != nil {
				return err
			}

			if !entry.Kind.Allows(subject.Category) {
				return fmt.Errorf("%w: %s entry for %s subject", domain.ErrCategoryMismatch, entry.Kind, subject.Category)
			}
		}

		if err := uc.entryRepo.Append(txCtx, tx, entry); err != nil {
			return err
		}

		if entry.HasSubject() {
			if err := uc.subjectRepo.AddToBalance(txCtx, tx, entry.SubjectID, entry.Net()); err != nil {
				return err
			}
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, entry.SubjectID)
	uc.recorder.EntryAppended(entry.Kind)

	zerolog.Ctx(ctx).Debug().
		Str("entry_id", entry.ID).
		Str("subject_id", entry.SubjectID).
		Str("kind", string(entry.Kind)).
		Msg("entry appended")

	return entry, nil
}

// invalidate drops the cached statement of a subject. Failures only leave a
// stale statement until its TTL expires, so they are logged and ignored.
func (uc *EntryUseCase) invalidate(ctx context.Context, subjectID string) {
	if uc.cache == nil || subjectID == "" {
		return
	}

	if err := uc.cache.Delete(ctx, statementCacheKey(subjectID)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("subject_id", subjectID).Msg("failed to invalidate statement cache")
	}
}
