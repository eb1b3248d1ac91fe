package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is an immutable dated debit/credit record.
type Entry struct {
	CreatedAt   time.Time
	Date        time.Time
	Quantity    decimal.NullDecimal
	UnitPrice   decimal.NullDecimal
	Rate        decimal.NullDecimal
	ID          string
	SubjectID   string // empty for entity-less entries
	Description string
	Kind        EntryKind
	Category    ExpenseCategory
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Fee         decimal.Decimal
	// Seq is the insertion sequence assigned by the store. It breaks ties
	// between entries sharing a date.
	Seq int64
}

// HasSubject reports whether the entry is attributed to a subject.
func (e *Entry) HasSubject() bool {
	return e.SubjectID != ""
}

// Net returns debit minus credit.
func (e *Entry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Total returns the money value of the entry: quantity times unit price for
// stock entries, debit plus credit otherwise.
func (e *Entry) Total() decimal.Decimal {
	if e.Quantity.Valid && e.UnitPrice.Valid {
		return e.Quantity.Decimal.Mul(e.UnitPrice.Decimal)
	}
	return e.Debit.Add(e.Credit)
}

// Validate checks the entry against the amount, date and kind rules.
// It does not look at the referenced subject; category checks need the
// subject and happen in the use case.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return ErrMissingEntryID
	}

	if e.Debit.IsNegative() {
		return ErrNegativeDebit
	}

	if e.Credit.IsNegative() {
		return ErrNegativeCredit
	}

	if e.Date.IsZero() {
		return ErrInvalidDate
	}

	if e.Fee.IsNegative() {
		return ErrNegativeFee
	}

	rule, ok := e.Kind.Rule()
	if !ok {
		return ErrUnknownKind
	}

	switch rule.Direction {
	case DirectionDebit:
		if !e.Credit.IsZero() {
			return ErrKindDirection
		}
	case DirectionCredit:
		if !e.Debit.IsZero() {
			return ErrKindDirection
		}
	}

	switch rule.Subject {
	case SubjectMandatory:
		if !e.HasSubject() {
			return ErrSubjectRequired
		}
	case SubjectForbidden:
		if e.HasSubject() {
			return ErrSubjectForbidden
		}
	}

	if e.Kind == KindExpense {
		if _, ok := expenseCategories[e.Category]; !ok {
			return ErrUnknownCategory
		}
	}

	if e.Rate.Valid && !e.Rate.Decimal.IsPositive() {
		return ErrInvalidRate
	}

	return e.validateStock()
}

func (e *Entry) validateStock() error {
	if !e.Quantity.Valid && !e.UnitPrice.Valid {
		return nil
	}

	if !e.Quantity.Valid || !e.Quantity.Decimal.IsPositive() {
		return ErrInvalidQuantity
	}

	if !e.UnitPrice.Valid || e.UnitPrice.Decimal.IsNegative() {
		return ErrInvalidUnitPrice
	}

	if !e.Total().Equal(e.Debit.Add(e.Credit)) {
		return ErrTotalMismatch
	}

	return nil
}

// StockFlow returns the inventory effect of the entry.
func (e *Entry) StockFlow() StockFlow {
	rule, ok := e.Kind.Rule()
	if !ok || !e.Quantity.Valid {
		return StockNone
	}
	return rule.Stock
}
