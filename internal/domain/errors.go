package domain

import (
	"errors"
	"fmt"
)

// Root error kinds. Every specific error below wraps exactly one of them,
// so callers can branch with errors.Is on the kind alone.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrArithmetic = errors.New("arithmetic error")
)

var (
	// Entry errors
	ErrNegativeDebit    = fmt.Errorf("%w: debit must not be negative", ErrValidation)
	ErrNegativeCredit   = fmt.Errorf("%w: credit must not be negative", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid calendar date", ErrValidation)
	ErrMissingEntryID   = fmt.Errorf("%w: entry id is required", ErrValidation)
	ErrUnknownKind      = fmt.Errorf("%w: unknown entry kind", ErrValidation)
	ErrKindDirection    = fmt.Errorf("%w: amount side does not match entry kind", ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrInvalidUnitPrice = fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	ErrInvalidRate      = fmt.Errorf("%w: rate must be positive", ErrValidation)
	ErrNegativeFee      = fmt.Errorf("%w: fee must not be negative", ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown expense category", ErrValidation)
	ErrSubjectForbidden = fmt.Errorf("%w: entry kind may not reference a subject", ErrValidation)
	ErrSubjectRequired  = fmt.Errorf("%w: entry kind requires a subject", ErrValidation)
	ErrCategoryMismatch = fmt.Errorf("%w: subject category does not allow this entry kind", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrTotalMismatch    = fmt.Errorf("%w: quantity times unit price does not match amount", ErrValidation)
	ErrInvalidDateRange = fmt.Errorf("%w: range start is after range end", ErrValidation)
	ErrInvalidBucketing = fmt.Errorf("%w: unknown period bucketing", ErrValidation)
	ErrDuplicateEntryID = fmt.Errorf("%w: entry id already exists", ErrValidation)
	ErrEntryNotFound    = fmt.Errorf("entry %w", ErrNotFound)
	ErrPrecisionLoss    = fmt.Errorf("%w: total exceeds currency precision", ErrArithmetic)

	// Subject errors
	ErrInvalidSubjectName = fmt.Errorf("%w: invalid subject name", ErrValidation)
	ErrInvalidPhone       = fmt.Errorf("%w: invalid phone number", ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("%w: invalid subject category", ErrValidation)
	ErrDuplicateSubjectID = fmt.Errorf("%w: subject id already exists", ErrValidation)
	ErrDuplicatePhone     = fmt.Errorf("%w: a subject with this phone already exists", ErrValidation)
	ErrSubjectHasEntries  = fmt.Errorf("%w: subject still has ledger entries", ErrValidation)
	ErrSubjectNotFound    = fmt.Errorf("subject %w", ErrNotFound)
)
