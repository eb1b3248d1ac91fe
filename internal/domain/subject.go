package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SubjectCategory restricts which entry kinds may reference a subject.
type SubjectCategory string

const (
	CategoryBuyer  SubjectCategory = "buyer"
	CategorySeller SubjectCategory = "seller"
	CategoryBoth   SubjectCategory = "both"
)

// ParseSubjectCategory validates a category. Empty input defaults to buyer.
func ParseSubjectCategory(s string) (SubjectCategory, error) {
	c := SubjectCategory(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "":
		return CategoryBuyer, nil
	case CategoryBuyer, CategorySeller, CategoryBoth:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// Subject is a customer, supplier or traveler that owns ledger entries.
type Subject struct {
	ID       string
	Code     string
	Name     string
	Phone    string
	Category SubjectCategory
	// Balance is a denormalized running total maintained by the store on
	// every append and remove. Ledger views never read it; reconciliation
	// compares the two.
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// SubjectCode formats the human-readable code for the n-th registered subject.
func SubjectCode(n int64) string {
	return fmt.Sprintf("C-%04d", n)
}

// Matches reports whether the subject's name, phone or code contains query,
// ignoring case.
func (s *Subject) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Phone), q) ||
		strings.Contains(strings.ToLower(s.Code), q)
}
