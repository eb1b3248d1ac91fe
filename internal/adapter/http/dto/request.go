package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// Amounts travel as strings so that clients never round-trip money
// through floating point. Empty optional amounts mean zero.

// RegisterSubjectRequest represents a request to register a subject.
type RegisterSubjectRequest struct {
	Name               string `json:"name"`
	Phone              string `json:"phone,omitempty"`
	Category           string `json:"category,omitempty"`
	OpeningCharge      string `json:"opening_charge,omitempty"`
	OpeningDate        string `json:"opening_date,omitempty"`
	OpeningDescription string `json:"opening_description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterSubjectRequest) ToUseCaseInput(currency domain.Currency) (usecase.RegisterSubjectInput, error) {
	charge, err := optionalAmount(currency, "opening_charge", r.OpeningCharge)
	if err != nil {
		return usecase.RegisterSubjectInput{}, err
	}

	return usecase.RegisterSubjectInput{
		Name:               r.Name,
		Phone:              r.Phone,
		Category:           domain.SubjectCategory(r.Category),
		OpeningCharge:      charge,
		OpeningDate:        r.OpeningDate,
		OpeningDescription: r.OpeningDescription,
	}, nil
}

// AppendEntryRequest represents a raw debit/credit entry.
type AppendEntryRequest struct {
	SubjectID   string `json:"subject_id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AppendEntryRequest) ToUseCaseInput(currency domain.Currency) (usecase.AppendEntryInput, error) {
	debit, err := optionalAmount(currency, "debit", r.Debit)
	if err != nil {
		return usecase.AppendEntryInput{}, err
	}

	credit, err := optionalAmount(currency, "credit", r.Credit)
	if err != nil {
		return usecase.AppendEntryInput{}, err
	}

	kind, err := domain.ParseEntryKind(r.Kind)
	if err != nil {
		return usecase.AppendEntryInput{}, err
	}

	return usecase.AppendEntryInput{
		SubjectID:   r.SubjectID,
		Date:        r.Date,
		Description: r.Description,
		Kind:        kind,
		Debit:       debit,
		Credit:      credit,
	}, nil
}

// RecordTradeRequest represents a quantity-bearing sale or purchase.
type RecordTradeRequest struct {
	SubjectID   string `json:"subject_id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTradeRequest) ToUseCaseInput() (usecase.RecordTradeInput, error) {
	qty, err := domain.ParseQuantity(r.Quantity)
	if err != nil {
		return usecase.RecordTradeInput{}, err
	}

	price, err := parseFactor("unit_price", r.UnitPrice)
	if err != nil {
		return usecase.RecordTradeInput{}, err
	}

	kind, err := domain.ParseEntryKind(r.Kind)
	if err != nil {
		return usecase.RecordTradeInput{}, err
	}

	return usecase.RecordTradeInput{
		SubjectID:   r.SubjectID,
		Date:        r.Date,
		Description: r.Description,
		Kind:        kind,
		Quantity:    qty,
		UnitPrice:   price,
	}, nil
}

// RecordExchangeRequest represents a currency exchange entry.
type RecordExchangeRequest struct {
	SubjectID   string `json:"subject_id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Rate        string `json:"rate,omitempty"`
	Fee         string `json:"fee,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordExchangeRequest) ToUseCaseInput(currency domain.Currency) (usecase.RecordExchangeInput, error) {
	amount, err := parseFactor("amount", r.Amount)
	if err != nil {
		return usecase.RecordExchangeInput{}, err
	}

	kind, err := domain.ParseEntryKind(r.Kind)
	if err != nil {
		return usecase.RecordExchangeInput{}, err
	}

	var rate decimal.NullDecimal
	if strings.TrimSpace(r.Rate) != "" {
		d, err := parseFactor("rate", r.Rate)
		if err != nil {
			return usecase.RecordExchangeInput{}, err
		}
		rate = decimal.NewNullDecimal(d)
	}

	fee, err := optionalAmount(currency, "fee", r.Fee)
	if err != nil {
		return usecase.RecordExchangeInput{}, err
	}

	return usecase.RecordExchangeInput{
		SubjectID:   r.SubjectID,
		Date:        r.Date,
		Description: r.Description,
		Kind:        kind,
		Amount:      amount,
		Rate:        rate,
		Fee:         fee,
	}, nil
}

// RecordExpenseRequest represents an entity-less expense.
type RecordExpenseRequest struct {
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordExpenseRequest) ToUseCaseInput(currency domain.Currency) (usecase.RecordExpenseInput, error) {
	amount, err := currency.ParseAmount(r.Amount)
	if err != nil {
		return usecase.RecordExpenseInput{}, fmt.Errorf("amount: %w", err)
	}

	category, err := domain.ParseExpenseCategory(r.Category)
	if err != nil {
		return usecase.RecordExpenseInput{}, err
	}

	return usecase.RecordExpenseInput{
		Date:        r.Date,
		Description: r.Description,
		Category:    category,
		Amount:      amount,
	}, nil
}

func optionalAmount(currency domain.Currency, field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}

	d, err := currency.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}

	return d, nil
}

// parseFactor parses an unquantized factor such as a rate or unit price.
// The product is checked against the currency precision by the use case.
func parseFactor(field, value string) (decimal.Decimal, error) {
	d, err := domain.ParseFactor(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}

	return d, nil
}
