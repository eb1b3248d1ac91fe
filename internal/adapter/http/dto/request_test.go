package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

func TestRegisterSubjectRequest_ToUseCaseInput(t *testing.T) {
	req := &RegisterSubjectRequest{
		Name:          "Karim",
		Phone:         "0700123456",
		Category:      "both",
		OpeningCharge: "85,000",
		OpeningDate:   "2024-06-01",
	}

	got, err := req.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Category != domain.CategoryBoth || got.Name != "Karim" || got.OpeningDate != "2024-06-01" {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.OpeningCharge.Equal(decimal.NewFromInt(85000)) {
		t.Fatalf("expected opening charge 85000, got %s", got.OpeningCharge)
	}

	req.OpeningCharge = ""
	got, err = req.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil || !got.OpeningCharge.IsZero() {
		t.Fatalf("expected zero opening charge, got %s (%v)", got.OpeningCharge, err)
	}
}

func TestAppendEntryRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name    string
		request *AppendEntryRequest
		debit   string
		credit  string
		wantErr error
	}{
		{
			name:    "debit only",
			request: &AppendEntryRequest{SubjectID: "s1", Date: "2024-01-01", Kind: "charge", Debit: "1,250.50"},
			debit:   "1250.5",
			credit:  "0",
		},
		{
			name:    "persian digits",
			request: &AppendEntryRequest{Date: "2024-01-01", Kind: "payment", Credit: "۴۰۰"},
			debit:   "0",
			credit:  "400",
		},
		{
			name:    "negative amount",
			request: &AppendEntryRequest{Date: "2024-01-01", Kind: "charge", Debit: "-5"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "sub-minor amount",
			request: &AppendEntryRequest{Date: "2024-01-01", Kind: "charge", Credit: "1.005"},
			wantErr: domain.ErrPrecisionLoss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput(domain.DefaultCurrency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Debit.Equal(decimal.RequireFromString(tt.debit)) || !got.Credit.Equal(decimal.RequireFromString(tt.credit)) {
				t.Fatalf("got debit %s credit %s", got.Debit, got.Credit)
			}
			if got.Kind != domain.EntryKind(tt.request.Kind) {
				t.Fatalf("expected kind %s, got %s", tt.request.Kind, got.Kind)
			}
		})
	}
}

func TestRecordTradeRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordTradeRequest{Date: "2024-03-01", Kind: "purchase", Quantity: "1000", UnitPrice: "40.125"}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.UnitPrice.Equal(decimal.RequireFromString("40.125")) || !got.Quantity.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected input %+v", got)
	}

	req.Quantity = "0"
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	req.Quantity = "5"
	req.UnitPrice = "abc"
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecordExchangeRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordExchangeRequest{Date: "2024-02-03", Kind: "sell", Amount: "10", Rate: "70.5", Fee: "5"}

	got, err := req.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Rate.Valid || !got.Rate.Decimal.Equal(decimal.RequireFromString("70.5")) {
		t.Fatalf("expected rate 70.5, got %+v", got.Rate)
	}
	if !got.Fee.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected fee 5, got %s", got.Fee)
	}

	req.Rate = ""
	got, err = req.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil || got.Rate.Valid {
		t.Fatalf("expected unset rate, got %+v (%v)", got.Rate, err)
	}
}

func TestRecordExpenseRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordExpenseRequest{Date: "2024-02-03", Category: "rent", Amount: "300"}

	got, err := req.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != domain.ExpenseRent || !got.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected input %+v", got)
	}

	req.Amount = ""
	if _, err := req.ToUseCaseInput(domain.DefaultCurrency); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for missing amount, got %v", err)
	}
}

func TestEntryRequests_NormalizeInput(t *testing.T) {
	appendReq := &AppendEntryRequest{Date: "2024-01-01", Kind: " Charge ", Debit: "100"}
	got, err := appendReq.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != domain.KindCharge {
		t.Fatalf("expected kind charge, got %q", got.Kind)
	}

	appendReq.Kind = "gift"
	if _, err := appendReq.ToUseCaseInput(domain.DefaultCurrency); !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	trade := &RecordTradeRequest{Date: "2024-03-01", Kind: "Purchase", Quantity: "۱۰۰۰", UnitPrice: "۴۰"}
	tradeIn, err := trade.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tradeIn.Kind != domain.KindPurchase || !tradeIn.UnitPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected trade input %+v", tradeIn)
	}

	exchange := &RecordExchangeRequest{Date: "2024-02-03", Kind: "SELL", Amount: "۱۰", Rate: "۷۰٫۵"}
	exchangeIn, err := exchange.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exchangeIn.Kind != domain.KindSell || !exchangeIn.Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected exchange input %+v", exchangeIn)
	}
	if !exchangeIn.Rate.Valid || !exchangeIn.Rate.Decimal.Equal(decimal.RequireFromString("70.5")) {
		t.Fatalf("expected rate 70.5, got %+v", exchangeIn.Rate)
	}

	expense := &RecordExpenseRequest{Date: "2024-02-03", Category: "Rent", Amount: "۳۰۰"}
	expenseIn, err := expense.ToUseCaseInput(domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expenseIn.Category != domain.ExpenseRent {
		t.Fatalf("expected rent, got %q", expenseIn.Category)
	}

	expense.Category = "bribes"
	if _, err := expense.ToUseCaseInput(domain.DefaultCurrency); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
