package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// SubjectResponse represents a subject in API responses.
type SubjectResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Category  string          `json:"category"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// SubjectFromDomain converts a domain subject to a response.
func SubjectFromDomain(s *domain.Subject) *SubjectResponse {
	if s == nil {
		return nil
	}

	return &SubjectResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Phone:     s.Phone,
		Category:  string(s.Category),
		Balance:   s.Balance,
		CreatedAt: s.CreatedAt,
	}
}

// SubjectsFromDomain converts domain subjects to responses.
func SubjectsFromDomain(subjects []*domain.Subject) []*SubjectResponse {
	result := make([]*SubjectResponse, len(subjects))
	for i, s := range subjects {
		result[i] = SubjectFromDomain(s)
	}
	return result
}

// ListSubjectsResponse represents a page of subjects.
type ListSubjectsResponse struct {
	Subjects []*SubjectResponse `json:"subjects"`
	Total    int64              `json:"total"`
}

// RegisterSubjectResponse is a registered subject and its opening entry.
type RegisterSubjectResponse struct {
	Subject      *SubjectResponse `json:"subject"`
	OpeningEntry *EntryResponse   `json:"opening_entry,omitempty"`
}

// RegisterSubjectFromResult converts a registration result to a response.
func RegisterSubjectFromResult(r *usecase.RegisterSubjectResult) *RegisterSubjectResponse {
	resp := &RegisterSubjectResponse{Subject: SubjectFromDomain(r.Subject)}
	if r.OpeningEntry != nil {
		resp.OpeningEntry = EntryFromDomain(r.OpeningEntry)
	}
	return resp
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string           `json:"id"`
	Seq         int64            `json:"seq"`
	SubjectID   string           `json:"subject_id,omitempty"`
	Date        string           `json:"date"`
	Description string           `json:"description,omitempty"`
	Kind        string           `json:"kind"`
	Category    string           `json:"category,omitempty"`
	Debit       decimal.Decimal  `json:"debit"`
	Credit      decimal.Decimal  `json:"credit"`
	Fee         decimal.Decimal  `json:"fee"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		Seq:         e.Seq,
		SubjectID:   e.SubjectID,
		Date:        domain.FormatDate(e.Date),
		Description: e.Description,
		Kind:        string(e.Kind),
		Category:    string(e.Category),
		Debit:       e.Debit,
		Credit:      e.Credit,
		Fee:         e.Fee,
		Quantity:    nullable(e.Quantity),
		UnitPrice:   nullable(e.UnitPrice),
		Rate:        nullable(e.Rate),
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

// BalanceResponse is the summary of a ledger view.
type BalanceResponse struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
	Position    string          `json:"position"`
}

func balanceFromView(v domain.BalanceView) BalanceResponse {
	return BalanceResponse{
		TotalDebit:  v.TotalDebit,
		TotalCredit: v.TotalCredit,
		Balance:     v.Balance,
		Position:    string(v.Position()),
	}
}

// StatementLine is an entry with the balance after it.
type StatementLine struct {
	*EntryResponse
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StatementResponse represents a subject statement.
type StatementResponse struct {
	Subject *SubjectResponse `json:"subject"`
	Lines   []StatementLine  `json:"lines"`
	Totals  BalanceResponse  `json:"totals"`
}

// StatementFromUseCase converts a statement to a response.
func StatementFromUseCase(s *usecase.Statement) *StatementResponse {
	lines := make([]StatementLine, len(s.Entries))
	for i, e := range s.Entries {
		lines[i] = StatementLine{
			EntryResponse:  EntryFromDomain(e),
			RunningBalance: s.View.RunningBalances[i],
		}
	}

	return &StatementResponse{
		Subject: SubjectFromDomain(s.Subject),
		Lines:   lines,
		Totals:  balanceFromView(s.View),
	}
}

// SubjectBalanceResponse is one row of the balances report.
type SubjectBalanceResponse struct {
	Subject *SubjectResponse `json:"subject"`
	BalanceResponse
}

// BalancesFromUseCase converts the balances report to responses.
func BalancesFromUseCase(rows []usecase.SubjectBalance) []SubjectBalanceResponse {
	result := make([]SubjectBalanceResponse, len(rows))
	for i, r := range rows {
		result[i] = SubjectBalanceResponse{
			Subject:         SubjectFromDomain(r.Subject),
			BalanceResponse: balanceFromView(r.View),
		}
	}
	return result
}

// RankedSubjectResponse is one row of a debtor or creditor ranking.
type RankedSubjectResponse struct {
	Subject *SubjectResponse `json:"subject"`
	Balance decimal.Decimal  `json:"balance"`
}

// RankingFromUseCase converts a ranking to responses.
func RankingFromUseCase(rows []usecase.RankedSubject) []RankedSubjectResponse {
	result := make([]RankedSubjectResponse, len(rows))
	for i, r := range rows {
		result[i] = RankedSubjectResponse{Subject: SubjectFromDomain(r.Subject), Balance: r.Balance}
	}
	return result
}

// InventoryResponse represents the stock report.
type InventoryResponse struct {
	CurrentStock       decimal.Decimal `json:"current_stock"`
	TotalPurchaseQty   decimal.Decimal `json:"total_purchase_qty"`
	TotalPurchaseValue decimal.Decimal `json:"total_purchase_value"`
	TotalSalesQty      decimal.Decimal `json:"total_sales_qty"`
	TotalSalesValue    decimal.Decimal `json:"total_sales_value"`
	AvgUnitCost        decimal.Decimal `json:"avg_unit_cost"`
	EstimatedProfit    decimal.Decimal `json:"estimated_profit"`
	LowStockThreshold  decimal.Decimal `json:"low_stock_threshold"`
	LowStock           bool            `json:"low_stock"`
}

// InventoryFromUseCase converts the stock report to a response.
func InventoryFromUseCase(r *usecase.InventoryReport) *InventoryResponse {
	return &InventoryResponse{
		CurrentStock:       r.Stats.CurrentStock,
		TotalPurchaseQty:   r.Stats.TotalPurchaseQty,
		TotalPurchaseValue: r.Stats.TotalPurchaseValue,
		TotalSalesQty:      r.Stats.TotalSalesQty,
		TotalSalesValue:    r.Stats.TotalSalesValue,
		AvgUnitCost:        r.Stats.AvgUnitCost,
		EstimatedProfit:    r.Stats.EstimatedProfit,
		LowStockThreshold:  r.Threshold,
		LowStock:           r.LowStock,
	}
}

// PeriodTotalResponse is one bucket of a period rollup.
type PeriodTotalResponse struct {
	Bucket      string          `json:"bucket"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Net         decimal.Decimal `json:"net"`
}

// PeriodsFromDomain converts rollup buckets to responses.
func PeriodsFromDomain(periods []domain.PeriodTotal) []PeriodTotalResponse {
	result := make([]PeriodTotalResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodTotalResponse{
			Bucket:      p.BucketKey,
			TotalDebit:  p.TotalDebit,
			TotalCredit: p.TotalCredit,
			Net:         p.Net,
		}
	}
	return result
}

// DailyResponse represents the day-end report.
type DailyResponse struct {
	Date      string          `json:"date"`
	TotalIn   decimal.Decimal `json:"total_in"`
	TotalOut  decimal.Decimal `json:"total_out"`
	FeeIncome decimal.Decimal `json:"fee_income"`
	Expenses  decimal.Decimal `json:"expenses"`
	Entries   int             `json:"entries"`
}

// DailyFromDomain converts a daily summary to a response.
func DailyFromDomain(s *domain.DailySummary) *DailyResponse {
	return &DailyResponse{
		Date:      domain.FormatDate(s.Date),
		TotalIn:   s.TotalIn,
		TotalOut:  s.TotalOut,
		FeeIncome: s.FeeIncome,
		Expenses:  s.Expenses,
		Entries:   s.Entries,
	}
}

// ExpenseTotalResponse is the total of one expense category.
type ExpenseTotalResponse struct {
	Category string          `json:"category"`
	Label    string          `json:"label"`
	Group    string          `json:"group"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// ExpensesFromDomain converts an expense breakdown to responses.
func ExpensesFromDomain(totals []domain.ExpenseTotal) []ExpenseTotalResponse {
	result := make([]ExpenseTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = ExpenseTotalResponse{
			Category: string(t.Category),
			Label:    t.Category.Label(),
			Group:    string(t.Group),
			Total:    t.Total,
			Count:    t.Count,
		}
	}
	return result
}

// ReconciliationResponse is the reconciliation result of one subject.
type ReconciliationResponse struct {
	SubjectID         string          `json:"subject_id"`
	Code              string          `json:"code"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		SubjectID:         r.SubjectID,
		Code:              r.Code,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalSubjects      int                       `json:"total_subjects"`
	ReconciledSubjects int                       `json:"reconciled_subjects"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	OrphanedEntries    int                       `json:"orphaned_entries"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromUseCase(d)
	}

	return &ReconciliationReportResponse{
		TotalSubjects:      r.TotalSubjects,
		ReconciledSubjects: r.ReconciledSubjects,
		Discrepancies:      discrepancies,
		OrphanedEntries:    r.OrphanedEntries,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
