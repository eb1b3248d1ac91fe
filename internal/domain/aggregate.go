package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SubjectBalance pairs a subject with its ledger view.
type SubjectBalance struct {
	SubjectID string
	View      BalanceView
}

// PerSubjectBalances groups entries by subject and computes a view for each
// registered subject. Subjects without entries get a zero view. Entries of
// unknown or empty subjects are ignored here; they still count in global
// aggregates. The result is keyed by subject ID.
func PerSubjectBalances(entries []*Entry, subjects []*Subject) map[string]BalanceView {
	grouped := make(map[string][]*Entry, len(subjects))
	for _, s := range subjects {
		grouped[s.ID] = nil
	}

	for _, e := range entries {
		if _, ok := grouped[e.SubjectID]; ok {
			grouped[e.SubjectID] = append(grouped[e.SubjectID], e)
		}
	}

	views := make(map[string]BalanceView, len(grouped))
	for id, group := range grouped {
		views[id] = ComputeBalance(group)
	}

	return views
}

// InventoryStats summarizes stock entries.
type InventoryStats struct {
	CurrentStock       decimal.Decimal
	TotalPurchaseQty   decimal.Decimal
	TotalPurchaseValue decimal.Decimal
	TotalSalesQty      decimal.Decimal
	TotalSalesValue    decimal.Decimal
	AvgUnitCost        decimal.Decimal
	EstimatedProfit    decimal.Decimal
}

// avgCostPrecision bounds the fractional digits of the weighted-average
// divisions, the only non-terminating arithmetic in the engine.
const avgCostPrecision = 8

// ComputeInventoryStats derives stock and profit from entries that carry a
// quantity. Profit uses the weighted-average purchase cost rather than lot
// tracking (FIFO/LIFO); this is an approximation of cost of goods sold.
// With no purchases the average cost is zero, so profit equals sales value.
func ComputeInventoryStats(entries []*Entry) InventoryStats {
	stats := InventoryStats{
		CurrentStock:       decimal.Zero,
		TotalPurchaseQty:   decimal.Zero,
		TotalPurchaseValue: decimal.Zero,
		TotalSalesQty:      decimal.Zero,
		TotalSalesValue:    decimal.Zero,
		AvgUnitCost:        decimal.Zero,
		EstimatedProfit:    decimal.Zero,
	}

	for _, e := range entries {
		switch e.StockFlow() {
		case StockInbound:
			stats.TotalPurchaseQty = stats.TotalPurchaseQty.Add(e.Quantity.Decimal)
			stats.TotalPurchaseValue = stats.TotalPurchaseValue.Add(e.Total())
		case StockOutbound:
			stats.TotalSalesQty = stats.TotalSalesQty.Add(e.Quantity.Decimal)
			stats.TotalSalesValue = stats.TotalSalesValue.Add(e.Total())
		}
	}

	stats.CurrentStock = stats.TotalPurchaseQty.Sub(stats.TotalSalesQty)

	// Cost of goods sold is divided once so the rounded average never
	// feeds back into profit.
	cogs := decimal.Zero
	if stats.TotalPurchaseQty.IsPositive() {
		stats.AvgUnitCost = stats.TotalPurchaseValue.DivRound(stats.TotalPurchaseQty, avgCostPrecision)
		cogs = stats.TotalSalesQty.Mul(stats.TotalPurchaseValue).DivRound(stats.TotalPurchaseQty, avgCostPrecision)
	}

	stats.EstimatedProfit = stats.TotalSalesValue.Sub(cogs)

	return stats
}

// PeriodTotal is one bucket of a period rollup.
type PeriodTotal struct {
	BucketKey   string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Net         decimal.Decimal
}

// PeriodRollup groups entries into calendar buckets ordered by key.
func PeriodRollup(entries []*Entry, bucketing Bucketing) []PeriodTotal {
	byKey := make(map[string]*PeriodTotal)
	for _, e := range entries {
		key := bucketing.Key(e.Date)
		t, ok := byKey[key]
		if !ok {
			t = &PeriodTotal{BucketKey: key, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, Net: decimal.Zero}
			byKey[key] = t
		}
		t.TotalDebit = t.TotalDebit.Add(e.Debit)
		t.TotalCredit = t.TotalCredit.Add(e.Credit)
		t.Net = t.TotalDebit.Sub(t.TotalCredit)
	}

	result := make([]PeriodTotal, 0, len(byKey))
	for _, t := range byKey {
		result = append(result, *t)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].BucketKey < result[j].BucketKey
	})

	return result
}

// TopDebtors returns up to limit subjects with a positive balance, largest
// first. Equal balances are ordered by subject ID. A non-positive limit
// returns every debtor.
func TopDebtors(balances map[string]BalanceView, limit int) []SubjectBalance {
	return rank(balances, limit, 1, func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
}

// TopCreditors returns up to limit subjects with a negative balance, most
// negative first.
func TopCreditors(balances map[string]BalanceView, limit int) []SubjectBalance {
	return rank(balances, limit, -1, func(a, b decimal.Decimal) bool { return a.LessThan(b) })
}

func rank(balances map[string]BalanceView, limit, sign int, before func(a, b decimal.Decimal) bool) []SubjectBalance {
	result := make([]SubjectBalance, 0)
	for id, view := range balances {
		if view.Balance.Sign() == sign {
			result = append(result, SubjectBalance{SubjectID: id, View: view})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].View.Balance, result[j].View.Balance
		if !a.Equal(b) {
			return before(a, b)
		}
		return result[i].SubjectID < result[j].SubjectID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}

// DailySummary is the day-end report of the exchange and fuel variants.
type DailySummary struct {
	Date      time.Time
	TotalIn   decimal.Decimal
	TotalOut  decimal.Decimal
	FeeIncome decimal.Decimal
	Expenses  decimal.Decimal
	Entries   int
}

// SummarizeDay totals the entries dated on day. Expenses are reported
// separately and are not part of TotalOut.
func SummarizeDay(entries []*Entry, day time.Time) DailySummary {
	day = TruncateDate(day)
	s := DailySummary{
		Date:      day,
		TotalIn:   decimal.Zero,
		TotalOut:  decimal.Zero,
		FeeIncome: decimal.Zero,
		Expenses:  decimal.Zero,
	}

	for _, e := range entries {
		if !TruncateDate(e.Date).Equal(day) {
			continue
		}
		s.Entries++
		s.FeeIncome = s.FeeIncome.Add(e.Fee)
		if e.Kind == KindExpense {
			s.Expenses = s.Expenses.Add(e.Credit)
			continue
		}
		s.TotalIn = s.TotalIn.Add(e.Debit)
		s.TotalOut = s.TotalOut.Add(e.Credit)
	}

	return s
}

// ExpenseTotal is the total of one expense category.
type ExpenseTotal struct {
	Category ExpenseCategory
	Group    ExpenseGroup
	Total    decimal.Decimal
	Count    int
}

// ExpenseBreakdown totals expense entries per category, in the fixed
// category order. Categories without expenses are included with zero.
func ExpenseBreakdown(entries []*Entry) []ExpenseTotal {
	totals := make(map[ExpenseCategory]*ExpenseTotal, len(ExpenseCategories))
	result := make([]ExpenseTotal, 0, len(ExpenseCategories))
	for _, c := range ExpenseCategories {
		totals[c] = &ExpenseTotal{Category: c, Group: c.Group(), Total: decimal.Zero}
	}

	for _, e := range entries {
		if e.Kind != KindExpense {
			continue
		}
		if t, ok := totals[e.Category]; ok {
			t.Total = t.Total.Add(e.Credit)
			t.Count++
		}
	}

	for _, c := range ExpenseCategories {
		result = append(result, *totals[c])
	}

	return result
}
