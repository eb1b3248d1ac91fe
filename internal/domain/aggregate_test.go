package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockEntry(kind EntryKind, qty, price string) *Entry {
	e := newTestEntry("2024-03-01", "0", "0")
	e.Kind = kind
	e.SubjectID = ""
	e.Quantity = decimal.NewNullDecimal(dec(qty))
	e.UnitPrice = decimal.NewNullDecimal(dec(price))
	total := dec(qty).Mul(dec(price))
	if kind == KindSale {
		e.Debit = total
	} else {
		e.Credit = total
	}
	return e
}

func TestComputeInventoryStats(t *testing.T) {
	tests := []struct {
		name    string
		entries []*Entry
		stock   string
		avgCost string
		profit  string
	}{
		{
			name: "weighted average cost",
			entries: []*Entry{
				stockEntry(KindPurchase, "1000", "40"),
				stockEntry(KindSale, "600", "50"),
			},
			stock: "400", avgCost: "40", profit: "6000",
		},
		{
			name:    "no purchases yields zero cost",
			entries: []*Entry{stockEntry(KindSale, "100", "50")},
			stock:   "-100", avgCost: "0", profit: "5000",
		},
		{
			name: "average over several purchases",
			entries: []*Entry{
				stockEntry(KindPurchase, "100", "40"),
				stockEntry(KindPurchase, "100", "60"),
				stockEntry(KindSale, "50", "70"),
			},
			stock: "150", avgCost: "50", profit: "1000",
		},
		{
			name:    "empty input",
			entries: nil,
			stock:   "0", avgCost: "0", profit: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeInventoryStats(tt.entries)

			assertDecimal(t, tt.stock, stats.CurrentStock)
			assertDecimal(t, tt.avgCost, stats.AvgUnitCost)
			assertDecimal(t, tt.profit, stats.EstimatedProfit)
		})
	}
}

func TestComputeInventoryStats_IgnoresMoneyOnlyEntries(t *testing.T) {
	charge := newTestEntry("2024-03-01", "999", "0")
	stats := ComputeInventoryStats([]*Entry{charge, stockEntry(KindPurchase, "10", "2")})

	assertDecimal(t, "10", stats.TotalPurchaseQty)
	assertDecimal(t, "20", stats.TotalPurchaseValue)
	assertDecimal(t, "0", stats.TotalSalesValue)
}

func TestComputeInventoryStats_ProfitUsesUnroundedCost(t *testing.T) {
	stats := ComputeInventoryStats([]*Entry{
		stockEntry(KindPurchase, "1", "40"),
		stockEntry(KindPurchase, "2", "30"),
		stockEntry(KindSale, "3", "50"),
	})

	assertDecimal(t, "33.33333333", stats.AvgUnitCost)
	assertDecimal(t, "50", stats.EstimatedProfit)
	assertDecimal(t, "0", stats.CurrentStock)
}

func TestPerSubjectBalances(t *testing.T) {
	subjects := []*Subject{{ID: "a"}, {ID: "b"}, {ID: "idle"}}

	e1 := newTestEntry("2024-01-01", "100", "0")
	e1.SubjectID = "a"
	e2 := newTestEntry("2024-01-02", "0", "30")
	e2.SubjectID = "a"
	e3 := newTestEntry("2024-01-01", "0", "50")
	e3.SubjectID = "b"
	orphan := newTestEntry("2024-01-01", "70", "0")
	orphan.SubjectID = "deleted"
	entityLess := newTestEntry("2024-01-01", "0", "10")
	entityLess.SubjectID = ""

	views := PerSubjectBalances([]*Entry{e1, e2, e3, orphan, entityLess}, subjects)

	require.Len(t, views, 3)
	assertDecimal(t, "70", views["a"].Balance)
	assertDecimal(t, "-50", views["b"].Balance)
	assert.True(t, views["idle"].Balance.IsZero())
	assert.Empty(t, views["idle"].RunningBalances)
	assert.NotContains(t, views, "deleted")
}

func TestTopDebtorsAndCreditors(t *testing.T) {
	balances := map[string]BalanceView{
		"a": {Balance: dec("100")},
		"b": {Balance: dec("300")},
		"c": {Balance: dec("-50")},
		"d": {Balance: dec("0")},
		"e": {Balance: dec("-400")},
		"f": {Balance: dec("300")},
	}

	debtors := TopDebtors(balances, 2)
	require.Len(t, debtors, 2)
	assert.Equal(t, "b", debtors[0].SubjectID)
	assert.Equal(t, "f", debtors[1].SubjectID)

	all := TopDebtors(balances, 0)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[2].SubjectID)

	creditors := TopCreditors(balances, 10)
	require.Len(t, creditors, 2)
	assert.Equal(t, "e", creditors[0].SubjectID)
	assert.Equal(t, "c", creditors[1].SubjectID)

	assert.Empty(t, TopCreditors(map[string]BalanceView{}, 5))
}

func TestPeriodRollup(t *testing.T) {
	entries := []*Entry{
		newTestEntry("2023-12-31", "10", "0"),
		newTestEntry("2024-01-01", "20", "5"),
		newTestEntry("2024-01-02", "0", "7"),
		newTestEntry("2024-02-10", "1", "0"),
		newTestEntry("2024-10-01", "3", "0"),
	}

	tests := []struct {
		bucketing Bucketing
		keys      []string
	}{
		{BucketDaily, []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-02-10", "2024-10-01"}},
		{BucketWeekly, []string{"2023-W52", "2024-W01", "2024-W06", "2024-W40"}},
		{BucketMonthly, []string{"2023-12", "2024-01", "2024-02", "2024-10"}},
		{BucketYearly, []string{"2023", "2024"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.bucketing), func(t *testing.T) {
			rollup := PeriodRollup(entries, tt.bucketing)

			keys := make([]string, 0, len(rollup))
			for _, p := range rollup {
				keys = append(keys, p.BucketKey)
				assert.True(t, p.Net.Equal(p.TotalDebit.Sub(p.TotalCredit)))
			}
			assert.Equal(t, tt.keys, keys)
		})
	}

	monthly := PeriodRollup(entries, BucketMonthly)
	assertDecimal(t, "20", monthly[1].TotalDebit)
	assertDecimal(t, "12", monthly[1].TotalCredit)
	assertDecimal(t, "8", monthly[1].Net)
}

func TestSummarizeDay(t *testing.T) {
	win := newTestEntry("2024-05-01", "1000", "0")
	win.Kind = KindWin
	win.Fee = dec("15")
	receipt := newTestEntry("2024-05-01", "0", "400")
	receipt.Kind = KindReceipt
	receipt.Fee = dec("5")
	expense := newTestEntry("2024-05-01", "0", "120")
	expense.Kind = KindExpense
	expense.SubjectID = ""
	expense.Category = ExpenseFood
	otherDay := newTestEntry("2024-05-02", "9999", "0")

	day := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	s := SummarizeDay([]*Entry{win, receipt, expense, otherDay}, day)

	assert.Equal(t, 3, s.Entries)
	assertDecimal(t, "1000", s.TotalIn)
	assertDecimal(t, "400", s.TotalOut)
	assertDecimal(t, "20", s.FeeIncome)
	assertDecimal(t, "120", s.Expenses)
	assert.Equal(t, "2024-05-01", FormatDate(s.Date))
}

func TestExpenseBreakdown(t *testing.T) {
	rent := newTestEntry("2024-05-01", "0", "500")
	rent.Kind = KindExpense
	rent.Category = ExpenseRent
	tax := newTestEntry("2024-05-02", "0", "80")
	tax.Kind = KindExpense
	tax.Category = ExpenseTax
	rent2 := newTestEntry("2024-05-03", "0", "250")
	rent2.Kind = KindExpense
	rent2.Category = ExpenseRent
	notExpense := newTestEntry("2024-05-03", "0", "1000")

	totals := ExpenseBreakdown([]*Entry{rent, tax, rent2, notExpense})

	require.Len(t, totals, len(ExpenseCategories))
	assert.Equal(t, ExpenseRent, totals[0].Category)
	assertDecimal(t, "750", totals[0].Total)
	assert.Equal(t, 2, totals[0].Count)

	for _, total := range totals {
		switch total.Category {
		case ExpenseTax:
			assertDecimal(t, "80", total.Total)
			assert.Equal(t, ExpenseGroupTax, total.Group)
		case ExpenseRent:
		default:
			assert.True(t, total.Total.IsZero(), string(total.Category))
		}
	}
}
