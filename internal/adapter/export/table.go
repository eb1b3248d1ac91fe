// Package export renders ledger reports as spreadsheet-friendly tables.
package export

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// Table is a titled grid of cell values with one heading row.
type Table struct {
	Title    string
	Headings []string
	Rows     [][]string
}

// StatementTable lays out a subject statement, one row per entry with its
// running balance, followed by a totals row.
func StatementTable(stmt *usecase.Statement, currency domain.Currency) Table {
	t := Table{
		Title:    stmt.Subject.Code,
		Headings: []string{"Date", "Kind", "Description", "Debit", "Credit", "Balance"},
		Rows:     make([][]string, 0, len(stmt.Entries)+1),
	}

	for i, e := range stmt.Entries {
		t.Rows = append(t.Rows, []string{
			domain.FormatDate(e.Date),
			string(e.Kind),
			e.Description,
			amount(currency, e.Debit),
			amount(currency, e.Credit),
			amount(currency, stmt.View.RunningBalances[i]),
		})
	}

	t.Rows = append(t.Rows, []string{
		"", "", "Total",
		amount(currency, stmt.View.TotalDebit),
		amount(currency, stmt.View.TotalCredit),
		amount(currency, stmt.View.Balance),
	})

	return t
}

// BalancesTable lays out the balances report, one row per subject.
func BalancesTable(rows []usecase.SubjectBalance, currency domain.Currency) Table {
	t := Table{
		Title:    "Balances",
		Headings: []string{"Code", "Name", "Phone", "Category", "Debit", "Credit", "Balance", "Position"},
		Rows:     make([][]string, 0, len(rows)),
	}

	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Subject.Code,
			r.Subject.Name,
			r.Subject.Phone,
			string(r.Subject.Category),
			amount(currency, r.View.TotalDebit),
			amount(currency, r.View.TotalCredit),
			amount(currency, r.View.Balance),
			string(r.Position),
		})
	}

	return t
}

// Amounts are written without thousands separators so spreadsheets can
// parse them back as numbers.
func amount(currency domain.Currency, d decimal.Decimal) string {
	return d.StringFixed(currency.MinorUnits)
}
