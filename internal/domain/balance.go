package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Position is the net position of a subject towards the business.
type Position string

const (
	PositionDebtor   Position = "debtor"
	PositionCreditor Position = "creditor"
	PositionSettled  Position = "settled"
)

// Classify maps a balance to a position. Positive means the subject owes
// the business, negative means the business owes the subject. Balances are
// already quantized, so zero is compared exactly.
func Classify(balance decimal.Decimal) Position {
	switch balance.Sign() {
	case 1:
		return PositionDebtor
	case -1:
		return PositionCreditor
	default:
		return PositionSettled
	}
}

// BalanceView is the derived ledger view of an ordered entry sequence.
type BalanceView struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal
	// RunningBalances[i] is the balance after entries[i].
	RunningBalances []decimal.Decimal
}

// Position classifies the view's final balance.
func (v BalanceView) Position() Position {
	return Classify(v.Balance)
}

// ComputeBalance folds entries in the order given. Callers pass the store's
// chronological order; the entries are never re-sorted here.
func ComputeBalance(entries []*Entry) BalanceView {
	view := BalanceView{
		TotalDebit:      decimal.Zero,
		TotalCredit:     decimal.Zero,
		Balance:         decimal.Zero,
		RunningBalances: make([]decimal.Decimal, 0, len(entries)),
	}

	running := decimal.Zero
	for _, e := range entries {
		view.TotalDebit = view.TotalDebit.Add(e.Debit)
		view.TotalCredit = view.TotalCredit.Add(e.Credit)
		running = running.Add(e.Debit).Sub(e.Credit)
		view.RunningBalances = append(view.RunningBalances, running)
	}

	view.Balance = running
	return view
}

// EntryLess orders entries by date, then by insertion sequence.
func EntryLess(a, b *Entry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Seq < b.Seq
}

// SortEntries sorts entries in place into the canonical chronological order.
func SortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return EntryLess(entries[i], entries[j])
	})
}
