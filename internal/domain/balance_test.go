package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

var testSeq int64

func newTestEntry(date, debit, credit string) *Entry {
	testSeq++
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return &Entry{
		ID:        "e" + decimal.NewFromInt(testSeq).String(),
		SubjectID: "s1",
		Date:      d,
		Kind:      KindAdjustment,
		Debit:     dec(debit),
		Credit:    dec(credit),
		Seq:       testSeq,
		CreatedAt: time.Now(),
	}
}

func TestComputeBalance_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		entries  []*Entry
		debit    string
		credit   string
		balance  string
		running  []string
		position Position
	}{
		{
			name: "charge then partial payment",
			entries: []*Entry{
				newTestEntry("2024-01-01", "1000", "0"),
				newTestEntry("2024-01-02", "0", "400"),
			},
			debit: "1000", credit: "400", balance: "600",
			running:  []string{"1000", "600"},
			position: PositionDebtor,
		},
		{
			name:    "single credit",
			entries: []*Entry{newTestEntry("2024-01-01", "0", "500")},
			debit:   "0", credit: "500", balance: "-500",
			running:  []string{"-500"},
			position: PositionCreditor,
		},
		{
			name:    "correction entry with both sides",
			entries: []*Entry{newTestEntry("2024-01-01", "200", "200")},
			debit:   "200", credit: "200", balance: "0",
			running:  []string{"0"},
			position: PositionSettled,
		},
		{
			name: "minor units do not drift",
			entries: []*Entry{
				newTestEntry("2024-01-01", "0.10", "0"),
				newTestEntry("2024-01-01", "0.20", "0"),
				newTestEntry("2024-01-02", "0", "0.30"),
			},
			debit: "0.30", credit: "0.30", balance: "0",
			running:  []string{"0.10", "0.30", "0"},
			position: PositionSettled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ComputeBalance(tt.entries)

			assertDecimal(t, tt.debit, view.TotalDebit)
			assertDecimal(t, tt.credit, view.TotalCredit)
			assertDecimal(t, tt.balance, view.Balance)
			require.Len(t, view.RunningBalances, len(tt.running))
			for i, want := range tt.running {
				assertDecimal(t, want, view.RunningBalances[i])
			}
			assert.Equal(t, tt.position, view.Position())
		})
	}
}

func TestComputeBalance_Empty(t *testing.T) {
	view := ComputeBalance(nil)

	assert.True(t, view.TotalDebit.IsZero())
	assert.True(t, view.TotalCredit.IsZero())
	assert.True(t, view.Balance.IsZero())
	require.NotNil(t, view.RunningBalances)
	assert.Empty(t, view.RunningBalances)
	assert.Equal(t, PositionSettled, view.Position())
}

func randomEntries(r *rand.Rand, n int) []*Entry {
	entries := make([]*Entry, 0, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, r.Intn(30)).Format(DateLayout)
		debit := decimal.New(int64(r.Intn(100000)), -2)
		credit := decimal.New(int64(r.Intn(100000)), -2)
		entries = append(entries, newTestEntry(date, debit.String(), credit.String()))
	}
	SortEntries(entries)
	return entries
}

func TestComputeBalance_LastRunningBalanceEqualsNet(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		entries := randomEntries(r, 1+r.Intn(40))
		view := ComputeBalance(entries)

		last := view.RunningBalances[len(view.RunningBalances)-1]
		assert.True(t, last.Equal(view.TotalDebit.Sub(view.TotalCredit)), "round %d", round)
		assert.True(t, last.Equal(view.Balance), "round %d", round)
	}
}

func TestComputeBalance_TotalsInvariantUnderPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	entries := randomEntries(r, 25)
	base := ComputeBalance(entries)

	for round := 0; round < 20; round++ {
		shuffled := append([]*Entry(nil), entries...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		view := ComputeBalance(shuffled)
		assert.True(t, base.TotalDebit.Equal(view.TotalDebit))
		assert.True(t, base.TotalCredit.Equal(view.TotalCredit))
		assert.True(t, base.Balance.Equal(view.Balance))
	}
}

func TestComputeBalance_RunningBalancesFollowInputOrder(t *testing.T) {
	a := newTestEntry("2024-01-01", "100", "0")
	b := newTestEntry("2024-01-01", "0", "300")

	forward := ComputeBalance([]*Entry{a, b})
	backward := ComputeBalance([]*Entry{b, a})

	assertDecimal(t, "100", forward.RunningBalances[0])
	assertDecimal(t, "-300", backward.RunningBalances[0])
	assert.True(t, forward.Balance.Equal(backward.Balance))
}

func TestComputeBalance_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	entries := randomEntries(r, 30)

	first := ComputeBalance(entries)
	second := ComputeBalance(entries)

	assert.True(t, first.Balance.Equal(second.Balance))
	require.Len(t, second.RunningBalances, len(first.RunningBalances))
	for i := range first.RunningBalances {
		assert.True(t, first.RunningBalances[i].Equal(second.RunningBalances[i]))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		balance string
		want    Position
	}{
		{"0.01", PositionDebtor},
		{"600", PositionDebtor},
		{"0", PositionSettled},
		{"0.00", PositionSettled},
		{"-0.00", PositionSettled},
		{"-0.01", PositionCreditor},
		{"-500", PositionCreditor},
	}

	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(dec(tt.balance)))
		})
	}
}

func TestSortEntries_StableByDateThenSeq(t *testing.T) {
	first := newTestEntry("2024-02-01", "1", "0")
	second := newTestEntry("2024-01-15", "2", "0")
	third := newTestEntry("2024-02-01", "3", "0")
	fourth := newTestEntry("2024-01-15", "4", "0")

	entries := []*Entry{third, first, fourth, second}
	SortEntries(entries)

	assert.Equal(t, []*Entry{second, fourth, first, third}, entries)
}
