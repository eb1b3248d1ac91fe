package domain

import (
	"fmt"
	"strings"
)

// Direction is the side of the ledger an entry kind posts to.
type Direction int

const (
	// DirectionDebit increases what the subject owes the business.
	DirectionDebit Direction = iota + 1
	// DirectionCredit decreases what the subject owes the business.
	DirectionCredit
	// DirectionEither allows debit, credit or both (corrections).
	DirectionEither
)

// StockFlow is the effect of an entry on physical inventory.
type StockFlow int

const (
	StockNone StockFlow = iota
	StockInbound
	StockOutbound
)

// EntryKind is the business transaction type that produced an entry.
type EntryKind string

const (
	KindCharge     EntryKind = "charge"
	KindPayment    EntryKind = "payment"
	KindSale       EntryKind = "sale"
	KindPurchase   EntryKind = "purchase"
	KindWin        EntryKind = "win"
	KindReceipt    EntryKind = "receipt"
	KindSell       EntryKind = "sell"
	KindBuy        EntryKind = "buy"
	KindExpense    EntryKind = "expense"
	KindAdjustment EntryKind = "adjustment"
)

// SubjectRule says whether an entry kind must, may or must not reference a subject.
type SubjectRule int

const (
	SubjectOptional SubjectRule = iota
	SubjectMandatory
	SubjectForbidden
)

// KindRule is one row of the kind mapping table.
type KindRule struct {
	Direction  Direction
	Stock      StockFlow
	Subject    SubjectRule
	Categories []SubjectCategory // empty means every category
}

// kindRules is the single source of truth for how a transaction type posts.
var kindRules = map[EntryKind]KindRule{
	KindCharge:     {Direction: DirectionDebit, Subject: SubjectMandatory, Categories: []SubjectCategory{CategoryBuyer, CategoryBoth}},
	KindPayment:    {Direction: DirectionCredit, Subject: SubjectMandatory},
	KindSale:       {Direction: DirectionDebit, Stock: StockOutbound, Categories: []SubjectCategory{CategoryBuyer, CategoryBoth}},
	KindPurchase:   {Direction: DirectionCredit, Stock: StockInbound, Categories: []SubjectCategory{CategorySeller, CategoryBoth}},
	KindWin:        {Direction: DirectionDebit, Subject: SubjectMandatory},
	KindReceipt:    {Direction: DirectionCredit, Subject: SubjectMandatory},
	KindSell:       {Direction: DirectionDebit, Subject: SubjectMandatory, Categories: []SubjectCategory{CategoryBuyer, CategoryBoth}},
	KindBuy:        {Direction: DirectionCredit, Subject: SubjectMandatory, Categories: []SubjectCategory{CategorySeller, CategoryBoth}},
	KindExpense:    {Direction: DirectionCredit, Subject: SubjectForbidden},
	KindAdjustment: {Direction: DirectionEither},
}

// ParseEntryKind validates a kind name.
func ParseEntryKind(s string) (EntryKind, error) {
	k := EntryKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindRules[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Rule returns the mapping table row for k.
func (k EntryKind) Rule() (KindRule, bool) {
	r, ok := kindRules[k]
	return r, ok
}

// Allows reports whether a subject of category c may be referenced by an entry of kind k.
func (k EntryKind) Allows(c SubjectCategory) bool {
	r, ok := kindRules[k]
	if !ok {
		return false
	}
	if len(r.Categories) == 0 {
		return true
	}
	for _, allowed := range r.Categories {
		if allowed == c {
			return true
		}
	}
	return false
}

// ExpenseGroup classifies expense categories on reports.
type ExpenseGroup string

const (
	ExpenseGroupOperating ExpenseGroup = "operating"
	ExpenseGroupTax       ExpenseGroup = "tax"
)

// ExpenseCategory is a fixed expense category.
type ExpenseCategory string

const (
	ExpenseRent      ExpenseCategory = "rent"
	ExpenseSalaries  ExpenseCategory = "salaries"
	ExpenseUtilities ExpenseCategory = "utilities"
	ExpenseFood      ExpenseCategory = "food"
	ExpenseRepairs   ExpenseCategory = "repairs"
	ExpenseTax       ExpenseCategory = "tax"
	ExpenseMisc      ExpenseCategory = "misc"
)

type expenseInfo struct {
	label string
	group ExpenseGroup
}

var expenseCategories = map[ExpenseCategory]expenseInfo{
	ExpenseRent:      {label: "کرایه", group: ExpenseGroupOperating},
	ExpenseSalaries:  {label: "معاش پرسونل", group: ExpenseGroupOperating},
	ExpenseUtilities: {label: "برق", group: ExpenseGroupOperating},
	ExpenseFood:      {label: "غذا", group: ExpenseGroupOperating},
	ExpenseRepairs:   {label: "ترمیمات", group: ExpenseGroupOperating},
	ExpenseTax:       {label: "مالیات", group: ExpenseGroupTax},
	ExpenseMisc:      {label: "متفرقه", group: ExpenseGroupOperating},
}

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{
	ExpenseRent, ExpenseSalaries, ExpenseUtilities, ExpenseFood, ExpenseRepairs, ExpenseTax, ExpenseMisc,
}

// ParseExpenseCategory validates a category name. Empty input maps to misc.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ExpenseMisc, nil
	}
	c := ExpenseCategory(s)
	if _, ok := expenseCategories[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Label returns the display label of the category.
func (c ExpenseCategory) Label() string {
	return expenseCategories[c].label
}

// Group returns the report group of the category.
func (c ExpenseCategory) Group() ExpenseGroup {
	return expenseCategories[c].group
}
