package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// ReportUseCase serves ledger views and aggregate reports. Every report is
// computed from the Entry Store on demand.
type ReportUseCase struct {
	subjectRepo       SubjectRepository
	entryRepo         EntryRepository
	cache             Cache
	recorder          Recorder
	statementTTL      time.Duration
	lowStockThreshold decimal.Decimal
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(
	subjectRepo SubjectRepository,
	entryRepo EntryRepository,
	cache Cache,
	recorder Recorder,
	statementTTL time.Duration,
	lowStockThreshold decimal.Decimal,
) *ReportUseCase {
	if statementTTL <= 0 {
		statementTTL = DefaultStatementTTL
	}

	return &ReportUseCase{
		subjectRepo:       subjectRepo,
		entryRepo:         entryRepo,
		cache:             cache,
		recorder:          recorder,
		statementTTL:      statementTTL,
		lowStockThreshold: lowStockThreshold,
	}
}

// Statement is a subject's entries with their ledger view.
type Statement struct {
	Subject  *domain.Subject    `json:"subject"`
	Entries  []*domain.Entry    `json:"entries"`
	View     domain.BalanceView `json:"view"`
	Position domain.Position    `json:"position"`
}

// Statement returns the subject's chronological entries, running balances
// and position. Warm statements are served from the cache.
func (uc *ReportUseCase) Statement(ctx context.Context, subjectID string) (*Statement, error) {
	if cached, ok := uc.cachedStatement(ctx, subjectID); ok {
		return cached, nil
	}

	subject, err := uc.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	view := domain.ComputeBalance(entries)
	stmt := &Statement{
		Subject:  subject,
		Entries:  entries,
		View:     view,
		Position: view.Position(),
	}

	uc.storeStatement(ctx, stmt)

	return stmt, nil
}

func (uc *ReportUseCase) cachedStatement(ctx context.Context, subjectID string) (*Statement, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, statementCacheKey(subjectID))
	if err != nil || data == nil {
		uc.recorder.StatementCacheLookup(false)
		return nil, false
	}

	var stmt Statement
	if err := json.Unmarshal(data, &stmt); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("subject_id", subjectID).Msg("discarding corrupt cached statement")
		uc.recorder.StatementCacheLookup(false)
		return nil, false
	}

	if stmt.Entries == nil {
		stmt.Entries = []*domain.Entry{}
	}
	if stmt.View.RunningBalances == nil {
		stmt.View.RunningBalances = []decimal.Decimal{}
	}

	uc.recorder.StatementCacheLookup(true)
	return &stmt, true
}

func (uc *ReportUseCase) storeStatement(ctx context.Context, stmt *Statement) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(stmt)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, statementCacheKey(stmt.Subject.ID), data, uc.statementTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("subject_id", stmt.Subject.ID).Msg("failed to cache statement")
	}
}

// SubjectBalance is one row of the balances report.
type SubjectBalance struct {
	Subject  *domain.Subject
	View     domain.BalanceView
	Position domain.Position
}

// Balances returns a view for every registered subject, ordered by code.
// Subjects without entries have a zero view.
func (uc *ReportUseCase) Balances(ctx context.Context) ([]SubjectBalance, error) {
	subjects, entries, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	views := domain.PerSubjectBalances(entries, subjects)

	rows := make([]SubjectBalance, 0, len(subjects))
	for _, s := range subjects {
		view := views[s.ID]
		rows = append(rows, SubjectBalance{Subject: s, View: view, Position: view.Position()})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Subject.Code < rows[j].Subject.Code
	})

	return rows, nil
}

// RankedSubject is one row of a debtor or creditor ranking.
type RankedSubject struct {
	Subject *domain.Subject
	Balance decimal.Decimal
}

// TopDebtors returns subjects owing the business, largest balance first.
func (uc *ReportUseCase) TopDebtors(ctx context.Context, limit int) ([]RankedSubject, error) {
	return uc.ranking(ctx, limit, domain.TopDebtors)
}

// TopCreditors returns subjects the business owes, most negative first.
func (uc *ReportUseCase) TopCreditors(ctx context.Context, limit int) ([]RankedSubject, error) {
	return uc.ranking(ctx, limit, domain.TopCreditors)
}

func (uc *ReportUseCase) ranking(
	ctx context.Context,
	limit int,
	rank func(map[string]domain.BalanceView, int) []domain.SubjectBalance,
) ([]RankedSubject, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	subjects, entries, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Subject, len(subjects))
	for _, s := range subjects {
		byID[s.ID] = s
	}

	ranked := rank(domain.PerSubjectBalances(entries, subjects), limit)

	rows := make([]RankedSubject, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, RankedSubject{Subject: byID[r.SubjectID], Balance: r.View.Balance})
	}

	return rows, nil
}

// InventoryReport is the stock report of the trading variant.
type InventoryReport struct {
	Stats     domain.InventoryStats
	Threshold decimal.Decimal
	LowStock  bool
}

// Inventory computes stock and weighted-average profit over all entries.
func (uc *ReportUseCase) Inventory(ctx context.Context) (*InventoryReport, error) {
	entries, err := uc.entryRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeInventoryStats(entries)

	return &InventoryReport{
		Stats:     stats,
		Threshold: uc.lowStockThreshold,
		LowStock:  stats.CurrentStock.LessThan(uc.lowStockThreshold),
	}, nil
}

// Rollup groups entries into calendar buckets.
func (uc *ReportUseCase) Rollup(ctx context.Context, bucketing domain.Bucketing, dateRange *domain.DateRange) ([]domain.PeriodTotal, error) {
	if _, err := domain.ParseBucketing(string(bucketing)); err != nil {
		return nil, err
	}

	entries, err := uc.listAll(ctx, dateRange)
	if err != nil {
		return nil, err
	}

	return domain.PeriodRollup(entries, bucketing), nil
}

// Daily summarizes one calendar date.
func (uc *ReportUseCase) Daily(ctx context.Context, date string) (*domain.DailySummary, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListAll(ctx, &domain.DateRange{Start: day, End: day})
	if err != nil {
		return nil, err
	}

	summary := domain.SummarizeDay(entries, day)
	return &summary, nil
}

// Expenses totals expenses per category.
func (uc *ReportUseCase) Expenses(ctx context.Context, dateRange *domain.DateRange) ([]domain.ExpenseTotal, error) {
	entries, err := uc.listAll(ctx, dateRange)
	if err != nil {
		return nil, err
	}

	return domain.ExpenseBreakdown(entries), nil
}

func (uc *ReportUseCase) listAll(ctx context.Context, dateRange *domain.DateRange) ([]*domain.Entry, error) {
	if dateRange != nil {
		if err := dateRange.Validate(); err != nil {
			return nil, err
		}
	}
	return uc.entryRepo.ListAll(ctx, dateRange)
}

func (uc *ReportUseCase) load(ctx context.Context) ([]*domain.Subject, []*domain.Entry, error) {
	subjects, err := uc.subjectRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uc.entryRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, nil, err
	}

	return subjects, entries, nil
}

