package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// ReconciliationUseCase compares the denormalized subject balances with the
// balances recomputed from entries.
type ReconciliationUseCase struct {
	subjectRepo SubjectRepository
	entryRepo   EntryRepository
	recorder    Recorder
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	subjectRepo SubjectRepository,
	entryRepo EntryRepository,
	recorder Recorder,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		subjectRepo: subjectRepo,
		entryRepo:   entryRepo,
		recorder:    recorder,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	SubjectID         string
	Code              string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

func newReconciliationResult(subject *domain.Subject, view domain.BalanceView) *ReconciliationResult {
	diff := subject.Balance.Sub(view.Balance)
	return &ReconciliationResult{
		SubjectID:         subject.ID,
		Code:              subject.Code,
		RecordedBalance:   subject.Balance,
		CalculatedBalance: view.Balance,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}
}

// ReconcileSubject recomputes one subject's balance from its entries.
func (uc *ReconciliationUseCase) ReconcileSubject(ctx context.Context, subjectID string) (*ReconciliationResult, error) {
	subject, err := uc.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	result := newReconciliationResult(subject, domain.ComputeBalance(entries))
	uc.report(ctx, result)

	return result, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalSubjects      int
	ReconciledSubjects int
	Discrepancies      []*ReconciliationResult
	// OrphanedEntries counts entries that reference a subject that no
	// longer exists. They stay in global aggregates only.
	OrphanedEntries int
	CheckedAt       time.Time
}

// ReconcileAll checks every subject against a single pass over the store.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) (*ReconciliationReport, error) {
	subjects, err := uc.subjectRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	entries, err := uc.entryRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	views := domain.PerSubjectBalances(entries, subjects)

	report := &ReconciliationReport{
		TotalSubjects: len(subjects),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, subject := range subjects {
		result := newReconciliationResult(subject, views[subject.ID])
		if result.IsReconciled {
			report.ReconciledSubjects++
			continue
		}
		uc.report(ctx, result)
		report.Discrepancies = append(report.Discrepancies, result)
	}

	for _, e := range entries {
		if !e.HasSubject() {
			continue
		}
		if _, ok := views[e.SubjectID]; !ok {
			report.OrphanedEntries++
		}
	}

	return report, nil
}

func (uc *ReconciliationUseCase) report(ctx context.Context, result *ReconciliationResult) {
	if result.IsReconciled {
		return
	}

	uc.recorder.Discrepancy(result.SubjectID)

	zerolog.Ctx(ctx).Warn().
		Str("subject_id", result.SubjectID).
		Str("recorded", result.RecordedBalance.String()).
		Str("calculated", result.CalculatedBalance.String()).
		Msg("subject balance discrepancy")
}
