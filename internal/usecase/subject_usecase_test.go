package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
	"github.com/iho/bookkeeper/internal/usecase/mocks"
)

func TestSubjectUseCase_Register(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	first, err := l.subjects.Register(ctx, usecase.RegisterSubjectInput{Name: "  Karim Traders ", Phone: "۰۷۰۰ ۱۲۳ ۴۵۶"})
	require.NoError(t, err)
	second, err := l.subjects.Register(ctx, usecase.RegisterSubjectInput{Name: "Ahmad Fuel", Category: domain.CategorySeller})
	require.NoError(t, err)

	assert.Equal(t, "C-0001", first.Subject.Code)
	assert.Equal(t, "C-0002", second.Subject.Code)
	assert.Equal(t, "Karim Traders", first.Subject.Name)
	assert.Equal(t, "0700 123 456", first.Subject.Phone)
	assert.Equal(t, domain.CategoryBuyer, first.Subject.Category)
	assert.Nil(t, first.OpeningEntry)
	assert.True(t, first.Subject.Balance.IsZero())
}

func TestSubjectUseCase_Register_OpeningCharge(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	result, err := l.subjects.Register(ctx, usecase.RegisterSubjectInput{
		Name:               "Hajji Traveler",
		OpeningCharge:      decimal.NewFromInt(85000),
		OpeningDate:        "2024-06-01",
		OpeningDescription: "Hajj package",
	})
	require.NoError(t, err)
	require.NotNil(t, result.OpeningEntry)

	assert.Equal(t, domain.KindCharge, result.OpeningEntry.Kind)
	requireDecimal(t, 85000, result.Subject.Balance)

	stmt, err := l.reports.Statement(ctx, result.Subject.ID)
	require.NoError(t, err)
	require.Len(t, stmt.Entries, 1)
	requireDecimal(t, 85000, stmt.View.Balance)
	assert.Equal(t, domain.PositionDebtor, stmt.Position)
}

func TestSubjectUseCase_Register_NormalizesCategory(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	buyer, err := l.subjects.Register(ctx, usecase.RegisterSubjectInput{Name: "Karim", Category: "Buyer"})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBuyer, buyer.Subject.Category)

	seller, err := l.subjects.Register(ctx, usecase.RegisterSubjectInput{Name: "Ahmad", Category: " seller "})
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySeller, seller.Subject.Category)

	stored, err := l.subjects.GetSubject(ctx, buyer.Subject.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBuyer, stored.Category)

	l.post(t, buyer.Subject.ID, "2024-01-01", domain.KindCharge, 100, 0)
	_, err = l.entries.RecordExchange(ctx, usecase.RecordExchangeInput{
		SubjectID: seller.Subject.ID, Date: "2024-01-01", Kind: domain.KindBuy, Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
}

func TestSubjectUseCase_Register_Rejections(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	_, err := l.subjects.Register(ctx, usecase.RegisterSubjectInput{Name: "Karim", Phone: "0700123456"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   usecase.RegisterSubjectInput
		wantErr error
	}{
		{"empty name", usecase.RegisterSubjectInput{Name: "   "}, domain.ErrInvalidSubjectName},
		{"bad phone", usecase.RegisterSubjectInput{Name: "X", Phone: "abc"}, domain.ErrInvalidPhone},
		{"duplicate phone", usecase.RegisterSubjectInput{Name: "Other", Phone: "0700123456"}, domain.ErrDuplicatePhone},
		{"bad category", usecase.RegisterSubjectInput{Name: "X", Category: "broker"}, domain.ErrInvalidCategory},
		{
			"opening charge for seller",
			usecase.RegisterSubjectInput{Name: "X", Category: domain.CategorySeller, OpeningCharge: decimal.NewFromInt(1)},
			domain.ErrCategoryMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.subjects.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := l.subjects.ListSubjects(ctx, usecase.ListSubjectsInput{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubjectUseCase_DeleteSubject(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	idle := l.register(t, "Idle", domain.CategoryBuyer)
	active := l.register(t, "Active", domain.CategoryBuyer)
	entry := l.post(t, active.ID, "2024-01-01", domain.KindCharge, 100, 0)

	require.NoError(t, l.subjects.DeleteSubject(ctx, idle.ID))
	_, err := l.subjects.GetSubject(ctx, idle.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = l.subjects.DeleteSubject(ctx, active.ID)
	assert.ErrorIs(t, err, domain.ErrSubjectHasEntries)

	require.NoError(t, l.entries.Remove(ctx, entry.ID))
	require.NoError(t, l.subjects.DeleteSubject(ctx, active.ID))

	err = l.subjects.DeleteSubject(ctx, active.ID)
	assert.ErrorIs(t, err, domain.ErrSubjectNotFound)
}

func TestSubjectUseCase_Search(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	l.register(t, "Karim Traders", domain.CategoryBuyer)
	l.register(t, "Ahmad Fuel", domain.CategorySeller)
	l.register(t, "Karimi Exchange", domain.CategoryBoth)

	found, err := l.subjects.Search(ctx, " karim ", 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = l.subjects.Search(ctx, "karim", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSubjectUseCase_Register_RollsBackOnCreateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	subjectRepo := mocks.NewMockSubjectRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	boom := errors.New("insert failed")

	idGen.EXPECT().Generate().Return("s1")
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	subjectRepo.EXPECT().NextCodeSeq(gomock.Any(), tx).Return(int64(3), nil)
	subjectRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(boom)

	uc := usecase.NewSubjectUseCase(txManager, subjectRepo, mocks.NewMockEntryRepository(ctrl), idGen, usecase.NoRetry{}, nil, recorder, domain.DefaultCurrency)

	_, err := uc.Register(context.Background(), usecase.RegisterSubjectInput{Name: "Karim"})
	assert.ErrorIs(t, err, boom)
}
