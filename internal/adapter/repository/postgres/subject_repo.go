package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

const subjectsPhoneIndex = "subjects_phone_idx"

// SubjectRepository implements usecase.SubjectRepository.
type SubjectRepository struct {
	queries *generated.Queries
}

// NewSubjectRepository creates a new SubjectRepository. db is usually a *pgxpool.Pool.
func NewSubjectRepository(db generated.DBTX) *SubjectRepository {
	return &SubjectRepository{
		queries: generated.New(db),
	}
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, tx usecase.Transaction, subject *domain.Subject) error {
	err := queriesFor(tx, r.queries).CreateSubject(ctx, generated.CreateSubjectParams{
		ID:        subject.ID,
		Code:      subject.Code,
		Name:      subject.Name,
		Phone:     subject.Phone,
		Category:  string(subject.Category),
		Balance:   decimalToNumeric(subject.Balance),
		CreatedAt: timeToPgTimestamptz(subject.CreatedAt),
	})
	if code, constraint := pgErrorCode(err); code == pgErrUniqueViolation {
		if constraint == subjectsPhoneIndex {
			return domain.ErrDuplicatePhone
		}
		return domain.ErrDuplicateSubjectID
	}

	return err
}

// NextCodeSeq draws the next value of the subject code sequence. Sequence
// values are not returned on rollback, so codes are never reused.
func (r *SubjectRepository) NextCodeSeq(ctx context.Context, tx usecase.Transaction) (int64, error) {
	return queriesFor(tx, r.queries).NextSubjectCode(ctx)
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	row, err := r.queries.GetSubjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, err
	}

	return rowToSubject(row), nil
}

// GetByIDForUpdate retrieves a subject by ID with a FOR UPDATE lock.
func (r *SubjectRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Subject, error) {
	row, err := queriesFor(tx, r.queries).GetSubjectByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, err
	}

	return rowToSubject(row), nil
}

// ExistsByPhone reports whether a subject with the phone exists.
func (r *SubjectRepository) ExistsByPhone(ctx context.Context, tx usecase.Transaction, phone string) (bool, error) {
	return queriesFor(tx, r.queries).SubjectPhoneExists(ctx, phone)
}

// List lists subjects in code order with pagination.
func (r *SubjectRepository) List(ctx context.Context, limit, offset int) ([]*domain.Subject, error) {
	rows, err := r.queries.ListSubjects(ctx, generated.ListSubjectsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToSubjects(rows), nil
}

// ListAll lists every subject in code order.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]*domain.Subject, error) {
	rows, err := r.queries.ListAllSubjects(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToSubjects(rows), nil
}

// Search finds subjects whose name, phone or code contains query.
func (r *SubjectRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Subject, error) {
	rows, err := r.queries.SearchSubjects(ctx, generated.SearchSubjectsParams{
		Query: escapeLike(query),
		Limit: int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToSubjects(rows), nil
}

// AddToBalance moves the subject's denormalized balance by delta.
func (r *SubjectRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal) error {
	n, err := queriesFor(tx, r.queries).AddSubjectBalance(ctx, generated.AddSubjectBalanceParams{
		ID:    id,
		Delta: decimalToNumeric(delta),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSubjectNotFound
	}

	return nil
}

// Delete removes a subject. The entries foreign key restricts deletion of
// subjects that still have entries.
func (r *SubjectRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx, r.queries).DeleteSubject(ctx, id)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgErrForeignKeyViolation {
			return domain.ErrSubjectHasEntries
		}
		return err
	}
	if n == 0 {
		return domain.ErrSubjectNotFound
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func rowsToSubjects(rows []generated.Subject) []*domain.Subject {
	subjects := make([]*domain.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, rowToSubject(row))
	}
	return subjects
}

func rowToSubject(row generated.Subject) *domain.Subject {
	return &domain.Subject{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		Phone:     row.Phone,
		Category:  domain.SubjectCategory(row.Category),
		Balance:   numericToDecimal(row.Balance),
		CreatedAt: row.CreatedAt.Time,
	}
}
