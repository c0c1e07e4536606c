package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

const periodColumns = `
	id, company_id, type, year, period_value, start_date, end_date,
	lock_status, locked_at, locked_by, created_at, updated_at
`

// PeriodRepository implements usecase.PeriodRepository.
type PeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{pool: pool}
}

// GetByID retrieves a fiscal period by ID.
func (r *PeriodRepository) GetByID(ctx context.Context, id string) (*domain.FiscalPeriod, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE id = $1`, id)
	return scanPeriod(row)
}

// GetByDate retrieves the month period containing a date. Month periods
// are the mutation gate; quarter and year locks cascade onto them when
// applied.
func (r *PeriodRepository) GetByDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM fiscal_periods
		WHERE company_id = $1 AND type = $2 AND start_date <= $3 AND end_date >= $3
	`, companyID, string(domain.PeriodMonth), date)

	return scanPeriod(row)
}

// Update persists the period state inside the transaction.
func (r *PeriodRepository) Update(ctx context.Context, tx usecase.Transaction, period *domain.FiscalPeriod) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE fiscal_periods SET
			lock_status = $1, locked_at = $2, locked_by = $3, updated_at = $4
		WHERE id = $5
	`,
		string(period.LockStatus),
		ptrToPgTimestamptz(period.LockedAt),
		period.LockedBy,
		period.UpdatedAt,
		period.ID,
	)

	return err
}

// List lists a company's fiscal periods for a year.
func (r *PeriodRepository) List(ctx context.Context, companyID string, year int) ([]*domain.FiscalPeriod, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+periodColumns+`
		FROM fiscal_periods
		WHERE company_id = $1 AND year = $2
		ORDER BY type, period_value
	`, companyID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.FiscalPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

func scanPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var (
		p                      domain.FiscalPeriod
		periodType, lockStatus string
		lockedAt               pgtype.Timestamptz
	)

	err := row.Scan(
		&p.ID, &p.CompanyID, &periodType, &p.Year, &p.PeriodValue,
		&p.StartDate, &p.EndDate, &lockStatus, &lockedAt, &p.LockedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}

		return nil, err
	}

	p.Type = domain.PeriodType(periodType)
	p.LockStatus = domain.LockStatus(lockStatus)
	p.LockedAt = pgTimestamptzToPtr(lockedAt)

	return &p, nil
}
