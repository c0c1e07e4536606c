package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// FXPositionRepository implements usecase.FXPositionRepository. Each row
// is an open foreign-currency balance carrying the rate it was originally
// booked at.
type FXPositionRepository struct {
	pool *pgxpool.Pool
}

// NewFXPositionRepository creates a new FXPositionRepository.
func NewFXPositionRepository(pool *pgxpool.Pool) *FXPositionRepository {
	return &FXPositionRepository{pool: pool}
}

// ListOpen lists open foreign-currency positions as of the given date.
func (r *FXPositionRepository) ListOpen(ctx context.Context, companyID string, asOf time.Time) ([]usecase.FXPosition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_code, currency, foreign_amount,
		       original_rate, original_rate_type, original_rate_date
		FROM fx_positions
		WHERE company_id = $1 AND opened_at <= $2 AND closed_at IS NULL
		ORDER BY account_code, currency
	`, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []usecase.FXPosition
	for rows.Next() {
		var (
			pos                 usecase.FXPosition
			foreignAmount, rate pgtype.Numeric
			rateType            string
		)

		err := rows.Scan(
			&pos.AccountCode, &pos.Currency, &foreignAmount,
			&rate, &rateType, &pos.OriginalRate.ValuationDate,
		)
		if err != nil {
			return nil, err
		}

		pos.ForeignAmount = numericToDecimal(foreignAmount)
		pos.OriginalRate.Rate = numericToDecimal(rate)
		pos.OriginalRate.Currency = pos.Currency
		pos.OriginalRate.Type = domain.RateType(rateType)

		positions = append(positions, pos)
	}

	return positions, rows.Err()
}
