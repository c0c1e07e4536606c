package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// RateRepository implements usecase.RateRepository. Quotes are immutable;
// a revaluation appends a new row rather than changing history.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// Save appends one rate quote.
func (r *RateRepository) Save(ctx context.Context, rate domain.ExchangeRate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exchange_rates (currency, rate, type, valuation_date, source)
		VALUES ($1, $2, $3, $4, $5)
	`,
		rate.Currency,
		decimalToNumeric(rate.Rate),
		string(rate.Type),
		rate.ValuationDate,
		rate.Source,
	)

	return err
}

// Latest returns the most recent quote of a type on or before a date.
func (r *RateRepository) Latest(ctx context.Context, currency string, rateType domain.RateType, onOrBefore time.Time) (domain.ExchangeRate, error) {
	var (
		rate    domain.ExchangeRate
		value   pgtype.Numeric
		rtype   string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT currency, rate, type, valuation_date, source
		FROM exchange_rates
		WHERE currency = $1 AND type = $2 AND valuation_date <= $3
		ORDER BY valuation_date DESC, id DESC
		LIMIT 1
	`, currency, string(rateType), onOrBefore).Scan(
		&rate.Currency, &value, &rtype, &rate.ValuationDate, &rate.Source,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExchangeRate{}, domain.ErrCurrencyNotFound
		}

		return domain.ExchangeRate{}, err
	}

	rate.Rate = numericToDecimal(value)
	rate.Type = domain.RateType(rtype)

	return rate, nil
}
