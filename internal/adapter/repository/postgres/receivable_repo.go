package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// ReceivableRepository implements usecase.ReceivableRepository. Aging is
// computed in SQL against the as-of date; balances not yet due come back
// with zero overdue days.
type ReceivableRepository struct {
	pool *pgxpool.Pool
}

// NewReceivableRepository creates a new ReceivableRepository.
func NewReceivableRepository(pool *pgxpool.Pool) *ReceivableRepository {
	return &ReceivableRepository{pool: pool}
}

// ListOpen lists unsettled receivables aged as of the given date.
func (r *ReceivableRepository) ListOpen(ctx context.Context, companyID string, asOf time.Time) ([]domain.Receivable, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT customer_code, amount, currency,
		       GREATEST(0, $2::date - due_date)
		FROM receivables
		WHERE company_id = $1 AND settled_at IS NULL AND invoice_date <= $2
		ORDER BY customer_code
	`, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receivables []domain.Receivable
	for rows.Next() {
		var (
			rec      domain.Receivable
			amount   pgtype.Numeric
			currency string
		)

		if err := rows.Scan(&rec.CustomerCode, &amount, &currency, &rec.OverdueDays); err != nil {
			return nil, err
		}

		rec.Amount = numericToMoney(amount, currency)
		receivables = append(receivables, rec)
	}

	return receivables, rows.Err()
}
