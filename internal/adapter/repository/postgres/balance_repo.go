package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository. Snapshots are
// keyed by account and period; a re-run of period close overwrites them.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// Upsert writes one balance snapshot inside the transaction.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance domain.AccountBalance) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO account_balances (
			account_code, company_id, period_type, year, period_value,
			opening_debit, opening_credit, period_debit, period_credit,
			closing_debit, closing_credit, currency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (account_code, company_id, period_type, year, period_value)
		DO UPDATE SET
			opening_debit = EXCLUDED.opening_debit,
			opening_credit = EXCLUDED.opening_credit,
			period_debit = EXCLUDED.period_debit,
			period_credit = EXCLUDED.period_credit,
			closing_debit = EXCLUDED.closing_debit,
			closing_credit = EXCLUDED.closing_credit
	`,
		balance.AccountCode,
		balance.CompanyID,
		string(balance.PeriodType),
		balance.Year,
		balance.PeriodValue,
		moneyToNumeric(balance.OpeningDebit),
		moneyToNumeric(balance.OpeningCredit),
		moneyToNumeric(balance.PeriodDebit),
		moneyToNumeric(balance.PeriodCredit),
		moneyToNumeric(balance.ClosingDebit),
		moneyToNumeric(balance.ClosingCredit),
		balance.OpeningDebit.Currency,
	)

	return err
}

// ListByPeriod lists all balance snapshots of one period, ordered by
// account code.
func (r *BalanceRepository) ListByPeriod(ctx context.Context, companyID string, periodType domain.PeriodType, year, periodValue int) ([]domain.AccountBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_code, company_id, period_type, year, period_value,
		       opening_debit, opening_credit, period_debit, period_credit,
		       closing_debit, closing_credit, currency
		FROM account_balances
		WHERE company_id = $1 AND period_type = $2 AND year = $3 AND period_value = $4
		ORDER BY account_code
	`, companyID, string(periodType), year, periodValue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []domain.AccountBalance
	for rows.Next() {
		var (
			b                                          domain.AccountBalance
			periodTypeCol, currency                    string
			openingDebit, openingCredit                pgtype.Numeric
			periodDebit, periodCredit                  pgtype.Numeric
			closingDebit, closingCredit                pgtype.Numeric
		)

		err := rows.Scan(
			&b.AccountCode, &b.CompanyID, &periodTypeCol, &b.Year, &b.PeriodValue,
			&openingDebit, &openingCredit, &periodDebit, &periodCredit,
			&closingDebit, &closingCredit, &currency,
		)
		if err != nil {
			return nil, err
		}

		b.PeriodType = domain.PeriodType(periodTypeCol)
		b.OpeningDebit = numericToMoney(openingDebit, currency)
		b.OpeningCredit = numericToMoney(openingCredit, currency)
		b.PeriodDebit = numericToMoney(periodDebit, currency)
		b.PeriodCredit = numericToMoney(periodCredit, currency)
		b.ClosingDebit = numericToMoney(closingDebit, currency)
		b.ClosingCredit = numericToMoney(closingCredit, currency)

		balances = append(balances, b)
	}

	return balances, rows.Err()
}
