package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// ProvisionRepository implements usecase.ProvisionRepository. A
// provisioning run replaces any earlier run for the same company and
// calculation date.
type ProvisionRepository struct {
	pool *pgxpool.Pool
}

// NewProvisionRepository creates a new ProvisionRepository.
func NewProvisionRepository(pool *pgxpool.Pool) *ProvisionRepository {
	return &ProvisionRepository{pool: pool}
}

// SaveAll persists one provisioning run inside the transaction.
func (r *ProvisionRepository) SaveAll(ctx context.Context, tx usecase.Transaction, calculations []domain.ProvisionCalculation) error {
	if len(calculations) == 0 {
		return nil
	}
	pgxTx := tx.(*Tx).PgxTx()

	first := calculations[0]
	_, err := pgxTx.Exec(ctx, `
		DELETE FROM provision_calculations
		WHERE company_id = $1 AND calculation_date = $2
	`, first.CompanyID, first.CalculationDate)
	if err != nil {
		return err
	}

	for _, c := range calculations {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO provision_calculations (
				id, company_id, calculation_date, customer_code,
				original_amount, overdue_days, rate, provision, currency,
				type, rules_version, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			c.ID,
			c.CompanyID,
			c.CalculationDate,
			c.CustomerCode,
			moneyToNumeric(c.OriginalAmount),
			c.OverdueDays,
			decimalToNumeric(c.Rate),
			moneyToNumeric(c.Provision),
			c.Provision.Currency,
			string(c.Type),
			c.RulesVersion,
			c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByPeriod lists the persisted rows of the provisioning run for a
// calculation date.
func (r *ProvisionRepository) ListByPeriod(ctx context.Context, companyID string, asOf time.Time) ([]domain.ProvisionCalculation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, calculation_date, customer_code,
		       original_amount, overdue_days, rate, provision, currency,
		       type, rules_version, created_at
		FROM provision_calculations
		WHERE company_id = $1 AND calculation_date = $2
		ORDER BY type, customer_code
	`, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calculations []domain.ProvisionCalculation
	for rows.Next() {
		var (
			c                          domain.ProvisionCalculation
			amount, rate, provision    pgtype.Numeric
			currency, provisionType    string
		)

		err := rows.Scan(
			&c.ID, &c.CompanyID, &c.CalculationDate, &c.CustomerCode,
			&amount, &c.OverdueDays, &rate, &provision, &currency,
			&provisionType, &c.RulesVersion, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		c.OriginalAmount = numericToMoney(amount, currency)
		c.Rate = numericToDecimal(rate)
		c.Provision = numericToMoney(provision, currency)
		c.Type = domain.ProvisionType(provisionType)

		calculations = append(calculations, c)
	}

	return calculations, rows.Err()
}
