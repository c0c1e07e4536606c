package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// LotRepository implements usecase.LotRepository. Lots keep their rows
// after depletion; consumption decrements the remaining quantity.
type LotRepository struct {
	pool *pgxpool.Pool
}

// NewLotRepository creates a new LotRepository.
func NewLotRepository(pool *pgxpool.Pool) *LotRepository {
	return &LotRepository{pool: pool}
}

const lotQuery = `
	SELECT id, product_code, quantity, unit_cost, currency, receipt_date
	FROM inventory_lots
	WHERE company_id = $1 AND product_code = $2 AND quantity > 0
	ORDER BY receipt_date, id
`

// ListByProduct lists a product's open lots, oldest receipt first.
func (r *LotRepository) ListByProduct(ctx context.Context, companyID, productCode string) ([]domain.Lot, error) {
	rows, err := r.pool.Query(ctx, lotQuery, companyID, productCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLots(rows)
}

// ListByProductForUpdate lists a product's open lots with FOR UPDATE
// locks, so a concurrent issue cannot consume the same quantity.
func (r *LotRepository) ListByProductForUpdate(ctx context.Context, tx usecase.Transaction, companyID, productCode string) ([]domain.Lot, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, lotQuery+` FOR UPDATE`, companyID, productCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLots(rows)
}

// Consume decrements lot quantities inside the transaction.
func (r *LotRepository) Consume(ctx context.Context, tx usecase.Transaction, consumptions []domain.LotConsumption) error {
	pgxTx := tx.(*Tx).PgxTx()

	for _, c := range consumptions {
		_, err := pgxTx.Exec(ctx, `
			UPDATE inventory_lots SET quantity = quantity - $1 WHERE id = $2
		`, decimalToNumeric(c.Quantity), c.LotID)
		if err != nil {
			return err
		}
	}

	return nil
}

// BookQuantity returns the total book quantity on hand for a product.
func (r *LotRepository) BookQuantity(ctx context.Context, companyID, productCode string) (decimal.Decimal, error) {
	var total pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_lots
		WHERE company_id = $1 AND product_code = $2
	`, companyID, productCode).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func scanLots(rows pgx.Rows) ([]domain.Lot, error) {
	var lots []domain.Lot
	for rows.Next() {
		var (
			lot                domain.Lot
			quantity, unitCost pgtype.Numeric
			currency           string
		)

		err := rows.Scan(&lot.ID, &lot.ProductCode, &quantity, &unitCost, &currency, &lot.ReceiptDate)
		if err != nil {
			return nil, err
		}

		lot.Quantity = numericToDecimal(quantity)
		lot.UnitCost = numericToMoney(unitCost, currency)
		lots = append(lots, lot)
	}

	return lots, rows.Err()
}
