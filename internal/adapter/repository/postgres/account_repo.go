package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

const accountColumns = `
	id, code, name, type, company_id, parent_code, is_detail, is_active,
	direction, currency, balance, version, created_at, updated_at
`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByCode retrieves an account by its chart code.
func (r *AccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE company_id = $1 AND code = $2
	`, companyID, code)

	return scanAccount(row)
}

// UpdateBalance persists the account balance only if the stored version
// still matches expectedVersion.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, account *domain.Account, expectedVersion int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET balance = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5
	`,
		moneyToNumeric(account.Balance),
		account.Version,
		account.UpdatedAt,
		account.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &domain.ConcurrentModificationError{
			EntityType: "Account",
			EntityID:   account.ID,
			Expected:   expectedVersion,
		}
	}

	return nil
}

// ListByPrefix lists active accounts whose code starts with prefix,
// ordered by code.
func (r *AccountRepository) ListByPrefix(ctx context.Context, companyID, prefix string) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE company_id = $1 AND code LIKE $2 || '%' AND is_active
		ORDER BY code
	`, companyID, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a                   domain.Account
		accountType, direct string
		balance             pgtype.Numeric
	)

	err := row.Scan(
		&a.ID, &a.Code, &a.Name, &accountType, &a.CompanyID, &a.ParentCode,
		&a.IsDetail, &a.IsActive, &direct, &a.Currency, &balance,
		&a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	a.Type = domain.AccountType(accountType)
	a.Direction = domain.BalanceDirection(direct)
	a.Balance = numericToMoney(balance, a.Currency)

	return &a, nil
}
