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

const voucherColumns = `
	id, voucher_number, type, voucher_date, posting_date, description,
	document_ref, company_id, created_by, state, signed_at, signer_id,
	signature_data, lock_status, locked_at, version, created_at, updated_at
`

// VoucherRepository implements usecase.VoucherRepository.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// Create inserts a new voucher inside the transaction.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO vouchers (`+voucherColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		voucher.ID,
		voucher.VoucherNumber,
		string(voucher.Type),
		voucher.VoucherDate,
		ptrToPgTimestamptz(voucher.PostingDate),
		voucher.Description,
		voucher.DocumentRef,
		voucher.CompanyID,
		voucher.CreatedBy,
		string(voucher.State),
		ptrToPgTimestamptz(voucher.SignedAt),
		voucher.SignerID,
		voucher.SignatureData,
		string(voucher.LockStatus),
		ptrToPgTimestamptz(voucher.LockedAt),
		voucher.Version,
		voucher.CreatedAt,
		voucher.UpdatedAt,
	)

	return err
}

// GetByID retrieves a voucher by ID.
func (r *VoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id)
	return scanVoucher(row)
}

// GetByIDForUpdate retrieves a voucher by ID with a FOR UPDATE lock.
func (r *VoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Voucher, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1 FOR UPDATE`, id)
	return scanVoucher(row)
}

// Update persists the voucher only if the stored version still matches
// expectedVersion.
func (r *VoucherRepository) Update(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher, expectedVersion int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE vouchers SET
			posting_date = $1, description = $2, document_ref = $3,
			state = $4, signed_at = $5, signer_id = $6, signature_data = $7,
			lock_status = $8, locked_at = $9, version = $10, updated_at = $11
		WHERE id = $12 AND version = $13
	`,
		ptrToPgTimestamptz(voucher.PostingDate),
		voucher.Description,
		voucher.DocumentRef,
		string(voucher.State),
		ptrToPgTimestamptz(voucher.SignedAt),
		voucher.SignerID,
		voucher.SignatureData,
		string(voucher.LockStatus),
		ptrToPgTimestamptz(voucher.LockedAt),
		voucher.Version,
		voucher.UpdatedAt,
		voucher.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &domain.ConcurrentModificationError{
			EntityType: "Voucher",
			EntityID:   voucher.ID,
			Expected:   expectedVersion,
		}
	}

	return nil
}

// List lists vouchers for a company, newest first.
func (r *VoucherRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+voucherColumns+`
		FROM vouchers
		WHERE company_id = $1
		ORDER BY voucher_date DESC, voucher_number DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVouchers(rows)
}

// ListByDateRange lists a company's vouchers dated within [start, end],
// locked against concurrent writes for the duration of the transaction.
func (r *VoucherRepository) ListByDateRange(ctx context.Context, tx usecase.Transaction, companyID string, start, end time.Time) ([]*domain.Voucher, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+voucherColumns+`
		FROM vouchers
		WHERE company_id = $1 AND voucher_date >= $2 AND voucher_date <= $3
		ORDER BY voucher_number
		FOR UPDATE
	`, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVouchers(rows)
}

// NextSequence returns the next per-day voucher sequence number.
func (r *VoucherRepository) NextSequence(ctx context.Context, tx usecase.Transaction, date time.Time) (int, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var seq int
	err := pgxTx.QueryRow(ctx, `
		INSERT INTO voucher_sequences (seq_date, value)
		VALUES ($1, 1)
		ON CONFLICT (seq_date) DO UPDATE SET value = voucher_sequences.value + 1
		RETURNING value
	`, date.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, err
	}

	return seq, nil
}

func scanVoucher(row pgx.Row) (*domain.Voucher, error) {
	var (
		v                           domain.Voucher
		voucherType, state, lock    string
		postingDate, signedAt       pgtype.Timestamptz
		lockedAt                    pgtype.Timestamptz
	)

	err := row.Scan(
		&v.ID, &v.VoucherNumber, &voucherType, &v.VoucherDate, &postingDate,
		&v.Description, &v.DocumentRef, &v.CompanyID, &v.CreatedBy, &state,
		&signedAt, &v.SignerID, &v.SignatureData, &lock, &lockedAt,
		&v.Version, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}

		return nil, err
	}

	v.Type = domain.VoucherType(voucherType)
	v.State = domain.VoucherState(state)
	v.LockStatus = domain.LockStatus(lock)
	v.PostingDate = pgTimestamptzToPtr(postingDate)
	v.SignedAt = pgTimestamptzToPtr(signedAt)
	v.LockedAt = pgTimestamptzToPtr(lockedAt)

	return &v, nil
}

func scanVouchers(rows pgx.Rows) ([]*domain.Voucher, error) {
	var vouchers []*domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}

	return vouchers, rows.Err()
}
