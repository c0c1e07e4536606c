package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository. Entries and
// their lines live in separate tables; lines are rewritten whole on every
// entry update since they only change while the entry is draft.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// Create inserts a journal entry and its lines inside the transaction.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO journal_entries (
			id, entry_number, voucher_id, voucher_date, posting_date,
			description, created_by, total_debit, total_credit, currency,
			posted, posted_at, created_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		entry.ID,
		entry.EntryNumber,
		entry.VoucherID,
		entry.VoucherDate,
		entry.PostingDate,
		entry.Description,
		entry.CreatedBy,
		moneyToNumeric(entry.TotalDebit),
		moneyToNumeric(entry.TotalCredit),
		entry.TotalDebit.Currency,
		entry.Posted,
		ptrToPgTimestamptz(entry.PostedAt),
		entry.CreatedAt,
		entry.Version,
	)
	if err != nil {
		return err
	}

	return r.insertLines(ctx, pgxTx, entry)
}

// Update persists the entry only if the stored version still matches
// expectedVersion, replacing its lines.
func (r *JournalRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry, expectedVersion int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE journal_entries SET
			posting_date = $1, description = $2, total_debit = $3,
			total_credit = $4, posted = $5, posted_at = $6, version = $7
		WHERE id = $8 AND version = $9
	`,
		entry.PostingDate,
		entry.Description,
		moneyToNumeric(entry.TotalDebit),
		moneyToNumeric(entry.TotalCredit),
		entry.Posted,
		ptrToPgTimestamptz(entry.PostedAt),
		entry.Version,
		entry.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &domain.ConcurrentModificationError{
			EntityType: "JournalEntry",
			EntityID:   entry.ID,
			Expected:   expectedVersion,
		}
	}

	if _, err := pgxTx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1`, entry.ID); err != nil {
		return err
	}

	return r.insertLines(ctx, pgxTx, entry)
}

// GetByVoucher retrieves all journal entries owned by a voucher, lines
// included.
func (r *JournalRepository) GetByVoucher(ctx context.Context, voucherID string) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, entry_number, voucher_id, voucher_date, posting_date,
		       description, created_by, total_debit, total_credit, currency,
		       posted, posted_at, created_at, version
		FROM journal_entries
		WHERE voucher_id = $1
		ORDER BY entry_number
	`, voucherID)
	if err != nil {
		return nil, err
	}
	var (
		entries    []*domain.JournalEntry
		currencies []string
	)
	for rows.Next() {
		var (
			e                       domain.JournalEntry
			totalDebit, totalCredit pgtype.Numeric
			currency                string
			postedAt                pgtype.Timestamptz
		)

		err := rows.Scan(
			&e.ID, &e.EntryNumber, &e.VoucherID, &e.VoucherDate, &e.PostingDate,
			&e.Description, &e.CreatedBy, &totalDebit, &totalCredit, &currency,
			&e.Posted, &postedAt, &e.CreatedAt, &e.Version,
		)
		if err != nil {
			rows.Close()
			return nil, err
		}

		e.TotalDebit = numericToMoney(totalDebit, currency)
		e.TotalCredit = numericToMoney(totalCredit, currency)
		e.PostedAt = pgTimestamptzToPtr(postedAt)

		entries = append(entries, &e)
		currencies = append(currencies, currency)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		return nil, domain.ErrJournalNotFound
	}

	for i, e := range entries {
		lines, err := r.linesByEntry(ctx, e.ID, currencies[i])
		if err != nil {
			return nil, err
		}
		e.Lines = lines
	}

	return entries, nil
}

// MovementsByPeriod aggregates posted debit and credit per account over a
// posting-date range.
func (r *JournalRepository) MovementsByPeriod(ctx context.Context, companyID string, start, end time.Time) ([]usecase.AccountMovement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.account_code, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN vouchers v ON v.id = e.voucher_id
		WHERE v.company_id = $1
		  AND e.posted
		  AND e.posting_date >= $2 AND e.posting_date <= $3
		GROUP BY l.account_code
		ORDER BY l.account_code
	`, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []usecase.AccountMovement
	for rows.Next() {
		var (
			m             usecase.AccountMovement
			debit, credit pgtype.Numeric
		)

		if err := rows.Scan(&m.AccountCode, &debit, &credit); err != nil {
			return nil, err
		}

		m.Debit = numericToDecimal(debit)
		m.Credit = numericToDecimal(credit)
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

// NextSequence returns the next per-day journal entry sequence number.
func (r *JournalRepository) NextSequence(ctx context.Context, tx usecase.Transaction, date time.Time) (int, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var seq int
	err := pgxTx.QueryRow(ctx, `
		INSERT INTO entry_sequences (seq_date, value)
		VALUES ($1, 1)
		ON CONFLICT (seq_date) DO UPDATE SET value = entry_sequences.value + 1
		RETURNING value
	`, date.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, err
	}

	return seq, nil
}

func (r *JournalRepository) insertLines(ctx context.Context, pgxTx pgx.Tx, entry *domain.JournalEntry) error {
	for i, line := range entry.Lines {
		var foreignAmount pgtype.Numeric
		foreignCurrency := line.ForeignAmount.Currency
		if foreignCurrency != "" {
			foreignAmount = moneyToNumeric(line.ForeignAmount)
		}

		_, err := pgxTx.Exec(ctx, `
			INSERT INTO journal_lines (
				entry_id, line_no, account_code, debit, credit,
				counterpart_account, description, quantity, unit_price,
				foreign_amount, foreign_currency, rate_applied,
				tax_code, tax_rate, object_code, contract_code
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`,
			entry.ID,
			i+1,
			line.AccountCode,
			moneyToNumeric(line.Debit),
			moneyToNumeric(line.Credit),
			line.CounterpartAccount,
			line.Description,
			decimalToNumeric(line.Quantity),
			moneyToNumeric(line.UnitPrice),
			foreignAmount,
			foreignCurrency,
			decimalToNumeric(line.RateApplied),
			line.TaxCode,
			decimalToNumeric(line.TaxRate),
			line.ObjectCode,
			line.ContractCode,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *JournalRepository) linesByEntry(ctx context.Context, entryID, currency string) ([]domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_code, debit, credit, counterpart_account, description,
		       quantity, unit_price, foreign_amount, foreign_currency,
		       rate_applied, tax_code, tax_rate, object_code, contract_code
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_no
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var (
			l                                           domain.JournalLine
			debit, credit, quantity, unitPrice          pgtype.Numeric
			foreignAmount, rateApplied, taxRate         pgtype.Numeric
			foreignCurrency                             string
		)

		err := rows.Scan(
			&l.AccountCode, &debit, &credit, &l.CounterpartAccount, &l.Description,
			&quantity, &unitPrice, &foreignAmount, &foreignCurrency,
			&rateApplied, &l.TaxCode, &taxRate, &l.ObjectCode, &l.ContractCode,
		)
		if err != nil {
			return nil, err
		}

		l.Debit = numericToMoney(debit, currency)
		l.Credit = numericToMoney(credit, currency)
		l.Quantity = numericToDecimal(quantity)
		l.UnitPrice = numericToMoney(unitPrice, currency)
		l.RateApplied = numericToDecimal(rateApplied)
		l.TaxRate = numericToDecimal(taxRate)
		if foreignCurrency != "" {
			l.ForeignAmount = numericToMoney(foreignAmount, foreignCurrency)
		}

		lines = append(lines, l)
	}

	return lines, rows.Err()
}
