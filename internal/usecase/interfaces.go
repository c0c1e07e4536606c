package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// VoucherRepository defines data access for vouchers.
type VoucherRepository interface {
	Create(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	GetByID(ctx context.Context, id string) (*domain.Voucher, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Voucher, error)
	// Update persists the new state only if the stored version still equals
	// expectedVersion; otherwise it returns ConcurrentModificationError.
	Update(ctx context.Context, tx Transaction, voucher *domain.Voucher, expectedVersion int64) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error)
	ListByDateRange(ctx context.Context, tx Transaction, companyID string, start, end time.Time) ([]*domain.Voucher, error)
	NextSequence(ctx context.Context, tx Transaction, date time.Time) (int, error)
}

// JournalRepository defines data access for journal entries and lines.
type JournalRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	Update(ctx context.Context, tx Transaction, entry *domain.JournalEntry, expectedVersion int64) error
	GetByVoucher(ctx context.Context, voucherID string) ([]*domain.JournalEntry, error)
	MovementsByPeriod(ctx context.Context, companyID string, start, end time.Time) ([]AccountMovement, error)
	NextSequence(ctx context.Context, tx Transaction, date time.Time) (int, error)
}

// AccountMovement is the aggregated posted debit/credit per account over
// a date range.
type AccountMovement struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// AccountRepository defines data access for chart-of-accounts entries.
type AccountRepository interface {
	GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, account *domain.Account, expectedVersion int64) error
	ListByPrefix(ctx context.Context, companyID, prefix string) ([]*domain.Account, error)
}

// PeriodRepository defines data access for fiscal periods. GetByDate is
// the period-lookup capability the engine consumes from its caller.
type PeriodRepository interface {
	GetByID(ctx context.Context, id string) (*domain.FiscalPeriod, error)
	GetByDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error)
	Update(ctx context.Context, tx Transaction, period *domain.FiscalPeriod) error
	List(ctx context.Context, companyID string, year int) ([]*domain.FiscalPeriod, error)
}

// BalanceRepository defines data access for per-period balance snapshots.
type BalanceRepository interface {
	Upsert(ctx context.Context, tx Transaction, balance domain.AccountBalance) error
	ListByPeriod(ctx context.Context, companyID string, periodType domain.PeriodType, year, periodValue int) ([]domain.AccountBalance, error)
}

// AuditRepository defines append-only audit log persistence.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// RateRepository defines data access for exchange rate history.
type RateRepository interface {
	Save(ctx context.Context, rate domain.ExchangeRate) error
	Latest(ctx context.Context, currency string, rateType domain.RateType, onOrBefore time.Time) (domain.ExchangeRate, error)
}

// LotRepository defines data access for inventory lots.
type LotRepository interface {
	ListByProduct(ctx context.Context, companyID, productCode string) ([]domain.Lot, error)
	ListByProductForUpdate(ctx context.Context, tx Transaction, companyID, productCode string) ([]domain.Lot, error)
	Consume(ctx context.Context, tx Transaction, consumptions []domain.LotConsumption) error
	BookQuantity(ctx context.Context, companyID, productCode string) (decimal.Decimal, error)
}

// ProvisionRepository defines data access for provisioning run results.
type ProvisionRepository interface {
	SaveAll(ctx context.Context, tx Transaction, calculations []domain.ProvisionCalculation) error
	ListByPeriod(ctx context.Context, companyID string, asOf time.Time) ([]domain.ProvisionCalculation, error)
}

// ReceivableRepository defines data access for aged open receivables.
type ReceivableRepository interface {
	ListOpen(ctx context.Context, companyID string, asOf time.Time) ([]domain.Receivable, error)
}

// FXPosition is an open foreign-currency balance subject to period-end
// revaluation.
type FXPosition struct {
	AccountCode   string
	Currency      string
	ForeignAmount decimal.Decimal
	OriginalRate  domain.ExchangeRate
}

// FXPositionRepository defines data access for open foreign-currency
// balances.
type FXPositionRepository interface {
	ListOpen(ctx context.Context, companyID string, asOf time.Time) ([]FXPosition, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for mutating HTTP
// requests.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
