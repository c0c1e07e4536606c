package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// MockVoucherRepository is a mock implementation of VoucherRepository.
type MockVoucherRepository struct {
	mu       sync.RWMutex
	vouchers map[string]*domain.Voucher
	sequence int

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Voucher, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Voucher, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher, expectedVersion int64) error
	ListFunc             func(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error)
	ListByDateRangeFunc  func(ctx context.Context, tx usecase.Transaction, companyID string, start, end time.Time) ([]*domain.Voucher, error)
	NextSequenceFunc     func(ctx context.Context, tx usecase.Transaction, date time.Time) (int, error)
}

func NewMockVoucherRepository() *MockVoucherRepository {
	return &MockVoucherRepository{
		vouchers: make(map[string]*domain.Voucher),
	}
}

func (m *MockVoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, voucher)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vouchers[voucher.ID] = voucher
	return nil
}

func (m *MockVoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vouchers[id]; ok {
		return v, nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Voucher, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockVoucherRepository) Update(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher, expectedVersion int64) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, voucher, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.vouchers[voucher.ID]
	if !ok {
		return domain.ErrVoucherNotFound
	}
	if current.Version != expectedVersion {
		return &domain.ConcurrentModificationError{
			EntityType: "Voucher",
			EntityID:   voucher.ID,
			Expected:   expectedVersion,
		}
	}
	m.vouchers[voucher.ID] = voucher
	return nil
}

func (m *MockVoucherRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, companyID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var vouchers []*domain.Voucher
	for _, v := range m.vouchers {
		if v.CompanyID == companyID {
			vouchers = append(vouchers, v)
		}
	}
	return vouchers, nil
}

func (m *MockVoucherRepository) ListByDateRange(ctx context.Context, tx usecase.Transaction, companyID string, start, end time.Time) ([]*domain.Voucher, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, tx, companyID, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var vouchers []*domain.Voucher
	for _, v := range m.vouchers {
		if v.CompanyID == companyID && !v.VoucherDate.Before(start) && !v.VoucherDate.After(end) {
			vouchers = append(vouchers, v)
		}
	}
	return vouchers, nil
}

func (m *MockVoucherRepository) NextSequence(ctx context.Context, tx usecase.Transaction, date time.Time) (int, error) {
	if m.NextSequenceFunc != nil {
		return m.NextSequenceFunc(ctx, tx, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence++
	return m.sequence, nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu       sync.RWMutex
	entries  map[string]*domain.JournalEntry
	sequence int

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	UpdateFunc            func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry, expectedVersion int64) error
	GetByVoucherFunc      func(ctx context.Context, voucherID string) ([]*domain.JournalEntry, error)
	MovementsByPeriodFunc func(ctx context.Context, companyID string, start, end time.Time) ([]usecase.AccountMovement, error)
	NextSequenceFunc      func(ctx context.Context, tx usecase.Transaction, date time.Time) (int, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		entries: make(map[string]*domain.JournalEntry),
	}
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockJournalRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry, expectedVersion int64) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.entries[entry.ID]
	if !ok {
		return domain.ErrJournalNotFound
	}
	if current.Version != expectedVersion {
		return &domain.ConcurrentModificationError{
			EntityType: "JournalEntry",
			EntityID:   entry.ID,
			Expected:   expectedVersion,
		}
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockJournalRepository) GetByVoucher(ctx context.Context, voucherID string) ([]*domain.JournalEntry, error) {
	if m.GetByVoucherFunc != nil {
		return m.GetByVoucherFunc(ctx, voucherID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		if e.VoucherID == voucherID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockJournalRepository) MovementsByPeriod(ctx context.Context, companyID string, start, end time.Time) ([]usecase.AccountMovement, error) {
	if m.MovementsByPeriodFunc != nil {
		return m.MovementsByPeriodFunc(ctx, companyID, start, end)
	}
	return nil, nil
}

func (m *MockJournalRepository) NextSequence(ctx context.Context, tx usecase.Transaction, date time.Time) (int, error) {
	if m.NextSequenceFunc != nil {
		return m.NextSequenceFunc(ctx, tx, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence++
	return m.sequence, nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByCodeFunc     func(ctx context.Context, companyID, code string) (*domain.Account, error)
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, account *domain.Account, expectedVersion int64) error
	ListByPrefixFunc  func(ctx context.Context, companyID, prefix string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account under its code for default lookups.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Code] = account
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, companyID, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, account *domain.Account, expectedVersion int64) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, account, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) ListByPrefix(ctx context.Context, companyID, prefix string) ([]*domain.Account, error) {
	if m.ListByPrefixFunc != nil {
		return m.ListByPrefixFunc(ctx, companyID, prefix)
	}
	return nil, nil
}

// MockPeriodRepository is a mock implementation of PeriodRepository.
type MockPeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]*domain.FiscalPeriod

	GetByIDFunc   func(ctx context.Context, id string) (*domain.FiscalPeriod, error)
	GetByDateFunc func(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error)
	UpdateFunc    func(ctx context.Context, tx usecase.Transaction, period *domain.FiscalPeriod) error
	ListFunc      func(ctx context.Context, companyID string, year int) ([]*domain.FiscalPeriod, error)
}

func NewMockPeriodRepository() *MockPeriodRepository {
	return &MockPeriodRepository{
		periods: make(map[string]*domain.FiscalPeriod),
	}
}

func (m *MockPeriodRepository) Seed(period *domain.FiscalPeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.ID] = period
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, id string) (*domain.FiscalPeriod, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) GetByDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	if m.GetByDateFunc != nil {
		return m.GetByDateFunc(ctx, companyID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.CompanyID == companyID && p.Contains(date) {
			return p, nil
		}
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) Update(ctx context.Context, tx usecase.Transaction, period *domain.FiscalPeriod) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.ID] = period
	return nil
}

func (m *MockPeriodRepository) List(ctx context.Context, companyID string, year int) ([]*domain.FiscalPeriod, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, companyID, year)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var periods []*domain.FiscalPeriod
	for _, p := range m.periods {
		if p.CompanyID == companyID && p.Year == year {
			periods = append(periods, p)
		}
	}
	return periods, nil
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances []domain.AccountBalance

	UpsertFunc       func(ctx context.Context, tx usecase.Transaction, balance domain.AccountBalance) error
	ListByPeriodFunc func(ctx context.Context, companyID string, periodType domain.PeriodType, year, periodValue int) ([]domain.AccountBalance, error)
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{}
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance domain.AccountBalance) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.balances {
		if b.AccountCode == balance.AccountCode && b.PeriodType == balance.PeriodType &&
			b.Year == balance.Year && b.PeriodValue == balance.PeriodValue {
			m.balances[i] = balance
			return nil
		}
	}
	m.balances = append(m.balances, balance)
	return nil
}

func (m *MockBalanceRepository) ListByPeriod(ctx context.Context, companyID string, periodType domain.PeriodType, year, periodValue int) ([]domain.AccountBalance, error) {
	if m.ListByPeriodFunc != nil {
		return m.ListByPeriodFunc(ctx, companyID, periodType, year, periodValue)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var balances []domain.AccountBalance
	for _, b := range m.balances {
		if b.CompanyID == companyID && b.PeriodType == periodType && b.Year == year && b.PeriodValue == periodValue {
			balances = append(balances, b)
		}
	}
	return balances, nil
}

// MockAuditRepository is a mock implementation of AuditRepository. It
// records every log so tests can assert on the trail.
type MockAuditRepository struct {
	mu   sync.RWMutex
	Logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Logs, nil
}

// MockLotRepository is a mock implementation of LotRepository.
type MockLotRepository struct {
	mu   sync.RWMutex
	lots []domain.Lot

	ListByProductFunc          func(ctx context.Context, companyID, productCode string) ([]domain.Lot, error)
	ListByProductForUpdateFunc func(ctx context.Context, tx usecase.Transaction, companyID, productCode string) ([]domain.Lot, error)
	ConsumeFunc                func(ctx context.Context, tx usecase.Transaction, consumptions []domain.LotConsumption) error
	BookQuantityFunc           func(ctx context.Context, companyID, productCode string) (decimal.Decimal, error)
}

func NewMockLotRepository() *MockLotRepository {
	return &MockLotRepository{}
}

func (m *MockLotRepository) Seed(lots ...domain.Lot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots = append(m.lots, lots...)
}

func (m *MockLotRepository) ListByProduct(ctx context.Context, companyID, productCode string) ([]domain.Lot, error) {
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, companyID, productCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lots []domain.Lot
	for _, lot := range m.lots {
		if lot.ProductCode == productCode && lot.Quantity.IsPositive() {
			lots = append(lots, lot)
		}
	}
	return lots, nil
}

func (m *MockLotRepository) ListByProductForUpdate(ctx context.Context, tx usecase.Transaction, companyID, productCode string) ([]domain.Lot, error) {
	if m.ListByProductForUpdateFunc != nil {
		return m.ListByProductForUpdateFunc(ctx, tx, companyID, productCode)
	}
	return m.ListByProduct(ctx, companyID, productCode)
}

func (m *MockLotRepository) Consume(ctx context.Context, tx usecase.Transaction, consumptions []domain.LotConsumption) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, tx, consumptions)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range consumptions {
		for i := range m.lots {
			if m.lots[i].ID == c.LotID {
				m.lots[i].Quantity = m.lots[i].Quantity.Sub(c.Quantity)
			}
		}
	}
	return nil
}

func (m *MockLotRepository) BookQuantity(ctx context.Context, companyID, productCode string) (decimal.Decimal, error) {
	if m.BookQuantityFunc != nil {
		return m.BookQuantityFunc(ctx, companyID, productCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, lot := range m.lots {
		if lot.ProductCode == productCode {
			total = total.Add(lot.Quantity)
		}
	}
	return total, nil
}

// MockProvisionRepository is a mock implementation of ProvisionRepository.
type MockProvisionRepository struct {
	mu           sync.RWMutex
	Calculations []domain.ProvisionCalculation

	SaveAllFunc      func(ctx context.Context, tx usecase.Transaction, calculations []domain.ProvisionCalculation) error
	ListByPeriodFunc func(ctx context.Context, companyID string, asOf time.Time) ([]domain.ProvisionCalculation, error)
}

func NewMockProvisionRepository() *MockProvisionRepository {
	return &MockProvisionRepository{}
}

func (m *MockProvisionRepository) SaveAll(ctx context.Context, tx usecase.Transaction, calculations []domain.ProvisionCalculation) error {
	if m.SaveAllFunc != nil {
		return m.SaveAllFunc(ctx, tx, calculations)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calculations = append(m.Calculations, calculations...)
	return nil
}

func (m *MockProvisionRepository) ListByPeriod(ctx context.Context, companyID string, asOf time.Time) ([]domain.ProvisionCalculation, error) {
	if m.ListByPeriodFunc != nil {
		return m.ListByPeriodFunc(ctx, companyID, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Calculations, nil
}

// MockReceivableRepository is a mock implementation of
// ReceivableRepository.
type MockReceivableRepository struct {
	Receivables []domain.Receivable

	ListOpenFunc func(ctx context.Context, companyID string, asOf time.Time) ([]domain.Receivable, error)
}

func NewMockReceivableRepository() *MockReceivableRepository {
	return &MockReceivableRepository{}
}

func (m *MockReceivableRepository) ListOpen(ctx context.Context, companyID string, asOf time.Time) ([]domain.Receivable, error) {
	if m.ListOpenFunc != nil {
		return m.ListOpenFunc(ctx, companyID, asOf)
	}
	return m.Receivables, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
