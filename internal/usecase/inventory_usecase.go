package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// InventoryUseCase issues stock at cost and reconciles physical counts.
// An issue consumes lots under a row lock, posts cost of goods sold
// against inventory, and writes the draft voucher, its journal entry, the
// lot consumptions and the audit log in one transaction.
type InventoryUseCase struct {
	txManager   TransactionManager
	lotRepo     LotRepository
	voucherRepo VoucherRepository
	journalRepo JournalRepository
	periodRepo  PeriodRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	rules       domain.AccountingRules
}

// NewInventoryUseCase creates a new InventoryUseCase.
func NewInventoryUseCase(
	txManager TransactionManager,
	lotRepo LotRepository,
	voucherRepo VoucherRepository,
	journalRepo JournalRepository,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	rules domain.AccountingRules,
) *InventoryUseCase {
	return &InventoryUseCase{
		txManager:   txManager,
		lotRepo:     lotRepo,
		voucherRepo: voucherRepo,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		rules:       rules,
	}
}

// IssueStockInput represents input for a stock issue.
type IssueStockInput struct {
	Actor       Actor
	CompanyID   string
	ProductCode string
	Quantity    decimal.Decimal
	Method      domain.CostMethod
	IssueDate   time.Time
	Description string
}

// IssueStockResult reports what the issue cost and produced.
type IssueStockResult struct {
	Voucher *domain.Voucher
	Costing domain.CostingResult
}

// IssueStock issues quantity units of a product, costing them with the
// requested method, and posts cost of goods sold against inventory as a
// draft voucher.
func (uc *InventoryUseCase) IssueStock(ctx context.Context, input IssueStockInput) (*IssueStockResult, error) {
	period, err := uc.periodRepo.GetByDate(ctx, input.CompanyID, input.IssueDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(input.IssueDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lots, err := uc.lotRepo.ListByProductForUpdate(ctx, tx, input.CompanyID, input.ProductCode)
	if err != nil {
		return nil, err
	}

	costing, err := domain.CostOfGoods(input.ProductCode, input.Quantity, lots, input.Method)
	if err != nil {
		return nil, err
	}

	if err := uc.lotRepo.Consume(ctx, tx, costing.Consumptions); err != nil {
		return nil, err
	}

	zero := domain.ZeroMoney(uc.rules.BaseCurrency)
	entry := domain.JournalEntry{
		ID:          uc.idGen.Generate(),
		VoucherDate: input.IssueDate,
		PostingDate: input.IssueDate,
		Description: input.Description,
		CreatedBy:   input.Actor.UserID,
		Lines: []domain.JournalLine{
			{
				AccountCode:        uc.rules.COGSAccount,
				Debit:              costing.TotalCost,
				Credit:             zero,
				CounterpartAccount: uc.rules.InventoryAccount,
				Description:        input.Description,
				Quantity:           input.Quantity,
			},
			{
				AccountCode:        uc.rules.InventoryAccount,
				Debit:              zero,
				Credit:             costing.TotalCost,
				CounterpartAccount: uc.rules.COGSAccount,
				Description:        input.Description,
				Quantity:           input.Quantity,
			},
		},
		CreatedAt: now,
		Version:   1,
	}
	entry, err = entry.CalculateTotals()
	if err != nil {
		return nil, err
	}

	voucher, err := uc.writeVoucherWithEntry(ctx, tx, input.Actor, input.CompanyID, domain.VoucherAdjustment, input.IssueDate, input.Description, entry, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &IssueStockResult{Voucher: voucher, Costing: costing}, nil
}

// ReconcileStockInput represents input for a physical count
// reconciliation.
type ReconcileStockInput struct {
	Actor       Actor
	CompanyID   string
	ProductCode string
	ActualQty   decimal.Decimal
	UnitCost    domain.Money
	CountDate   time.Time
}

// ReconcileStockResult reports the count outcome. Voucher is nil when the
// count matched the book and nothing was posted.
type ReconcileStockResult struct {
	Reconciliation domain.Reconciliation
	Posted         bool
	Voucher        *domain.Voucher
}

// ReconcileStock compares a physical count against the book quantity. A
// shortage posts to the pending-shortage account, a surplus to
// pending-surplus; an exact match posts nothing.
func (uc *InventoryUseCase) ReconcileStock(ctx context.Context, input ReconcileStockInput) (*ReconcileStockResult, error) {
	period, err := uc.periodRepo.GetByDate(ctx, input.CompanyID, input.CountDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(input.CountDate); err != nil {
		return nil, err
	}

	bookQty, err := uc.lotRepo.BookQuantity(ctx, input.CompanyID, input.ProductCode)
	if err != nil {
		return nil, err
	}

	recon, found, err := domain.ReconcileInventory(input.ProductCode, input.ActualQty, bookQty, input.UnitCost, uc.rules)
	if err != nil {
		return nil, err
	}
	if !found {
		return &ReconcileStockResult{Posted: false}, nil
	}

	now := time.Now().UTC()
	zero := domain.ZeroMoney(uc.rules.BaseCurrency)

	voucherType := domain.VoucherSurplus
	description := "Inventory count surplus " + input.ProductCode
	lines := []domain.JournalLine{
		{
			AccountCode:        uc.rules.InventoryAccount,
			Debit:              recon.Amount,
			Credit:             zero,
			CounterpartAccount: recon.AccountCode,
			Description:        description,
			Quantity:           recon.Difference.Abs(),
		},
		{
			AccountCode:        recon.AccountCode,
			Debit:              zero,
			Credit:             recon.Amount,
			CounterpartAccount: uc.rules.InventoryAccount,
			Description:        description,
			Quantity:           recon.Difference.Abs(),
		},
	}
	if recon.Difference.IsNegative() {
		voucherType = domain.VoucherShortage
		description = "Inventory count shortage " + input.ProductCode
		lines = []domain.JournalLine{
			{
				AccountCode:        recon.AccountCode,
				Debit:              recon.Amount,
				Credit:             zero,
				CounterpartAccount: uc.rules.InventoryAccount,
				Description:        description,
				Quantity:           recon.Difference.Abs(),
			},
			{
				AccountCode:        uc.rules.InventoryAccount,
				Debit:              zero,
				Credit:             recon.Amount,
				CounterpartAccount: recon.AccountCode,
				Description:        description,
				Quantity:           recon.Difference.Abs(),
			},
		}
	}

	entry := domain.JournalEntry{
		ID:          uc.idGen.Generate(),
		VoucherDate: input.CountDate,
		PostingDate: input.CountDate,
		Description: description,
		CreatedBy:   input.Actor.UserID,
		Lines:       lines,
		CreatedAt:   now,
		Version:     1,
	}
	entry, err = entry.CalculateTotals()
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	voucher, err := uc.writeVoucherWithEntry(ctx, tx, input.Actor, input.CompanyID, voucherType, input.CountDate, description, entry, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ReconcileStockResult{
		Reconciliation: recon,
		Posted:         true,
		Voucher:        voucher,
	}, nil
}

// PreviewCost computes the cost a prospective issue would carry, without
// consuming anything.
func (uc *InventoryUseCase) PreviewCost(ctx context.Context, companyID, productCode string, quantity decimal.Decimal, method domain.CostMethod) (domain.CostingResult, error) {
	lots, err := uc.lotRepo.ListByProduct(ctx, companyID, productCode)
	if err != nil {
		return domain.CostingResult{}, err
	}
	return domain.CostOfGoods(productCode, quantity, lots, method)
}

// writeVoucherWithEntry writes a draft voucher wrapping a computed entry,
// plus its audit log, inside the caller's transaction.
func (uc *InventoryUseCase) writeVoucherWithEntry(
	ctx context.Context,
	tx Transaction,
	actor Actor,
	companyID string,
	voucherType domain.VoucherType,
	date time.Time,
	description string,
	entry domain.JournalEntry,
	now time.Time,
) (*domain.Voucher, error) {
	voucherSeq, err := uc.voucherRepo.NextSequence(ctx, tx, date)
	if err != nil {
		return nil, err
	}
	entrySeq, err := uc.journalRepo.NextSequence(ctx, tx, date)
	if err != nil {
		return nil, err
	}

	voucher := &domain.Voucher{
		ID:            uc.idGen.Generate(),
		VoucherNumber: domain.VoucherNumberFor(date, voucherSeq),
		Type:          voucherType,
		VoucherDate:   date,
		Description:   description,
		CompanyID:     companyID,
		CreatedBy:     actor.UserID,
		State:         domain.VoucherDraft,
		LockStatus:    domain.LockOpen,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.voucherRepo.Create(ctx, tx, voucher); err != nil {
		return nil, err
	}

	entry.EntryNumber = domain.EntryNumberFor(date, entrySeq)
	entry.VoucherID = voucher.ID
	if err := uc.journalRepo.Create(ctx, tx, &entry); err != nil {
		return nil, err
	}

	rec := domain.AuditRecord{
		EntityType: "Voucher",
		EntityID:   voucher.ID,
		Action:     domain.AuditActionCreate,
		NewValue:   domain.MarshalState(voucher),
	}
	log := auditLogFrom(rec, actor, companyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	return voucher, nil
}
