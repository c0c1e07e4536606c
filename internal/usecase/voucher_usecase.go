package usecase

import (
	"context"
	"time"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// VoucherUseCase drives the voucher/journal lifecycle: draft creation,
// amendment, posting, signing. Every mutation passes the period-lock gate
// first, runs under optimistic concurrency on the voucher version, and
// persists its audit record in the same transaction.
type VoucherUseCase struct {
	txManager   TransactionManager
	voucherRepo VoucherRepository
	journalRepo JournalRepository
	periodRepo  PeriodRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	rules       domain.AccountingRules
}

// NewVoucherUseCase creates a new VoucherUseCase.
func NewVoucherUseCase(
	txManager TransactionManager,
	voucherRepo VoucherRepository,
	journalRepo JournalRepository,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	rules domain.AccountingRules,
) *VoucherUseCase {
	return &VoucherUseCase{
		txManager:   txManager,
		voucherRepo: voucherRepo,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		rules:       rules,
	}
}

// CreateVoucherInput represents input for creating a draft voucher with
// its journal lines.
type CreateVoucherInput struct {
	Actor       Actor
	CompanyID   string
	Type        domain.VoucherType
	VoucherDate time.Time
	Description string
	DocumentRef string
	Lines       []domain.JournalLine
}

// CreateVoucher creates a draft voucher and its journal entry. The
// balance check runs at creation time: unbalanced lines are rejected
// before anything is written.
func (uc *VoucherUseCase) CreateVoucher(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	period, err := uc.periodRepo.GetByDate(ctx, input.CompanyID, input.VoucherDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(input.VoucherDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entry := domain.JournalEntry{
		ID:          uc.idGen.Generate(),
		VoucherDate: input.VoucherDate,
		PostingDate: input.VoucherDate,
		Description: input.Description,
		CreatedBy:   input.Actor.UserID,
		Lines:       input.Lines,
		CreatedAt:   now,
		Version:     1,
	}

	entry, err = entry.CalculateTotals()
	if err != nil {
		return nil, err
	}
	if !entry.IsBalanced() {
		return nil, &domain.NotBalancedError{
			EntryNumber: entry.EntryNumber,
			TotalDebit:  entry.TotalDebit,
			TotalCredit: entry.TotalCredit,
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	voucherSeq, err := uc.voucherRepo.NextSequence(ctx, tx, input.VoucherDate)
	if err != nil {
		return nil, err
	}
	entrySeq, err := uc.journalRepo.NextSequence(ctx, tx, input.VoucherDate)
	if err != nil {
		return nil, err
	}

	voucher := &domain.Voucher{
		ID:            uc.idGen.Generate(),
		VoucherNumber: domain.VoucherNumberFor(input.VoucherDate, voucherSeq),
		Type:          input.Type,
		VoucherDate:   input.VoucherDate,
		Description:   input.Description,
		DocumentRef:   input.DocumentRef,
		CompanyID:     input.CompanyID,
		CreatedBy:     input.Actor.UserID,
		State:         domain.VoucherDraft,
		LockStatus:    domain.LockOpen,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	entry.EntryNumber = domain.EntryNumberFor(input.VoucherDate, entrySeq)
	entry.VoucherID = voucher.ID

	if err := uc.voucherRepo.Create(ctx, tx, voucher); err != nil {
		return nil, err
	}
	if err := uc.journalRepo.Create(ctx, tx, &entry); err != nil {
		return nil, err
	}

	rec := domain.AuditRecord{
		EntityType: "Voucher",
		EntityID:   voucher.ID,
		Action:     domain.AuditActionCreate,
		NewValue:   domain.MarshalState(voucher),
	}
	log := auditLogFrom(rec, input.Actor, input.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return voucher, nil
}

// PostVoucherInput represents input for posting a draft voucher.
type PostVoucherInput struct {
	Actor       Actor
	VoucherID   string
	PostingDate time.Time
	// Version is the optimistic-concurrency token read at load time.
	Version int64
}

// PostVoucher transitions a draft voucher to posted. The balance law is
// re-verified against the stored journal entries inside the transaction,
// so the check sees a complete snapshot of all lines.
func (uc *VoucherUseCase) PostVoucher(ctx context.Context, input PostVoucherInput) (*domain.Voucher, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	voucher, err := uc.voucherRepo.GetByIDForUpdate(ctx, tx, input.VoucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Version != input.Version {
		return nil, &domain.ConcurrentModificationError{
			EntityType: "Voucher",
			EntityID:   voucher.ID,
			Expected:   input.Version,
		}
	}

	period, err := uc.periodRepo.GetByDate(ctx, voucher.CompanyID, voucher.VoucherDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(voucher.VoucherDate); err != nil {
		return nil, err
	}

	entries, err := uc.journalRepo.GetByVoucher(ctx, voucher.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	for _, entry := range entries {
		posted, entryRec, err := entry.Post(now)
		if err != nil {
			return nil, err
		}
		if err := uc.journalRepo.Update(ctx, tx, &posted, entry.Version); err != nil {
			return nil, err
		}

		log := auditLogFrom(entryRec, input.Actor, voucher.CompanyID, uc.idGen.Generate(), now)
		if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
			return nil, err
		}
	}

	updated, rec, err := voucher.Post(input.PostingDate, now)
	if err != nil {
		return nil, err
	}
	if err := uc.voucherRepo.Update(ctx, tx, &updated, input.Version); err != nil {
		return nil, err
	}

	log := auditLogFrom(rec, input.Actor, voucher.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &updated, nil
}

// SignVoucherInput represents input for signing a posted voucher.
type SignVoucherInput struct {
	Actor     Actor
	VoucherID string
	SignerID  string
	Signature string
	Version   int64
}

// SignVoucher records the one-time signature on a posted voucher.
func (uc *VoucherUseCase) SignVoucher(ctx context.Context, input SignVoucherInput) (*domain.Voucher, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	voucher, err := uc.voucherRepo.GetByIDForUpdate(ctx, tx, input.VoucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Version != input.Version {
		return nil, &domain.ConcurrentModificationError{
			EntityType: "Voucher",
			EntityID:   voucher.ID,
			Expected:   input.Version,
		}
	}

	period, err := uc.periodRepo.GetByDate(ctx, voucher.CompanyID, voucher.VoucherDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(voucher.VoucherDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	updated, rec, err := voucher.Sign(input.SignerID, input.Signature, now)
	if err != nil {
		return nil, err
	}
	if err := uc.voucherRepo.Update(ctx, tx, &updated, input.Version); err != nil {
		return nil, err
	}

	log := auditLogFrom(rec, input.Actor, voucher.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &updated, nil
}

// AmendVoucherInput represents input for amending voucher fields.
type AmendVoucherInput struct {
	Actor       Actor
	VoucherID   string
	Description string
	DocumentRef string
	Version     int64
}

// AmendVoucher updates the mutable fields of an unsigned, unlocked
// voucher.
func (uc *VoucherUseCase) AmendVoucher(ctx context.Context, input AmendVoucherInput) (*domain.Voucher, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	voucher, err := uc.voucherRepo.GetByIDForUpdate(ctx, tx, input.VoucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Version != input.Version {
		return nil, &domain.ConcurrentModificationError{
			EntityType: "Voucher",
			EntityID:   voucher.ID,
			Expected:   input.Version,
		}
	}

	period, err := uc.periodRepo.GetByDate(ctx, voucher.CompanyID, voucher.VoucherDate)
	if err != nil {
		return nil, err
	}
	if err := period.AssertMutationAllowed(voucher.VoucherDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	updated, rec, err := voucher.Amend(input.Description, input.DocumentRef, now)
	if err != nil {
		return nil, err
	}
	if err := uc.voucherRepo.Update(ctx, tx, &updated, input.Version); err != nil {
		return nil, err
	}

	log := auditLogFrom(rec, input.Actor, voucher.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &updated, nil
}

// GetVoucher retrieves a voucher by ID.
func (uc *VoucherUseCase) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return uc.voucherRepo.GetByID(ctx, id)
}

// ListVouchers lists vouchers for a company.
func (uc *VoucherUseCase) ListVouchers(ctx context.Context, companyID string, limit, offset int) ([]*domain.Voucher, error) {
	limit, offset = clampPage(limit, offset)
	return uc.voucherRepo.List(ctx, companyID, limit, offset)
}

// BalanceCheckResult reports the balance state of a voucher's entries.
type BalanceCheckResult struct {
	Balanced    bool
	TotalDebit  domain.Money
	TotalCredit domain.Money
}

// CheckBalance reports whether every journal entry of a voucher satisfies
// the balance law.
func (uc *VoucherUseCase) CheckBalance(ctx context.Context, voucherID string) (*BalanceCheckResult, error) {
	entries, err := uc.journalRepo.GetByVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	totalDebit := domain.ZeroMoney(uc.rules.BaseCurrency)
	totalCredit := domain.ZeroMoney(uc.rules.BaseCurrency)
	balanced := true

	for _, entry := range entries {
		if !entry.IsBalanced() {
			balanced = false
		}
		if totalDebit, err = totalDebit.Add(entry.TotalDebit); err != nil {
			return nil, err
		}
		if totalCredit, err = totalCredit.Add(entry.TotalCredit); err != nil {
			return nil, err
		}
	}

	return &BalanceCheckResult{
		Balanced:    balanced,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}
