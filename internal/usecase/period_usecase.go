package usecase

import (
	"context"
	"time"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// PeriodUseCase closes and locks fiscal periods. Closing recomputes the
// per-account balance snapshots from posted movements, freezes every
// voucher dated inside the period, then locks the period itself — all in
// one transaction.
type PeriodUseCase struct {
	txManager   TransactionManager
	periodRepo  PeriodRepository
	voucherRepo VoucherRepository
	journalRepo JournalRepository
	accountRepo AccountRepository
	balanceRepo BalanceRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	rules       domain.AccountingRules
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(
	txManager TransactionManager,
	periodRepo PeriodRepository,
	voucherRepo VoucherRepository,
	journalRepo JournalRepository,
	accountRepo AccountRepository,
	balanceRepo BalanceRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	rules domain.AccountingRules,
) *PeriodUseCase {
	return &PeriodUseCase{
		txManager:   txManager,
		periodRepo:  periodRepo,
		voucherRepo: voucherRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		rules:       rules,
	}
}

// LockPeriodInput represents input for closing and locking a period.
type LockPeriodInput struct {
	Actor     Actor
	PeriodID  string
	LockLevel domain.LockStatus
}

// LockPeriodResult reports what the close produced.
type LockPeriodResult struct {
	Period         *domain.FiscalPeriod
	LockedVouchers int
	Snapshots      int
	Warnings       []string
}

// LockPeriod closes a fiscal period: recomputes balance snapshots,
// applies the period-lock veto to every voucher in range, and locks the
// period.
func (uc *PeriodUseCase) LockPeriod(ctx context.Context, input LockPeriodInput) (*LockPeriodResult, error) {
	period, err := uc.periodRepo.GetByID(ctx, input.PeriodID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	locked, periodRec, err := period.Lock(input.LockLevel, input.Actor.UserID, now)
	if err != nil {
		return nil, err
	}

	warnings, snapshots, err := uc.computeSnapshots(ctx, *period)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, snapshot := range snapshots {
		if err := uc.balanceRepo.Upsert(ctx, tx, snapshot); err != nil {
			return nil, err
		}
	}

	vouchers, err := uc.voucherRepo.ListByDateRange(ctx, tx, period.CompanyID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	for _, voucher := range vouchers {
		frozen, rec, err := voucher.ApplyPeriodLock(input.LockLevel, now)
		if err != nil {
			return nil, err
		}
		if err := uc.voucherRepo.Update(ctx, tx, &frozen, voucher.Version); err != nil {
			return nil, err
		}

		log := auditLogFrom(rec, input.Actor, period.CompanyID, uc.idGen.Generate(), now)
		if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := uc.periodRepo.Update(ctx, tx, &locked); err != nil {
		return nil, err
	}

	log := auditLogFrom(periodRec, input.Actor, period.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &LockPeriodResult{
		Period:         &locked,
		LockedVouchers: len(vouchers),
		Snapshots:      len(snapshots),
		Warnings:       warnings,
	}, nil
}

// UnlockPeriodInput represents input for the administrative unlock.
type UnlockPeriodInput struct {
	Actor    Actor
	PeriodID string
}

// UnlockPeriod reverses a period lock. This is the explicit,
// separately-audited administrative action; vouchers inside the period
// become modifiable again.
func (uc *PeriodUseCase) UnlockPeriod(ctx context.Context, input UnlockPeriodInput) (*domain.FiscalPeriod, error) {
	period, err := uc.periodRepo.GetByID(ctx, input.PeriodID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	unlocked, rec, err := period.Unlock(input.Actor.UserID, now)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	vouchers, err := uc.voucherRepo.ListByDateRange(ctx, tx, period.CompanyID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	for _, voucher := range vouchers {
		if voucher.LockStatus == domain.LockOpen {
			continue
		}

		reopened := *voucher
		reopened.LockStatus = domain.LockOpen
		reopened.LockedAt = nil
		reopened.Version++
		reopened.UpdatedAt = now

		if err := uc.voucherRepo.Update(ctx, tx, &reopened, voucher.Version); err != nil {
			return nil, err
		}

		voucherRec := domain.AuditRecord{
			EntityType: "Voucher",
			EntityID:   voucher.ID,
			Action:     domain.AuditActionUnlock,
			OldValue:   domain.MarshalState(voucher),
			NewValue:   domain.MarshalState(reopened),
		}
		log := auditLogFrom(voucherRec, input.Actor, period.CompanyID, uc.idGen.Generate(), now)
		if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := uc.periodRepo.Update(ctx, tx, &unlocked); err != nil {
		return nil, err
	}

	log := auditLogFrom(rec, input.Actor, period.CompanyID, uc.idGen.Generate(), now)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &unlocked, nil
}

// ListPeriods lists fiscal periods for a company year.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, companyID string, year int) ([]*domain.FiscalPeriod, error) {
	return uc.periodRepo.List(ctx, companyID, year)
}

// computeSnapshots derives the per-account closing balances for a period
// from posted movements, chaining the opening side from the previous
// period's snapshot.
func (uc *PeriodUseCase) computeSnapshots(ctx context.Context, period domain.FiscalPeriod) ([]string, []domain.AccountBalance, error) {
	movements, err := uc.journalRepo.MovementsByPeriod(ctx, period.CompanyID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, nil, err
	}

	prevType, prevYear, prevValue := previousPeriodKey(period)
	previous, err := uc.balanceRepo.ListByPeriod(ctx, period.CompanyID, prevType, prevYear, prevValue)
	if err != nil {
		return nil, nil, err
	}

	opening := make(map[string]domain.AccountBalance, len(previous))
	for _, b := range previous {
		opening[b.AccountCode] = b
	}

	var warnings []string
	snapshots := make([]domain.AccountBalance, 0, len(movements))

	for _, movement := range movements {
		account, err := uc.accountRepo.GetByCode(ctx, period.CompanyID, movement.AccountCode)
		if err != nil {
			return nil, nil, err
		}

		periodDebit := domain.NewMoney(movement.Debit, uc.rules.BaseCurrency)
		periodCredit := domain.NewMoney(movement.Credit, uc.rules.BaseCurrency)

		snapshot := domain.AccountBalance{
			AccountCode:   movement.AccountCode,
			CompanyID:     period.CompanyID,
			PeriodType:    period.Type,
			Year:          period.Year,
			PeriodValue:   period.PeriodValue,
			OpeningDebit:  domain.ZeroMoney(uc.rules.BaseCurrency),
			OpeningCredit: domain.ZeroMoney(uc.rules.BaseCurrency),
			PeriodDebit:   periodDebit,
			PeriodCredit:  periodCredit,
		}
		if prev, ok := opening[movement.AccountCode]; ok {
			snapshot.OpeningDebit = prev.ClosingDebit
			snapshot.OpeningCredit = prev.ClosingCredit
		}

		if account.Direction == domain.DebitNormal {
			closing := snapshot.OpeningDebit.Amount.
				Add(periodDebit.Amount).
				Sub(snapshot.OpeningCredit.Amount).
				Sub(periodCredit.Amount)
			snapshot.ClosingDebit = domain.NewMoney(closing, uc.rules.BaseCurrency)
			snapshot.ClosingCredit = domain.ZeroMoney(uc.rules.BaseCurrency)
		} else {
			closing := snapshot.OpeningCredit.Amount.
				Add(periodCredit.Amount).
				Sub(snapshot.OpeningDebit.Amount).
				Sub(periodDebit.Amount)
			snapshot.ClosingDebit = domain.ZeroMoney(uc.rules.BaseCurrency)
			snapshot.ClosingCredit = domain.NewMoney(closing, uc.rules.BaseCurrency)
		}

		warnings = append(warnings, snapshot.CheckNegativeBalance(uc.rules)...)
		snapshots = append(snapshots, snapshot)
	}

	return warnings, snapshots, nil
}

func previousPeriodKey(period domain.FiscalPeriod) (domain.PeriodType, int, int) {
	switch period.Type {
	case domain.PeriodMonth:
		if period.PeriodValue == 1 {
			return domain.PeriodMonth, period.Year - 1, 12
		}
		return domain.PeriodMonth, period.Year, period.PeriodValue - 1
	case domain.PeriodQuarter:
		if period.PeriodValue == 1 {
			return domain.PeriodQuarter, period.Year - 1, 4
		}
		return domain.PeriodQuarter, period.Year, period.PeriodValue - 1
	default:
		return domain.PeriodYear, period.Year - 1, 1
	}
}
