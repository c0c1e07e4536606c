package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
	"github.com/vietacct/ledgerkit/internal/usecase/mocks"
)

type periodFixture struct {
	uc          *usecase.PeriodUseCase
	periodRepo  *mocks.MockPeriodRepository
	voucherRepo *mocks.MockVoucherRepository
	journalRepo *mocks.MockJournalRepository
	balanceRepo *mocks.MockBalanceRepository
	auditRepo   *mocks.MockAuditRepository
}

func newPeriodFixture(t *testing.T) *periodFixture {
	t.Helper()

	f := &periodFixture{
		periodRepo:  mocks.NewMockPeriodRepository(),
		voucherRepo: mocks.NewMockVoucherRepository(),
		journalRepo: mocks.NewMockJournalRepository(),
		balanceRepo: mocks.NewMockBalanceRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
	}

	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Seed(&domain.Account{Code: "111", Name: "Cash", CompanyID: "co-1", Direction: domain.DebitNormal, Currency: "VND"})
	accountRepo.Seed(&domain.Account{Code: "131", Name: "Receivables", CompanyID: "co-1", Direction: domain.DebitNormal, Currency: "VND"})
	accountRepo.Seed(&domain.Account{Code: "331", Name: "Payables", CompanyID: "co-1", Direction: domain.CreditNormal, Currency: "VND"})

	f.uc = usecase.NewPeriodUseCase(
		mocks.NewMockTransactionManager(),
		f.periodRepo,
		f.voucherRepo,
		f.journalRepo,
		accountRepo,
		f.balanceRepo,
		f.auditRepo,
		mocks.NewMockIDGenerator(),
		domain.DefaultRules(),
	)
	return f
}

func TestPeriodUseCase_LockPeriod(t *testing.T) {
	t.Run("locks period, vouchers and writes snapshots", func(t *testing.T) {
		f := newPeriodFixture(t)
		seedOpenPeriod(f.periodRepo)
		seedDraftVoucher(t, f.voucherRepo, f.journalRepo)

		f.journalRepo.MovementsByPeriodFunc = func(ctx context.Context, companyID string, start, end time.Time) ([]usecase.AccountMovement, error) {
			return []usecase.AccountMovement{
				{AccountCode: "111", Debit: decimal.NewFromInt(10_000_000), Credit: decimal.Zero},
				{AccountCode: "131", Debit: decimal.Zero, Credit: decimal.NewFromInt(10_000_000)},
			}, nil
		}

		result, err := f.uc.LockPeriod(context.Background(), usecase.LockPeriodInput{
			Actor:     testActor,
			PeriodID:  "period-12",
			LockLevel: domain.LockMonth,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Period.LockStatus != domain.LockMonth {
			t.Errorf("period LockStatus = %s", result.Period.LockStatus)
		}
		if result.LockedVouchers != 1 {
			t.Errorf("LockedVouchers = %d, want 1", result.LockedVouchers)
		}
		if result.Snapshots != 2 {
			t.Errorf("Snapshots = %d, want 2", result.Snapshots)
		}

		stored, err := f.voucherRepo.GetByID(context.Background(), "v-1")
		if err != nil {
			t.Fatalf("reload voucher: %v", err)
		}
		if stored.LockStatus != domain.LockMonth {
			t.Errorf("voucher LockStatus = %s", stored.LockStatus)
		}

		// one log per locked voucher plus one for the period
		if len(f.auditRepo.Logs) != 2 {
			t.Errorf("audit logs = %d, want 2", len(f.auditRepo.Logs))
		}

		// negative closing on a critical receivable account must warn
		if len(result.Warnings) == 0 {
			t.Error("expected a negative-balance warning for account 131")
		}
	})

	t.Run("escalates a month lock to quarter", func(t *testing.T) {
		f := newPeriodFixture(t)
		period := seedOpenPeriod(f.periodRepo)
		period.LockStatus = domain.LockMonth

		result, err := f.uc.LockPeriod(context.Background(), usecase.LockPeriodInput{
			Actor:     testActor,
			PeriodID:  "period-12",
			LockLevel: domain.LockQuarter,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Period.LockStatus != domain.LockQuarter {
			t.Errorf("lock status = %s, want QUARTER_LOCKED", result.Period.LockStatus)
		}
	})

	t.Run("rejects re-locking at the same level", func(t *testing.T) {
		f := newPeriodFixture(t)
		period := seedOpenPeriod(f.periodRepo)
		period.LockStatus = domain.LockQuarter

		_, err := f.uc.LockPeriod(context.Background(), usecase.LockPeriodInput{
			Actor:     testActor,
			PeriodID:  "period-12",
			LockLevel: domain.LockQuarter,
		})
		var locked *domain.PeriodLockedError
		if !errors.As(err, &locked) {
			t.Fatalf("expected PeriodLockedError, got %v", err)
		}
	})

	t.Run("rejects an out-of-enum lock level", func(t *testing.T) {
		f := newPeriodFixture(t)
		seedOpenPeriod(f.periodRepo)

		_, err := f.uc.LockPeriod(context.Background(), usecase.LockPeriodInput{
			Actor:     testActor,
			PeriodID:  "period-12",
			LockLevel: domain.LockStatus("LOCK_MONTH"),
		})
		var invalid *domain.InvalidInputError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidInputError, got %v", err)
		}
	})

	t.Run("rejects OPEN as a lock level", func(t *testing.T) {
		f := newPeriodFixture(t)
		seedOpenPeriod(f.periodRepo)

		_, err := f.uc.LockPeriod(context.Background(), usecase.LockPeriodInput{
			Actor:     testActor,
			PeriodID:  "period-12",
			LockLevel: domain.LockOpen,
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestPeriodUseCase_UnlockPeriod(t *testing.T) {
	t.Run("reopens period and its vouchers", func(t *testing.T) {
		f := newPeriodFixture(t)
		period := seedOpenPeriod(f.periodRepo)
		now := time.Now().UTC()
		period.LockStatus = domain.LockMonth
		period.LockedAt = &now

		voucher := seedDraftVoucher(t, f.voucherRepo, f.journalRepo)
		voucher.LockStatus = domain.LockMonth
		voucher.LockedAt = &now

		unlocked, err := f.uc.UnlockPeriod(context.Background(), usecase.UnlockPeriodInput{
			Actor:    testActor,
			PeriodID: "period-12",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if unlocked.LockStatus != domain.LockOpen {
			t.Errorf("period LockStatus = %s", unlocked.LockStatus)
		}

		stored, err := f.voucherRepo.GetByID(context.Background(), "v-1")
		if err != nil {
			t.Fatalf("reload voucher: %v", err)
		}
		if stored.LockStatus != domain.LockOpen {
			t.Errorf("voucher LockStatus = %s", stored.LockStatus)
		}

		// unlock is audited for the voucher and the period
		if len(f.auditRepo.Logs) != 2 {
			t.Fatalf("audit logs = %d, want 2", len(f.auditRepo.Logs))
		}
		for _, log := range f.auditRepo.Logs {
			if log.Action != domain.AuditActionUnlock {
				t.Errorf("audit action = %s, want UNLOCK", log.Action)
			}
		}
	})

	t.Run("rejects unlocking an open period", func(t *testing.T) {
		f := newPeriodFixture(t)
		seedOpenPeriod(f.periodRepo)

		_, err := f.uc.UnlockPeriod(context.Background(), usecase.UnlockPeriodInput{
			Actor:    testActor,
			PeriodID: "period-12",
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
