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

var testActor = usecase.Actor{UserID: "user-1", UserIP: "10.0.0.1", UserAgent: "test"}

func testDate() time.Time {
	return time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
}

func seedOpenPeriod(repo *mocks.MockPeriodRepository) *domain.FiscalPeriod {
	period := &domain.FiscalPeriod{
		ID:          "period-12",
		CompanyID:   "co-1",
		Type:        domain.PeriodMonth,
		Year:        2025,
		PeriodValue: 12,
		StartDate:   time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		LockStatus:  domain.LockOpen,
	}
	repo.Seed(period)
	return period
}

func balancedLines(amount int64) []domain.JournalLine {
	zero := domain.VND(0)
	return []domain.JournalLine{
		{AccountCode: "111", Debit: domain.VND(amount), Credit: zero},
		{AccountCode: "131", Debit: zero, Credit: domain.VND(amount)},
	}
}

func TestVoucherUseCase_CreateVoucher(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateVoucherInput
		setupMocks  func(*mocks.MockPeriodRepository, *mocks.MockVoucherRepository)
		expectError bool
		checkError  func(t *testing.T, err error)
	}{
		{
			name: "successful balanced voucher",
			input: usecase.CreateVoucherInput{
				Actor:       testActor,
				CompanyID:   "co-1",
				Type:        domain.VoucherReceipt,
				VoucherDate: testDate(),
				Description: "cash receipt",
				Lines:       balancedLines(10_000_000),
			},
			setupMocks: func(periodRepo *mocks.MockPeriodRepository, voucherRepo *mocks.MockVoucherRepository) {
				seedOpenPeriod(periodRepo)
			},
		},
		{
			name: "reject unbalanced lines",
			input: usecase.CreateVoucherInput{
				Actor:       testActor,
				CompanyID:   "co-1",
				Type:        domain.VoucherReceipt,
				VoucherDate: testDate(),
				Lines: []domain.JournalLine{
					{AccountCode: "111", Debit: domain.VND(10_000_000), Credit: domain.VND(0)},
					{AccountCode: "131", Debit: domain.VND(0), Credit: domain.VND(8_000_000)},
				},
			},
			setupMocks: func(periodRepo *mocks.MockPeriodRepository, voucherRepo *mocks.MockVoucherRepository) {
				seedOpenPeriod(periodRepo)
			},
			expectError: true,
			checkError: func(t *testing.T, err error) {
				var notBalanced *domain.NotBalancedError
				if !errors.As(err, &notBalanced) {
					t.Fatalf("expected NotBalancedError, got %v", err)
				}
				if !notBalanced.TotalDebit.Amount.Equal(decimal.NewFromInt(10_000_000)) {
					t.Errorf("TotalDebit = %s", notBalanced.TotalDebit.Amount)
				}
				if !notBalanced.TotalCredit.Amount.Equal(decimal.NewFromInt(8_000_000)) {
					t.Errorf("TotalCredit = %s", notBalanced.TotalCredit.Amount)
				}
			},
		},
		{
			name: "reject locked period",
			input: usecase.CreateVoucherInput{
				Actor:       testActor,
				CompanyID:   "co-1",
				Type:        domain.VoucherReceipt,
				VoucherDate: testDate(),
				Lines:       balancedLines(1_000_000),
			},
			setupMocks: func(periodRepo *mocks.MockPeriodRepository, voucherRepo *mocks.MockVoucherRepository) {
				period := seedOpenPeriod(periodRepo)
				period.LockStatus = domain.LockMonth
			},
			expectError: true,
			checkError: func(t *testing.T, err error) {
				var locked *domain.PeriodLockedError
				if !errors.As(err, &locked) {
					t.Fatalf("expected PeriodLockedError, got %v", err)
				}
				if locked.LockStatus != domain.LockMonth {
					t.Errorf("LockStatus = %s", locked.LockStatus)
				}
			},
		},
		{
			name: "reject date outside any period",
			input: usecase.CreateVoucherInput{
				Actor:       testActor,
				CompanyID:   "co-1",
				Type:        domain.VoucherReceipt,
				VoucherDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				Lines:       balancedLines(1_000_000),
			},
			setupMocks: func(periodRepo *mocks.MockPeriodRepository, voucherRepo *mocks.MockVoucherRepository) {
				seedOpenPeriod(periodRepo)
			},
			expectError: true,
			checkError: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrPeriodNotFound) {
					t.Fatalf("expected ErrPeriodNotFound, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voucherRepo := mocks.NewMockVoucherRepository()
			journalRepo := mocks.NewMockJournalRepository()
			periodRepo := mocks.NewMockPeriodRepository()
			auditRepo := mocks.NewMockAuditRepository()
			txMgr := mocks.NewMockTransactionManager()
			idGen := mocks.NewMockIDGenerator()

			tt.setupMocks(periodRepo, voucherRepo)

			uc := usecase.NewVoucherUseCase(txMgr, voucherRepo, journalRepo, periodRepo, auditRepo, idGen, domain.DefaultRules())
			voucher, err := uc.CreateVoucher(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.checkError != nil {
					tt.checkError(t, err)
				}
				if len(auditRepo.Logs) != 0 {
					t.Errorf("rejected create wrote %d audit logs", len(auditRepo.Logs))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if voucher.State != domain.VoucherDraft {
				t.Errorf("State = %s, want DRAFT", voucher.State)
			}
			if voucher.VoucherNumber != "CT/20251215/001" {
				t.Errorf("VoucherNumber = %s", voucher.VoucherNumber)
			}
			if len(auditRepo.Logs) != 1 {
				t.Fatalf("audit logs = %d, want 1", len(auditRepo.Logs))
			}
			if auditRepo.Logs[0].Action != domain.AuditActionCreate {
				t.Errorf("audit action = %s", auditRepo.Logs[0].Action)
			}
		})
	}
}

func seedDraftVoucher(t *testing.T, voucherRepo *mocks.MockVoucherRepository, journalRepo *mocks.MockJournalRepository) *domain.Voucher {
	t.Helper()

	voucher := &domain.Voucher{
		ID:            "v-1",
		VoucherNumber: "CT/20251215/001",
		Type:          domain.VoucherReceipt,
		VoucherDate:   testDate(),
		CompanyID:     "co-1",
		State:         domain.VoucherDraft,
		LockStatus:    domain.LockOpen,
		Version:       1,
	}
	if err := voucherRepo.Create(context.Background(), nil, voucher); err != nil {
		t.Fatalf("seed voucher: %v", err)
	}

	entry := domain.JournalEntry{
		ID:          "e-1",
		EntryNumber: "BT/20251215/001",
		VoucherID:   voucher.ID,
		VoucherDate: testDate(),
		PostingDate: testDate(),
		Lines:       balancedLines(10_000_000),
		Version:     1,
	}
	entry, err := entry.CalculateTotals()
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if err := journalRepo.Create(context.Background(), nil, &entry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return voucher
}

func TestVoucherUseCase_PostVoucher(t *testing.T) {
	t.Run("posts a balanced draft", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		auditRepo := mocks.NewMockAuditRepository()
		seedOpenPeriod(periodRepo)
		seedDraftVoucher(t, voucherRepo, journalRepo)

		uc := usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, auditRepo, mocks.NewMockIDGenerator(), domain.DefaultRules())

		posted, err := uc.PostVoucher(context.Background(), usecase.PostVoucherInput{
			Actor:       testActor,
			VoucherID:   "v-1",
			PostingDate: testDate(),
			Version:     1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if posted.State != domain.VoucherPosted {
			t.Errorf("State = %s, want POSTED", posted.State)
		}
		if posted.Version != 2 {
			t.Errorf("Version = %d, want 2", posted.Version)
		}
		// one entry audit + one voucher audit
		if len(auditRepo.Logs) != 2 {
			t.Errorf("audit logs = %d, want 2", len(auditRepo.Logs))
		}
	})

	t.Run("rejects stale version", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		seedOpenPeriod(periodRepo)
		seedDraftVoucher(t, voucherRepo, journalRepo)

		uc := usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator(), domain.DefaultRules())

		_, err := uc.PostVoucher(context.Background(), usecase.PostVoucherInput{
			Actor:       testActor,
			VoucherID:   "v-1",
			PostingDate: testDate(),
			Version:     7,
		})
		var conflict *domain.ConcurrentModificationError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConcurrentModificationError, got %v", err)
		}
		if conflict.Expected != 7 {
			t.Errorf("Expected = %d, want 7", conflict.Expected)
		}
	})

	t.Run("rejects locked period", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		period := seedOpenPeriod(periodRepo)
		period.LockStatus = domain.LockQuarter
		seedDraftVoucher(t, voucherRepo, journalRepo)

		uc := usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator(), domain.DefaultRules())

		_, err := uc.PostVoucher(context.Background(), usecase.PostVoucherInput{
			Actor:       testActor,
			VoucherID:   "v-1",
			PostingDate: testDate(),
			Version:     1,
		})
		var locked *domain.PeriodLockedError
		if !errors.As(err, &locked) {
			t.Fatalf("expected PeriodLockedError, got %v", err)
		}
	})
}

func TestVoucherUseCase_SignVoucher(t *testing.T) {
	newUC := func(voucherRepo *mocks.MockVoucherRepository, journalRepo *mocks.MockJournalRepository, periodRepo *mocks.MockPeriodRepository, auditRepo *mocks.MockAuditRepository) *usecase.VoucherUseCase {
		return usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, auditRepo, mocks.NewMockIDGenerator(), domain.DefaultRules())
	}

	t.Run("signs a posted voucher once", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		auditRepo := mocks.NewMockAuditRepository()
		seedOpenPeriod(periodRepo)
		voucher := seedDraftVoucher(t, voucherRepo, journalRepo)
		voucher.State = domain.VoucherPosted

		uc := newUC(voucherRepo, journalRepo, periodRepo, auditRepo)

		signed, err := uc.SignVoucher(context.Background(), usecase.SignVoucherInput{
			Actor:     testActor,
			VoucherID: "v-1",
			SignerID:  "director-1",
			Signature: "sig-bytes",
			Version:   1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if signed.State != domain.VoucherSigned {
			t.Errorf("State = %s, want SIGNED", signed.State)
		}
		if signed.SignerID != "director-1" {
			t.Errorf("SignerID = %s", signed.SignerID)
		}

		// second signature must fail with the original signer's facts
		_, err = uc.SignVoucher(context.Background(), usecase.SignVoucherInput{
			Actor:     testActor,
			VoucherID: "v-1",
			SignerID:  "director-2",
			Version:   2,
		})
		var already *domain.AlreadySignedError
		if !errors.As(err, &already) {
			t.Fatalf("expected AlreadySignedError, got %v", err)
		}
		if already.SignerID != "director-1" {
			t.Errorf("SignerID = %s, want director-1", already.SignerID)
		}
	})

	t.Run("rejects signing a draft", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		seedOpenPeriod(periodRepo)
		seedDraftVoucher(t, voucherRepo, journalRepo)

		uc := newUC(voucherRepo, journalRepo, periodRepo, mocks.NewMockAuditRepository())

		_, err := uc.SignVoucher(context.Background(), usecase.SignVoucherInput{
			Actor:     testActor,
			VoucherID: "v-1",
			SignerID:  "director-1",
			Version:   1,
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestVoucherUseCase_AmendVoucher(t *testing.T) {
	t.Run("amends mutable fields on a draft", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		seedOpenPeriod(periodRepo)
		seedDraftVoucher(t, voucherRepo, journalRepo)

		uc := usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator(), domain.DefaultRules())

		amended, err := uc.AmendVoucher(context.Background(), usecase.AmendVoucherInput{
			Actor:       testActor,
			VoucherID:   "v-1",
			Description: "corrected narration",
			DocumentRef: "INV-42",
			Version:     1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if amended.Description != "corrected narration" {
			t.Errorf("Description = %q", amended.Description)
		}
		if amended.Version != 2 {
			t.Errorf("Version = %d, want 2", amended.Version)
		}
	})

	t.Run("rejects amending inside a locked period", func(t *testing.T) {
		voucherRepo := mocks.NewMockVoucherRepository()
		journalRepo := mocks.NewMockJournalRepository()
		periodRepo := mocks.NewMockPeriodRepository()
		period := seedOpenPeriod(periodRepo)
		period.LockStatus = domain.LockYear
		seedDraftVoucher(t, voucherRepo, journalRepo)

		uc := usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator(), domain.DefaultRules())

		_, err := uc.AmendVoucher(context.Background(), usecase.AmendVoucherInput{
			Actor:     testActor,
			VoucherID: "v-1",
			Version:   1,
		})
		var locked *domain.PeriodLockedError
		if !errors.As(err, &locked) {
			t.Fatalf("expected PeriodLockedError, got %v", err)
		}
	})
}

func TestVoucherUseCase_CheckBalance(t *testing.T) {
	voucherRepo := mocks.NewMockVoucherRepository()
	journalRepo := mocks.NewMockJournalRepository()
	periodRepo := mocks.NewMockPeriodRepository()
	seedOpenPeriod(periodRepo)
	seedDraftVoucher(t, voucherRepo, journalRepo)

	uc := usecase.NewVoucherUseCase(mocks.NewMockTransactionManager(), voucherRepo, journalRepo, periodRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator(), domain.DefaultRules())

	result, err := uc.CheckBalance(context.Background(), "v-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Balanced {
		t.Error("Balanced = false, want true")
	}
	if !result.TotalDebit.Amount.Equal(decimal.NewFromInt(10_000_000)) {
		t.Errorf("TotalDebit = %s", result.TotalDebit.Amount)
	}
}
