package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
	"github.com/vietacct/ledgerkit/internal/usecase/mocks"
)

type revaluationFixture struct {
	uc          *usecase.RevaluationUseCase
	fxRepo      *mocks.MockFXPositionRepository
	rateRepo    *mocks.MockRateRepository
	voucherRepo *mocks.MockVoucherRepository
	journalRepo *mocks.MockJournalRepository
	cache       *mocks.MockCache
	auditRepo   *mocks.MockAuditRepository
}

func newRevaluationFixture(t *testing.T) *revaluationFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &revaluationFixture{
		fxRepo:      mocks.NewMockFXPositionRepository(ctrl),
		rateRepo:    mocks.NewMockRateRepository(ctrl),
		voucherRepo: mocks.NewMockVoucherRepository(),
		journalRepo: mocks.NewMockJournalRepository(),
		cache:       mocks.NewMockCache(),
		auditRepo:   mocks.NewMockAuditRepository(),
	}
	periodRepo := mocks.NewMockPeriodRepository()
	seedOpenPeriod(periodRepo)

	f.uc = usecase.NewRevaluationUseCase(
		mocks.NewMockTransactionManager(),
		f.fxRepo,
		f.rateRepo,
		f.voucherRepo,
		f.journalRepo,
		periodRepo,
		f.auditRepo,
		f.cache,
		mocks.NewMockIDGenerator(),
		domain.DefaultRules(),
	)
	return f
}

func usdRate(rate int64, day int) domain.ExchangeRate {
	return domain.ExchangeRate{
		Rate:          decimal.NewFromInt(rate),
		Currency:      "USD",
		Type:          domain.RatePeriodEnd,
		ValuationDate: time.Date(2025, 12, day, 0, 0, 0, 0, time.UTC),
		Source:        "VCB",
	}
}

func TestRevaluationUseCase_RevaluePositions(t *testing.T) {
	t.Run("posts gain and loss, skips flat positions", func(t *testing.T) {
		f := newRevaluationFixture(t)

		original := func(rate int64) domain.ExchangeRate {
			return domain.ExchangeRate{
				Rate:          decimal.NewFromInt(rate),
				Currency:      "USD",
				Type:          domain.RateTransaction,
				ValuationDate: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
			}
		}
		positions := []usecase.FXPosition{
			{AccountCode: "1122", Currency: "USD", ForeignAmount: decimal.NewFromInt(10_000), OriginalRate: original(24_000)},
			{AccountCode: "331", Currency: "USD", ForeignAmount: decimal.NewFromInt(4_000), OriginalRate: original(25_000)},
			{AccountCode: "131", Currency: "USD", ForeignAmount: decimal.NewFromInt(1_000), OriginalRate: original(24_500)},
		}
		f.fxRepo.EXPECT().
			ListOpen(gomock.Any(), "co-1", testDate()).
			Return(positions, nil)
		// One repository hit for three same-currency positions, the rest
		// served from cache.
		f.rateRepo.EXPECT().
			Latest(gomock.Any(), "USD", domain.RatePeriodEnd, testDate()).
			Return(usdRate(24_500, 15), nil).
			Times(1)

		result, err := f.uc.RevaluePositions(context.Background(), usecase.RevaluePositionsInput{
			Actor:         testActor,
			CompanyID:     "co-1",
			ValuationDate: testDate(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Diffs) != 2 {
			t.Fatalf("diffs = %d, want 2", len(result.Diffs))
		}
		if result.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", result.Skipped)
		}

		gain := result.Diffs[0]
		if !gain.Diff.Amount.Equal(decimal.NewFromInt(5_000_000)) {
			t.Errorf("gain = %s, want 5000000", gain.Diff.Amount)
		}
		if gain.TargetClass.AccountCode != "4131" {
			t.Errorf("gain account = %s, want 4131", gain.TargetClass.AccountCode)
		}

		loss := result.Diffs[1]
		if !loss.Diff.Amount.Equal(decimal.NewFromInt(-2_000_000)) {
			t.Errorf("loss = %s, want -2000000", loss.Diff.Amount)
		}
		if loss.TargetClass.AccountCode != "4132" {
			t.Errorf("loss account = %s, want 4132", loss.TargetClass.AccountCode)
		}

		if result.Voucher == nil {
			t.Fatal("expected a revaluation voucher")
		}
		entries, err := f.journalRepo.GetByVoucher(context.Background(), result.Voucher.ID)
		if err != nil {
			t.Fatalf("entries: %v", err)
		}
		if len(entries) != 1 || !entries[0].IsBalanced() {
			t.Fatal("revaluation entry missing or unbalanced")
		}
		if len(entries[0].Lines) != 4 {
			t.Errorf("lines = %d, want 4", len(entries[0].Lines))
		}
	})

	t.Run("all flat positions produce no voucher", func(t *testing.T) {
		f := newRevaluationFixture(t)

		f.fxRepo.EXPECT().
			ListOpen(gomock.Any(), "co-1", testDate()).
			Return([]usecase.FXPosition{
				{AccountCode: "1122", Currency: "USD", ForeignAmount: decimal.NewFromInt(500), OriginalRate: usdRate(24_000, 1)},
			}, nil)
		f.rateRepo.EXPECT().
			Latest(gomock.Any(), "USD", domain.RatePeriodEnd, testDate()).
			Return(usdRate(24_000, 15), nil)

		result, err := f.uc.RevaluePositions(context.Background(), usecase.RevaluePositionsInput{
			Actor:         testActor,
			CompanyID:     "co-1",
			ValuationDate: testDate(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Voucher != nil {
			t.Error("expected no voucher for flat positions")
		}
		if result.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", result.Skipped)
		}
		if len(f.auditRepo.Logs) != 0 {
			t.Errorf("audit logs = %d, want 0", len(f.auditRepo.Logs))
		}
	})
}

func TestRevaluationUseCase_LatestRate(t *testing.T) {
	f := newRevaluationFixture(t)

	asOf := testDate()
	f.rateRepo.EXPECT().
		Latest(gomock.Any(), "USD", domain.RatePeriodEnd, asOf).
		Return(usdRate(24_500, 15), nil).
		Times(1)

	first, err := f.uc.LatestRate(context.Background(), "USD", domain.RatePeriodEnd, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second lookup must be served from cache, not the repository.
	second, err := f.uc.LatestRate(context.Background(), "USD", domain.RatePeriodEnd, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Rate.Equal(second.Rate) {
		t.Errorf("rates differ: %s vs %s", first.Rate, second.Rate)
	}
}

func TestRevaluationUseCase_SaveRate(t *testing.T) {
	f := newRevaluationFixture(t)

	valid := usdRate(24_500, 15)
	f.rateRepo.EXPECT().Save(gomock.Any(), valid).Return(nil)
	if err := f.uc.SaveRate(context.Background(), valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Validation rejects a non-positive rate before the repository is
	// touched.
	if err := f.uc.SaveRate(context.Background(), usdRate(0, 15)); err == nil {
		t.Fatal("expected error for non-positive rate")
	}
}
