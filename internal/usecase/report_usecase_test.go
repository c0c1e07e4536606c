package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
	"github.com/vietacct/ledgerkit/internal/usecase/mocks"
)

type reportFixture struct {
	uc          *usecase.ReportUseCase
	journalRepo *mocks.MockJournalRepository
	balanceRepo *mocks.MockBalanceRepository
	periodRepo  *mocks.MockPeriodRepository
	cache       *mocks.MockCache
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	f := &reportFixture{
		journalRepo: mocks.NewMockJournalRepository(),
		balanceRepo: mocks.NewMockBalanceRepository(),
		periodRepo:  mocks.NewMockPeriodRepository(),
		cache:       mocks.NewMockCache(),
	}

	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Seed(&domain.Account{Code: "111", Name: "Cash", Direction: domain.DebitNormal, Currency: "VND"})
	accountRepo.Seed(&domain.Account{Code: "331", Name: "Payables", Direction: domain.CreditNormal, Currency: "VND"})
	accountRepo.Seed(&domain.Account{Code: "511", Name: "Revenue", Direction: domain.CreditNormal, Currency: "VND"})
	accountRepo.Seed(&domain.Account{Code: "632", Name: "COGS", Direction: domain.DebitNormal, Currency: "VND"})

	f.uc = usecase.NewReportUseCase(
		f.journalRepo,
		accountRepo,
		f.balanceRepo,
		f.periodRepo,
		f.cache,
		domain.DefaultRules(),
	)
	return f
}

func seedMovements(f *reportFixture) {
	f.journalRepo.MovementsByPeriodFunc = func(ctx context.Context, companyID string, start, end time.Time) ([]usecase.AccountMovement, error) {
		return []usecase.AccountMovement{
			{AccountCode: "111", Debit: decimal.NewFromInt(10_000_000), Credit: decimal.NewFromInt(6_000_000)},
			{AccountCode: "331", Debit: decimal.NewFromInt(1_000_000), Credit: decimal.NewFromInt(2_000_000)},
			{AccountCode: "511", Debit: decimal.Zero, Credit: decimal.NewFromInt(10_000_000)},
			{AccountCode: "632", Debit: decimal.NewFromInt(7_000_000), Credit: decimal.Zero},
		}, nil
	}
}

func TestReportUseCase_GetTrialBalance(t *testing.T) {
	t.Run("computes live from movements for an open period", func(t *testing.T) {
		f := newReportFixture(t)
		seedOpenPeriod(f.periodRepo)
		seedMovements(f)

		report, err := f.uc.GetTrialBalance(context.Background(), "period-12")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Rows) != 4 {
			t.Fatalf("rows = %d, want 4", len(report.Rows))
		}
		if !report.Balanced {
			t.Errorf("Balanced = false: debit %s, credit %s", report.TotalDebit, report.TotalCredit)
		}
		if !report.TotalDebit.Equal(decimal.NewFromInt(18_000_000)) {
			t.Errorf("TotalDebit = %s", report.TotalDebit)
		}

		cash := report.Rows[0]
		if !cash.ClosingDebit.Equal(decimal.NewFromInt(4_000_000)) {
			t.Errorf("cash closing = %s, want 4000000", cash.ClosingDebit)
		}
		payables := report.Rows[1]
		if !payables.ClosingCredit.Equal(decimal.NewFromInt(1_000_000)) {
			t.Errorf("payables closing = %s, want 1000000", payables.ClosingCredit)
		}
	})

	t.Run("serves a locked period from snapshots and caches it", func(t *testing.T) {
		f := newReportFixture(t)
		period := seedOpenPeriod(f.periodRepo)
		period.LockStatus = domain.LockMonth

		snapshotCalls := 0
		f.balanceRepo.ListByPeriodFunc = func(ctx context.Context, companyID string, periodType domain.PeriodType, year, periodValue int) ([]domain.AccountBalance, error) {
			snapshotCalls++
			return []domain.AccountBalance{
				{
					AccountCode:   "111",
					CompanyID:     "co-1",
					PeriodType:    domain.PeriodMonth,
					Year:          2025,
					PeriodValue:   12,
					OpeningDebit:  domain.VND(1_000_000),
					OpeningCredit: domain.VND(0),
					PeriodDebit:   domain.VND(10_000_000),
					PeriodCredit:  domain.VND(10_000_000),
					ClosingDebit:  domain.VND(1_000_000),
					ClosingCredit: domain.VND(0),
				},
			}, nil
		}

		first, err := f.uc.GetTrialBalance(context.Background(), "period-12")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := f.uc.GetTrialBalance(context.Background(), "period-12")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if snapshotCalls != 1 {
			t.Errorf("snapshot reads = %d, want 1 (second serve from cache)", snapshotCalls)
		}
		if len(first.Rows) != 1 || len(second.Rows) != 1 {
			t.Fatalf("rows = %d/%d, want 1/1", len(first.Rows), len(second.Rows))
		}
		if !second.Rows[0].OpeningDebit.Equal(decimal.NewFromInt(1_000_000)) {
			t.Errorf("cached opening = %s", second.Rows[0].OpeningDebit)
		}
	})
}

func TestReportUseCase_GetBalanceSheet(t *testing.T) {
	f := newReportFixture(t)
	seedOpenPeriod(f.periodRepo)
	seedMovements(f)

	statement, err := f.uc.GetBalanceSheet(context.Background(), "period-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statement.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(statement.Sections))
	}

	assets := statement.Sections[0]
	if assets.Title != "Assets" {
		t.Errorf("section title = %s", assets.Title)
	}
	if !assets.Subtotal.Equal(decimal.NewFromInt(4_000_000)) {
		t.Errorf("assets subtotal = %s, want 4000000", assets.Subtotal)
	}

	liabilities := statement.Sections[1]
	if !liabilities.Subtotal.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("liabilities subtotal = %s, want 1000000", liabilities.Subtotal)
	}
}

func TestReportUseCase_GetIncomeStatement(t *testing.T) {
	f := newReportFixture(t)
	seedOpenPeriod(f.periodRepo)
	seedMovements(f)

	statement, err := f.uc.GetIncomeStatement(context.Background(), "period-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	revenue := statement.Sections[0]
	if !revenue.Subtotal.Equal(decimal.NewFromInt(10_000_000)) {
		t.Errorf("revenue subtotal = %s, want 10000000", revenue.Subtotal)
	}
	expenses := statement.Sections[1]
	if !expenses.Subtotal.Equal(decimal.NewFromInt(7_000_000)) {
		t.Errorf("expenses subtotal = %s, want 7000000", expenses.Subtotal)
	}
}
