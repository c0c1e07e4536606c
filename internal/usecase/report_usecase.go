package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// ReportUseCase derives reports from posted movements and period
// snapshots. Reports never mutate anything; a trial balance over a locked
// period is served from its frozen snapshots and cached.
type ReportUseCase struct {
	journalRepo JournalRepository
	accountRepo AccountRepository
	balanceRepo BalanceRepository
	periodRepo  PeriodRepository
	cache       Cache
	rules       domain.AccountingRules
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	journalRepo JournalRepository,
	accountRepo AccountRepository,
	balanceRepo BalanceRepository,
	periodRepo PeriodRepository,
	cache Cache,
	rules domain.AccountingRules,
) *ReportUseCase {
	return &ReportUseCase{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		periodRepo:  periodRepo,
		cache:       cache,
		rules:       rules,
	}
}

// TrialBalanceRow is one account line of a trial balance.
type TrialBalanceRow struct {
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	OpeningDebit  decimal.Decimal `json:"opening_debit"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
	PeriodDebit   decimal.Decimal `json:"period_debit"`
	PeriodCredit  decimal.Decimal `json:"period_credit"`
	ClosingDebit  decimal.Decimal `json:"closing_debit"`
	ClosingCredit decimal.Decimal `json:"closing_credit"`
}

// TrialBalance is the full statement with its control totals.
type TrialBalance struct {
	PeriodID    string          `json:"period_id"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balanced    bool            `json:"balanced"`
}

// GetTrialBalance builds the trial balance of a period. Locked periods
// are served from their frozen snapshots, cache-aside; open periods are
// computed live from posted movements.
func (uc *ReportUseCase) GetTrialBalance(ctx context.Context, periodID string) (*TrialBalance, error) {
	period, err := uc.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	cacheKey := trialBalanceCacheKey(period.CompanyID, periodID)
	if period.IsLocked() {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached TrialBalance
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var rows []TrialBalanceRow
	if period.IsLocked() {
		rows, err = uc.rowsFromSnapshots(ctx, *period)
	} else {
		rows, err = uc.rowsFromMovements(ctx, *period)
	}
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{PeriodID: periodID, Rows: rows}
	for _, row := range rows {
		report.TotalDebit = report.TotalDebit.Add(row.PeriodDebit)
		report.TotalCredit = report.TotalCredit.Add(row.PeriodCredit)
	}
	report.Balanced = report.TotalDebit.Equal(report.TotalCredit)

	if period.IsLocked() {
		if data, err := json.Marshal(report); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, data, rateCacheTTL)
		}
	}
	return report, nil
}

// ReportSection is one grouped section of a financial statement.
type ReportSection struct {
	Title    string          `json:"title"`
	Rows     []TrialBalanceRow `json:"rows"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// FinancialStatement is a grouped statement built from a trial balance.
type FinancialStatement struct {
	PeriodID string          `json:"period_id"`
	Sections []ReportSection `json:"sections"`
}

// GetBalanceSheet groups the trial balance closings into assets,
// liabilities and equity by account class prefix.
func (uc *ReportUseCase) GetBalanceSheet(ctx context.Context, periodID string) (*FinancialStatement, error) {
	balance, err := uc.GetTrialBalance(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return &FinancialStatement{
		PeriodID: periodID,
		Sections: []ReportSection{
			sectionByPrefix("Assets", balance.Rows, []string{"1", "2"}, true),
			sectionByPrefix("Liabilities", balance.Rows, []string{"3"}, false),
			sectionByPrefix("Equity", balance.Rows, []string{"4"}, false),
		},
	}, nil
}

// GetIncomeStatement groups the trial balance period movements into
// revenue and expense sections by account class prefix.
func (uc *ReportUseCase) GetIncomeStatement(ctx context.Context, periodID string) (*FinancialStatement, error) {
	balance, err := uc.GetTrialBalance(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return &FinancialStatement{
		PeriodID: periodID,
		Sections: []ReportSection{
			sectionByPrefix("Revenue", balance.Rows, []string{"5", "7"}, false),
			sectionByPrefix("Expenses", balance.Rows, []string{"6", "8"}, true),
		},
	}, nil
}

func (uc *ReportUseCase) rowsFromSnapshots(ctx context.Context, period domain.FiscalPeriod) ([]TrialBalanceRow, error) {
	snapshots, err := uc.balanceRepo.ListByPeriod(ctx, period.CompanyID, period.Type, period.Year, period.PeriodValue)
	if err != nil {
		return nil, err
	}

	rows := make([]TrialBalanceRow, 0, len(snapshots))
	for _, s := range snapshots {
		account, err := uc.accountRepo.GetByCode(ctx, period.CompanyID, s.AccountCode)
		if err != nil {
			return nil, err
		}
		rows = append(rows, TrialBalanceRow{
			AccountCode:   s.AccountCode,
			AccountName:   account.Name,
			OpeningDebit:  s.OpeningDebit.Amount,
			OpeningCredit: s.OpeningCredit.Amount,
			PeriodDebit:   s.PeriodDebit.Amount,
			PeriodCredit:  s.PeriodCredit.Amount,
			ClosingDebit:  s.ClosingDebit.Amount,
			ClosingCredit: s.ClosingCredit.Amount,
		})
	}
	return rows, nil
}

func (uc *ReportUseCase) rowsFromMovements(ctx context.Context, period domain.FiscalPeriod) ([]TrialBalanceRow, error) {
	movements, err := uc.journalRepo.MovementsByPeriod(ctx, period.CompanyID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	rows := make([]TrialBalanceRow, 0, len(movements))
	for _, m := range movements {
		account, err := uc.accountRepo.GetByCode(ctx, period.CompanyID, m.AccountCode)
		if err != nil {
			return nil, err
		}

		row := TrialBalanceRow{
			AccountCode:  m.AccountCode,
			AccountName:  account.Name,
			PeriodDebit:  m.Debit,
			PeriodCredit: m.Credit,
		}
		if account.Direction == domain.DebitNormal {
			row.ClosingDebit = m.Debit.Sub(m.Credit)
		} else {
			row.ClosingCredit = m.Credit.Sub(m.Debit)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sectionByPrefix sums ClosingDebit for debit-side sections and
// ClosingCredit otherwise, over rows whose account code starts with any
// of the prefixes.
func sectionByPrefix(title string, rows []TrialBalanceRow, prefixes []string, debitSide bool) ReportSection {
	section := ReportSection{Title: title}
	for _, row := range rows {
		for _, prefix := range prefixes {
			if strings.HasPrefix(row.AccountCode, prefix) {
				section.Rows = append(section.Rows, row)
				if debitSide {
					section.Subtotal = section.Subtotal.Add(row.ClosingDebit)
				} else {
					section.Subtotal = section.Subtotal.Add(row.ClosingCredit)
				}
				break
			}
		}
	}
	return section
}

func trialBalanceCacheKey(companyID, periodID string) string {
	return fmt.Sprintf("trial_balance:%s:%s", companyID, periodID)
}
