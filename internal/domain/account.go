package domain

import (
	"fmt"
	"strings"
	"time"
)

// AccountType classifies a ledger account per the chart-of-accounts annex.
type AccountType string

const (
	AccountAsset        AccountType = "ASSET"
	AccountLiability    AccountType = "LIABILITY"
	AccountEquity       AccountType = "EQUITY"
	AccountRevenue      AccountType = "REVENUE"
	AccountExpense      AccountType = "EXPENSE"
	AccountDirectCost   AccountType = "DIRECT_COST"
	AccountOtherRevenue AccountType = "OTHER_REVENUE"
	AccountOtherExpense AccountType = "OTHER_EXPENSE"
)

// BalanceDirection is the normal side of an account's balance.
type BalanceDirection string

const (
	DebitNormal  BalanceDirection = "DEBIT"
	CreditNormal BalanceDirection = "CREDIT"
)

// Account is a chart-of-accounts entry. Detail accounts carry postings;
// summary accounts aggregate their children by code prefix.
type Account struct {
	ID          string
	Code        string
	Name        string
	Type        AccountType
	CompanyID   string
	ParentCode  string
	IsDetail    bool
	IsActive    bool
	Direction   BalanceDirection
	Currency    string
	Balance     Money
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostBalance applies a debit and credit movement to the running balance
// according to the account's normal direction, returning the updated
// account and its audit record. Debit-normal accounts grow on debit;
// credit-normal accounts grow on credit.
func (a Account) PostBalance(debit, credit Money, now time.Time) (Account, AuditRecord, error) {
	if debit.Currency != a.Currency {
		return Account{}, AuditRecord{}, &CurrencyMismatchError{Left: a.Currency, Right: debit.Currency}
	}
	if credit.Currency != a.Currency {
		return Account{}, AuditRecord{}, &CurrencyMismatchError{Left: a.Currency, Right: credit.Currency}
	}

	delta := debit.Amount.Sub(credit.Amount)
	if a.Direction == CreditNormal {
		delta = delta.Neg()
	}

	updated := a
	updated.Balance = Money{Amount: a.Balance.Amount.Add(delta), Currency: a.Currency}
	updated.Version++
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "Account",
		EntityID:   a.ID,
		Action:     AuditActionUpdate,
		OldValue:   MarshalState(a),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// AccountBalance is a per-period snapshot recomputed on period close,
// never hand-edited.
type AccountBalance struct {
	AccountCode   string
	CompanyID     string
	PeriodType    PeriodType
	Year          int
	PeriodValue   int
	OpeningDebit  Money
	OpeningCredit Money
	PeriodDebit   Money
	PeriodCredit  Money
	ClosingDebit  Money
	ClosingCredit Money
}

// CheckNegativeBalance returns warnings for negative closings on accounts
// whose code matches the rule set's critical prefixes.
func (b AccountBalance) CheckNegativeBalance(rules AccountingRules) []string {
	critical := false
	for _, prefix := range rules.CriticalAccounts {
		if strings.HasPrefix(b.AccountCode, prefix) {
			critical = true
			break
		}
	}
	if !critical {
		return nil
	}

	var warnings []string
	if b.ClosingDebit.IsNegative() {
		warnings = append(warnings, fmt.Sprintf(
			"account %s: negative closing debit balance %s", b.AccountCode, b.ClosingDebit))
	}
	if b.ClosingCredit.IsNegative() {
		warnings = append(warnings, fmt.Sprintf(
			"account %s: negative closing credit balance %s", b.AccountCode, b.ClosingCredit))
	}
	return warnings
}
