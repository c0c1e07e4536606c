package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// ProvisionBucket is one row of the receivable-aging schedule. Boundaries
// are inclusive on both ends and rows must not overlap.
type ProvisionBucket struct {
	MinDays int
	MaxDays int
	Rate    decimal.Decimal
}

// AccountingRules is the versioned reference data the engine is
// parametrized over: chart-of-accounts classifications, provision
// schedules and tax rates. A regulatory update ships a new value, not a
// recompilation of the engine. Callers pass it in; nothing in this
// package holds a mutable global.
type AccountingRules struct {
	Version      string
	BaseCurrency string

	// Exchange-rate difference classification.
	FXGainAccount string
	FXLossAccount string

	// Physical-count reconciliation pending accounts.
	ShortagePendingAccount string
	SurplusPendingAccount  string

	// VAT accounts and permitted rates (percentages).
	VATPayableAccount    string
	VATDeductibleAccount string
	VATRates             []decimal.Decimal

	// Receivable provisioning.
	ProvisionSchedule    []ProvisionBucket
	GeneralProvisionRate decimal.Decimal

	// Cost-of-goods and inventory control accounts.
	COGSAccount      string
	InventoryAccount string

	// Accounts whose negative closing balance triggers a warning.
	CriticalAccounts []string
}

// DefaultRules returns the rule set of the current regulatory annex.
func DefaultRules() AccountingRules {
	return AccountingRules{
		Version:      "TT99/2025",
		BaseCurrency: BaseCurrency,

		FXGainAccount: "4131",
		FXLossAccount: "4132",

		ShortagePendingAccount: "1381",
		SurplusPendingAccount:  "3381",

		VATPayableAccount:    "3331",
		VATDeductibleAccount: "1331",
		VATRates: []decimal.Decimal{
			decimal.Zero,
			decimal.NewFromInt(5),
			decimal.NewFromInt(8),
			decimal.NewFromInt(10),
		},

		ProvisionSchedule: []ProvisionBucket{
			{MinDays: 0, MaxDays: 90, Rate: decimal.Zero},
			{MinDays: 91, MaxDays: 180, Rate: decimal.NewFromFloat(0.30)},
			{MinDays: 181, MaxDays: 365, Rate: decimal.NewFromFloat(0.50)},
			{MinDays: 366, MaxDays: NoMaxOverdue, Rate: decimal.NewFromInt(1)},
		},
		GeneralProvisionRate: decimal.NewFromFloat(0.01),

		COGSAccount:      "632",
		InventoryAccount: "1561",

		CriticalAccounts: []string{
			"111", "112",
			"131", "138",
			"151", "152", "156", "157",
			"211", "213",
			"311", "331",
		},
	}
}

// NoMaxOverdue marks an open-ended last aging bucket: no receivable is
// ever too old to match it.
const NoMaxOverdue = math.MaxInt
