package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProvisionType distinguishes the two provision computations.
type ProvisionType string

const (
	ProvisionSpecific ProvisionType = "SPECIFIC"
	ProvisionGeneral  ProvisionType = "GENERAL"
)

// ProvisionCalculation is one persisted row of a provisioning run.
type ProvisionCalculation struct {
	ID              string
	CompanyID       string
	CalculationDate time.Time
	CustomerCode    string
	OriginalAmount  Money
	OverdueDays     int
	Rate            decimal.Decimal
	Provision       Money
	Type            ProvisionType
	RulesVersion    string
	CreatedAt       time.Time
}

// Receivable is one provision-eligible outstanding balance, aged in whole
// days past due.
type Receivable struct {
	CustomerCode string
	Amount       Money
	OverdueDays  int
}

// ProvisionRate returns the schedule rate for an age. Bucket boundaries
// are inclusive on both ends and rows never overlap, so at most one row
// matches.
func ProvisionRate(overdueDays int, rules AccountingRules) (ProvisionBucket, bool) {
	for _, bucket := range rules.ProvisionSchedule {
		if overdueDays >= bucket.MinDays && overdueDays <= bucket.MaxDays {
			return bucket, true
		}
	}
	return ProvisionBucket{}, false
}

// CalculateSpecificProvision computes the age-bucketed specific provision:
// the sum of amount * bucket rate over all receivables, rounded half-up
// once at the end.
func CalculateSpecificProvision(receivables []Receivable, rules AccountingRules) (Money, error) {
	total := ZeroMoney(rules.BaseCurrency)

	for _, r := range receivables {
		if r.Amount.IsNegative() {
			return Money{}, &InvalidInputError{
				Field:  "receivable " + r.CustomerCode,
				Reason: "amount must not be negative",
			}
		}
		if r.OverdueDays < 0 {
			return Money{}, &InvalidInputError{
				Field:  "receivable " + r.CustomerCode,
				Reason: "overdue days must not be negative",
			}
		}

		bucket, ok := ProvisionRate(r.OverdueDays, rules)
		if !ok {
			continue
		}

		var err error
		total, err = total.Add(r.Amount.MulRate(bucket.Rate))
		if err != nil {
			return Money{}, err
		}
	}

	return total.Round(), nil
}

// CalculateGeneralProvision computes the flat general provision over the
// total short-term receivable balance.
func CalculateGeneralProvision(totalReceivables Money, rules AccountingRules) (Money, error) {
	if totalReceivables.IsNegative() {
		return Money{}, &InvalidInputError{
			Field:  "totalReceivables",
			Reason: "must not be negative",
		}
	}
	return totalReceivables.MulRate(rules.GeneralProvisionRate).Round(), nil
}
