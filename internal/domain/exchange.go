package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateType distinguishes how an exchange rate was captured.
type RateType string

const (
	RateRealtime    RateType = "REALTIME"
	RatePeriodEnd   RateType = "PERIOD_END"
	RateTransaction RateType = "TRANSACTION"
)

// ExchangeRate is an immutable quote of one foreign-currency unit in the
// base currency. Once captured on a transaction it never changes; a
// revaluation captures a new rate instead.
type ExchangeRate struct {
	Rate          decimal.Decimal
	Currency      string
	Type          RateType
	ValuationDate time.Time
	Source        string
}

// Validate rejects non-positive rates and empty currency codes.
func (r ExchangeRate) Validate() error {
	if r.Rate.LessThanOrEqual(decimal.Zero) {
		return &InvalidRateError{Rate: r.Rate, Currency: r.Currency}
	}
	if r.Currency == "" {
		return &InvalidInputError{Field: "currency", Reason: "must not be empty"}
	}
	return nil
}

// ConvertToBase converts a foreign-currency amount to the base currency
// at the given rate. The result is unrounded; round once at the final
// output of the chain.
func ConvertToBase(amount decimal.Decimal, rate ExchangeRate) (Money, error) {
	if err := rate.Validate(); err != nil {
		return Money{}, err
	}
	return Money{Amount: amount.Mul(rate.Rate), Currency: BaseCurrency}, nil
}

// ExchangeDiff computes the realized/unrealized gain or loss from a rate
// movement on a foreign-currency balance:
//
//	(current - original) * amount
//
// Positive is a gain, negative is a loss; the sign is preserved exactly.
func ExchangeDiff(original, current ExchangeRate, amount decimal.Decimal) (Money, error) {
	if err := original.Validate(); err != nil {
		return Money{}, err
	}
	if err := current.Validate(); err != nil {
		return Money{}, err
	}
	if original.Currency != current.Currency {
		return Money{}, &CurrencyMismatchError{Left: original.Currency, Right: current.Currency}
	}

	diff := current.Rate.Sub(original.Rate).Mul(amount)
	return Money{Amount: diff, Currency: BaseCurrency}, nil
}

// ExchangeDiffClass is the posting classification of a rate difference.
type ExchangeDiffClass struct {
	AccountCode string
	AccountType AccountType
}

// ClassifyExchangeDiff maps a rate difference to the account it posts to.
// A gain posts to the financial-income account as revenue, a loss to the
// financial-expense account as expense. A zero diff returns ok=false and
// must not be posted.
func ClassifyExchangeDiff(diff Money, rules AccountingRules) (ExchangeDiffClass, bool) {
	switch {
	case diff.IsPositive():
		return ExchangeDiffClass{AccountCode: rules.FXGainAccount, AccountType: AccountRevenue}, true
	case diff.IsNegative():
		return ExchangeDiffClass{AccountCode: rules.FXLossAccount, AccountType: AccountExpense}, true
	default:
		return ExchangeDiffClass{}, false
	}
}
