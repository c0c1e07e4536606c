package domain

import (
	"github.com/shopspring/decimal"
)

// BaseCurrency is the reporting currency all foreign amounts convert into.
const BaseCurrency = "VND"

// minorUnits maps a currency code to its minor-unit precision.
// Unlisted currencies default to 2.
var minorUnits = map[string]int32{
	"VND": 0,
	"JPY": 0,
	"KRW": 0,
}

// MinorUnits returns the number of decimal places for a currency.
func MinorUnits(currency string) int32 {
	if exp, ok := minorUnits[currency]; ok {
		return exp
	}
	return 2
}

// Money is a fixed-precision amount tagged with a currency code.
// Amounts are decimals, never binary floats, so thousands of postings
// accumulate without drift. Arithmetic never rounds; callers round once
// at the end of a computation chain via Round.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a Money value.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// VND creates a base-currency Money value from an integer amount.
func VND(amount int64) Money {
	return Money{Amount: decimal.NewFromInt(amount), Currency: BaseCurrency}
}

// ZeroMoney creates a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns m + other. Both operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Both operands must share a currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// MulRate returns m scaled by rate, without rounding.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(rate), Currency: m.Currency}
}

// Cmp compares two amounts of the same currency: -1 if m < other,
// 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}
	return m.Amount.Cmp(other.Amount), nil
}

// Equal reports whether two Money values have the same currency and amount.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	return Money{Amount: m.Amount.Abs(), Currency: m.Currency}
}

// Round rounds half-up to the currency's minor-unit precision. Applied at
// the final output of a computation chain only, never between steps.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(MinorUnits(m.Currency)), Currency: m.Currency}
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency
}
