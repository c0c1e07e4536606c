package domain

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VATAmount computes value-added tax on a pre-tax base at a percentage
// rate. Only rates present in the rule set are accepted.
func VATAmount(base Money, ratePercent decimal.Decimal, rules AccountingRules) (Money, error) {
	if base.IsNegative() {
		return Money{}, &InvalidInputError{Field: "base", Reason: "must not be negative"}
	}

	allowed := false
	for _, r := range rules.VATRates {
		if r.Equal(ratePercent) {
			allowed = true
			break
		}
	}
	if !allowed {
		return Money{}, &InvalidInputError{
			Field:  "taxRate",
			Reason: "rate " + ratePercent.String() + "% is not a permitted VAT rate",
		}
	}

	return base.MulRate(ratePercent.Div(hundred)).Round(), nil
}

// VATInclusiveTotal returns base plus its VAT at the given rate.
func VATInclusiveTotal(base Money, ratePercent decimal.Decimal, rules AccountingRules) (Money, error) {
	vat, err := VATAmount(base, ratePercent, rules)
	if err != nil {
		return Money{}, err
	}
	return base.Add(vat)
}
