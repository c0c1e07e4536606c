package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CostMethod is the cost-flow assumption, selected per call rather than
// per global configuration.
type CostMethod string

const (
	CostFIFO        CostMethod = "FIFO"
	CostLIFO        CostMethod = "LIFO"
	CostWeightedAvg CostMethod = "WEIGHTED_AVG"
)

// Lot is a receipt of inventory still (partially) on hand.
type Lot struct {
	ID          string
	ProductCode string
	Quantity    decimal.Decimal
	UnitCost    Money
	ReceiptDate time.Time
}

// LotConsumption is how much of one lot an issue consumed.
type LotConsumption struct {
	LotID    string
	Quantity decimal.Decimal
	UnitCost Money
}

// CostingResult is the outcome of a cost-of-goods computation. For FIFO
// and LIFO the consumptions sum exactly to TotalCost; weighted average
// carries the blended unit cost on every consumption but still draws the
// physical quantity down from real lots.
type CostingResult struct {
	Method       CostMethod
	TotalCost    Money
	Consumptions []LotConsumption
}

// CostOfGoods computes the cost of issuing quantity units against the
// available lots using the given method. Partial lot consumption is
// allowed. Rounding is applied once, to the final total.
func CostOfGoods(productCode string, quantity decimal.Decimal, lots []Lot, method CostMethod) (CostingResult, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return CostingResult{}, &InvalidInputError{Field: "quantity", Reason: "must be positive"}
	}

	available := decimal.Zero
	for _, lot := range lots {
		if lot.Quantity.IsNegative() {
			return CostingResult{}, &InvalidInputError{
				Field: "lot " + lot.ID, Reason: "quantity must not be negative",
			}
		}
		available = available.Add(lot.Quantity)
	}

	if quantity.GreaterThan(available) {
		return CostingResult{}, &InsufficientStockError{
			ProductCode: productCode,
			Requested:   quantity,
			Available:   available,
		}
	}

	switch method {
	case CostFIFO, CostLIFO:
		return consumeLots(quantity, lots, method)
	case CostWeightedAvg:
		return weightedAverage(quantity, lots)
	default:
		return CostingResult{}, &InvalidInputError{
			Field: "method", Reason: "unknown cost method " + string(method),
		}
	}
}

func consumeLots(quantity decimal.Decimal, lots []Lot, method CostMethod) (CostingResult, error) {
	ordered := make([]Lot, len(lots))
	copy(ordered, lots)

	sort.SliceStable(ordered, func(i, j int) bool {
		if method == CostLIFO {
			return ordered[i].ReceiptDate.After(ordered[j].ReceiptDate)
		}
		return ordered[i].ReceiptDate.Before(ordered[j].ReceiptDate)
	})

	remaining := quantity
	total := ZeroMoney(BaseCurrency)
	var consumptions []LotConsumption

	for _, lot := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lot.Quantity.IsZero() {
			continue
		}

		take := decimal.Min(remaining, lot.Quantity)
		cost := lot.UnitCost.MulRate(take)

		var err error
		total, err = total.Add(cost)
		if err != nil {
			return CostingResult{}, err
		}

		consumptions = append(consumptions, LotConsumption{
			LotID:    lot.ID,
			Quantity: take,
			UnitCost: lot.UnitCost,
		})
		remaining = remaining.Sub(take)
	}

	return CostingResult{
		Method:       method,
		TotalCost:    total.Round(),
		Consumptions: consumptions,
	}, nil
}

func weightedAverage(quantity decimal.Decimal, lots []Lot) (CostingResult, error) {
	totalQty := decimal.Zero
	totalValue := ZeroMoney(BaseCurrency)

	for _, lot := range lots {
		totalQty = totalQty.Add(lot.Quantity)

		var err error
		totalValue, err = totalValue.Add(lot.UnitCost.MulRate(lot.Quantity))
		if err != nil {
			return CostingResult{}, err
		}
	}

	// Blended cost stays unrounded; the single rounding happens on the
	// final total.
	blended := totalValue.Amount.Div(totalQty)
	blendedCost := Money{Amount: blended, Currency: totalValue.Currency}
	total := Money{Amount: blended.Mul(quantity), Currency: totalValue.Currency}

	// Only the cost is blended: the physical quantity still comes out of
	// real lots, oldest receipt first, so book stock falls with the issue.
	ordered := make([]Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ReceiptDate.Before(ordered[j].ReceiptDate)
	})

	remaining := quantity
	var consumptions []LotConsumption
	for _, lot := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lot.Quantity.IsZero() {
			continue
		}

		take := decimal.Min(remaining, lot.Quantity)
		consumptions = append(consumptions, LotConsumption{
			LotID:    lot.ID,
			Quantity: take,
			UnitCost: blendedCost,
		})
		remaining = remaining.Sub(take)
	}

	return CostingResult{
		Method:       CostWeightedAvg,
		TotalCost:    total.Round(),
		Consumptions: consumptions,
	}, nil
}

// Reconciliation is the posting a physical count produces.
type Reconciliation struct {
	ProductCode string
	Difference  decimal.Decimal
	Amount      Money
	AccountCode string
}

// ReconcileInventory compares a physical count against the book quantity.
// A shortage posts to the shortage-pending account, a surplus to the
// surplus-pending account; a zero difference returns ok=false and must
// not be posted.
func ReconcileInventory(productCode string, actualQty, bookQty decimal.Decimal, unitCost Money, rules AccountingRules) (Reconciliation, bool, error) {
	if actualQty.IsNegative() || bookQty.IsNegative() {
		return Reconciliation{}, false, &InvalidInputError{
			Field: "quantity", Reason: "must not be negative",
		}
	}
	if unitCost.IsNegative() {
		return Reconciliation{}, false, &InvalidInputError{
			Field: "unitCost", Reason: "must not be negative",
		}
	}

	diff := actualQty.Sub(bookQty)
	if diff.IsZero() {
		return Reconciliation{}, false, nil
	}

	account := rules.SurplusPendingAccount
	if diff.IsNegative() {
		account = rules.ShortagePendingAccount
	}

	return Reconciliation{
		ProductCode: productCode,
		Difference:  diff,
		Amount:      unitCost.MulRate(diff.Abs()).Round(),
		AccountCode: account,
	}, true, nil
}
