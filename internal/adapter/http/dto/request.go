package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// JournalLineRequest is one journal line in a voucher request. Amounts
// are in the voucher's base currency; exactly one of debit/credit must be
// positive.
type JournalLineRequest struct {
	AccountCode        string          `json:"account_code"`
	Debit              decimal.Decimal `json:"debit"`
	Credit             decimal.Decimal `json:"credit"`
	CounterpartAccount string          `json:"counterpart_account,omitempty"`
	Description        string          `json:"description,omitempty"`
	Quantity           decimal.Decimal `json:"quantity,omitempty"`
	ForeignAmount      decimal.Decimal `json:"foreign_amount,omitempty"`
	ForeignCurrency    string          `json:"foreign_currency,omitempty"`
	RateApplied        decimal.Decimal `json:"rate_applied,omitempty"`
	TaxCode            string          `json:"tax_code,omitempty"`
	TaxRate            decimal.Decimal `json:"tax_rate,omitempty"`
	ObjectCode         string          `json:"object_code,omitempty"`
	ContractCode       string          `json:"contract_code,omitempty"`
}

func (l JournalLineRequest) toDomain(currency string) domain.JournalLine {
	line := domain.JournalLine{
		AccountCode:        l.AccountCode,
		Debit:              domain.NewMoney(l.Debit, currency),
		Credit:             domain.NewMoney(l.Credit, currency),
		CounterpartAccount: l.CounterpartAccount,
		Description:        l.Description,
		Quantity:           l.Quantity,
		RateApplied:        l.RateApplied,
		TaxCode:            l.TaxCode,
		TaxRate:            l.TaxRate,
		ObjectCode:         l.ObjectCode,
		ContractCode:       l.ContractCode,
	}
	if l.ForeignCurrency != "" {
		line.ForeignAmount = domain.NewMoney(l.ForeignAmount, l.ForeignCurrency)
	}
	return line
}

// CreateVoucherRequest represents a request to create a draft voucher.
type CreateVoucherRequest struct {
	CompanyID   string               `json:"company_id"`
	Type        string               `json:"type"`
	VoucherDate time.Time            `json:"voucher_date"`
	Description string               `json:"description"`
	DocumentRef string               `json:"document_ref,omitempty"`
	Lines       []JournalLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateVoucherRequest) ToUseCaseInput(actor usecase.Actor, currency string) usecase.CreateVoucherInput {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = l.toDomain(currency)
	}
	return usecase.CreateVoucherInput{
		Actor:       actor,
		CompanyID:   r.CompanyID,
		Type:        domain.VoucherType(r.Type),
		VoucherDate: r.VoucherDate,
		Description: r.Description,
		DocumentRef: r.DocumentRef,
		Lines:       lines,
	}
}

// PostVoucherRequest represents a request to post a draft voucher.
type PostVoucherRequest struct {
	PostingDate time.Time `json:"posting_date"`
	Version     int64     `json:"version"`
}

// SignVoucherRequest represents a request to sign a posted voucher.
type SignVoucherRequest struct {
	SignerID  string `json:"signer_id"`
	Signature string `json:"signature"`
	Version   int64  `json:"version"`
}

// AmendVoucherRequest represents a request to amend voucher fields.
type AmendVoucherRequest struct {
	Description string `json:"description"`
	DocumentRef string `json:"document_ref"`
	Version     int64  `json:"version"`
}

// LockPeriodRequest represents a request to close and lock a period.
type LockPeriodRequest struct {
	LockLevel string `json:"lock_level"`
}

// RunProvisionRequest represents a request for a provisioning run.
type RunProvisionRequest struct {
	CompanyID string    `json:"company_id"`
	AsOf      time.Time `json:"as_of"`
}

// IssueStockRequest represents a request to issue stock at cost.
type IssueStockRequest struct {
	CompanyID   string          `json:"company_id"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	Method      string          `json:"method"`
	IssueDate   time.Time       `json:"issue_date"`
	Description string          `json:"description,omitempty"`
}

// ReconcileStockRequest represents a request to reconcile a physical
// count.
type ReconcileStockRequest struct {
	CompanyID   string          `json:"company_id"`
	ProductCode string          `json:"product_code"`
	ActualQty   decimal.Decimal `json:"actual_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CountDate   time.Time       `json:"count_date"`
}

// SaveRateRequest represents a request to record an exchange rate quote.
type SaveRateRequest struct {
	Currency      string          `json:"currency"`
	Rate          decimal.Decimal `json:"rate"`
	Type          string          `json:"type"`
	ValuationDate time.Time       `json:"valuation_date"`
	Source        string          `json:"source,omitempty"`
}

// ToDomain converts to a domain exchange rate.
func (r *SaveRateRequest) ToDomain() domain.ExchangeRate {
	return domain.ExchangeRate{
		Rate:          r.Rate,
		Currency:      r.Currency,
		Type:          domain.RateType(r.Type),
		ValuationDate: r.ValuationDate,
		Source:        r.Source,
	}
}

// RevaluePositionsRequest represents a request for a period-end FX
// revaluation run.
type RevaluePositionsRequest struct {
	CompanyID     string    `json:"company_id"`
	ValuationDate time.Time `json:"valuation_date"`
}
