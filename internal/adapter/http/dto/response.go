package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// VoucherResponse represents a voucher in API responses.
type VoucherResponse struct {
	ID            string     `json:"id"`
	VoucherNumber string     `json:"voucher_number"`
	Type          string     `json:"type"`
	VoucherDate   time.Time  `json:"voucher_date"`
	PostingDate   *time.Time `json:"posting_date,omitempty"`
	Description   string     `json:"description"`
	DocumentRef   string     `json:"document_ref,omitempty"`
	CompanyID     string     `json:"company_id"`
	State         string     `json:"state"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	SignerID      string     `json:"signer_id,omitempty"`
	LockStatus    string     `json:"lock_status"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// VoucherFromDomain converts a domain voucher to a response.
func VoucherFromDomain(v *domain.Voucher) *VoucherResponse {
	return &VoucherResponse{
		ID:            v.ID,
		VoucherNumber: v.VoucherNumber,
		Type:          string(v.Type),
		VoucherDate:   v.VoucherDate,
		PostingDate:   v.PostingDate,
		Description:   v.Description,
		DocumentRef:   v.DocumentRef,
		CompanyID:     v.CompanyID,
		State:         string(v.State),
		SignedAt:      v.SignedAt,
		SignerID:      v.SignerID,
		LockStatus:    string(v.LockStatus),
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// VouchersFromDomain converts domain vouchers to responses.
func VouchersFromDomain(vouchers []*domain.Voucher) []*VoucherResponse {
	result := make([]*VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		result[i] = VoucherFromDomain(v)
	}
	return result
}

// PeriodResponse represents a fiscal period in API responses.
type PeriodResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Type        string     `json:"type"`
	Year        int        `json:"year"`
	PeriodValue int        `json:"period_value"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	LockStatus  string     `json:"lock_status"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	LockedBy    string     `json:"locked_by,omitempty"`
}

// PeriodFromDomain converts a domain period to a response.
func PeriodFromDomain(p *domain.FiscalPeriod) *PeriodResponse {
	return &PeriodResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Type:        string(p.Type),
		Year:        p.Year,
		PeriodValue: p.PeriodValue,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		LockStatus:  string(p.LockStatus),
		LockedAt:    p.LockedAt,
		LockedBy:    p.LockedBy,
	}
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.FiscalPeriod) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// LockPeriodResponse reports what a period close produced.
type LockPeriodResponse struct {
	Period         *PeriodResponse `json:"period"`
	LockedVouchers int             `json:"locked_vouchers"`
	Snapshots      int             `json:"snapshots"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// ProvisionCalculationResponse represents one provisioning row.
type ProvisionCalculationResponse struct {
	ID              string          `json:"id"`
	CustomerCode    string          `json:"customer_code,omitempty"`
	CalculationDate time.Time       `json:"calculation_date"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	OverdueDays     int             `json:"overdue_days"`
	Rate            decimal.Decimal `json:"rate"`
	Provision       decimal.Decimal `json:"provision"`
	Type            string          `json:"type"`
	RulesVersion    string          `json:"rules_version"`
}

// ProvisionCalcFromDomain converts one provisioning row to a response.
func ProvisionCalcFromDomain(c domain.ProvisionCalculation) ProvisionCalculationResponse {
	return ProvisionCalculationResponse{
		ID:              c.ID,
		CustomerCode:    c.CustomerCode,
		CalculationDate: c.CalculationDate,
		OriginalAmount:  c.OriginalAmount.Amount,
		OverdueDays:     c.OverdueDays,
		Rate:            c.Rate,
		Provision:       c.Provision.Amount,
		Type:            string(c.Type),
		RulesVersion:    c.RulesVersion,
	}
}

// ProvisionRunResponse summarizes a provisioning run.
type ProvisionRunResponse struct {
	SpecificProvision decimal.Decimal                `json:"specific_provision"`
	GeneralProvision  decimal.Decimal                `json:"general_provision"`
	Calculations      []ProvisionCalculationResponse `json:"calculations"`
}

// ProvisionRunFromResult converts a provisioning run result.
func ProvisionRunFromResult(r *usecase.RunProvisionResult) *ProvisionRunResponse {
	calcs := make([]ProvisionCalculationResponse, len(r.Calculations))
	for i, c := range r.Calculations {
		calcs[i] = ProvisionCalcFromDomain(c)
	}
	return &ProvisionRunResponse{
		SpecificProvision: r.SpecificProvision.Amount,
		GeneralProvision:  r.GeneralProvision.Amount,
		Calculations:      calcs,
	}
}

// LotConsumptionResponse is one consumed slice of a lot.
type LotConsumptionResponse struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CostingResponse represents a cost-of-goods outcome.
type CostingResponse struct {
	Method       string                   `json:"method"`
	TotalCost    decimal.Decimal          `json:"total_cost"`
	Consumptions []LotConsumptionResponse `json:"consumptions"`
}

// CostingFromDomain converts a costing result to a response.
func CostingFromDomain(c domain.CostingResult) CostingResponse {
	consumptions := make([]LotConsumptionResponse, len(c.Consumptions))
	for i, lc := range c.Consumptions {
		consumptions[i] = LotConsumptionResponse{
			LotID:    lc.LotID,
			Quantity: lc.Quantity,
			UnitCost: lc.UnitCost.Amount,
		}
	}
	return CostingResponse{
		Method:       string(c.Method),
		TotalCost:    c.TotalCost.Amount,
		Consumptions: consumptions,
	}
}

// IssueStockResponse reports an executed stock issue.
type IssueStockResponse struct {
	Voucher *VoucherResponse `json:"voucher"`
	Costing CostingResponse  `json:"costing"`
}

// ReconcileStockResponse reports a physical count reconciliation.
type ReconcileStockResponse struct {
	ProductCode string           `json:"product_code"`
	Difference  decimal.Decimal  `json:"difference"`
	Amount      decimal.Decimal  `json:"amount"`
	AccountCode string           `json:"account_code,omitempty"`
	Posted      bool             `json:"posted"`
	Voucher     *VoucherResponse `json:"voucher,omitempty"`
}

// RevaluationResponse summarizes an FX revaluation run.
type RevaluationResponse struct {
	Diffs   []PositionDiffResponse `json:"diffs"`
	Skipped int                    `json:"skipped"`
	Voucher *VoucherResponse       `json:"voucher,omitempty"`
}

// PositionDiffResponse is one revalued position.
type PositionDiffResponse struct {
	AccountCode   string          `json:"account_code"`
	Currency      string          `json:"currency"`
	Diff          decimal.Decimal `json:"diff"`
	TargetAccount string          `json:"target_account"`
	TargetType    string          `json:"target_type"`
}

// RevaluationFromResult converts a revaluation run result.
func RevaluationFromResult(r *usecase.RevaluePositionsResult) *RevaluationResponse {
	diffs := make([]PositionDiffResponse, len(r.Diffs))
	for i, d := range r.Diffs {
		diffs[i] = PositionDiffResponse{
			AccountCode:   d.AccountCode,
			Currency:      d.Currency,
			Diff:          d.Diff.Amount,
			TargetAccount: d.TargetClass.AccountCode,
			TargetType:    string(d.TargetClass.AccountType),
		}
	}
	resp := &RevaluationResponse{Diffs: diffs, Skipped: r.Skipped}
	if r.Voucher != nil {
		resp.Voucher = VoucherFromDomain(r.Voucher)
	}
	return resp
}

// AuditLogResponse represents one audit trail row.
type AuditLogResponse struct {
	ID         string      `json:"id"`
	CompanyID  string      `json:"company_id"`
	UserID     string      `json:"user_id"`
	UserIP     string      `json:"user_ip,omitempty"`
	UserAgent  string      `json:"user_agent,omitempty"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	Action     string      `json:"action"`
	OldValue   domain.JSON `json:"old_value,omitempty"`
	NewValue   domain.JSON `json:"new_value,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []AuditLogResponse {
	result := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogResponse{
			ID:         l.ID,
			CompanyID:  l.CompanyID,
			UserID:     l.UserID,
			UserIP:     l.UserIP,
			UserAgent:  l.UserAgent,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Action:     string(l.Action),
			OldValue:   l.OldValue,
			NewValue:   l.NewValue,
			CreatedAt:  l.CreatedAt,
		}
	}
	return result
}

// BalanceCheckResponse reports the balance state of a voucher.
type BalanceCheckResponse struct {
	Balanced    bool            `json:"balanced"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}
