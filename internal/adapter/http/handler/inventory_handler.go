package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// InventoryHandler handles inventory costing HTTP requests.
type InventoryHandler struct {
	inventoryUC *usecase.InventoryUseCase
	rules       domain.AccountingRules
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryUC *usecase.InventoryUseCase, rules domain.AccountingRules) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC, rules: rules}
}

// Issue issues stock at cost and posts cost of goods sold.
func (h *InventoryHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.inventoryUC.IssueStock(r.Context(), usecase.IssueStockInput{
		Actor:       actorFrom(r),
		CompanyID:   req.CompanyID,
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		Method:      domain.CostMethod(req.Method),
		IssueDate:   req.IssueDate,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to issue stock", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.IssueStockResponse{
		Voucher: dto.VoucherFromDomain(result.Voucher),
		Costing: dto.CostingFromDomain(result.Costing),
	})
}

// Reconcile compares a physical count against the book quantity.
func (h *InventoryHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconcileStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.inventoryUC.ReconcileStock(r.Context(), usecase.ReconcileStockInput{
		Actor:       actorFrom(r),
		CompanyID:   req.CompanyID,
		ProductCode: req.ProductCode,
		ActualQty:   req.ActualQty,
		UnitCost:    domain.NewMoney(req.UnitCost, h.rules.BaseCurrency),
		CountDate:   req.CountDate,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile stock", err.Error())
		return
	}

	resp := dto.ReconcileStockResponse{
		ProductCode: req.ProductCode,
		Difference:  result.Reconciliation.Difference,
		Amount:      result.Reconciliation.Amount.Amount,
		AccountCode: result.Reconciliation.AccountCode,
		Posted:      result.Posted,
	}
	if result.Voucher != nil {
		resp.Voucher = dto.VoucherFromDomain(result.Voucher)
	}
	writeJSON(w, http.StatusOK, resp)
}

// PreviewCost computes the cost a prospective issue would carry.
func (h *InventoryHandler) PreviewCost(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	costing, err := h.inventoryUC.PreviewCost(r.Context(), req.CompanyID, req.ProductCode, req.Quantity, domain.CostMethod(req.Method))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to preview cost", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CostingFromDomain(costing))
}
