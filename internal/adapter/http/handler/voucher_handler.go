package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// VoucherHandler handles voucher-related HTTP requests.
type VoucherHandler struct {
	voucherUC *usecase.VoucherUseCase
	rules     domain.AccountingRules
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(voucherUC *usecase.VoucherUseCase, rules domain.AccountingRules) *VoucherHandler {
	return &VoucherHandler{voucherUC: voucherUC, rules: rules}
}

// Create creates a new draft voucher with its journal lines.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	voucher, err := h.voucherUC.CreateVoucher(r.Context(), req.ToUseCaseInput(actorFrom(r), h.rules.BaseCurrency))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(voucher))
}

// Post transitions a draft voucher to posted.
func (h *VoucherHandler) Post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	var req dto.PostVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	voucher, err := h.voucherUC.PostVoucher(r.Context(), usecase.PostVoucherInput{
		Actor:       actorFrom(r),
		VoucherID:   id,
		PostingDate: req.PostingDate,
		Version:     req.Version,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// Sign records the one-time signature on a posted voucher.
func (h *VoucherHandler) Sign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	var req dto.SignVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	voucher, err := h.voucherUC.SignVoucher(r.Context(), usecase.SignVoucherInput{
		Actor:     actorFrom(r),
		VoucherID: id,
		SignerID:  req.SignerID,
		Signature: req.Signature,
		Version:   req.Version,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to sign voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// Amend updates the mutable fields of an unsigned, unlocked voucher.
func (h *VoucherHandler) Amend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	var req dto.AmendVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	voucher, err := h.voucherUC.AmendVoucher(r.Context(), usecase.AmendVoucherInput{
		Actor:       actorFrom(r),
		VoucherID:   id,
		Description: req.Description,
		DocumentRef: req.DocumentRef,
		Version:     req.Version,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to amend voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// Get retrieves a voucher by ID.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	voucher, err := h.voucherUC.GetVoucher(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// List lists vouchers for a company.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company_id", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	vouchers, err := h.voucherUC.ListVouchers(r.Context(), companyID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vouchers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VouchersFromDomain(vouchers))
}

// CheckBalance reports whether a voucher's entries satisfy the balance
// law.
func (h *VoucherHandler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	result, err := h.voucherUC.CheckBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceCheckResponse{
		Balanced:    result.Balanced,
		TotalDebit:  result.TotalDebit.Amount,
		TotalCredit: result.TotalCredit.Amount,
	})
}
