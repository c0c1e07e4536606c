package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// ProvisionHandler handles receivable-provisioning HTTP requests.
type ProvisionHandler struct {
	provisionUC *usecase.ProvisionUseCase
}

// NewProvisionHandler creates a new ProvisionHandler.
func NewProvisionHandler(provisionUC *usecase.ProvisionUseCase) *ProvisionHandler {
	return &ProvisionHandler{provisionUC: provisionUC}
}

// Run executes a provisioning run over the open receivables.
func (h *ProvisionHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.RunProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.provisionUC.RunProvision(r.Context(), usecase.RunProvisionInput{
		Actor:     actorFrom(r),
		CompanyID: req.CompanyID,
		AsOf:      req.AsOf,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to run provisioning", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProvisionRunFromResult(result))
}

// List returns persisted provisioning rows covering a date.
func (h *ProvisionHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company_id", "")
		return
	}

	asOf := time.Now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
			return
		}
		asOf = parsed
	}

	calcs, err := h.provisionUC.ListProvisions(r.Context(), companyID, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list provisions", err.Error())
		return
	}

	result := make([]dto.ProvisionCalculationResponse, len(calcs))
	for i, c := range calcs {
		result[i] = dto.ProvisionCalcFromDomain(c)
	}
	writeJSON(w, http.StatusOK, result)
}
