package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// RevaluationHandler handles exchange-rate HTTP requests.
type RevaluationHandler struct {
	revaluationUC *usecase.RevaluationUseCase
}

// NewRevaluationHandler creates a new RevaluationHandler.
func NewRevaluationHandler(revaluationUC *usecase.RevaluationUseCase) *RevaluationHandler {
	return &RevaluationHandler{revaluationUC: revaluationUC}
}

// SaveRate records an exchange rate quote.
func (h *RevaluationHandler) SaveRate(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rate := req.ToDomain()
	if err := h.revaluationUC.SaveRate(r.Context(), rate); err != nil {
		writeError(w, mapDomainError(err), "failed to save rate", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// GetLatestRate returns the most recent rate of a type on or before a
// date.
func (h *RevaluationHandler) GetLatestRate(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		writeError(w, http.StatusBadRequest, "missing currency", "")
		return
	}

	rateType := domain.RateType(r.URL.Query().Get("type"))
	if rateType == "" {
		rateType = domain.RatePeriodEnd
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

	rate, err := h.revaluationUC.LatestRate(r.Context(), currency, rateType, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SaveRateRequest{
		Currency:      rate.Currency,
		Rate:          rate.Rate,
		Type:          string(rate.Type),
		ValuationDate: rate.ValuationDate,
		Source:        rate.Source,
	})
}

// Revalue executes a period-end revaluation of open foreign-currency
// balances.
func (h *RevaluationHandler) Revalue(w http.ResponseWriter, r *http.Request) {
	var req dto.RevaluePositionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.revaluationUC.RevaluePositions(r.Context(), usecase.RevaluePositionsInput{
		Actor:         actorFrom(r),
		CompanyID:     req.CompanyID,
		ValuationDate: req.ValuationDate,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to revalue positions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RevaluationFromResult(result))
}
