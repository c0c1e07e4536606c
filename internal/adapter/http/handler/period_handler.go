package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// PeriodHandler handles fiscal-period HTTP requests.
type PeriodHandler struct {
	periodUC *usecase.PeriodUseCase
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC *usecase.PeriodUseCase) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// Lock closes and locks a fiscal period.
func (h *PeriodHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	var req dto.LockPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.periodUC.LockPeriod(r.Context(), usecase.LockPeriodInput{
		Actor:     actorFrom(r),
		PeriodID:  id,
		LockLevel: domain.LockStatus(req.LockLevel),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to lock period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LockPeriodResponse{
		Period:         dto.PeriodFromDomain(result.Period),
		LockedVouchers: result.LockedVouchers,
		Snapshots:      result.Snapshots,
		Warnings:       result.Warnings,
	})
}

// Unlock reopens a locked fiscal period.
func (h *PeriodHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	period, err := h.periodUC.UnlockPeriod(r.Context(), usecase.UnlockPeriodInput{
		Actor:    actorFrom(r),
		PeriodID: id,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to unlock period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// List lists fiscal periods for a company year.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company_id", "")
		return
	}
	year := parseIntQuery(r, "year", time.Now().UTC().Year())

	periods, err := h.periodUC.ListPeriods(r.Context(), companyID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list periods", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(periods))
}
