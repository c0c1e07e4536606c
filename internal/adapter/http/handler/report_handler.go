package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vietacct/ledgerkit/internal/usecase"
)

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	reportUC *usecase.ReportUseCase
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// TrialBalance returns the trial balance of a period.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	report, err := h.reportUC.GetTrialBalance(r.Context(), periodID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// BalanceSheet returns the grouped balance sheet of a period.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	statement, err := h.reportUC.GetBalanceSheet(r.Context(), periodID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build balance sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statement)
}

// IncomeStatement returns the grouped income statement of a period.
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	statement, err := h.reportUC.GetIncomeStatement(r.Context(), periodID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build income statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statement)
}
