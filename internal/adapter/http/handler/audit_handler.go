package handler

import (
	"net/http"
	"time"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// AuditHandler handles audit trail HTTP requests.
type AuditHandler struct {
	auditUC *usecase.AuditUseCase
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// List returns audit logs matching the query filters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		CompanyID:  q.Get("company_id"),
		UserID:     q.Get("user_id"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Action:     domain.AuditAction(q.Get("action")),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if v := q.Get("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
			return
		}
		filter.StartDate = &parsed
	}
	if v := q.Get("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
			return
		}
		filter.EndDate = &parsed
	}

	logs, err := h.auditUC.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
