package usecase

import (
	"context"
	"time"

	"github.com/vietacct/ledgerkit/internal/domain"
)

// Actor identifies who performs a mutating operation. Handlers fill it
// from the authenticated request; the engine never sees transport
// details.
type Actor struct {
	UserID    string
	UserIP    string
	UserAgent string
}

// auditLogFrom enriches an engine audit record with caller context. Every
// accepted transition persists exactly one of these, in the same
// transaction as the state it describes.
func auditLogFrom(rec domain.AuditRecord, actor Actor, companyID, id string, now time.Time) *domain.AuditLog {
	return &domain.AuditLog{
		ID:         id,
		CompanyID:  companyID,
		UserID:     actor.UserID,
		UserIP:     actor.UserIP,
		UserAgent:  actor.UserAgent,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Action:     rec.Action,
		OldValue:   rec.OldValue,
		NewValue:   rec.NewValue,
		CreatedAt:  now,
	}
}

// AuditUseCase reads the audit trail.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// List returns audit logs matching the filter.
func (uc *AuditUseCase) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return uc.auditRepo.List(ctx, filter)
}
