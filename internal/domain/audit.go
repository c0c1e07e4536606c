package domain

import (
	"encoding/json"
	"time"
)

// AuditAction identifies what a mutating operation did.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionPost   AuditAction = "POST"
	AuditActionSign   AuditAction = "SIGN"
	AuditActionLock   AuditAction = "LOCK"
	AuditActionUnlock AuditAction = "UNLOCK"
)

// AuditRecord is the before/after description every mutating engine
// operation returns. Emission is part of the transition itself: a caller
// that accepts the new state has the record in hand and is responsible
// for persisting it append-only, in the same transaction.
type AuditRecord struct {
	EntityType string
	EntityID   string
	Action     AuditAction
	OldValue   JSON
	NewValue   JSON
}

// AuditLog is a persisted audit record enriched with caller context.
// Append-only: never updated, never deleted.
type AuditLog struct {
	ID         string
	CompanyID  string
	UserID     string
	UserIP     string
	UserAgent  string
	EntityType string
	EntityID   string
	Action     AuditAction
	OldValue   JSON
	NewValue   JSON
	CreatedAt  time.Time
}

// JSON holds a serialized field snapshot.
type JSON map[string]any

// MarshalState converts an entity to its JSON field snapshot for an
// audit record. Marshal failures are recorded rather than swallowed.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter selects audit logs for querying.
type AuditFilter struct {
	CompanyID  string
	UserID     string
	EntityType string
	EntityID   string
	Action     AuditAction
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}
