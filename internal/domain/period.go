package domain

import (
	"time"
)

// PeriodType is the granularity of a fiscal period.
type PeriodType string

const (
	PeriodMonth   PeriodType = "MONTH"
	PeriodQuarter PeriodType = "QUARTER"
	PeriodYear    PeriodType = "YEAR"
)

// LockStatus is the closing level of a fiscal period or of the voucher it
// freezes.
type LockStatus string

const (
	LockOpen      LockStatus = "OPEN"
	LockMonth     LockStatus = "MONTH_LOCKED"
	LockQuarter   LockStatus = "QUARTER_LOCKED"
	LockYear      LockStatus = "YEAR_LOCKED"
	LockFinalized LockStatus = "FINALIZED"
)

// ValidLockLevel reports whether s is a closing level a period or a
// voucher can be locked to. OPEN is not a closing level.
func ValidLockLevel(s LockStatus) bool {
	switch s {
	case LockMonth, LockQuarter, LockYear, LockFinalized:
		return true
	}
	return false
}

// lockRank orders lock levels so closing only escalates.
func lockRank(s LockStatus) int {
	switch s {
	case LockOpen:
		return 0
	case LockMonth:
		return 1
	case LockQuarter:
		return 2
	case LockYear:
		return 3
	case LockFinalized:
		return 4
	}
	return -1
}

// FiscalPeriod is an accounting period of one company. Once locked, every
// entity dated inside [StartDate, EndDate] is immutable; the engine never
// auto-unlocks — unlocking is a separately audited administrative action.
type FiscalPeriod struct {
	ID          string
	CompanyID   string
	Type        PeriodType
	Year        int
	PeriodValue int
	StartDate   time.Time
	EndDate     time.Time
	LockStatus  LockStatus
	LockedAt    *time.Time
	LockedBy    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLocked reports whether the period rejects mutations.
func (p FiscalPeriod) IsLocked() bool {
	return p.LockStatus != LockOpen
}

// Contains reports whether a date falls inside the period, boundaries
// inclusive.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// AssertMutationAllowed is the gate every mutating operation reachable
// post-close must pass first. Pure check, no side effect.
func (p FiscalPeriod) AssertMutationAllowed(entityDate time.Time) error {
	if p.IsLocked() && p.Contains(entityDate) {
		return &PeriodLockedError{
			PeriodType:  p.Type,
			Year:        p.Year,
			PeriodValue: p.PeriodValue,
			LockStatus:  p.LockStatus,
			Date:        entityDate,
		}
	}
	return nil
}

// Lock transitions the period to the given closing level. Locking is
// one-directional from the engine's point of view: levels only escalate
// (MONTH_LOCKED -> QUARTER_LOCKED -> YEAR_LOCKED -> FINALIZED) and a
// locked period never reopens here.
func (p FiscalPeriod) Lock(level LockStatus, lockedBy string, now time.Time) (FiscalPeriod, AuditRecord, error) {
	if !ValidLockLevel(level) {
		return FiscalPeriod{}, AuditRecord{}, &InvalidInputError{
			Field: "lockStatus", Reason: "unknown lock level " + string(level),
		}
	}
	if lockRank(level) <= lockRank(p.LockStatus) {
		return FiscalPeriod{}, AuditRecord{}, &PeriodLockedError{
			PeriodType:  p.Type,
			Year:        p.Year,
			PeriodValue: p.PeriodValue,
			LockStatus:  p.LockStatus,
			Date:        p.StartDate,
		}
	}

	updated := p
	updated.LockStatus = level
	updated.LockedAt = &now
	updated.LockedBy = lockedBy
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "FiscalPeriod",
		EntityID:   p.ID,
		Action:     AuditActionLock,
		OldValue:   MarshalState(p),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// Unlock reverses a lock. This is the explicit administrative action
// outside the engine's normal flow; it still emits its own audit record.
func (p FiscalPeriod) Unlock(unlockedBy string, now time.Time) (FiscalPeriod, AuditRecord, error) {
	if !p.IsLocked() {
		return FiscalPeriod{}, AuditRecord{}, &InvalidInputError{
			Field: "lockStatus", Reason: "period is not locked",
		}
	}

	updated := p
	updated.LockStatus = LockOpen
	updated.LockedAt = nil
	updated.LockedBy = unlockedBy
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "FiscalPeriod",
		EntityID:   p.ID,
		Action:     AuditActionUnlock,
		OldValue:   MarshalState(p),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}
