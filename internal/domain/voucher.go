package domain

import (
	"fmt"
	"time"
)

// VoucherType is the source-document kind per the voucher annex.
type VoucherType string

const (
	VoucherReceipt    VoucherType = "THU"
	VoucherPayment    VoucherType = "CHI"
	VoucherPurchase   VoucherType = "MUA"
	VoucherSale       VoucherType = "BAN"
	VoucherShortage   VoucherType = "KPH"
	VoucherSurplus    VoucherType = "KPD"
	VoucherAdjustment VoucherType = "DIEU_CHINH"
	VoucherOther      VoucherType = "KHAC"
)

// VoucherState is the document lifecycle: draft, posted, signed. A single
// tagged value — there is no reachable signed-but-not-posted combination.
// The period lock is a cross-cutting veto carried in LockStatus, not a
// forward state.
type VoucherState string

const (
	VoucherDraft  VoucherState = "DRAFT"
	VoucherPosted VoucherState = "POSTED"
	VoucherSigned VoucherState = "SIGNED"
)

// Voucher is a source accounting document. It owns its journal entries
// and lines: single writer, single lifetime. Version is the optimistic
// concurrency token; every accepted transition increments it.
type Voucher struct {
	ID            string
	VoucherNumber string
	Type          VoucherType
	VoucherDate   time.Time
	PostingDate   *time.Time
	Description   string
	DocumentRef   string
	CompanyID     string
	CreatedBy     string
	State         VoucherState
	SignedAt      *time.Time
	SignerID      string
	SignatureData string
	LockStatus    LockStatus
	LockedAt      *time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanModify reports whether field mutations are currently legal: the
// owning period must be unlocked and the voucher not yet signed.
func (v Voucher) CanModify() bool {
	return v.LockStatus == LockOpen && v.State != VoucherSigned
}

// AssertModifiable is the mutation gate shared by every field change.
func (v Voucher) AssertModifiable() error {
	if !v.CanModify() {
		return &ImmutableVoucherError{
			VoucherNumber: v.VoucherNumber,
			State:         v.State,
			LockStatus:    v.LockStatus,
		}
	}
	return nil
}

// Post transitions DRAFT -> POSTED. The caller must have verified the
// balance law on the owning journal entries first; a voucher only reaches
// this transition with balanced entries in the same call. Irreversible.
func (v Voucher) Post(postingDate time.Time, now time.Time) (Voucher, AuditRecord, error) {
	if err := v.AssertModifiable(); err != nil {
		return Voucher{}, AuditRecord{}, err
	}
	if v.State != VoucherDraft {
		return Voucher{}, AuditRecord{}, &InvalidInputError{
			Field:  "state",
			Reason: fmt.Sprintf("cannot post voucher in state %s", v.State),
		}
	}

	updated := v
	updated.State = VoucherPosted
	updated.PostingDate = &postingDate
	updated.Version++
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "Voucher",
		EntityID:   v.ID,
		Action:     AuditActionPost,
		OldValue:   MarshalState(v),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// Sign transitions POSTED -> SIGNED exactly once, recording signer
// identity, timestamp and signature payload. A second attempt fails with
// AlreadySignedError carrying the original signature facts.
func (v Voucher) Sign(signerID, signature string, now time.Time) (Voucher, AuditRecord, error) {
	// The period lock is a cross-cutting veto; it wins over the
	// idempotency guard.
	if v.LockStatus != LockOpen {
		return Voucher{}, AuditRecord{}, &ImmutableVoucherError{
			VoucherNumber: v.VoucherNumber,
			State:         v.State,
			LockStatus:    v.LockStatus,
		}
	}
	if v.State == VoucherSigned {
		signedAt := now
		if v.SignedAt != nil {
			signedAt = *v.SignedAt
		}
		return Voucher{}, AuditRecord{}, &AlreadySignedError{
			VoucherNumber: v.VoucherNumber,
			SignerID:      v.SignerID,
			SignedAt:      signedAt,
		}
	}
	if v.State != VoucherPosted {
		return Voucher{}, AuditRecord{}, &InvalidInputError{
			Field:  "state",
			Reason: fmt.Sprintf("cannot sign voucher in state %s", v.State),
		}
	}
	if signerID == "" {
		return Voucher{}, AuditRecord{}, &InvalidInputError{Field: "signerID", Reason: "must not be empty"}
	}

	updated := v
	updated.State = VoucherSigned
	updated.SignedAt = &now
	updated.SignerID = signerID
	updated.SignatureData = signature
	updated.Version++
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "Voucher",
		EntityID:   v.ID,
		Action:     AuditActionSign,
		OldValue:   MarshalState(v),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// ApplyPeriodLock freezes the voucher when its owning period closes. This
// is the cross-cutting veto: it applies regardless of sign state and is
// reversed only by the administrative period unlock.
func (v Voucher) ApplyPeriodLock(level LockStatus, now time.Time) (Voucher, AuditRecord, error) {
	if !ValidLockLevel(level) {
		return Voucher{}, AuditRecord{}, &InvalidInputError{
			Field: "lockStatus", Reason: "unknown lock level " + string(level),
		}
	}

	updated := v
	updated.LockStatus = level
	updated.LockedAt = &now
	updated.Version++
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "Voucher",
		EntityID:   v.ID,
		Action:     AuditActionLock,
		OldValue:   MarshalState(v),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// Amend applies a description/document-reference change. Legal in any
// state except signed or period-locked.
func (v Voucher) Amend(description, documentRef string, now time.Time) (Voucher, AuditRecord, error) {
	if err := v.AssertModifiable(); err != nil {
		return Voucher{}, AuditRecord{}, err
	}

	updated := v
	updated.Description = description
	updated.DocumentRef = documentRef
	updated.Version++
	updated.UpdatedAt = now

	rec := AuditRecord{
		EntityType: "Voucher",
		EntityID:   v.ID,
		Action:     AuditActionUpdate,
		OldValue:   MarshalState(v),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// VoucherNumberFor formats a sequential voucher number for a date.
func VoucherNumberFor(date time.Time, seq int) string {
	return fmt.Sprintf("CT/%s/%03d", date.Format("20060102"), seq)
}
