package domain

import (
	"errors"
	"testing"
	"time"
)

func draftVoucher() Voucher {
	return Voucher{
		ID:            "v-1",
		VoucherNumber: "CT/20251215/001",
		Type:          VoucherPurchase,
		VoucherDate:   testDate,
		Description:   "goods purchase",
		CompanyID:     "DEMO",
		CreatedBy:     "admin",
		State:         VoucherDraft,
		LockStatus:    LockOpen,
		Version:       1,
	}
}

func TestVoucher_Post(t *testing.T) {
	now := time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC)

	posted, rec, err := draftVoucher().Post(testDate, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if posted.State != VoucherPosted {
		t.Errorf("state %s, want POSTED", posted.State)
	}
	if posted.PostingDate == nil || !posted.PostingDate.Equal(testDate) {
		t.Error("posting date not recorded")
	}
	if posted.Version != 2 {
		t.Errorf("version %d, want 2", posted.Version)
	}
	if rec.Action != AuditActionPost {
		t.Errorf("audit action %s, want POST", rec.Action)
	}

	// DRAFT -> POSTED is irreversible; posting again is illegal.
	if _, _, err := posted.Post(testDate, now); err == nil {
		t.Error("expected error posting a posted voucher")
	}
}

func TestVoucher_Sign(t *testing.T) {
	now := time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC)

	posted, _, err := draftVoucher().Post(testDate, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	signed, rec, err := posted.Sign("NV001", "SIGNATURE_DATA", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if signed.State != VoucherSigned {
		t.Errorf("state %s, want SIGNED", signed.State)
	}
	if signed.SignerID != "NV001" || signed.SignatureData != "SIGNATURE_DATA" {
		t.Error("signer identity and payload not recorded")
	}
	if signed.SignedAt == nil {
		t.Error("signing timestamp not recorded")
	}
	if signed.Version != posted.Version+1 {
		t.Errorf("version %d, want %d", signed.Version, posted.Version+1)
	}
	if rec.Action != AuditActionSign {
		t.Errorf("audit action %s, want SIGN", rec.Action)
	}
}

func TestVoucher_SignTwice(t *testing.T) {
	now := time.Now().UTC()

	posted, _, _ := draftVoucher().Post(testDate, now)
	signed, _, _ := posted.Sign("NV001", "SIG1", now)

	_, _, err := signed.Sign("NV002", "SIG2", now.Add(time.Hour))

	var already *AlreadySignedError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadySignedError, got %v", err)
	}
	if already.SignerID != "NV001" {
		t.Errorf("error carries signer %s, want original NV001", already.SignerID)
	}
}

func TestVoucher_SignDraft(t *testing.T) {
	_, _, err := draftVoucher().Sign("NV001", "SIG", time.Now().UTC())
	if err == nil {
		t.Error("expected error signing an unposted voucher")
	}
}

func TestVoucher_SignedRejectsMutation(t *testing.T) {
	now := time.Now().UTC()

	posted, _, _ := draftVoucher().Post(testDate, now)
	signed, _, _ := posted.Sign("NV001", "SIG", now)

	if signed.CanModify() {
		t.Error("signed voucher must not be modifiable")
	}

	_, _, err := signed.Amend("edited", "", now)
	var immutable *ImmutableVoucherError
	if !errors.As(err, &immutable) {
		t.Fatalf("expected ImmutableVoucherError, got %v", err)
	}
}

func TestVoucher_PeriodLockVeto(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		voucher func() Voucher
	}{
		{name: "draft voucher", voucher: draftVoucher},
		{
			name: "posted voucher",
			voucher: func() Voucher {
				v, _, _ := draftVoucher().Post(testDate, now)
				return v
			},
		},
		{
			name: "signed voucher",
			voucher: func() Voucher {
				v, _, _ := draftVoucher().Post(testDate, now)
				v, _, _ = v.Sign("NV001", "SIG", now)
				return v
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locked, rec, err := tt.voucher().ApplyPeriodLock(LockMonth, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Action != AuditActionLock {
				t.Errorf("audit action %s, want LOCK", rec.Action)
			}

			// The lock vetoes every mutation regardless of sign state.
			if locked.CanModify() {
				t.Error("locked voucher must not be modifiable")
			}
			if _, _, err := locked.Amend("edit", "", now); err == nil {
				t.Error("expected amend to be rejected")
			}
			if locked.State == VoucherDraft {
				if _, _, err := locked.Post(testDate, now); err == nil {
					t.Error("expected post to be rejected")
				}
			}
			if locked.State == VoucherPosted {
				if _, _, err := locked.Sign("NV009", "SIG", now); err == nil {
					t.Error("expected sign to be rejected")
				}
			}
		})
	}
}

func TestVoucher_LockVetoWinsOverSignGuard(t *testing.T) {
	now := time.Now().UTC()

	posted, _, _ := draftVoucher().Post(testDate, now)
	signed, _, _ := posted.Sign("NV001", "SIG", now)
	locked, _, _ := signed.ApplyPeriodLock(LockMonth, now)

	// Once the period closes, the cross-cutting veto answers first, even
	// for a voucher that was already signed.
	_, _, err := locked.Sign("NV002", "SIG2", now.Add(time.Hour))

	var immutable *ImmutableVoucherError
	if !errors.As(err, &immutable) {
		t.Fatalf("expected ImmutableVoucherError, got %v", err)
	}
}

func TestVoucher_ApplyPeriodLockUnknownLevel(t *testing.T) {
	for _, level := range []LockStatus{LockOpen, LockStatus("LOCK_MONTH")} {
		_, _, err := draftVoucher().ApplyPeriodLock(level, time.Now().UTC())

		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Fatalf("level %s: expected InvalidInputError, got %v", level, err)
		}
	}
}

func TestVoucher_Amend(t *testing.T) {
	now := time.Now().UTC()

	amended, rec, err := draftVoucher().Amend("corrected description", "HD-042", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if amended.Description != "corrected description" || amended.DocumentRef != "HD-042" {
		t.Error("amendment not applied")
	}
	if amended.Version != 2 {
		t.Errorf("version %d, want 2", amended.Version)
	}
	if rec.Action != AuditActionUpdate {
		t.Errorf("audit action %s, want UPDATE", rec.Action)
	}
}

func TestVoucherNumberFor(t *testing.T) {
	got := VoucherNumberFor(testDate, 12)
	if got != "CT/20251215/012" {
		t.Errorf("got %s, want CT/20251215/012", got)
	}
}
