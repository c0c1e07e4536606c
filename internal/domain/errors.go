package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lookup errors returned by repositories.
var (
	ErrVoucherNotFound  = errors.New("voucher not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrPeriodNotFound   = errors.New("fiscal period not found")
	ErrJournalNotFound  = errors.New("journal entry not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCurrencyNotFound = errors.New("no exchange rate for currency")
)

// CurrencyMismatchError is returned when arithmetic is attempted between
// two Money values of different currencies.
type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

// NotBalancedError is returned when a journal entry violates the balance
// law (total debit != total credit). It carries both totals so the caller
// can render the exact discrepancy.
type NotBalancedError struct {
	EntryNumber string
	TotalDebit  Money
	TotalCredit Money
}

func (e *NotBalancedError) Error() string {
	return fmt.Sprintf("entry %s not balanced: debit %s != credit %s",
		e.EntryNumber, e.TotalDebit, e.TotalCredit)
}

// InvalidRateError is returned for a non-positive exchange rate.
type InvalidRateError struct {
	Rate     decimal.Decimal
	Currency string
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid exchange rate %s for %s: rate must be positive", e.Rate, e.Currency)
}

// InvalidInputError is returned for malformed input to a pure computation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// AlreadySignedError is returned on a second sign attempt.
type AlreadySignedError struct {
	VoucherNumber string
	SignerID      string
	SignedAt      time.Time
}

func (e *AlreadySignedError) Error() string {
	return fmt.Sprintf("voucher %s already signed by %s at %s",
		e.VoucherNumber, e.SignerID, e.SignedAt.Format(time.RFC3339))
}

// ImmutableVoucherError is returned when a mutation is attempted on a
// voucher that is signed or frozen by a period lock.
type ImmutableVoucherError struct {
	VoucherNumber string
	State         VoucherState
	LockStatus    LockStatus
}

func (e *ImmutableVoucherError) Error() string {
	return fmt.Sprintf("voucher %s is immutable (state %s, lock %s)",
		e.VoucherNumber, e.State, e.LockStatus)
}

// PeriodLockedError is returned when a mutation targets a date inside a
// locked fiscal period.
type PeriodLockedError struct {
	PeriodType  PeriodType
	Year        int
	PeriodValue int
	LockStatus  LockStatus
	Date        time.Time
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("period %s %d/%d is locked (%s): mutation dated %s rejected",
		e.PeriodType, e.PeriodValue, e.Year, e.LockStatus, e.Date.Format("2006-01-02"))
}

// InsufficientStockError is returned when an issue requests more quantity
// than the available lots hold.
type InsufficientStockError struct {
	ProductCode string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %s, available %s",
		e.ProductCode, e.Requested, e.Available)
}

// ConcurrentModificationError is returned when an optimistic version check
// fails at commit time. The caller must reload and retry.
type ConcurrentModificationError struct {
	EntityType string
	EntityID   string
	Expected   int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently (expected version %d)",
		e.EntityType, e.EntityID, e.Expected)
}
