package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one debit or credit posting inside a journal entry.
// Exactly one of Debit/Credit is non-zero; never both, never neither.
type JournalLine struct {
	AccountCode        string
	Debit              Money
	Credit             Money
	CounterpartAccount string
	Description        string
	Quantity           decimal.Decimal
	UnitPrice          Money
	ForeignAmount      Money
	RateApplied        decimal.Decimal
	TaxCode            string
	TaxRate            decimal.Decimal
	ObjectCode         string
	ContractCode       string
}

// Validate enforces the one-sided line invariant.
func (l JournalLine) Validate() error {
	if l.AccountCode == "" {
		return &InvalidInputError{Field: "accountCode", Reason: "must not be empty"}
	}

	hasDebit := !l.Debit.IsZero()
	hasCredit := !l.Credit.IsZero()

	if hasDebit == hasCredit {
		reason := "line must carry exactly one of debit or credit"
		if hasDebit {
			reason = "line carries both debit and credit"
		}
		return &InvalidInputError{
			Field:  fmt.Sprintf("line[%s]", l.AccountCode),
			Reason: reason,
		}
	}

	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return &InvalidInputError{
			Field:  fmt.Sprintf("line[%s]", l.AccountCode),
			Reason: "amounts must not be negative",
		}
	}

	return nil
}

// JournalEntry is a balanced set of lines posted to the general ledger.
// Created in draft, mutated only while draft, posted irreversibly, never
// deleted — corrections go through a counter-entry.
type JournalEntry struct {
	ID          string
	EntryNumber string
	VoucherID   string
	VoucherDate time.Time
	PostingDate time.Time
	Description string
	CreatedBy   string
	Lines       []JournalLine
	TotalDebit  Money
	TotalCredit Money
	Posted      bool
	PostedAt    *time.Time
	CreatedAt   time.Time
	Version     int64
}

// CalculateTotals validates every line and sums both sides. Totals are
// exact; no rounding happens between lines.
func (e JournalEntry) CalculateTotals() (JournalEntry, error) {
	if len(e.Lines) == 0 {
		return JournalEntry{}, &InvalidInputError{Field: "lines", Reason: "entry has no lines"}
	}

	totalDebit := ZeroMoney(BaseCurrency)
	totalCredit := ZeroMoney(BaseCurrency)

	for _, line := range e.Lines {
		if err := line.Validate(); err != nil {
			return JournalEntry{}, err
		}

		var err error
		if !line.Debit.IsZero() {
			totalDebit, err = totalDebit.Add(line.Debit)
		} else {
			totalCredit, err = totalCredit.Add(line.Credit)
		}
		if err != nil {
			return JournalEntry{}, err
		}
	}

	updated := e
	updated.TotalDebit = totalDebit
	updated.TotalCredit = totalCredit
	return updated, nil
}

// IsBalanced reports the balance law: total debit equals total credit to
// the currency's minor-unit precision.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Round().Equal(e.TotalCredit.Round())
}

// Post transitions the entry to posted. The balance law must hold; a
// violation is returned with both totals attached. Posting is
// irreversible.
func (e JournalEntry) Post(now time.Time) (JournalEntry, AuditRecord, error) {
	if e.Posted {
		return JournalEntry{}, AuditRecord{}, &InvalidInputError{
			Field: "entry " + e.EntryNumber, Reason: "already posted",
		}
	}
	if !e.IsBalanced() {
		return JournalEntry{}, AuditRecord{}, &NotBalancedError{
			EntryNumber: e.EntryNumber,
			TotalDebit:  e.TotalDebit,
			TotalCredit: e.TotalCredit,
		}
	}

	updated := e
	updated.Posted = true
	updated.PostedAt = &now
	updated.Version++

	rec := AuditRecord{
		EntityType: "JournalEntry",
		EntityID:   e.ID,
		Action:     AuditActionPost,
		OldValue:   MarshalState(e),
		NewValue:   MarshalState(updated),
	}

	return updated, rec, nil
}

// EntryNumberFor formats a sequential entry number for a posting date.
func EntryNumberFor(date time.Time, seq int) string {
	return fmt.Sprintf("BT/%s/%03d", date.Format("20060102"), seq)
}
