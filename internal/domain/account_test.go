package domain

import (
	"testing"
	"time"
)

func TestAccount_PostBalance(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		direction BalanceDirection
		opening   Money
		debit     Money
		credit    Money
		want      string
	}{
		{
			name:      "debit grows a debit-normal account",
			direction: DebitNormal,
			opening:   VND(10_000_000),
			debit:     VND(5_000_000),
			credit:    VND(0),
			want:      "15000000",
		},
		{
			name:      "credit shrinks a debit-normal account",
			direction: DebitNormal,
			opening:   VND(10_000_000),
			debit:     VND(0),
			credit:    VND(3_000_000),
			want:      "7000000",
		},
		{
			name:      "credit grows a credit-normal account",
			direction: CreditNormal,
			opening:   VND(5_000_000),
			debit:     VND(0),
			credit:    VND(2_000_000),
			want:      "7000000",
		},
		{
			name:      "debit shrinks a credit-normal account",
			direction: CreditNormal,
			opening:   VND(5_000_000),
			debit:     VND(1_000_000),
			credit:    VND(0),
			want:      "4000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := Account{
				ID:        "acc-1",
				Code:      "1111",
				Currency:  BaseCurrency,
				Direction: tt.direction,
				Balance:   tt.opening,
				Version:   1,
			}

			updated, rec, err := acc.PostBalance(tt.debit, tt.credit, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if updated.Balance.Amount.String() != tt.want {
				t.Errorf("balance %s, want %s", updated.Balance.Amount, tt.want)
			}
			if updated.Version != 2 {
				t.Errorf("version %d, want 2", updated.Version)
			}
			if rec.Action != AuditActionUpdate || rec.EntityType != "Account" {
				t.Errorf("unexpected audit record: %+v", rec)
			}
		})
	}
}

func TestAccount_PostBalanceCurrencyMismatch(t *testing.T) {
	acc := Account{Code: "1111", Currency: BaseCurrency, Direction: DebitNormal, Balance: VND(0)}

	_, _, err := acc.PostBalance(NewMoney(VND(1).Amount, "USD"), VND(0), time.Now().UTC())
	if err == nil {
		t.Error("expected error posting foreign currency to VND account")
	}
}

func TestAccountBalance_CheckNegativeBalance(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name         string
		code         string
		closingDebit Money
		wantWarnings int
	}{
		{name: "negative critical account warns", code: "131", closingDebit: VND(-1_000_000), wantWarnings: 1},
		{name: "critical sub-account matches by prefix", code: "1561", closingDebit: VND(-500), wantWarnings: 1},
		{name: "positive balance is silent", code: "1111", closingDebit: VND(50_000_000), wantWarnings: 0},
		{name: "non-critical account is silent", code: "642", closingDebit: VND(-100), wantWarnings: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance := AccountBalance{
				AccountCode:   tt.code,
				PeriodType:    PeriodMonth,
				PeriodValue:   12,
				Year:          2025,
				ClosingDebit:  tt.closingDebit,
				ClosingCredit: VND(0),
			}

			warnings := balance.CheckNegativeBalance(rules)
			if len(warnings) != tt.wantWarnings {
				t.Errorf("got %d warnings (%v), want %d", len(warnings), warnings, tt.wantWarnings)
			}
		})
	}
}
