package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_Add(t *testing.T) {
	tests := []struct {
		name        string
		a           Money
		b           Money
		want        string
		expectError bool
	}{
		{
			name: "same currency",
			a:    VND(10_000_000),
			b:    VND(1_000_000),
			want: "11000000",
		},
		{
			name:        "currency mismatch",
			a:           VND(100),
			b:           NewMoney(decimal.NewFromInt(100), "USD"),
			expectError: true,
		},
		{
			name: "negative amounts allowed",
			a:    VND(-500),
			b:    VND(200),
			want: "-300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)

			if tt.expectError {
				var mismatch *CurrencyMismatchError
				if !errors.As(err, &mismatch) {
					t.Fatalf("expected CurrencyMismatchError, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount.String() != tt.want {
				t.Errorf("got %s, want %s", got.Amount, tt.want)
			}
		})
	}
}

func TestMoney_Sub(t *testing.T) {
	a := VND(10_000_000)
	b := VND(4_000_000)

	got, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Amount.String() != "6000000" {
		t.Errorf("got %s, want 6000000", got.Amount)
	}

	_, err = a.Sub(NewMoney(decimal.NewFromInt(1), "EUR"))
	var mismatch *CurrencyMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CurrencyMismatchError, got %v", err)
	}
	if mismatch.Left != "VND" || mismatch.Right != "EUR" {
		t.Errorf("error carries %s/%s, want VND/EUR", mismatch.Left, mismatch.Right)
	}
}

func TestMoney_Cmp(t *testing.T) {
	a := VND(100)
	b := VND(200)

	cmp, err := a.Cmp(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp != -1 {
		t.Errorf("got %d, want -1", cmp)
	}

	if _, err := a.Cmp(NewMoney(decimal.NewFromInt(1), "USD")); err == nil {
		t.Error("expected error comparing across currencies")
	}
}

func TestMoney_Round(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{name: "VND rounds to whole units half-up", amount: "5285714.2857", currency: "VND", want: "5285714"},
		{name: "VND half boundary rounds up", amount: "100.5", currency: "VND", want: "101"},
		{name: "USD keeps two places", amount: "10.005", currency: "USD", want: "10.01"},
		{name: "exact values untouched", amount: "5200000", currency: "VND", want: "5200000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := decimal.NewFromString(tt.amount)
			got := NewMoney(d, tt.currency).Round()
			if got.Amount.String() != tt.want {
				t.Errorf("got %s, want %s", got.Amount, tt.want)
			}
		})
	}
}

func TestMoney_MulRateNoIntermediateRounding(t *testing.T) {
	// Chained multiplication keeps full precision until the final Round.
	m := VND(1)
	third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))

	chained := m.MulRate(third).MulRate(decimal.NewFromInt(3))
	if chained.Round().Amount.String() != "1" {
		t.Errorf("got %s after rounding once at the end, want 1", chained.Round().Amount)
	}
}
