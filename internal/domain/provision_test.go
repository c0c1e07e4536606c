package domain

import (
	"errors"
	"testing"
)

func TestCalculateSpecificProvision(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name        string
		receivables []Receivable
		want        string
	}{
		{
			name:        "current debt carries no provision",
			receivables: []Receivable{{Amount: VND(10_000_000), OverdueDays: 30}},
			want:        "0",
		},
		{
			name:        "3 to 6 months at 30 percent",
			receivables: []Receivable{{Amount: VND(10_000_000), OverdueDays: 120}},
			want:        "3000000",
		},
		{
			name:        "6 to 12 months at 50 percent",
			receivables: []Receivable{{Amount: VND(10_000_000), OverdueDays: 200}},
			want:        "5000000",
		},
		{
			name:        "over a year at 100 percent",
			receivables: []Receivable{{Amount: VND(10_000_000), OverdueDays: 400}},
			want:        "10000000",
		},
		{
			name: "mixed aging sums per bucket",
			receivables: []Receivable{
				{Amount: VND(10_000_000), OverdueDays: 30},
				{Amount: VND(20_000_000), OverdueDays: 150},
				{Amount: VND(30_000_000), OverdueDays: 250},
				{Amount: VND(40_000_000), OverdueDays: 400},
			},
			want: "61000000",
		},
		{
			name:        "empty set is zero",
			receivables: nil,
			want:        "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSpecificProvision(tt.receivables, rules)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount.String() != tt.want {
				t.Errorf("got %s, want %s", got.Amount, tt.want)
			}
		})
	}
}

func TestCalculateSpecificProvision_BucketBoundaries(t *testing.T) {
	rules := DefaultRules()

	// Boundaries are closed on both ends; each age matches exactly one row.
	boundaries := []struct {
		days int
		want string
	}{
		{days: 0, want: "0"},
		{days: 90, want: "0"},
		{days: 91, want: "3000000"},
		{days: 180, want: "3000000"},
		{days: 181, want: "5000000"},
		{days: 365, want: "5000000"},
		{days: 366, want: "10000000"},
		// the last bucket is open-ended: no age is too old to provision
		{days: 99_999, want: "10000000"},
		{days: 100_000, want: "10000000"},
		{days: 1_000_000, want: "10000000"},
	}

	for _, b := range boundaries {
		got, err := CalculateSpecificProvision([]Receivable{
			{Amount: VND(10_000_000), OverdueDays: b.days},
		}, rules)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", b.days, err)
		}
		if got.Amount.String() != b.want {
			t.Errorf("day %d: got %s, want %s", b.days, got.Amount, b.want)
		}
	}
}

func TestCalculateSpecificProvision_MonotonicOverAge(t *testing.T) {
	rules := DefaultRules()
	amount := VND(7_000_000)

	prev := VND(0)
	for days := 0; days <= 400; days += 10 {
		got, err := CalculateSpecificProvision([]Receivable{{Amount: amount, OverdueDays: days}}, rules)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", days, err)
		}

		cmp, _ := got.Cmp(prev)
		if cmp < 0 {
			t.Fatalf("provision decreased from %s to %s at %d days", prev.Amount, got.Amount, days)
		}
		prev = got
	}
}

func TestCalculateSpecificProvision_RejectsNegative(t *testing.T) {
	rules := DefaultRules()

	_, err := CalculateSpecificProvision([]Receivable{
		{CustomerCode: "KH001", Amount: VND(-1), OverdueDays: 100},
	}, rules)

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestCalculateGeneralProvision(t *testing.T) {
	rules := DefaultRules()

	got, err := CalculateGeneralProvision(VND(100_000_000), rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Amount.String() != "1000000" {
		t.Errorf("got %s, want 1000000", got.Amount)
	}

	_, err = CalculateGeneralProvision(VND(-1), rules)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}
