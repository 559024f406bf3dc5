package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSettledEpsilon(t *testing.T) {
	cases := []struct {
		name  string
		total string
		payee string
		want  bool
	}{
		{"zero payee", "1000", "0", false},
		{"partial", "1000", "400", false},
		{"exact", "1000", "1000", true},
		{"within epsilon", "1000", "999.99", true},
		{"just outside epsilon", "1000", "999.98", false},
		{"overpaid", "1000", "1000.50", true},
		{"zero total", "0", "0", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Settled(dec(tc.total), dec(tc.payee)); got != tc.want {
				t.Fatalf("Settled(%s, %s) = %v, want %v", tc.total, tc.payee, got, tc.want)
			}
		})
	}
}

func TestRemainingFloorsAtZero(t *testing.T) {
	if got := Remaining(dec("1000"), dec("400")); !got.Equal(dec("600")) {
		t.Fatalf("Remaining = %s, want 600", got)
	}
	if got := Remaining(dec("1000"), dec("1200")); !got.IsZero() {
		t.Fatalf("Remaining on overpaid document = %s, want 0", got)
	}
}

func TestValidateSettlement(t *testing.T) {
	total, payee := dec("1000"), dec("400")

	if err := ValidateSettlement(total, payee, dec("600")); err != nil {
		t.Fatalf("expected full remaining to be accepted, got %v", err)
	}
	if err := ValidateSettlement(total, payee, dec("600.01")); err != ErrExceedsBalance {
		t.Fatalf("expected ErrExceedsBalance, got %v", err)
	}
	if err := ValidateSettlement(total, payee, dec("0")); err != ErrNonPositiveAmount {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if err := ValidateSettlement(total, payee, dec("-5")); err != ErrNonPositiveAmount {
		t.Fatalf("expected ErrNonPositiveAmount for negative amount, got %v", err)
	}
}
