package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance under which a document counts as fully settled.
// Totals and payee are accumulated from user-entered amounts, so exact
// equality cannot be relied on.
var Epsilon = decimal.NewFromFloat(0.01)

// ErrExceedsBalance is returned when a settlement amount is larger than the
// document's remaining balance.
var ErrExceedsBalance = errors.New("settlement amount exceeds remaining balance")

// ErrNonPositiveAmount is returned for zero or negative settlement amounts.
var ErrNonPositiveAmount = errors.New("settlement amount must be positive")

// Remaining returns total - payee, floored at zero.
func Remaining(total, payee decimal.Decimal) decimal.Decimal {
	r := total.Sub(payee)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Settled reports whether payee covers the total within Epsilon. A document's
// IsPaid flag must equal this, and only this.
func Settled(total, payee decimal.Decimal) bool {
	return payee.GreaterThanOrEqual(total.Sub(Epsilon))
}

// ValidateSettlement checks that amount can be applied on top of the current
// payee without overshooting the total.
func ValidateSettlement(total, payee, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(Remaining(total, payee)) {
		return ErrExceedsBalance
	}
	return nil
}
