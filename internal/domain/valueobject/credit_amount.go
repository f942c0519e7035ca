package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CreditAmount – immutable monetary value object
// ---------------------------------------------------------------------------

// Credit amount bounds, in currency-agnostic minor units.
var (
	MinCreditAmount = decimal.NewFromInt(50_000)
	MaxCreditAmount = decimal.NewFromInt(2_000_000_000)
)

// CreditAmount is an immutable monetary value bounded to
// [MinCreditAmount, MaxCreditAmount]. A CreditAmount can only be obtained
// through NewCreditAmount (or ZeroAmount for debt defaults), so no instance
// can hold an out-of-bounds value.
type CreditAmount struct {
	value decimal.Decimal
}

// NewCreditAmount creates a CreditAmount after validating the bounds.
// Both bounds are inclusive.
func NewCreditAmount(value decimal.Decimal) (CreditAmount, error) {
	if value.LessThan(MinCreditAmount) {
		return CreditAmount{}, fmt.Errorf("%w: amount %s below minimum %s",
			ErrInvalidInput, value, MinCreditAmount)
	}
	if value.GreaterThan(MaxCreditAmount) {
		return CreditAmount{}, fmt.Errorf("%w: amount %s above maximum %s",
			ErrInvalidInput, value, MaxCreditAmount)
	}
	return CreditAmount{value: value}, nil
}

// NewCreditAmountFromInt is a convenience constructor for whole minor-unit amounts.
func NewCreditAmountFromInt(value int64) (CreditAmount, error) {
	return NewCreditAmount(decimal.NewFromInt(value))
}

// MustCreditAmount creates a CreditAmount and panics on error. Intended for
// test fixtures and package-level policy constants only.
func MustCreditAmount(value int64) CreditAmount {
	a, err := NewCreditAmountFromInt(value)
	if err != nil {
		panic(err)
	}
	return a
}

// ZeroAmount returns a zero monetary value. It deliberately bypasses the
// bounds so a Customer's monthly debt can default to zero; it is never a
// valid requested credit amount.
func ZeroAmount() CreditAmount {
	return CreditAmount{value: decimal.Zero}
}

// Decimal returns the underlying decimal value.
func (a CreditAmount) Decimal() decimal.Decimal { return a.value }

// IsZero returns true for the zero monetary value.
func (a CreditAmount) IsZero() bool { return a.value.IsZero() }

// Add returns a new CreditAmount holding the sum. The result is re-validated
// against the bounds.
func (a CreditAmount) Add(other CreditAmount) (CreditAmount, error) {
	return NewCreditAmount(a.value.Add(other.value))
}

// GreaterThan reports whether a is strictly greater than other.
func (a CreditAmount) GreaterThan(other CreditAmount) bool {
	return a.value.GreaterThan(other.value)
}

// LessThan reports whether a is strictly less than other.
func (a CreditAmount) LessThan(other CreditAmount) bool {
	return a.value.LessThan(other.value)
}

// Cmp compares two amounts: -1 if a < other, 0 if equal, +1 if a > other.
func (a CreditAmount) Cmp(other CreditAmount) int {
	return a.value.Cmp(other.value)
}

// Equal reports structural equality.
func (a CreditAmount) Equal(other CreditAmount) bool {
	return a.value.Equal(other.value)
}

// String returns the decimal representation.
func (a CreditAmount) String() string { return a.value.String() }
