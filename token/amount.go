package token

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit token quantity. The zero value is the
// amount zero and is ready to use. Amounts are plain values: they are
// copied freely and are valid map values.
//
// Arithmetic policy: every increase saturates at the maximum representable
// value instead of wrapping; decreases must be guarded by a sufficiency
// check, with Sub saturating at zero as a second line of defense.
type Amount struct {
	v uint256.Int
}

// NewAmount returns the amount for a uint64 value.
func NewAmount(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// ParseAmount parses a base-10 amount.
func ParseAmount(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, fmt.Errorf("token: parsing amount %q: %w", s, err)
	}
	var a Amount
	a.v.Set(v)
	return a, nil
}

// MaxAmount returns the largest representable amount, 2^256-1.
func MaxAmount() Amount {
	var a Amount
	a.v.SetAllOne()
	return a
}

// Add returns a+b, saturating at MaxAmount.
func (a Amount) Add(b Amount) Amount {
	var out Amount
	if _, overflow := out.v.AddOverflow(&a.v, &b.v); overflow {
		out.v.SetAllOne()
	}
	return out
}

// Sub returns a-b, saturating at zero.
func (a Amount) Sub(b Amount) Amount {
	var out Amount
	if _, underflow := out.v.SubOverflow(&a.v, &b.v); underflow {
		out.v.Clear()
	}
	return out
}

// addOverflow returns a+b and reports whether the sum wrapped. Used where
// saturation would mask a real inconsistency, such as summing balances.
func (a Amount) addOverflow(b Amount) (Amount, bool) {
	var out Amount
	_, overflow := out.v.AddOverflow(&a.v, &b.v)
	return out, overflow
}

// Cmp compares a and b, returning -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// Less reports whether a < b.
func (a Amount) Less(b Amount) bool { return a.v.Lt(&b.v) }

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// String returns the base-10 representation.
func (a Amount) String() string { return a.v.Dec() }

// MarshalText encodes the amount in base 10.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalText decodes a base-10 amount.
func (a *Amount) UnmarshalText(b []byte) error {
	v, err := uint256.FromDecimal(string(b))
	if err != nil {
		return fmt.Errorf("token: parsing amount %q: %w", string(b), err)
	}
	a.v.Set(v)
	return nil
}
