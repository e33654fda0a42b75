package coin

import (
	"encoding/json"
	"strconv"

	"github.com/paystar/custody/errors"
	"lukechampine.com/uint128"
)

// Amount is an unsigned 128 bit quantity of the smallest token units. There
// is no fractional part and no implicit decimal rounding. The JSON form is a
// decimal string.
type Amount struct {
	Lo uint64
	Hi uint64
}

// MaxAmount is the largest representable amount.
var MaxAmount = fromUint128(uint128.Max)

// NewAmount returns an amount of n units.
func NewAmount(n uint64) Amount {
	return Amount{Lo: n}
}

// ParseAmount parses a base 10 representation of an amount.
func ParseAmount(s string) (Amount, error) {
	u, err := uint128.FromString(s)
	if err != nil {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "parse %q: %s", s, err)
	}
	return fromUint128(u), nil
}

func fromUint128(u uint128.Uint128) Amount {
	return Amount{Lo: u.Lo, Hi: u.Hi}
}

func (a Amount) u() uint128.Uint128 {
	return uint128.New(a.Lo, a.Hi)
}

// Add returns a + b. ErrOverflow is returned if the result does not fit in
// 128 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a.u().AddWrap(b.u())
	if sum.Cmp(a.u()) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return fromUint128(sum), nil
}

// Sub returns a - b. ErrInsufficientAmount is returned if b is greater
// than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Cmp(b) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", a, b)
	}
	return fromUint128(a.u().Sub(b.u())), nil
}

// Cmp returns -1, 0 or 1 when a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.u().Cmp(b.u())
}

// Equals returns true if both amounts are the same.
func (a Amount) Equals(b Amount) bool {
	return a == b
}

// IsZero returns true for the zero amount, the only non positive value.
func (a Amount) IsZero() bool {
	return a.Lo == 0 && a.Hi == 0
}

// IsGTE returns true if a is greater than or equal to b.
func (a Amount) IsGTE(b Amount) bool {
	return a.Cmp(b) >= 0
}

func (a Amount) String() string {
	return a.u().String()
}

// MarshalJSON encodes the amount as a decimal string, as JSON numbers
// cannot hold 128 bit values.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a decimal string or a non negative number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "amount must be a string or a number")
		}
		if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
			return errors.Wrapf(errors.ErrAmount, "amount %s: use a string for values above 64 bit", n)
		}
		s = n.String()
	}
	val, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = val
	return nil
}
