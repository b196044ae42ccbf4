// Package money handles prices stored in minor units, the fixed conversion
// table and localized display.
package money

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Amount is a value in minor units (cents) of the base currency.
// Over JSON it travels in major units: Amount(1999) <-> 19.99.
type Amount int64

// FromMajor converts a major-unit value, rounding half away from zero.
func FromMajor(d decimal.Decimal) Amount {
	return Amount(d.Shift(2).Round(0).IntPart())
}

// ParseMajor parses "19.99" into Amount(1999).
func ParseMajor(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", s)
	}
	return FromMajor(d), nil
}

func (a Amount) Major() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) Cents() int64 { return int64(a) }

func (a Amount) String() string {
	return a.Major().StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both 19.99 and "19.99".
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := ParseMajor(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Ptr converts a nullable cents column into a nullable Amount.
func Ptr(cents *int64) *Amount {
	if cents == nil {
		return nil
	}
	a := Amount(*cents)
	return &a
}
