// Package money represents currency amounts as integer minor units.
//
// All arithmetic on the pricing path happens on Money values. Conversion to and
// from decimal numbers only happens at the edges (JSON, config, database numeric
// columns) through shopspring/decimal.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of fraction digits of the currency (taka/poisha).
const MinorUnitExponent = 2

// Money is an amount in minor currency units (1 taka = 100 poisha).
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// MaxAmount is the largest amount accepted on the pricing path (one trillion
// major units). A unit price at this bound times the largest quantity still
// fits in int64.
const MaxAmount Money = 100_000_000_000_000

// ErrOutOfRange is returned when an amount cannot be represented.
var ErrOutOfRange = errors.New("amount out of range")

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// FromMajor builds a Money value from a whole number of major units.
func FromMajor(units int64) Money {
	return Money(units * 100)
}

// FromDecimal converts a decimal amount in major units into minor units,
// rounding half away from zero to the nearest minor unit. Amounts that do not
// fit in int64 minor units return ErrOutOfRange.
func FromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(MinorUnitExponent).Round(0)
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%s: %w", d.String(), ErrOutOfRange)
	}
	return Money(minor.IntPart()), nil
}

// Parse parses a decimal string such as "80" or "149.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	m, err := FromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	return m, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitExponent)
}

// String renders the amount with two fraction digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnitExponent)
}

// Mul multiplies the amount by a non-negative factor. It returns
// ErrOutOfRange when the amount exceeds MaxAmount or the product overflows int64.
func (m Money) Mul(n int) (Money, error) {
	if n < 0 {
		return 0, fmt.Errorf("multiply %s by %d: negative factor", m, n)
	}
	if m > MaxAmount || m < -MaxAmount {
		return 0, fmt.Errorf("multiply %s by %d: %w", m, n, ErrOutOfRange)
	}
	if n > 0 && (m > math.MaxInt64/Money(n) || m < math.MinInt64/Money(n)) {
		return 0, fmt.Errorf("multiply %s by %d: %w", m, n, ErrOutOfRange)
	}
	return m * Money(n), nil
}

// InRange reports whether |m| <= MaxAmount.
func (m Money) InRange() bool {
	return m <= MaxAmount && m >= -MaxAmount
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// MarshalJSON encodes the amount as a JSON number in major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	v, err := Parse(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalText lets envconfig and yaml decode amounts like "80" or "120.50".
func (m *Money) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
