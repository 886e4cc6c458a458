// Package money converts between decimal price strings and integer
// minor currency units. All cart arithmetic happens in minor units;
// only the presentation boundary formats them back into decimals.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParsePrice converts a decimal price string such as "4.99" into minor
// units. Negative values and sub-cent precision are rejected.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("price %q is negative", s)
	}
	m := d.Mul(hundred)
	if !m.IsInteger() {
		return 0, fmt.Errorf("price %q has sub-cent precision", s)
	}
	return m.IntPart(), nil
}

// Format renders minor units as a two-decimal display string, e.g.
// 998 -> "9.98".
func Format(minor int64) string {
	return decimal.NewFromInt(minor).Div(hundred).StringFixed(2)
}
