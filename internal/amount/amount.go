// Package amount converts between human decimal strings and 18-decimal base units.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits carried by base units.
const Decimals = 18

// DisplayDecimals is the default precision for Display.
const DisplayDecimals = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Non-negative numeral with at most 18 fractional digits: "12", "12.5", ".5".
var numeral = regexp.MustCompile(`^(\d+(\.\d{1,18})?|\.\d{1,18})$`)

// ToBaseUnits parses a decimal numeral into base units. The conversion is exact, but
// FromBaseUnits(v, Decimals) returns the canonical spelling rather than the input:
// "1.50" comes back as "1.5", ".5" as "0.5" and "007" as "7".
func ToBaseUnits(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !numeral.MatchString(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}

	return d.Shift(Decimals).BigInt(), nil
}

// FromBaseUnits renders v with at most places fractional digits, truncating extra digits
// and dropping trailing zeros. With places >= Decimals the value is exact and the text is
// canonical: no leading zeros, no trailing fractional zeros, no bare leading dot.
// The output is for display and storage of exact values only; never feed a truncated
// result back into ToBaseUnits for a financial operation.
func FromBaseUnits(v *big.Int, places int) string {
	if v == nil {
		return "0"
	}
	if places < 0 {
		places = 0
	}

	d := decimal.NewFromBigInt(v, -Decimals)
	if places < Decimals {
		d = d.Truncate(int32(places))
	}

	return d.String()
}

// Display formats v with exactly DisplayDecimals places, rounding half away from zero.
func Display(v *big.Int) string {
	return Format(v, DisplayDecimals)
}

// Format formats v with exactly places fractional digits.
func Format(v *big.Int, places int) string {
	if v == nil {
		v = new(big.Int)
	}
	return decimal.NewFromBigInt(v, -Decimals).StringFixed(int32(places))
}

// Positive reports whether v is a usable mutation amount.
func Positive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}
