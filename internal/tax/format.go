package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatRate renders a fractional rate as a percentage, e.g. 0.0825 -> "8.25%".
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(2) + "%"
}

// ParseRate is the inverse of FormatRate: "8.25%" or "8.25" -> 0.0825.
func ParseRate(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	pct, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax rate %q: %w", s, err)
	}
	return pct.Div(hundred), nil
}
