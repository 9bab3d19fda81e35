package tax

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	highRateThreshold      = decimal.RequireFromString("0.5")
	highEffectiveThreshold = decimal.RequireFromString("0.25")
)

// ValidateConfiguration reports problems with a rate configuration as
// human-readable warnings. It never rejects a configuration.
func ValidateConfiguration(rates []Rate) []string {
	warnings := make([]string, 0)

	if dups := duplicateNames(rates); len(dups) > 0 {
		warnings = append(warnings, "Duplicate tax rate names: "+strings.Join(dups, ", "))
	}

	negative := lo.FilterMap(rates, func(r Rate, _ int) (string, bool) {
		return r.Name, r.Rate.IsNegative()
	})
	if len(negative) > 0 {
		warnings = append(warnings, "Negative tax rates are not allowed: "+strings.Join(negative, ", "))
	}

	high := lo.FilterMap(rates, func(r Rate, _ int) (string, bool) {
		return r.Name, r.Rate.GreaterThan(highRateThreshold)
	})
	if len(high) > 0 {
		warnings = append(warnings, "Unusually high tax rates (over 50%): "+strings.Join(high, ", "))
	}

	if effective := EffectiveRate(rates); effective.GreaterThan(highEffectiveThreshold) {
		warnings = append(warnings, fmt.Sprintf("Total effective tax rate is very high: %s", FormatRate(effective)))
	}

	return warnings
}

// duplicateNames returns each name that occurs more than once, compared
// case-insensitively, in order of first appearance.
func duplicateNames(rates []Rate) []string {
	seen := make(map[string]string, len(rates))
	var dups []string
	reported := make(map[string]bool)

	for _, r := range rates {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		first, ok := seen[key]
		if !ok {
			seen[key] = r.Name
			continue
		}
		if !reported[key] {
			reported[key] = true
			dups = append(dups, first)
		}
	}
	return dups
}

// EffectiveRate approximates a single blended rate for display. Compound
// rates are treated as applying once on top of the summed simple rates, which
// ignores compounding between compound rates themselves. Calculate does not use it.
func EffectiveRate(rates []Rate) decimal.Decimal {
	simple, compound := partitionRates(rates)

	simpleSum := decimal.Sum(decimal.Zero, lo.Map(simple, func(r Rate, _ int) decimal.Decimal { return r.Rate })...)
	compoundSum := decimal.Sum(decimal.Zero, lo.Map(compound, func(r Rate, _ int) decimal.Decimal { return r.Rate })...)

	return simpleSum.Add(compoundSum.Mul(decimal.NewFromInt(1).Add(simpleSum)))
}
