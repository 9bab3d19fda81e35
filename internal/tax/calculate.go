package tax

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Calculate applies rates to subtotal and returns the tax lines and totals.
//
// Active simple rates are applied first, each to the subtotal. Active compound
// rates follow in ascending SortOrder, each applied to the subtotal plus all tax
// applied before it, so their order changes the individual line amounts.
// A rate is skipped when any active exemption matching scope is blanket or
// names that rate. Customer and product/category exemptions combine with OR.
//
// Calculate never fails: no rates, no exemptions or an empty scope simply
// produce zero tax. A negative subtotal yields negative tax by the same formula.
func Calculate(subtotal decimal.Decimal, rates []Rate, exemptions []Exemption, scope *Scope) Result {
	if scope == nil {
		scope = &Scope{}
	}

	simple, compound := partitionRates(rates)
	exempt := matchExemptions(exemptions, scope)

	details := make([]Detail, 0, len(simple)+len(compound))
	totalTax := decimal.Zero

	for _, r := range simple {
		if isExempt(exempt, r.ID) {
			continue
		}
		amount := subtotal.Mul(r.Rate)
		details = append(details, newDetail(r, subtotal, amount))
		totalTax = totalTax.Add(amount)
	}

	runningTotal := subtotal.Add(totalTax)
	for _, r := range compound {
		if isExempt(exempt, r.ID) {
			continue
		}
		amount := runningTotal.Mul(r.Rate)
		details = append(details, newDetail(r, runningTotal, amount))
		totalTax = totalTax.Add(amount)
		runningTotal = runningTotal.Add(amount)
	}

	return Result{
		Subtotal:   subtotal,
		Details:    details,
		TotalTax:   round2(totalTax),
		GrandTotal: round2(subtotal.Add(totalTax)),
	}
}

// partitionRates returns the active simple and compound rates, each sorted by
// SortOrder. Ties keep their input order.
func partitionRates(rates []Rate) (simple, compound []Rate) {
	active := lo.Filter(rates, func(r Rate, _ int) bool { return r.IsActive })
	simple, compound = lo.FilterReject(active, func(r Rate, _ int) bool { return !r.IsCompound })

	bySortOrder := func(a, b Rate) int { return a.SortOrder - b.SortOrder }
	slices.SortStableFunc(simple, bySortOrder)
	slices.SortStableFunc(compound, bySortOrder)
	return simple, compound
}

// matchExemptions returns the active exemptions that apply to scope.
// IsActive gates the customer, product and category branches alike.
func matchExemptions(exemptions []Exemption, scope *Scope) []Exemption {
	return lo.Filter(exemptions, func(e Exemption, _ int) bool {
		if !e.IsActive {
			return false
		}
		switch e.Type {
		case ExemptionCustomer:
			return scope.CustomerID != "" && e.EntityID == scope.CustomerID
		case ExemptionProduct:
			return lo.Contains(scope.ProductIDs, e.EntityID)
		case ExemptionCategory:
			return lo.Contains(scope.CategoryIDs, e.EntityID)
		}
		return false
	})
}

func isExempt(exempt []Exemption, rateID string) bool {
	return lo.SomeBy(exempt, func(e Exemption) bool {
		return e.Blanket() || *e.TaxRateID == rateID
	})
}

func newDetail(r Rate, taxable, amount decimal.Decimal) Detail {
	return Detail{
		TaxRateID:     r.ID,
		TaxName:       r.Name,
		TaxRate:       r.Rate,
		TaxableAmount: taxable,
		TaxAmount:     amount,
		IsCompound:    r.IsCompound,
	}
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
