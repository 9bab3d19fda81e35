// Package tax computes sales tax for an order from a set of configured rates
// and exemptions. It performs no I/O; callers load the rate catalog and pass
// it in as plain data.
package tax

import "github.com/shopspring/decimal"

// ExemptionType enum constants
type ExemptionType string

const (
	ExemptionCustomer ExemptionType = "customer"
	ExemptionProduct  ExemptionType = "product"
	ExemptionCategory ExemptionType = "category"
)

// Valid reports whether t is one of the known exemption types.
func (t ExemptionType) Valid() bool {
	switch t {
	case ExemptionCustomer, ExemptionProduct, ExemptionCategory:
		return true
	}
	return false
}

// Rate is a configured tax rate. Rate is a fraction, e.g. 0.0825 for 8.25%.
type Rate struct {
	ID         string
	Name       string
	Rate       decimal.Decimal
	IsActive   bool
	IsCompound bool
	SortOrder  int
}

// Exemption suppresses tax for a customer, product or category.
// A nil TaxRateID makes it a blanket exemption covering every rate.
type Exemption struct {
	ID        string
	Type      ExemptionType
	EntityID  string
	TaxRateID *string
	IsActive  bool
}

// Blanket reports whether the exemption applies to all rates.
func (e Exemption) Blanket() bool {
	return e.TaxRateID == nil
}

// Scope identifies who is buying and what is being bought.
// The zero value matches no exemptions.
type Scope struct {
	CustomerID  string
	ProductIDs  []string
	CategoryIDs []string
}

// Detail is one applied tax line. TaxableAmount is the base this rate was
// applied to: the subtotal for simple rates, the running total for compound ones.
type Detail struct {
	TaxRateID     string          `json:"tax_rate_id"`
	TaxName       string          `json:"tax_name"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	IsCompound    bool            `json:"is_compound"`
}

// Result is the outcome of Calculate. TotalTax and GrandTotal are rounded to
// cents; the per-line amounts in Details are not.
type Result struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Details    []Detail        `json:"tax_details"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Catalog is the rate and exemption configuration of one business.
type Catalog struct {
	Rates      []Rate
	Exemptions []Exemption
}
