package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExemptionType enum constants
const (
	ExemptionTypeCustomer = "customer"
	ExemptionTypeProduct  = "product"
	ExemptionTypeCategory = "category"
)

// TaxExemption suppresses one rate (TaxRateID set) or every rate (TaxRateID nil)
// for a customer, product or category.
type TaxExemption struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"business_id"`
	ExemptionType string     `gorm:"type:varchar(20);not null;index" json:"exemption_type"` // customer, product, category
	EntityID      string     `gorm:"type:varchar(100);not null;index" json:"entity_id"`
	TaxRateID     *uuid.UUID `gorm:"type:uuid;index" json:"tax_rate_id"` // nullable = blanket exemption
	TaxRate       *TaxRate   `gorm:"foreignKey:TaxRateID;constraint:OnDelete:CASCADE" json:"tax_rate,omitempty"`
	Reason        string     `gorm:"type:text" json:"reason"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (e *TaxExemption) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
