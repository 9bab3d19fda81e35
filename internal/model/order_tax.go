package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderTax is one applied tax line recorded against a completed order.
// Rate name and value are copied so later edits to the rate do not rewrite history.
type OrderTax struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	OrderID       string          `gorm:"type:varchar(100);not null;index" json:"order_id"`
	TaxRateID     uuid.UUID       `gorm:"type:uuid;not null" json:"tax_rate_id"`
	TaxName       string          `gorm:"type:varchar(100);not null" json:"tax_name"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(10,6);not null" json:"tax_rate"`
	TaxableAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"taxable_amount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	IsCompound    bool            `gorm:"not null;default:false" json:"is_compound"`
	LineNo        int             `gorm:"not null" json:"line_no"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (o *OrderTax) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
