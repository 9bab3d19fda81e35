package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaxRate is a configured sales tax. Simple rates apply to the order subtotal,
// compound rates to the subtotal plus all tax applied before them.
type TaxRate struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Rate        decimal.Decimal `gorm:"type:decimal(10,6);not null" json:"rate"` // e.g. 0.0825 = 8.25%
	IsActive    bool            `gorm:"not null" json:"is_active"`
	IsCompound  bool            `gorm:"not null;default:false" json:"is_compound"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (r *TaxRate) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
