package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateTaxRate      = "CREATE_TAX_RATE"
	ActionUpdateTaxRate      = "UPDATE_TAX_RATE"
	ActionDeleteTaxRate      = "DELETE_TAX_RATE"
	ActionCreateTaxExemption = "CREATE_TAX_EXEMPTION"
	ActionUpdateTaxExemption = "UPDATE_TAX_EXEMPTION"
	ActionDeleteTaxExemption = "DELETE_TAX_EXEMPTION"
)

// AuditLog tracks Who, What, and When for tax configuration changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index" json:"business_id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for automated changes
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
