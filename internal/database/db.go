package database

import (
	"fmt"

	"posbackend/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection opens the PostgreSQL pool and migrates the tax schema.
func NewConnection(dsn string, log *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		log.Warnw("failed to auto-migrate models", "error", err)
	}

	return db, nil
}

// Migrate creates or updates the tables backing the tax models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.TaxRate{},
		&model.TaxExemption{},
		&model.OrderTax{},
		&model.AuditLog{},
	)
}
