package repository

import (
	"context"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderTaxRepository interface {
	ReplaceForOrder(ctx context.Context, businessID uuid.UUID, orderID string, lines []model.OrderTax) error
	ListByOrder(ctx context.Context, businessID uuid.UUID, orderID string) ([]model.OrderTax, error)
}

type orderTaxRepository struct {
	db *gorm.DB
}

func NewOrderTaxRepository(db *gorm.DB) OrderTaxRepository {
	return &orderTaxRepository{db: db}
}

// ReplaceForOrder deletes previously recorded lines for the order and inserts
// the new ones. Run it inside RunInTx so readers never see a partial set.
func (r *orderTaxRepository) ReplaceForOrder(ctx context.Context, businessID uuid.UUID, orderID string, lines []model.OrderTax) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("business_id = ? AND order_id = ?", businessID, orderID).Delete(&model.OrderTax{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.Create(&lines).Error
}

func (r *orderTaxRepository) ListByOrder(ctx context.Context, businessID uuid.UUID, orderID string) ([]model.OrderTax, error) {
	var lines []model.OrderTax
	if err := GetDB(ctx, r.db).
		Where("business_id = ? AND order_id = ?", businessID, orderID).
		Order("line_no ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
