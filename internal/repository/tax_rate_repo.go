package repository

import (
	"context"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxRateRepository interface {
	Create(ctx context.Context, rate *model.TaxRate) error
	Update(ctx context.Context, rate *model.TaxRate) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.TaxRate, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.TaxRate, error)
}

type taxRateRepository struct {
	db *gorm.DB
}

func NewTaxRateRepository(db *gorm.DB) TaxRateRepository {
	return &taxRateRepository{db: db}
}

func (r *taxRateRepository) Create(ctx context.Context, rate *model.TaxRate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *taxRateRepository) Update(ctx context.Context, rate *model.TaxRate) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *taxRateRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("business_id = ? AND id = ?", businessID, id).Delete(&model.TaxRate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taxRateRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.TaxRate, error) {
	var rate model.TaxRate
	if err := GetDB(ctx, r.db).First(&rate, "business_id = ? AND id = ?", businessID, id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListByBusiness returns every rate of a business, simple rates first, then by sort order.
func (r *taxRateRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.TaxRate, error) {
	var rates []model.TaxRate
	if err := GetDB(ctx, r.db).
		Where("business_id = ?", businessID).
		Order("is_compound ASC, sort_order ASC, created_at ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
