package repository

import (
	"context"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxExemptionListFilter struct {
	ExemptionType string // customer, product, category or empty for all
	EntityID      string
	Page          int
	Limit         int
}

type TaxExemptionRepository interface {
	Create(ctx context.Context, exemption *model.TaxExemption) error
	Update(ctx context.Context, exemption *model.TaxExemption) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.TaxExemption, error)
	List(ctx context.Context, businessID uuid.UUID, filter TaxExemptionListFilter) ([]model.TaxExemption, int64, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.TaxExemption, error)
}

type taxExemptionRepository struct {
	db *gorm.DB
}

func NewTaxExemptionRepository(db *gorm.DB) TaxExemptionRepository {
	return &taxExemptionRepository{db: db}
}

func (r *taxExemptionRepository) Create(ctx context.Context, exemption *model.TaxExemption) error {
	return GetDB(ctx, r.db).Omit("TaxRate").Create(exemption).Error
}

func (r *taxExemptionRepository) Update(ctx context.Context, exemption *model.TaxExemption) error {
	return GetDB(ctx, r.db).Omit("TaxRate").Save(exemption).Error
}

func (r *taxExemptionRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("business_id = ? AND id = ?", businessID, id).Delete(&model.TaxExemption{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taxExemptionRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.TaxExemption, error) {
	var exemption model.TaxExemption
	if err := GetDB(ctx, r.db).Preload("TaxRate").
		First(&exemption, "business_id = ? AND id = ?", businessID, id).Error; err != nil {
		return nil, err
	}
	return &exemption, nil
}

func (r *taxExemptionRepository) List(ctx context.Context, businessID uuid.UUID, filter TaxExemptionListFilter) ([]model.TaxExemption, int64, error) {
	var exemptions []model.TaxExemption
	var total int64

	query := GetDB(ctx, r.db).Model(&model.TaxExemption{}).Where("business_id = ?", businessID)
	if filter.ExemptionType != "" {
		query = query.Where("exemption_type = ?", filter.ExemptionType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("TaxRate").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&exemptions).Error; err != nil {
		return nil, 0, err
	}

	return exemptions, total, nil
}

// ListByBusiness returns every exemption of a business without pagination.
func (r *taxExemptionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.TaxExemption, error) {
	var exemptions []model.TaxExemption
	if err := GetDB(ctx, r.db).Where("business_id = ?", businessID).Find(&exemptions).Error; err != nil {
		return nil, err
	}
	return exemptions, nil
}
