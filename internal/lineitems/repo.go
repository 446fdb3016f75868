package lineitems

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

// Repository handles line item persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, item *models.LineItem) error {
	if item == nil {
		return fmt.Errorf("line item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) Update(ctx context.Context, item *models.LineItem) error {
	if item == nil {
		return fmt.Errorf("line item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LineItem, error) {
	var item models.LineItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) ListByPallet(ctx context.Context, palletID uuid.UUID) ([]models.LineItem, error) {
	var items []models.LineItem
	if err := r.db.WithContext(ctx).
		Where("pallet_id = ?", palletID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LineItem{}).Error
}
