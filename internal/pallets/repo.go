package pallets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

// Repository handles pallet persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, pallet *models.Pallet) error {
	if pallet == nil {
		return fmt.Errorf("pallet is required")
	}
	return r.db.WithContext(ctx).Omit("LineItems").Create(pallet).Error
}

func (r *Repository) Update(ctx context.Context, pallet *models.Pallet) error {
	if pallet == nil {
		return fmt.Errorf("pallet is required")
	}
	return r.db.WithContext(ctx).Omit("LineItems").Save(pallet).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pallet, error) {
	var pallet models.Pallet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pallet).Error; err != nil {
		return nil, err
	}
	return &pallet, nil
}

// ListByOffer returns an offer's pallets, oldest first.
func (r *Repository) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Pallet, error) {
	var pallets []models.Pallet
	if err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("created_at ASC").
		Find(&pallets).Error; err != nil {
		return nil, err
	}
	return pallets, nil
}

// Delete removes a pallet and its line items.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("pallet_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Pallet{}).Error
}
