package exports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

// Repository handles shipment export persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, export *models.ShipmentExport) error {
	if export == nil {
		return fmt.Errorf("export is required")
	}
	return r.db.WithContext(ctx).Create(export).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShipmentExport, error) {
	var export models.ShipmentExport
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&export).Error; err != nil {
		return nil, err
	}
	return &export, nil
}

// ListByShipment returns a shipment's exports with their CSV bodies, newest
// first.
func (r *Repository) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]models.ShipmentExport, error) {
	var exports []models.ShipmentExport
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Find(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

// DeleteCreatedBefore removes exports older than cutoff.
func (r *Repository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ShipmentExport{})
	return res.RowsAffected, res.Error
}
