package offers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// Repository handles offer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB (or transaction) to offer operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, offer *models.Offer) error {
	if offer == nil {
		return fmt.Errorf("offer is required")
	}
	return r.db.WithContext(ctx).Omit("Pallets").Create(offer).Error
}

func (r *Repository) Update(ctx context.Context, offer *models.Offer) error {
	if offer == nil {
		return fmt.Errorf("offer is required")
	}
	return r.db.WithContext(ctx).Omit("Pallets").Save(offer).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ExistsForGroup reports whether groupID already made an offer on shipmentID.
func (r *Repository) ExistsForGroup(ctx context.Context, shipmentID, groupID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("shipment_id = ? AND sending_group_id = ?", shipmentID, groupID).
		Count(&count).Error
	return count > 0, err
}

// ListByShipment returns the offers on a shipment, oldest first. When
// groupIDs is non-nil only offers from those groups are returned.
func (r *Repository) ListByShipment(ctx context.Context, shipmentID uuid.UUID, groupIDs []uuid.UUID) ([]models.Offer, error) {
	query := r.db.WithContext(ctx).Where("shipment_id = ?", shipmentID)
	if groupIDs != nil {
		if len(groupIDs) == 0 {
			return []models.Offer{}, nil
		}
		query = query.Where("sending_group_id IN ?", groupIDs)
	}
	var offers []models.Offer
	if err := query.Order("created_at ASC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// ListForExport loads offers in statuses together with their pallets and
// line items.
func (r *Repository) ListForExport(ctx context.Context, shipmentID uuid.UUID, statuses []enums.OfferStatus) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Preload("Pallets", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Pallets.LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("shipment_id = ? AND status IN ?", shipmentID, statuses).
		Order("created_at ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}
