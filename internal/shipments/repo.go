package shipments

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// Repository handles shipment persistence, including the hub join tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB (or transaction) to shipment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, shipment *models.Shipment) error {
	if shipment == nil {
		return fmt.Errorf("shipment is required")
	}
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *Repository) Update(ctx context.Context, shipment *models.Shipment) error {
	if shipment == nil {
		return fmt.Errorf("shipment is required")
	}
	return r.db.WithContext(ctx).Save(shipment).Error
}

// FindByID loads a shipment together with its hubs.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shipment).Error; err != nil {
		return nil, err
	}
	if err := r.attachHubs(ctx, []*models.Shipment{&shipment}); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// List returns shipments in any of statuses (all when empty), newest label
// first.
func (r *Repository) List(ctx context.Context, statuses []enums.ShipmentStatus) ([]models.Shipment, error) {
	query := r.db.WithContext(ctx).Model(&models.Shipment{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var shipments []models.Shipment
	if err := query.
		Order("label_year DESC").
		Order("label_month DESC").
		Order("created_at DESC").
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	ptrs := make([]*models.Shipment, len(shipments))
	for i := range shipments {
		ptrs[i] = &shipments[i]
	}
	if err := r.attachHubs(ctx, ptrs); err != nil {
		return nil, err
	}
	return shipments, nil
}

// ReplaceHubs rewrites the hub links of a shipment. A nil slice leaves that
// side untouched.
func (r *Repository) ReplaceHubs(ctx context.Context, shipmentID uuid.UUID, sending, receiving []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if sending != nil {
		if err := db.Where("shipment_id = ?", shipmentID).Delete(&models.ShipmentSendingHub{}).Error; err != nil {
			return err
		}
		rows := make([]models.ShipmentSendingHub, 0, len(sending))
		for _, id := range dedupe(sending) {
			rows = append(rows, models.ShipmentSendingHub{ShipmentID: shipmentID, GroupID: id})
		}
		if len(rows) > 0 {
			if err := db.Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	if receiving != nil {
		if err := db.Where("shipment_id = ?", shipmentID).Delete(&models.ShipmentReceivingHub{}).Error; err != nil {
			return err
		}
		rows := make([]models.ShipmentReceivingHub, 0, len(receiving))
		for _, id := range dedupe(receiving) {
			rows = append(rows, models.ShipmentReceivingHub{ShipmentID: shipmentID, GroupID: id})
		}
		if len(rows) > 0 {
			if err := db.Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repository) attachHubs(ctx context.Context, shipments []*models.Shipment) error {
	if len(shipments) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(shipments))
	for i, s := range shipments {
		ids[i] = s.ID
	}

	db := r.db.WithContext(ctx)
	var sending []models.ShipmentSendingHub
	if err := db.Where("shipment_id IN ?", ids).Find(&sending).Error; err != nil {
		return err
	}
	var receiving []models.ShipmentReceivingHub
	if err := db.Where("shipment_id IN ?", ids).Find(&receiving).Error; err != nil {
		return err
	}

	groupIDs := make([]uuid.UUID, 0, len(sending)+len(receiving))
	for _, link := range sending {
		groupIDs = append(groupIDs, link.GroupID)
	}
	for _, link := range receiving {
		groupIDs = append(groupIDs, link.GroupID)
	}
	groupsByID := map[uuid.UUID]models.Group{}
	if len(groupIDs) > 0 {
		var groups []models.Group
		if err := db.Where("id IN ?", dedupe(groupIDs)).Find(&groups).Error; err != nil {
			return err
		}
		for _, g := range groups {
			groupsByID[g.ID] = g
		}
	}

	byShipment := make(map[uuid.UUID]*models.Shipment, len(shipments))
	for _, s := range shipments {
		s.SendingHubs = []models.Group{}
		s.ReceivingHubs = []models.Group{}
		byShipment[s.ID] = s
	}
	for _, link := range sending {
		if g, ok := groupsByID[link.GroupID]; ok {
			s := byShipment[link.ShipmentID]
			s.SendingHubs = append(s.SendingHubs, g)
		}
	}
	for _, link := range receiving {
		if g, ok := groupsByID[link.GroupID]; ok {
			s := byShipment[link.ShipmentID]
			s.ReceivingHubs = append(s.ReceivingHubs, g)
		}
	}
	for _, s := range shipments {
		sortByName(s.SendingHubs)
		sortByName(s.ReceivingHubs)
	}
	return nil
}

func sortByName(groups []models.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
