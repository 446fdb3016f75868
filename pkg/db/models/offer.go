package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// Offer is a sending group's proposed contribution to a shipment. A group
// has at most one offer per shipment.
type Offer struct {
	ID               uuid.UUID             `gorm:"type:uuid;primaryKey"`
	ShipmentID       uuid.UUID             `gorm:"column:shipment_id;type:uuid;not null;uniqueIndex:offers_shipment_group_key"`
	SendingGroupID   uuid.UUID             `gorm:"column:sending_group_id;type:uuid;not null;uniqueIndex:offers_shipment_group_key"`
	Status           enums.OfferStatus     `gorm:"column:status;not null"`
	StatusChangeTime time.Time             `gorm:"column:status_change_time;not null"`
	Contact          types.NullableContact `gorm:"column:contact;type:jsonb"`
	PhotoURIs        pq.StringArray        `gorm:"column:photo_uris;type:text[];not null;default:'{}'"`
	Pallets          []Pallet              `gorm:"foreignKey:OfferID"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Offer) BeforeSave(*gorm.DB) error {
	o.PhotoURIs = nonNilArray(o.PhotoURIs)
	return nil
}
