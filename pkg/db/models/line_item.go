package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// LineItem is one kind of goods packed on a pallet. Measurements are whole
// grams and centimetres.
type LineItem struct {
	ID                       uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	PalletID                 uuid.UUID                   `gorm:"column:pallet_id;type:uuid;not null;index"`
	ProposedReceivingGroupID *uuid.UUID                  `gorm:"column:proposed_receiving_group_id;type:uuid"`
	AcceptedReceivingGroupID *uuid.UUID                  `gorm:"column:accepted_receiving_group_id;type:uuid"`
	Status                   enums.LineItemStatus        `gorm:"column:status;not null"`
	StatusChangeTime         time.Time                   `gorm:"column:status_change_time;not null"`
	ContainerType            enums.LineItemContainerType `gorm:"column:container_type;not null"`
	Category                 enums.LineItemCategory      `gorm:"column:category;not null"`
	Description              *string                     `gorm:"column:description"`
	ItemCount                *int                        `gorm:"column:item_count"`
	ContainerCount           *int                        `gorm:"column:container_count"`
	ContainerWeightGrams     *int                        `gorm:"column:container_weight_grams"`
	ContainerLengthCm        *int                        `gorm:"column:container_length_cm"`
	ContainerWidthCm         *int                        `gorm:"column:container_width_cm"`
	ContainerHeightCm        *int                        `gorm:"column:container_height_cm"`
	AffirmLiability          bool                        `gorm:"column:affirm_liability;not null;default:false"`
	TosAccepted              bool                        `gorm:"column:tos_accepted;not null;default:false"`
	DangerousGoods           pq.StringArray              `gorm:"column:dangerous_goods;type:text[];not null;default:'{}'"`
	PhotoURIs                pq.StringArray              `gorm:"column:photo_uris;type:text[];not null;default:'{}'"`
	SendingHubDeliveryDate   *time.Time                  `gorm:"column:sending_hub_delivery_date"`
	CreatedAt                time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeSave keeps the array columns non-NULL; a nil pq.StringArray is
// written as NULL.
func (l *LineItem) BeforeSave(*gorm.DB) error {
	l.DangerousGoods = nonNilArray(l.DangerousGoods)
	l.PhotoURIs = nonNilArray(l.PhotoURIs)
	return nil
}

func nonNilArray(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}
