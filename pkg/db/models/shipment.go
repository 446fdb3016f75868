package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// Shipment is one run of a shipping route, labelled by year and month.
type Shipment struct {
	ID                      uuid.UUID             `gorm:"type:uuid;primaryKey"`
	ShippingRoute           enums.ShippingRoute   `gorm:"column:shipping_route;not null"`
	LabelYear               int                   `gorm:"column:label_year;not null"`
	LabelMonth              int                   `gorm:"column:label_month;not null"`
	OfferSubmissionDeadline *time.Time            `gorm:"column:offer_submission_deadline"`
	Status                  enums.ShipmentStatus  `gorm:"column:status;not null"`
	StatusChangeTime        time.Time             `gorm:"column:status_change_time;not null"`
	Pricing                 types.ShipmentPricing `gorm:"column:pricing;type:jsonb"`
	SendingHubs             []Group               `gorm:"-"`
	ReceivingHubs           []Group               `gorm:"-"`
	CreatedAt               time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ShipmentSendingHub links a shipment to a hub goods leave from.
type ShipmentSendingHub struct {
	ShipmentID uuid.UUID `gorm:"column:shipment_id;type:uuid;primaryKey"`
	GroupID    uuid.UUID `gorm:"column:group_id;type:uuid;primaryKey"`
}

// ShipmentReceivingHub links a shipment to a hub goods arrive at.
type ShipmentReceivingHub struct {
	ShipmentID uuid.UUID `gorm:"column:shipment_id;type:uuid;primaryKey"`
	GroupID    uuid.UUID `gorm:"column:group_id;type:uuid;primaryKey"`
}
