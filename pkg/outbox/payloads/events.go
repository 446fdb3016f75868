package payloads

import (
	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// ShipmentStatusChangedEvent is emitted when an administrator moves a
// shipment to a new status.
type ShipmentStatusChangedEvent struct {
	ShipmentID     uuid.UUID            `json:"shipmentId"`
	ShippingRoute  enums.ShippingRoute  `json:"shippingRoute"`
	LabelYear      int                  `json:"labelYear"`
	LabelMonth     int                  `json:"labelMonth"`
	PreviousStatus enums.ShipmentStatus `json:"previousStatus"`
	Status         enums.ShipmentStatus `json:"status"`
}

// OfferStatusChangedEvent is emitted whenever an offer changes status.
type OfferStatusChangedEvent struct {
	OfferID        uuid.UUID         `json:"offerId"`
	ShipmentID     uuid.UUID         `json:"shipmentId"`
	SendingGroupID uuid.UUID         `json:"sendingGroupId"`
	PreviousStatus enums.OfferStatus `json:"previousStatus"`
	Status         enums.OfferStatus `json:"status"`
}
