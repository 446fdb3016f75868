package shipments

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// CreateShipmentInput captures the fields accepted by addShipment.
type CreateShipmentInput struct {
	ShippingRoute           enums.ShippingRoute    `json:"shippingRoute" validate:"required"`
	LabelYear               int                    `json:"labelYear" validate:"gte=2020,lte=2100"`
	LabelMonth              int                    `json:"labelMonth" validate:"gte=1,lte=12"`
	OfferSubmissionDeadline *time.Time             `json:"offerSubmissionDeadline"`
	Status                  enums.ShipmentStatus   `json:"status"`
	SendingHubIDs           []uuid.UUID            `json:"sendingHubIds" validate:"required,min=1"`
	ReceivingHubIDs         []uuid.UUID            `json:"receivingHubIds" validate:"required,min=1"`
	Pricing                 *types.ShipmentPricing `json:"pricing"`
}

// UpdateShipmentInput captures the fields accepted by updateShipment. Nil
// fields are left unchanged.
type UpdateShipmentInput struct {
	ShippingRoute           *enums.ShippingRoute   `json:"shippingRoute"`
	LabelYear               *int                   `json:"labelYear" validate:"omitempty,gte=2020,lte=2100"`
	LabelMonth              *int                   `json:"labelMonth" validate:"omitempty,gte=1,lte=12"`
	OfferSubmissionDeadline *time.Time             `json:"offerSubmissionDeadline"`
	Status                  *enums.ShipmentStatus  `json:"status"`
	SendingHubIDs           []uuid.UUID            `json:"sendingHubIds" validate:"omitempty,min=1"`
	ReceivingHubIDs         []uuid.UUID            `json:"receivingHubIds" validate:"omitempty,min=1"`
	Pricing                 *types.ShipmentPricing `json:"pricing"`
}
