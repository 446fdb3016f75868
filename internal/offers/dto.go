package offers

import (
	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// CreateOfferInput captures the fields accepted by addOffer.
type CreateOfferInput struct {
	ShipmentID     uuid.UUID      `json:"shipmentId" validate:"required"`
	SendingGroupID uuid.UUID      `json:"sendingGroupId" validate:"required"`
	Contact        *types.Contact `json:"contact"`
	PhotoURIs      []string       `json:"photoUris" validate:"omitempty,max=20,dive,url"`
}

// UpdateOfferInput captures the fields accepted by updateOffer. Nil fields
// are left unchanged.
type UpdateOfferInput struct {
	Status    *enums.OfferStatus `json:"status"`
	Contact   *types.Contact     `json:"contact"`
	PhotoURIs []string           `json:"photoUris" validate:"omitempty,max=20,dive,url"`
}
