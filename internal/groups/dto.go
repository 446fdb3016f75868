package groups

import (
	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// CreateGroupInput captures the fields accepted by addGroup.
type CreateGroupInput struct {
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	GroupType       enums.GroupType `json:"groupType" validate:"required"`
	Description     *string         `json:"description" validate:"omitempty,max=2000"`
	PrimaryLocation types.Location  `json:"primaryLocation"`
	PrimaryContact  types.Contact   `json:"primaryContact"`
	Website         *string         `json:"website" validate:"omitempty,url"`
}

// UpdateGroupInput captures the fields accepted by updateGroup. Nil fields
// are left unchanged.
type UpdateGroupInput struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=100"`
	GroupType       *enums.GroupType `json:"groupType"`
	Description     *string          `json:"description" validate:"omitempty,max=2000"`
	PrimaryLocation *types.Location  `json:"primaryLocation"`
	PrimaryContact  *types.Contact   `json:"primaryContact"`
	Website         *string          `json:"website" validate:"omitempty,url"`
}

func (in CreateGroupInput) toModel(captainID uuid.UUID) *models.Group {
	return &models.Group{
		Name:            in.Name,
		GroupType:       in.GroupType,
		Description:     in.Description,
		PrimaryLocation: in.PrimaryLocation,
		PrimaryContact:  in.PrimaryContact,
		Website:         in.Website,
		CaptainID:       captainID,
	}
}

func (in UpdateGroupInput) apply(group *models.Group) {
	if in.Name != nil {
		group.Name = *in.Name
	}
	if in.GroupType != nil {
		group.GroupType = *in.GroupType
	}
	if in.Description != nil {
		group.Description = in.Description
	}
	if in.PrimaryLocation != nil {
		group.PrimaryLocation = *in.PrimaryLocation
	}
	if in.PrimaryContact != nil {
		group.PrimaryContact = *in.PrimaryContact
	}
	if in.Website != nil {
		group.Website = in.Website
	}
}
