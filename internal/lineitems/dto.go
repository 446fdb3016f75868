package lineitems

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// UpdateLineItemInput captures the fields accepted by updateLineItem. Nil
// fields are left unchanged. Status and AcceptedReceivingGroupID are
// reserved for administrators.
type UpdateLineItemInput struct {
	ProposedReceivingGroupID *uuid.UUID                   `json:"proposedReceivingGroupId"`
	AcceptedReceivingGroupID *uuid.UUID                   `json:"acceptedReceivingGroupId"`
	Status                   *enums.LineItemStatus        `json:"status"`
	ContainerType            *enums.LineItemContainerType `json:"containerType"`
	Category                 *enums.LineItemCategory      `json:"category"`
	Description              *string                      `json:"description" validate:"omitempty,max=2000"`
	ItemCount                *int                         `json:"itemCount" validate:"omitempty,gte=0"`
	ContainerCount           *int                         `json:"containerCount" validate:"omitempty,gte=0"`
	ContainerWeightGrams     *int                         `json:"containerWeightGrams" validate:"omitempty,gte=0,lte=2000000"`
	ContainerLengthCm        *int                         `json:"containerLengthCm" validate:"omitempty,gte=0"`
	ContainerWidthCm         *int                         `json:"containerWidthCm" validate:"omitempty,gte=0"`
	ContainerHeightCm        *int                         `json:"containerHeightCm" validate:"omitempty,gte=0"`
	AffirmLiability          *bool                        `json:"affirmLiability"`
	TosAccepted              *bool                        `json:"tosAccepted"`
	DangerousGoods           []enums.DangerousGoods       `json:"dangerousGoods"`
	PhotoURIs                []string                     `json:"photoUris" validate:"omitempty,max=20,dive,url"`
	SendingHubDeliveryDate   *time.Time                   `json:"sendingHubDeliveryDate"`
}

func (in UpdateLineItemInput) touchesContent() bool {
	return in.ProposedReceivingGroupID != nil ||
		in.ContainerType != nil ||
		in.Category != nil ||
		in.Description != nil ||
		in.ItemCount != nil ||
		in.ContainerCount != nil ||
		in.ContainerWeightGrams != nil ||
		in.ContainerLengthCm != nil ||
		in.ContainerWidthCm != nil ||
		in.ContainerHeightCm != nil ||
		in.AffirmLiability != nil ||
		in.TosAccepted != nil ||
		in.DangerousGoods != nil ||
		in.PhotoURIs != nil ||
		in.SendingHubDeliveryDate != nil
}

// validate checks the enum values. Ranges and lengths are declared in the
// validate tags and enforced where the input is decoded.
func (in UpdateLineItemInput) validate() map[string]string {
	details := map[string]string{}
	if in.Status != nil && !in.Status.IsValid() {
		details["status"] = "is invalid"
	}
	if in.ContainerType != nil && !in.ContainerType.IsValid() {
		details["containerType"] = "is invalid"
	}
	if in.Category != nil && !in.Category.IsValid() {
		details["category"] = "is invalid"
	}
	for _, goods := range in.DangerousGoods {
		if !goods.IsValid() {
			details["dangerousGoods"] = "contains an invalid value"
		}
	}
	return details
}

func (in UpdateLineItemInput) apply(item *models.LineItem) {
	if in.ProposedReceivingGroupID != nil {
		item.ProposedReceivingGroupID = in.ProposedReceivingGroupID
	}
	if in.AcceptedReceivingGroupID != nil {
		item.AcceptedReceivingGroupID = in.AcceptedReceivingGroupID
	}
	if in.ContainerType != nil {
		item.ContainerType = *in.ContainerType
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Description != nil {
		item.Description = in.Description
	}
	if in.ItemCount != nil {
		item.ItemCount = in.ItemCount
	}
	if in.ContainerCount != nil {
		item.ContainerCount = in.ContainerCount
	}
	if in.ContainerWeightGrams != nil {
		item.ContainerWeightGrams = in.ContainerWeightGrams
	}
	if in.ContainerLengthCm != nil {
		item.ContainerLengthCm = in.ContainerLengthCm
	}
	if in.ContainerWidthCm != nil {
		item.ContainerWidthCm = in.ContainerWidthCm
	}
	if in.ContainerHeightCm != nil {
		item.ContainerHeightCm = in.ContainerHeightCm
	}
	if in.AffirmLiability != nil {
		item.AffirmLiability = *in.AffirmLiability
	}
	if in.TosAccepted != nil {
		item.TosAccepted = *in.TosAccepted
	}
	if in.DangerousGoods != nil {
		goods := make(pq.StringArray, 0, len(in.DangerousGoods))
		for _, g := range in.DangerousGoods {
			goods = append(goods, g.String())
		}
		item.DangerousGoods = goods
	}
	if in.PhotoURIs != nil {
		item.PhotoURIs = pq.StringArray(in.PhotoURIs)
	}
	if in.SendingHubDeliveryDate != nil {
		item.SendingHubDeliveryDate = in.SendingHubDeliveryDate
	}
}
