package graph

import (
	"time"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"

	"github.com/distributeaid/shipment-tracker/api/validators"
	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/internal/lineitems"
	"github.com/distributeaid/shipment-tracker/internal/offers"
	"github.com/distributeaid/shipment-tracker/internal/pallets"
	"github.com/distributeaid/shipment-tracker/internal/shipments"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

func parseID(id graphql.ID, field string) (uuid.UUID, error) {
	return validators.ParseUUID(string(id), field)
}

func parseOptionalID(id *graphql.ID, field string) (*uuid.UUID, error) {
	if id == nil {
		return nil, nil
	}
	raw := string(*id)
	return validators.ParseOptionalUUID(&raw, field)
}

func parseIDs(ids []graphql.ID, field string) ([]uuid.UUID, error) {
	if ids == nil {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := parseID(id, field)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

func invalidField(field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{field: "is invalid"})
}

// parseEnum runs one of the enums Parse helpers and reports failures against
// field.
func parseEnum[T any](raw string, field string, parse func(string) (T, error)) (T, error) {
	value, err := parse(raw)
	if err != nil {
		var zero T
		return zero, invalidField(field)
	}
	return value, nil
}

func parseOptionalEnum[T any](raw *string, field string, parse func(string) (T, error)) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseEnum(*raw, field, parse)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func optionalTimeValue(t *graphql.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := t.Time.UTC()
	return &out
}

func optionalIntValue(v *int32) *int {
	if v == nil {
		return nil
	}
	out := int(*v)
	return &out
}

func optionalStrings(v *[]string) []string {
	if v == nil {
		return nil
	}
	return append([]string{}, (*v)...)
}

type locationInput struct {
	CountryCode      string
	TownCity         string
	OpenLocationCode *string
}

func (in locationInput) toType() types.Location {
	return types.Location{
		CountryCode:      validators.SanitizeString(in.CountryCode, 0),
		TownCity:         validators.SanitizeString(in.TownCity, 0),
		OpenLocationCode: validators.SanitizeOptional(in.OpenLocationCode, 0),
	}
}

type contactInput struct {
	Name     string
	Email    string
	Phone    *string
	Signal   *string
	WhatsApp *string
}

func (in contactInput) toType() types.Contact {
	email := validators.SanitizeString(in.Email, 0)
	return types.Contact{
		Name:     validators.SanitizeString(in.Name, 0),
		Email:    &email,
		Phone:    validators.SanitizeOptional(in.Phone, 0),
		Signal:   validators.SanitizeOptional(in.Signal, 0),
		WhatsApp: validators.SanitizeOptional(in.WhatsApp, 0),
	}
}

func optionalContact(in *contactInput) *types.Contact {
	if in == nil {
		return nil
	}
	c := in.toType()
	return &c
}

type groupCreateInput struct {
	Name            string
	GroupType       string
	Description     *string
	PrimaryLocation locationInput
	PrimaryContact  contactInput
	Website         *string
}

func (in groupCreateInput) toDTO() (groups.CreateGroupInput, error) {
	groupType, err := parseEnum(in.GroupType, "groupType", enums.ParseGroupType)
	if err != nil {
		return groups.CreateGroupInput{}, err
	}
	dto := groups.CreateGroupInput{
		Name:            validators.SanitizeString(in.Name, 0),
		GroupType:       groupType,
		Description:     validators.SanitizeOptional(in.Description, 0),
		PrimaryLocation: in.PrimaryLocation.toType(),
		PrimaryContact:  in.PrimaryContact.toType(),
		Website:         validators.SanitizeOptional(in.Website, 0),
	}
	return dto, validators.ValidateStruct(dto)
}

type groupUpdateInput struct {
	Name            *string
	GroupType       *string
	Description     *string
	PrimaryLocation *locationInput
	PrimaryContact  *contactInput
	Website         *string
}

func (in groupUpdateInput) toDTO() (groups.UpdateGroupInput, error) {
	groupType, err := parseOptionalEnum(in.GroupType, "groupType", enums.ParseGroupType)
	if err != nil {
		return groups.UpdateGroupInput{}, err
	}
	dto := groups.UpdateGroupInput{
		GroupType:      groupType,
		Description:    validators.SanitizeOptional(in.Description, 0),
		PrimaryContact: optionalContact(in.PrimaryContact),
		Website:        validators.SanitizeOptional(in.Website, 0),
	}
	if in.Name != nil {
		name := validators.SanitizeString(*in.Name, 0)
		dto.Name = &name
	}
	if in.PrimaryLocation != nil {
		loc := in.PrimaryLocation.toType()
		dto.PrimaryLocation = &loc
	}
	return dto, validators.ValidateStruct(dto)
}

type moneyInput struct {
	Currency string
	Quantity string
}

type pricingInput struct {
	SinglePallet *moneyInput
	HalfPallet   *moneyInput
}

func (in *moneyInput) toType(field string) (*types.Money, error) {
	if in == nil {
		return nil, nil
	}
	qty, err := decimal.NewFromString(in.Quantity)
	if err != nil {
		return nil, invalidField(field + ".quantity")
	}
	return &types.Money{Currency: validators.SanitizeString(in.Currency, 0), Quantity: qty}, nil
}

func (in *pricingInput) toType() (*types.ShipmentPricing, error) {
	if in == nil {
		return nil, nil
	}
	single, err := in.SinglePallet.toType("pricing.singlePallet")
	if err != nil {
		return nil, err
	}
	half, err := in.HalfPallet.toType("pricing.halfPallet")
	if err != nil {
		return nil, err
	}
	return &types.ShipmentPricing{SinglePallet: single, HalfPallet: half}, nil
}

type shipmentCreateInput struct {
	ShippingRoute           string
	LabelYear               int32
	LabelMonth              int32
	OfferSubmissionDeadline *graphql.Time
	Status                  *string
	SendingHubIDs           []graphql.ID
	ReceivingHubIDs         []graphql.ID
	Pricing                 *pricingInput
}

func (in shipmentCreateInput) toDTO() (shipments.CreateShipmentInput, error) {
	var dto shipments.CreateShipmentInput
	route, err := parseEnum(in.ShippingRoute, "shippingRoute", enums.ParseShippingRoute)
	if err != nil {
		return dto, err
	}
	status, err := parseOptionalEnum(in.Status, "status", enums.ParseShipmentStatus)
	if err != nil {
		return dto, err
	}
	sending, err := parseIDs(in.SendingHubIDs, "sendingHubIds")
	if err != nil {
		return dto, err
	}
	receiving, err := parseIDs(in.ReceivingHubIDs, "receivingHubIds")
	if err != nil {
		return dto, err
	}
	pricing, err := in.Pricing.toType()
	if err != nil {
		return dto, err
	}

	dto = shipments.CreateShipmentInput{
		ShippingRoute:           route,
		LabelYear:               int(in.LabelYear),
		LabelMonth:              int(in.LabelMonth),
		OfferSubmissionDeadline: optionalTimeValue(in.OfferSubmissionDeadline),
		SendingHubIDs:           sending,
		ReceivingHubIDs:         receiving,
		Pricing:                 pricing,
	}
	if status != nil {
		dto.Status = *status
	}
	return dto, validators.ValidateStruct(dto)
}

type shipmentUpdateInput struct {
	ShippingRoute           *string
	LabelYear               *int32
	LabelMonth              *int32
	OfferSubmissionDeadline *graphql.Time
	Status                  *string
	SendingHubIDs           *[]graphql.ID
	ReceivingHubIDs         *[]graphql.ID
	Pricing                 *pricingInput
}

func (in shipmentUpdateInput) toDTO() (shipments.UpdateShipmentInput, error) {
	var dto shipments.UpdateShipmentInput
	route, err := parseOptionalEnum(in.ShippingRoute, "shippingRoute", enums.ParseShippingRoute)
	if err != nil {
		return dto, err
	}
	status, err := parseOptionalEnum(in.Status, "status", enums.ParseShipmentStatus)
	if err != nil {
		return dto, err
	}
	pricing, err := in.Pricing.toType()
	if err != nil {
		return dto, err
	}

	dto = shipments.UpdateShipmentInput{
		ShippingRoute:           route,
		LabelYear:               optionalIntValue(in.LabelYear),
		LabelMonth:              optionalIntValue(in.LabelMonth),
		OfferSubmissionDeadline: optionalTimeValue(in.OfferSubmissionDeadline),
		Status:                  status,
		Pricing:                 pricing,
	}
	if in.SendingHubIDs != nil {
		if dto.SendingHubIDs, err = parseIDs(*in.SendingHubIDs, "sendingHubIds"); err != nil {
			return dto, err
		}
	}
	if in.ReceivingHubIDs != nil {
		if dto.ReceivingHubIDs, err = parseIDs(*in.ReceivingHubIDs, "receivingHubIds"); err != nil {
			return dto, err
		}
	}
	return dto, validators.ValidateStruct(dto)
}

type offerCreateInput struct {
	ShipmentID     graphql.ID
	SendingGroupID graphql.ID
	Contact        *contactInput
	PhotoURIs      *[]string
}

func (in offerCreateInput) toDTO() (offers.CreateOfferInput, error) {
	var dto offers.CreateOfferInput
	shipmentID, err := parseID(in.ShipmentID, "shipmentId")
	if err != nil {
		return dto, err
	}
	groupID, err := parseID(in.SendingGroupID, "sendingGroupId")
	if err != nil {
		return dto, err
	}
	dto = offers.CreateOfferInput{
		ShipmentID:     shipmentID,
		SendingGroupID: groupID,
		Contact:        optionalContact(in.Contact),
		PhotoURIs:      optionalStrings(in.PhotoURIs),
	}
	return dto, validators.ValidateStruct(dto)
}

type offerUpdateInput struct {
	ID        graphql.ID
	Status    *string
	Contact   *contactInput
	PhotoURIs *[]string
}

func (in offerUpdateInput) toDTO() (uuid.UUID, offers.UpdateOfferInput, error) {
	var dto offers.UpdateOfferInput
	id, err := parseID(in.ID, "id")
	if err != nil {
		return uuid.Nil, dto, err
	}
	status, err := parseOptionalEnum(in.Status, "status", enums.ParseOfferStatus)
	if err != nil {
		return uuid.Nil, dto, err
	}
	dto = offers.UpdateOfferInput{
		Status:    status,
		Contact:   optionalContact(in.Contact),
		PhotoURIs: optionalStrings(in.PhotoURIs),
	}
	return id, dto, validators.ValidateStruct(dto)
}

type palletCreateInput struct {
	OfferID    graphql.ID
	PalletType string
}

type palletUpdateInput struct {
	PalletType    *string
	PaymentStatus *string
}

func (in palletUpdateInput) toDTO() (pallets.UpdatePalletInput, error) {
	palletType, err := parseOptionalEnum(in.PalletType, "palletType", enums.ParsePalletType)
	if err != nil {
		return pallets.UpdatePalletInput{}, err
	}
	payment, err := parseOptionalEnum(in.PaymentStatus, "paymentStatus", enums.ParsePaymentStatus)
	if err != nil {
		return pallets.UpdatePalletInput{}, err
	}
	return pallets.UpdatePalletInput{PalletType: palletType, PaymentStatus: payment}, nil
}

type lineItemUpdateInput struct {
	ProposedReceivingGroupID *graphql.ID
	AcceptedReceivingGroupID *graphql.ID
	Status                   *string
	ContainerType            *string
	Category                 *string
	Description              *string
	ItemCount                *int32
	ContainerCount           *int32
	ContainerWeightGrams     *int32
	ContainerLengthCm        *int32
	ContainerWidthCm         *int32
	ContainerHeightCm        *int32
	AffirmLiability          *bool
	TosAccepted              *bool
	DangerousGoods           *[]string
	PhotoURIs                *[]string
	SendingHubDeliveryDate   *graphql.Time
}

func (in lineItemUpdateInput) toDTO() (lineitems.UpdateLineItemInput, error) {
	var dto lineitems.UpdateLineItemInput
	proposed, err := parseOptionalID(in.ProposedReceivingGroupID, "proposedReceivingGroupId")
	if err != nil {
		return dto, err
	}
	accepted, err := parseOptionalID(in.AcceptedReceivingGroupID, "acceptedReceivingGroupId")
	if err != nil {
		return dto, err
	}
	status, err := parseOptionalEnum(in.Status, "status", enums.ParseLineItemStatus)
	if err != nil {
		return dto, err
	}
	containerType, err := parseOptionalEnum(in.ContainerType, "containerType", enums.ParseLineItemContainerType)
	if err != nil {
		return dto, err
	}
	category, err := parseOptionalEnum(in.Category, "category", enums.ParseLineItemCategory)
	if err != nil {
		return dto, err
	}

	var goods []enums.DangerousGoods
	if in.DangerousGoods != nil {
		goods = make([]enums.DangerousGoods, 0, len(*in.DangerousGoods))
		for _, raw := range *in.DangerousGoods {
			g, err := parseEnum(raw, "dangerousGoods", enums.ParseDangerousGoods)
			if err != nil {
				return dto, err
			}
			goods = append(goods, g)
		}
	}

	dto = lineitems.UpdateLineItemInput{
		ProposedReceivingGroupID: proposed,
		AcceptedReceivingGroupID: accepted,
		Status:                   status,
		ContainerType:            containerType,
		Category:                 category,
		Description:              validators.SanitizeOptional(in.Description, 0),
		ItemCount:                optionalIntValue(in.ItemCount),
		ContainerCount:           optionalIntValue(in.ContainerCount),
		ContainerWeightGrams:     optionalIntValue(in.ContainerWeightGrams),
		ContainerLengthCm:        optionalIntValue(in.ContainerLengthCm),
		ContainerWidthCm:         optionalIntValue(in.ContainerWidthCm),
		ContainerHeightCm:        optionalIntValue(in.ContainerHeightCm),
		AffirmLiability:          in.AffirmLiability,
		TosAccepted:              in.TosAccepted,
		DangerousGoods:           goods,
		PhotoURIs:                optionalStrings(in.PhotoURIs),
		SendingHubDeliveryDate:   optionalTimeValue(in.SendingHubDeliveryDate),
	}
	return dto, validators.ValidateStruct(dto)
}
