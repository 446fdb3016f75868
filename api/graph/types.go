package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/distributeaid/shipment-tracker/internal/exports"
	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

func toID(id uuid.UUID) graphql.ID {
	return graphql.ID(id.String())
}

func optionalID(id *uuid.UUID) *graphql.ID {
	if id == nil {
		return nil
	}
	out := toID(*id)
	return &out
}

func toTime(t time.Time) graphql.Time {
	return graphql.Time{Time: t}
}

func optionalTime(t *time.Time) *graphql.Time {
	if t == nil {
		return nil
	}
	return &graphql.Time{Time: *t}
}

func optionalInt(v *int) *int32 {
	if v == nil {
		return nil
	}
	out := int32(*v)
	return &out
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type userProfileResolver struct {
	root *Resolver
	user *models.UserAccount
}

func (u *userProfileResolver) ID() graphql.ID { return toID(u.user.ID) }
func (u *userProfileResolver) Name() string   { return u.user.Name }
func (u *userProfileResolver) Email() string  { return u.user.Email }
func (u *userProfileResolver) IsAdmin() bool  { return u.user.IsAdmin }

// GroupID is the first group the user captains, if any.
func (u *userProfileResolver) GroupID(ctx context.Context) (*graphql.ID, error) {
	captainID := u.user.ID
	owned, err := u.root.groups.List(ctx, groups.ListFilter{CaptainID: &captainID})
	if err != nil {
		return nil, u.root.fail(ctx, err)
	}
	if len(owned) == 0 {
		return nil, nil
	}
	return optionalID(&owned[0].ID), nil
}

type locationResolver struct {
	loc types.Location
}

func (l *locationResolver) CountryCode() *string {
	if l.loc.CountryCode == "" {
		return nil
	}
	return &l.loc.CountryCode
}

func (l *locationResolver) TownCity() string          { return l.loc.TownCity }
func (l *locationResolver) OpenLocationCode() *string { return l.loc.OpenLocationCode }

type contactResolver struct {
	c types.Contact
}

func (c *contactResolver) Name() string      { return c.c.Name }
func (c *contactResolver) Email() *string    { return c.c.Email }
func (c *contactResolver) Phone() *string    { return c.c.Phone }
func (c *contactResolver) Signal() *string   { return c.c.Signal }
func (c *contactResolver) WhatsApp() *string { return c.c.WhatsApp }

type groupResolver struct {
	root  *Resolver
	group *models.Group
}

func (g *groupResolver) ID() graphql.ID          { return toID(g.group.ID) }
func (g *groupResolver) Name() string            { return g.group.Name }
func (g *groupResolver) GroupType() string       { return g.group.GroupType.String() }
func (g *groupResolver) Description() *string    { return g.group.Description }
func (g *groupResolver) Website() *string        { return g.group.Website }
func (g *groupResolver) CaptainID() graphql.ID   { return toID(g.group.CaptainID) }
func (g *groupResolver) CreatedAt() graphql.Time { return toTime(g.group.CreatedAt) }
func (g *groupResolver) UpdatedAt() graphql.Time { return toTime(g.group.UpdatedAt) }

func (g *groupResolver) PrimaryLocation() *locationResolver {
	return &locationResolver{loc: g.group.PrimaryLocation}
}

func (g *groupResolver) PrimaryContact() *contactResolver {
	return &contactResolver{c: g.group.PrimaryContact}
}

func (g *groupResolver) Captain(ctx context.Context) (*userProfileResolver, error) {
	if g.group.Captain != nil {
		return &userProfileResolver{root: g.root, user: g.group.Captain}, nil
	}
	user, err := g.root.accounts.FindByID(ctx, g.group.CaptainID)
	if notFound(err) {
		// A deleted captain leaves the group readable.
		return nil, nil
	}
	if err != nil {
		return nil, g.root.fail(ctx, err)
	}
	return &userProfileResolver{root: g.root, user: user}, nil
}

func (r *Resolver) groupList(list []models.Group) []*groupResolver {
	out := make([]*groupResolver, 0, len(list))
	for i := range list {
		out = append(out, &groupResolver{root: r, group: &list[i]})
	}
	return out
}

// optionalGroup resolves a nullable group reference. A dangling id resolves
// to null rather than failing the whole line item.
func (r *Resolver) optionalGroup(ctx context.Context, id *uuid.UUID) (*groupResolver, error) {
	if id == nil {
		return nil, nil
	}
	group, err := r.groups.Get(ctx, *id)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &groupResolver{root: r, group: group}, nil
}

type moneyResolver struct {
	m *types.Money
}

func (m *moneyResolver) Currency() string { return m.m.Currency }
func (m *moneyResolver) Quantity() string { return m.m.Quantity.StringFixed(2) }

type pricingResolver struct {
	p types.ShipmentPricing
}

func (p *pricingResolver) SinglePallet() *moneyResolver {
	if p.p.SinglePallet == nil {
		return nil
	}
	return &moneyResolver{m: p.p.SinglePallet}
}

func (p *pricingResolver) HalfPallet() *moneyResolver {
	if p.p.HalfPallet == nil {
		return nil
	}
	return &moneyResolver{m: p.p.HalfPallet}
}

type shipmentResolver struct {
	root     *Resolver
	shipment *models.Shipment
}

func (s *shipmentResolver) ID() graphql.ID                 { return toID(s.shipment.ID) }
func (s *shipmentResolver) ShippingRoute() string          { return s.shipment.ShippingRoute.String() }
func (s *shipmentResolver) LabelYear() int32               { return int32(s.shipment.LabelYear) }
func (s *shipmentResolver) LabelMonth() int32              { return int32(s.shipment.LabelMonth) }
func (s *shipmentResolver) Status() string                 { return s.shipment.Status.String() }
func (s *shipmentResolver) StatusChangeTime() graphql.Time { return toTime(s.shipment.StatusChangeTime) }
func (s *shipmentResolver) CreatedAt() graphql.Time        { return toTime(s.shipment.CreatedAt) }
func (s *shipmentResolver) UpdatedAt() graphql.Time        { return toTime(s.shipment.UpdatedAt) }

func (s *shipmentResolver) OfferSubmissionDeadline() *graphql.Time {
	return optionalTime(s.shipment.OfferSubmissionDeadline)
}

func (s *shipmentResolver) SendingHubs() []*groupResolver {
	return s.root.groupList(s.shipment.SendingHubs)
}

func (s *shipmentResolver) ReceivingHubs() []*groupResolver {
	return s.root.groupList(s.shipment.ReceivingHubs)
}

func (s *shipmentResolver) Pricing() *pricingResolver {
	if s.shipment.Pricing.IsZero() {
		return nil
	}
	return &pricingResolver{p: s.shipment.Pricing}
}

type offerResolver struct {
	root  *Resolver
	offer *models.Offer
}

func (o *offerResolver) ID() graphql.ID                 { return toID(o.offer.ID) }
func (o *offerResolver) ShipmentID() graphql.ID         { return toID(o.offer.ShipmentID) }
func (o *offerResolver) SendingGroupID() graphql.ID     { return toID(o.offer.SendingGroupID) }
func (o *offerResolver) Status() string                 { return o.offer.Status.String() }
func (o *offerResolver) StatusChangeTime() graphql.Time { return toTime(o.offer.StatusChangeTime) }
func (o *offerResolver) PhotoURIs() []string            { return nonNilStrings(o.offer.PhotoURIs) }
func (o *offerResolver) CreatedAt() graphql.Time        { return toTime(o.offer.CreatedAt) }
func (o *offerResolver) UpdatedAt() graphql.Time        { return toTime(o.offer.UpdatedAt) }

func (o *offerResolver) Contact() *contactResolver {
	if o.offer.Contact.Contact == nil {
		return nil
	}
	return &contactResolver{c: *o.offer.Contact.Contact}
}

func (o *offerResolver) Pallets(ctx context.Context) ([]*palletResolver, error) {
	list, err := o.root.pallets.ListByOffer(ctx, o.offer.ID)
	if err != nil {
		return nil, o.root.fail(ctx, err)
	}
	out := make([]*palletResolver, 0, len(list))
	for i := range list {
		out = append(out, &palletResolver{root: o.root, pallet: &list[i]})
	}
	return out, nil
}

type palletResolver struct {
	root   *Resolver
	pallet *models.Pallet
}

func (p *palletResolver) ID() graphql.ID          { return toID(p.pallet.ID) }
func (p *palletResolver) OfferID() graphql.ID     { return toID(p.pallet.OfferID) }
func (p *palletResolver) PalletType() string      { return p.pallet.PalletType.String() }
func (p *palletResolver) PaymentStatus() string   { return p.pallet.PaymentStatus.String() }
func (p *palletResolver) CreatedAt() graphql.Time { return toTime(p.pallet.CreatedAt) }
func (p *palletResolver) UpdatedAt() graphql.Time { return toTime(p.pallet.UpdatedAt) }

func (p *palletResolver) PaymentStatusChangeTime() graphql.Time {
	return toTime(p.pallet.PaymentStatusChangeTime)
}

func (p *palletResolver) LineItems(ctx context.Context) ([]*lineItemResolver, error) {
	list, err := p.root.lineItems.ListByPallet(ctx, p.pallet.ID)
	if err != nil {
		return nil, p.root.fail(ctx, err)
	}
	out := make([]*lineItemResolver, 0, len(list))
	for i := range list {
		out = append(out, &lineItemResolver{root: p.root, item: &list[i]})
	}
	return out, nil
}

type lineItemResolver struct {
	root *Resolver
	item *models.LineItem
}

func (l *lineItemResolver) ID() graphql.ID                 { return toID(l.item.ID) }
func (l *lineItemResolver) PalletID() graphql.ID           { return toID(l.item.PalletID) }
func (l *lineItemResolver) Status() string                 { return l.item.Status.String() }
func (l *lineItemResolver) StatusChangeTime() graphql.Time { return toTime(l.item.StatusChangeTime) }
func (l *lineItemResolver) ContainerType() string          { return l.item.ContainerType.String() }
func (l *lineItemResolver) Category() string               { return l.item.Category.String() }
func (l *lineItemResolver) Description() *string           { return l.item.Description }
func (l *lineItemResolver) ItemCount() *int32              { return optionalInt(l.item.ItemCount) }
func (l *lineItemResolver) ContainerCount() *int32         { return optionalInt(l.item.ContainerCount) }
func (l *lineItemResolver) ContainerWeightGrams() *int32   { return optionalInt(l.item.ContainerWeightGrams) }
func (l *lineItemResolver) ContainerLengthCm() *int32      { return optionalInt(l.item.ContainerLengthCm) }
func (l *lineItemResolver) ContainerWidthCm() *int32       { return optionalInt(l.item.ContainerWidthCm) }
func (l *lineItemResolver) ContainerHeightCm() *int32      { return optionalInt(l.item.ContainerHeightCm) }
func (l *lineItemResolver) AffirmLiability() bool          { return l.item.AffirmLiability }
func (l *lineItemResolver) TosAccepted() bool              { return l.item.TosAccepted }
func (l *lineItemResolver) DangerousGoods() []string       { return nonNilStrings(l.item.DangerousGoods) }
func (l *lineItemResolver) PhotoURIs() []string            { return nonNilStrings(l.item.PhotoURIs) }
func (l *lineItemResolver) CreatedAt() graphql.Time        { return toTime(l.item.CreatedAt) }
func (l *lineItemResolver) UpdatedAt() graphql.Time        { return toTime(l.item.UpdatedAt) }

func (l *lineItemResolver) SendingHubDeliveryDate() *graphql.Time {
	return optionalTime(l.item.SendingHubDeliveryDate)
}

func (l *lineItemResolver) ProposedReceivingGroup(ctx context.Context) (*groupResolver, error) {
	return l.root.optionalGroup(ctx, l.item.ProposedReceivingGroupID)
}

func (l *lineItemResolver) AcceptedReceivingGroup(ctx context.Context) (*groupResolver, error) {
	return l.root.optionalGroup(ctx, l.item.AcceptedReceivingGroupID)
}

type shipmentExportResolver struct {
	export *models.ShipmentExport
}

func (e *shipmentExportResolver) ID() graphql.ID          { return toID(e.export.ID) }
func (e *shipmentExportResolver) ShipmentID() graphql.ID  { return toID(e.export.ShipmentID) }
func (e *shipmentExportResolver) CreatedByID() graphql.ID { return toID(e.export.UserAccountID) }
func (e *shipmentExportResolver) ContentsCsv() string     { return e.export.ContentsCSV }
func (e *shipmentExportResolver) GoogleSheetURL() *string { return e.export.GoogleSheetURL }
func (e *shipmentExportResolver) DownloadPath() string    { return exports.DownloadPath(e.export.ID) }
func (e *shipmentExportResolver) CreatedAt() graphql.Time { return toTime(e.export.CreatedAt) }
