package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

func (r *Resolver) Group(ctx context.Context, args struct{ ID graphql.ID }) (*groupResolver, error) {
	if _, err := r.actor(ctx); err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	group, err := r.groups.Get(ctx, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &groupResolver{root: r, group: group}, nil
}

func (r *Resolver) ListGroups(ctx context.Context, args struct {
	GroupType *[]string
	CaptainID *graphql.ID
}) ([]*groupResolver, error) {
	if _, err := r.actor(ctx); err != nil {
		return nil, err
	}

	var filter groups.ListFilter
	if args.GroupType != nil {
		for _, raw := range *args.GroupType {
			groupType, err := parseEnum(raw, "groupType", enums.ParseGroupType)
			if err != nil {
				return nil, r.fail(ctx, err)
			}
			filter.GroupTypes = append(filter.GroupTypes, groupType)
		}
	}
	captainID, err := parseOptionalID(args.CaptainID, "captainId")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	filter.CaptainID = captainID

	list, err := r.groups.List(ctx, filter)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return r.groupList(list), nil
}

func (r *Resolver) Shipment(ctx context.Context, args struct{ ID graphql.ID }) (*shipmentResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	shipment, err := r.shipments.Get(ctx, actor, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &shipmentResolver{root: r, shipment: shipment}, nil
}

func (r *Resolver) ListShipments(ctx context.Context, args struct{ Status *[]string }) ([]*shipmentResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}

	var statuses []enums.ShipmentStatus
	if args.Status != nil {
		for _, raw := range *args.Status {
			status, err := parseEnum(raw, "status", enums.ParseShipmentStatus)
			if err != nil {
				return nil, r.fail(ctx, err)
			}
			statuses = append(statuses, status)
		}
	}

	list, err := r.shipments.List(ctx, actor, statuses)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	out := make([]*shipmentResolver, 0, len(list))
	for i := range list {
		out = append(out, &shipmentResolver{root: r, shipment: &list[i]})
	}
	return out, nil
}

func (r *Resolver) Offer(ctx context.Context, args struct{ ID graphql.ID }) (*offerResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	offer, err := r.offers.Get(ctx, actor, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &offerResolver{root: r, offer: offer}, nil
}

func (r *Resolver) ListOffers(ctx context.Context, args struct{ ShipmentID graphql.ID }) ([]*offerResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	shipmentID, err := parseID(args.ShipmentID, "shipmentId")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	list, err := r.offers.List(ctx, actor, shipmentID)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	out := make([]*offerResolver, 0, len(list))
	for i := range list {
		out = append(out, &offerResolver{root: r, offer: &list[i]})
	}
	return out, nil
}

func (r *Resolver) Pallet(ctx context.Context, args struct{ ID graphql.ID }) (*palletResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	pallet, err := r.pallets.Get(ctx, actor, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &palletResolver{root: r, pallet: pallet}, nil
}

func (r *Resolver) LineItem(ctx context.Context, args struct{ ID graphql.ID }) (*lineItemResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	item, err := r.lineItems.Get(ctx, actor, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &lineItemResolver{root: r, item: item}, nil
}

func (r *Resolver) ListShipmentExports(ctx context.Context, args struct{ ShipmentID graphql.ID }) ([]*shipmentExportResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	shipmentID, err := parseID(args.ShipmentID, "shipmentId")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	list, err := r.exports.List(ctx, actor, shipmentID)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	out := make([]*shipmentExportResolver, 0, len(list))
	for i := range list {
		out = append(out, &shipmentExportResolver{export: &list[i]})
	}
	return out, nil
}

// Me returns null rather than an error for a session whose account vanished.
func (r *Resolver) Me(ctx context.Context) (*userProfileResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := r.accounts.FindByID(ctx, actor.UserID)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &userProfileResolver{root: r, user: user}, nil
}
