package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

func (r *Resolver) AddGroup(ctx context.Context, args struct{ Input groupCreateInput }) (*groupResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	group, err := r.groups.Create(ctx, actor, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &groupResolver{root: r, group: group}, nil
}

func (r *Resolver) UpdateGroup(ctx context.Context, args struct {
	ID    graphql.ID
	Input groupUpdateInput
}) (*groupResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	group, err := r.groups.Update(ctx, actor, id, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &groupResolver{root: r, group: group}, nil
}

func (r *Resolver) AddShipment(ctx context.Context, args struct{ Input shipmentCreateInput }) (*shipmentResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	shipment, err := r.shipments.Create(ctx, actor, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &shipmentResolver{root: r, shipment: shipment}, nil
}

func (r *Resolver) UpdateShipment(ctx context.Context, args struct {
	ID    graphql.ID
	Input shipmentUpdateInput
}) (*shipmentResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	shipment, err := r.shipments.Update(ctx, actor, id, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &shipmentResolver{root: r, shipment: shipment}, nil
}

func (r *Resolver) AddOffer(ctx context.Context, args struct{ Input offerCreateInput }) (*offerResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	offer, err := r.offers.Create(ctx, actor, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &offerResolver{root: r, offer: offer}, nil
}

func (r *Resolver) UpdateOffer(ctx context.Context, args struct{ Input offerUpdateInput }) (*offerResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	offer, err := r.offers.Update(ctx, actor, id, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &offerResolver{root: r, offer: offer}, nil
}

func (r *Resolver) AddPallet(ctx context.Context, args struct{ Input palletCreateInput }) (*palletResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	offerID, err := parseID(args.Input.OfferID, "offerId")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	palletType, err := parseEnum(args.Input.PalletType, "palletType", enums.ParsePalletType)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	pallet, err := r.pallets.Create(ctx, actor, offerID, palletType)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &palletResolver{root: r, pallet: pallet}, nil
}

func (r *Resolver) UpdatePallet(ctx context.Context, args struct {
	ID    graphql.ID
	Input palletUpdateInput
}) (*palletResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	pallet, err := r.pallets.Update(ctx, actor, id, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &palletResolver{root: r, pallet: pallet}, nil
}

func (r *Resolver) DestroyPallet(ctx context.Context, args struct{ ID graphql.ID }) (*offerResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	offer, err := r.pallets.Destroy(ctx, actor, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &offerResolver{root: r, offer: offer}, nil
}

func (r *Resolver) AddLineItem(ctx context.Context, args struct{ PalletID graphql.ID }) (*lineItemResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	palletID, err := parseID(args.PalletID, "palletId")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	item, err := r.lineItems.Create(ctx, actor, palletID)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &lineItemResolver{root: r, item: item}, nil
}

func (r *Resolver) UpdateLineItem(ctx context.Context, args struct {
	ID    graphql.ID
	Input lineItemUpdateInput
}) (*lineItemResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	dto, err := args.Input.toDTO()
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	item, err := r.lineItems.Update(ctx, actor, id, dto)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &lineItemResolver{root: r, item: item}, nil
}

func (r *Resolver) DestroyLineItem(ctx context.Context, args struct{ ID graphql.ID }) (*palletResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(args.ID, "id")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	pallet, err := r.lineItems.Destroy(ctx, actor, id)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &palletResolver{root: r, pallet: pallet}, nil
}

func (r *Resolver) ExportShipment(ctx context.Context, args struct{ ShipmentID graphql.ID }) (*shipmentExportResolver, error) {
	actor, err := r.actor(ctx)
	if err != nil {
		return nil, err
	}
	shipmentID, err := parseID(args.ShipmentID, "shipmentId")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	export, err := r.exports.Export(ctx, actor, shipmentID)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &shipmentExportResolver{export: export}, nil
}
