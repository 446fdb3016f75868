package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/distributeaid/shipment-tracker/api/middleware"
	"github.com/distributeaid/shipment-tracker/internal/exports"
	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/internal/lineitems"
	"github.com/distributeaid/shipment-tracker/internal/offers"
	"github.com/distributeaid/shipment-tracker/internal/pallets"
	"github.com/distributeaid/shipment-tracker/internal/shipments"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 12

type accountLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserAccount, error)
}

// Resolver is the root of the GraphQL schema. Query and mutation fields are
// methods on it; nested objects get their own resolver types.
type Resolver struct {
	groups    groups.Service
	shipments shipments.Service
	offers    offers.Service
	pallets   pallets.Service
	lineItems lineitems.Service
	exports   exports.Service
	accounts  accountLoader
	logg      *logger.Logger
}

type ResolverParams struct {
	Groups    groups.Service
	Shipments shipments.Service
	Offers    offers.Service
	Pallets   pallets.Service
	LineItems lineitems.Service
	Exports   exports.Service
	Accounts  accountLoader
	Logger    *logger.Logger
}

func NewResolver(params ResolverParams) (*Resolver, error) {
	switch {
	case params.Groups == nil:
		return nil, fmt.Errorf("groups service required")
	case params.Shipments == nil:
		return nil, fmt.Errorf("shipments service required")
	case params.Offers == nil:
		return nil, fmt.Errorf("offers service required")
	case params.Pallets == nil:
		return nil, fmt.Errorf("pallets service required")
	case params.LineItems == nil:
		return nil, fmt.Errorf("line items service required")
	case params.Exports == nil:
		return nil, fmt.Errorf("exports service required")
	case params.Accounts == nil:
		return nil, fmt.Errorf("account loader required")
	}
	return &Resolver{
		groups:    params.Groups,
		shipments: params.Shipments,
		offers:    params.Offers,
		pallets:   params.Pallets,
		lineItems: params.LineItems,
		exports:   params.Exports,
		accounts:  params.Accounts,
		logg:      params.Logger,
	}, nil
}

// NewSchema parses the embedded SDL against r. It fails when a schema field
// has no matching resolver method.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{logg: r.logg}),
	)
}

// actor returns the session's caller. The router mounts /graphql behind the
// session middleware, so a missing actor only happens in misconfigured tests.
func (r *Resolver) actor(ctx context.Context) (pkgAuth.Actor, error) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		return pkgAuth.Actor{}, r.fail(ctx, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
	}
	return actor, nil
}

type panicLogger struct {
	logg *logger.Logger
}

func (p panicLogger) LogPanic(ctx context.Context, value interface{}) {
	if p.logg == nil {
		return
	}
	p.logg.Error(ctx, "graphql.panic", fmt.Errorf("%v", value))
}
