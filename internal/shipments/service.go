package shipments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/groups"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/payloads"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

const minLabelYear = 2020

// Service exposes shipment operations.
type Service interface {
	List(ctx context.Context, actor pkgAuth.Actor, statuses []enums.ShipmentStatus) ([]models.Shipment, error)
	Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Shipment, error)
	Create(ctx context.Context, actor pkgAuth.Actor, input CreateShipmentInput) (*models.Shipment, error)
	Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateShipmentInput) (*models.Shipment, error)
}

type database interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db     database
	events outbox.Emitter
	now    func() time.Time
}

// NewService builds a shipment service. Status changes are recorded through
// events in the same transaction as the update.
func NewService(db database, events outbox.Emitter) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		db:     db,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context, actor pkgAuth.Actor, statuses []enums.ShipmentStatus) ([]models.Shipment, error) {
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipment status")
		}
	}
	if !actor.IsAdmin {
		statuses = visibleStatuses(statuses)
		if len(statuses) == 0 {
			return []models.Shipment{}, nil
		}
	}
	shipments, err := NewRepository(s.db.DB()).List(ctx, statuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shipments")
	}
	return shipments, nil
}

func (s *service) Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Shipment, error) {
	shipment, err := load(ctx, NewRepository(s.db.DB()), id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !shipment.Status.IsPublic() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shipment is not visible")
	}
	return shipment, nil
}

func (s *service) Create(ctx context.Context, actor pkgAuth.Actor, input CreateShipmentInput) (*models.Shipment, error) {
	if !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can create shipments")
	}
	if input.Status == "" {
		input.Status = enums.ShipmentStatusDraft
	}
	if err := validateFields(input.ShippingRoute, input.Status, input.LabelYear, input.LabelMonth, input.Pricing); err != nil {
		return nil, err
	}

	shipment := &models.Shipment{
		ShippingRoute:           input.ShippingRoute,
		LabelYear:               input.LabelYear,
		LabelMonth:              input.LabelMonth,
		OfferSubmissionDeadline: input.OfferSubmissionDeadline,
		Status:                  input.Status,
		StatusChangeTime:        s.now(),
	}
	if input.Pricing != nil {
		shipment.Pricing = *input.Pricing
	}

	var created *models.Shipment
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := ensureHubs(ctx, tx, input.SendingHubIDs, "sendingHubIds"); err != nil {
			return err
		}
		if err := ensureHubs(ctx, tx, input.ReceivingHubIDs, "receivingHubIds"); err != nil {
			return err
		}
		repo := NewRepository(tx)
		if err := repo.Create(ctx, shipment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shipment")
		}
		if err := repo.ReplaceHubs(ctx, shipment.ID, nonNil(input.SendingHubIDs), nonNil(input.ReceivingHubIDs)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link hubs")
		}
		var err error
		created, err = load(ctx, repo, shipment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateShipmentInput) (*models.Shipment, error) {
	if !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can update shipments")
	}

	var updated *models.Shipment
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		shipment, err := load(ctx, repo, id)
		if err != nil {
			return err
		}
		previous := shipment.Status

		applyUpdate(shipment, input)
		if err := validateFields(shipment.ShippingRoute, shipment.Status, shipment.LabelYear, shipment.LabelMonth, input.Pricing); err != nil {
			return err
		}
		if input.SendingHubIDs != nil {
			if err := ensureHubs(ctx, tx, input.SendingHubIDs, "sendingHubIds"); err != nil {
				return err
			}
		}
		if input.ReceivingHubIDs != nil {
			if err := ensureHubs(ctx, tx, input.ReceivingHubIDs, "receivingHubIds"); err != nil {
				return err
			}
		}

		statusChanged := shipment.Status != previous
		if statusChanged {
			shipment.StatusChangeTime = s.now()
		}
		if err := repo.Update(ctx, shipment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shipment")
		}
		if err := repo.ReplaceHubs(ctx, shipment.ID, input.SendingHubIDs, input.ReceivingHubIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link hubs")
		}

		if statusChanged {
			event := outbox.DomainEvent{
				EventType:     enums.EventShipmentStatusChanged,
				AggregateType: enums.AggregateShipment,
				AggregateID:   shipment.ID,
				Actor:         &outbox.ActorRef{UserID: actor.UserID, IsAdmin: actor.IsAdmin},
				Data: payloads.ShipmentStatusChangedEvent{
					ShipmentID:     shipment.ID,
					ShippingRoute:  shipment.ShippingRoute,
					LabelYear:      shipment.LabelYear,
					LabelMonth:     shipment.LabelMonth,
					PreviousStatus: previous,
					Status:         shipment.Status,
				},
			}
			if err := s.events.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue shipment event")
			}
		}

		updated, err = load(ctx, repo, shipment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyUpdate(shipment *models.Shipment, input UpdateShipmentInput) {
	if input.ShippingRoute != nil {
		shipment.ShippingRoute = *input.ShippingRoute
	}
	if input.LabelYear != nil {
		shipment.LabelYear = *input.LabelYear
	}
	if input.LabelMonth != nil {
		shipment.LabelMonth = *input.LabelMonth
	}
	if input.OfferSubmissionDeadline != nil {
		shipment.OfferSubmissionDeadline = input.OfferSubmissionDeadline
	}
	if input.Status != nil {
		shipment.Status = *input.Status
	}
	if input.Pricing != nil {
		shipment.Pricing = *input.Pricing
	}
}

func validateFields(route enums.ShippingRoute, status enums.ShipmentStatus, year, month int, pricing *types.ShipmentPricing) error {
	details := map[string]string{}
	if !route.IsValid() {
		details["shippingRoute"] = "is invalid"
	}
	if !status.IsValid() {
		details["status"] = "is invalid"
	}
	if year < minLabelYear {
		details["labelYear"] = fmt.Sprintf("must be at least %d", minLabelYear)
	}
	if month < 1 || month > 12 {
		details["labelMonth"] = "must be between 1 and 12"
	}
	if pricing != nil && pricing.HasNegative() {
		details["pricing"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// ensureHubs checks that every id names an existing DaHub group.
func ensureHubs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, field string) error {
	unique := dedupe(ids)
	found, err := groups.NewRepository(tx).FindByIDs(ctx, unique)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load hubs")
	}
	if len(found) != len(unique) {
		return pkgerrors.New(pkgerrors.CodeValidation, "hub not found").WithDetails(map[string]string{field: "contains an unknown group"})
	}
	for _, group := range found {
		if group.GroupType != enums.GroupTypeDaHub {
			return pkgerrors.New(pkgerrors.CodeValidation, "hubs must be DA hub groups").WithDetails(map[string]string{field: fmt.Sprintf("group %s is not a hub", group.Name)})
		}
	}
	return nil
}

func load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Shipment, error) {
	shipment, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipment")
	}
	return shipment, nil
}

// visibleStatuses intersects a requested filter with the statuses
// non-admins may read. An empty filter means every public status.
func visibleStatuses(requested []enums.ShipmentStatus) []enums.ShipmentStatus {
	if len(requested) == 0 {
		return enums.PublicShipmentStatuses()
	}
	out := make([]enums.ShipmentStatus, 0, len(requested))
	for _, status := range requested {
		if status.IsPublic() {
			out = append(out, status)
		}
	}
	return out
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
