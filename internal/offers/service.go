package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/groups"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/payloads"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// Service exposes offer operations.
type Service interface {
	List(ctx context.Context, actor pkgAuth.Actor, shipmentID uuid.UUID) ([]models.Offer, error)
	Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Offer, error)
	Create(ctx context.Context, actor pkgAuth.Actor, input CreateOfferInput) (*models.Offer, error)
	Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateOfferInput) (*models.Offer, error)
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

// NewService builds an offer service.
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

func (s *service) List(ctx context.Context, actor pkgAuth.Actor, shipmentID uuid.UUID) ([]models.Offer, error) {
	conn := s.db.DB()
	var groupIDs []uuid.UUID
	if !actor.IsAdmin {
		ids, err := groups.NewRepository(conn).IDsByCaptain(ctx, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load captained groups")
		}
		groupIDs = append([]uuid.UUID{}, ids...)
	}
	offers, err := NewRepository(conn).ListByShipment(ctx, shipmentID, groupIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list offers")
	}
	return offers, nil
}

func (s *service) Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Offer, error) {
	conn := s.db.DB()
	offer, err := Load(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeQuery(ctx, conn, actor, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *service) Create(ctx context.Context, actor pkgAuth.Actor, input CreateOfferInput) (*models.Offer, error) {
	if actor.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var created *models.Offer
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		group, err := groups.NewRepository(tx).FindByID(ctx, input.SendingGroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "sending group not found").WithDetails(map[string]string{"sendingGroupId": "is unknown"})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sending group")
		}
		if !actor.IsAdmin && group.CaptainID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the group captain can make offers for this group")
		}
		if group.GroupType != enums.GroupTypeSendingGroup {
			return pkgerrors.New(pkgerrors.CodeValidation, "only sending groups can make offers").WithDetails(map[string]string{"sendingGroupId": "is not a sending group"})
		}

		var shipment models.Shipment
		if err := tx.WithContext(ctx).Where("id = ?", input.ShipmentID).First(&shipment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "shipment not found").WithDetails(map[string]string{"shipmentId": "is unknown"})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipment")
		}
		if shipment.Status != enums.ShipmentStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is not open for offers")
		}

		repo := NewRepository(tx)
		exists, err := repo.ExistsForGroup(ctx, shipment.ID, group.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing offer")
		}
		if exists {
			return duplicateOffer()
		}

		offer := &models.Offer{
			ShipmentID:       shipment.ID,
			SendingGroupID:   group.ID,
			Status:           enums.OfferStatusDraft,
			StatusChangeTime: s.now(),
			Contact:          types.NullableContact{Contact: input.Contact},
			PhotoURIs:        append(pq.StringArray{}, input.PhotoURIs...),
		}
		if err := repo.Create(ctx, offer); err != nil {
			if db.IsUniqueViolation(err, "offers_shipment_group_key") {
				return duplicateOffer()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create offer")
		}
		created = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateOfferInput) (*models.Offer, error) {
	var updated *models.Offer
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		offer, err := Load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := AuthorizeMutation(ctx, tx, actor, offer); err != nil {
			return err
		}

		previous := offer.Status
		if input.Status != nil && *input.Status != previous {
			if !input.Status.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid offer status")
			}
			if !actor.IsAdmin && !(previous == enums.OfferStatusDraft && *input.Status == enums.OfferStatusProposed) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can set this offer status")
			}
			offer.Status = *input.Status
			offer.StatusChangeTime = s.now()
		}
		if input.Contact != nil {
			offer.Contact = types.NullableContact{Contact: input.Contact}
		}
		if input.PhotoURIs != nil {
			offer.PhotoURIs = pq.StringArray(input.PhotoURIs)
		}

		if err := NewRepository(tx).Update(ctx, offer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update offer")
		}

		if offer.Status != previous {
			event := outbox.DomainEvent{
				EventType:     enums.EventOfferStatusChanged,
				AggregateType: enums.AggregateOffer,
				AggregateID:   offer.ID,
				Actor:         &outbox.ActorRef{UserID: actor.UserID, IsAdmin: actor.IsAdmin},
				Data: payloads.OfferStatusChangedEvent{
					OfferID:        offer.ID,
					ShipmentID:     offer.ShipmentID,
					SendingGroupID: offer.SendingGroupID,
					PreviousStatus: previous,
					Status:         offer.Status,
				},
			}
			if err := s.events.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue offer event")
			}
		}
		updated = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func duplicateOffer() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "this group already has an offer on the shipment")
}
