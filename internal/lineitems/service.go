package lineitems

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/internal/offers"
	"github.com/distributeaid/shipment-tracker/internal/pallets"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

// Service exposes line item operations. Access follows the owning offer.
type Service interface {
	Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.LineItem, error)
	ListByPallet(ctx context.Context, palletID uuid.UUID) ([]models.LineItem, error)
	Create(ctx context.Context, actor pkgAuth.Actor, palletID uuid.UUID) (*models.LineItem, error)
	Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateLineItemInput) (*models.LineItem, error)
	Destroy(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Pallet, error)
}

type database interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db  database
	now func() time.Time
}

func NewService(db database) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	return &service{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.LineItem, error) {
	conn := s.db.DB()
	item, _, offer, err := load(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	if err := offers.AuthorizeQuery(ctx, conn, actor, offer); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) ListByPallet(ctx context.Context, palletID uuid.UUID) ([]models.LineItem, error) {
	items, err := NewRepository(s.db.DB()).ListByPallet(ctx, palletID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list line items")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, actor pkgAuth.Actor, palletID uuid.UUID) (*models.LineItem, error) {
	var created *models.LineItem
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		pallet, offer, err := pallets.Load(ctx, tx, palletID)
		if err != nil {
			return err
		}
		if err := offers.AuthorizeMutation(ctx, tx, actor, offer); err != nil {
			return err
		}
		item := pallets.EmptyLineItem(pallet.ID, s.now())
		if err := NewRepository(tx).Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create line item")
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdateLineItemInput) (*models.LineItem, error) {
	if !actor.IsAdmin && (input.Status != nil || input.AcceptedReceivingGroupID != nil) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can accept line items")
	}
	if details := input.validate(); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	var updated *models.LineItem
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		item, _, offer, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		if input.touchesContent() {
			err = offers.AuthorizeMutation(ctx, tx, actor, offer)
		} else {
			err = offers.AuthorizeQuery(ctx, tx, actor, offer)
		}
		if err != nil {
			return err
		}

		if input.ProposedReceivingGroupID != nil {
			if err := ensureReceiver(ctx, tx, *input.ProposedReceivingGroupID, "proposedReceivingGroupId"); err != nil {
				return err
			}
		}
		if input.AcceptedReceivingGroupID != nil {
			if err := ensureReceiver(ctx, tx, *input.AcceptedReceivingGroupID, "acceptedReceivingGroupId"); err != nil {
				return err
			}
		}

		input.apply(item)
		if input.Status != nil && *input.Status != item.Status {
			item.Status = *input.Status
			item.StatusChangeTime = s.now()
		}
		if err := NewRepository(tx).Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update line item")
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Destroy(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Pallet, error) {
	var parent *models.Pallet
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		item, pallet, offer, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := offers.AuthorizeMutation(ctx, tx, actor, offer); err != nil {
			return err
		}
		if err := NewRepository(tx).Delete(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete line item")
		}
		parent = pallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parent, nil
}

// ensureReceiver checks that id names a group able to receive goods.
func ensureReceiver(ctx context.Context, tx *gorm.DB, id uuid.UUID, field string) error {
	group, err := groups.NewRepository(tx).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "receiving group not found").WithDetails(map[string]string{field: "is unknown"})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load receiving group")
	}
	if group.GroupType != enums.GroupTypeReceivingGroup && group.GroupType != enums.GroupTypeDaHub {
		return pkgerrors.New(pkgerrors.CodeValidation, "group cannot receive goods").WithDetails(map[string]string{field: "must be a receiving group or hub"})
	}
	return nil
}

func load(ctx context.Context, conn *gorm.DB, id uuid.UUID) (*models.LineItem, *models.Pallet, *models.Offer, error) {
	item, err := NewRepository(conn).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load line item")
	}
	pallet, offer, err := pallets.Load(ctx, conn, item.PalletID)
	if err != nil {
		return nil, nil, nil, err
	}
	return item, pallet, offer, nil
}
