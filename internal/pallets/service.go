package pallets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/offers"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

// UpdatePalletInput captures the fields accepted by updatePallet.
type UpdatePalletInput struct {
	PalletType    *enums.PalletType    `json:"palletType"`
	PaymentStatus *enums.PaymentStatus `json:"paymentStatus"`
}

// Service exposes pallet operations. Access follows the owning offer.
type Service interface {
	Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Pallet, error)
	ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Pallet, error)
	Create(ctx context.Context, actor pkgAuth.Actor, offerID uuid.UUID, palletType enums.PalletType) (*models.Pallet, error)
	Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdatePalletInput) (*models.Pallet, error)
	Destroy(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Offer, error)
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

func (s *service) Get(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Pallet, error) {
	conn := s.db.DB()
	pallet, offer, err := Load(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	if err := offers.AuthorizeQuery(ctx, conn, actor, offer); err != nil {
		return nil, err
	}
	return pallet, nil
}

func (s *service) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Pallet, error) {
	pallets, err := NewRepository(s.db.DB()).ListByOffer(ctx, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pallets")
	}
	return pallets, nil
}

func (s *service) Create(ctx context.Context, actor pkgAuth.Actor, offerID uuid.UUID, palletType enums.PalletType) (*models.Pallet, error) {
	if !palletType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pallet type")
	}

	var created *models.Pallet
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		offer, err := offers.Load(ctx, tx, offerID)
		if err != nil {
			return err
		}
		if err := offers.AuthorizeMutation(ctx, tx, actor, offer); err != nil {
			return err
		}

		now := s.now()
		pallet := &models.Pallet{
			OfferID:                 offer.ID,
			PalletType:              palletType,
			PaymentStatus:           enums.PaymentStatusUninitiated,
			PaymentStatusChangeTime: now,
		}
		if err := NewRepository(tx).Create(ctx, pallet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pallet")
		}
		item := EmptyLineItem(pallet.ID, now)
		if err := tx.WithContext(ctx).Create(item).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create line item")
		}
		pallet.LineItems = []models.LineItem{*item}
		created = pallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID, input UpdatePalletInput) (*models.Pallet, error) {
	var updated *models.Pallet
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		pallet, offer, err := Load(ctx, tx, id)
		if err != nil {
			return err
		}

		if input.PaymentStatus != nil && !actor.IsAdmin {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can change payment status")
		}
		if input.PalletType != nil {
			if err := offers.AuthorizeMutation(ctx, tx, actor, offer); err != nil {
				return err
			}
			if !input.PalletType.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid pallet type")
			}
			pallet.PalletType = *input.PalletType
		} else if err := offers.AuthorizeQuery(ctx, tx, actor, offer); err != nil {
			return err
		}
		if input.PaymentStatus != nil && *input.PaymentStatus != pallet.PaymentStatus {
			if !input.PaymentStatus.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
			}
			pallet.PaymentStatus = *input.PaymentStatus
			pallet.PaymentStatusChangeTime = s.now()
		}

		if err := NewRepository(tx).Update(ctx, pallet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pallet")
		}
		updated = pallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Destroy(ctx context.Context, actor pkgAuth.Actor, id uuid.UUID) (*models.Offer, error) {
	var parent *models.Offer
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		pallet, offer, err := Load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := offers.AuthorizeMutation(ctx, tx, actor, offer); err != nil {
			return err
		}
		if err := NewRepository(tx).Delete(ctx, pallet.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pallet")
		}
		parent = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parent, nil
}

// Load fetches a pallet with the offer it belongs to.
func Load(ctx context.Context, conn *gorm.DB, id uuid.UUID) (*models.Pallet, *models.Offer, error) {
	pallet, err := NewRepository(conn).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "pallet not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pallet")
	}
	offer, err := offers.Load(ctx, conn, pallet.OfferID)
	if err != nil {
		return nil, nil, err
	}
	return pallet, offer, nil
}

// EmptyLineItem is the placeholder item every new pallet starts with.
func EmptyLineItem(palletID uuid.UUID, now time.Time) *models.LineItem {
	return &models.LineItem{
		PalletID:         palletID,
		Status:           enums.LineItemStatusProposed,
		StatusChangeTime: now,
		ContainerType:    enums.ContainerTypeUnset,
		Category:         enums.CategoryUnset,
		DangerousGoods:   pq.StringArray{},
		PhotoURIs:        pq.StringArray{},
	}
}
