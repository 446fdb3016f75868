package offers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/groups"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

// AuthorizeQuery allows administrators and the captain of the offer's
// sending group to read an offer and everything packed on it.
func AuthorizeQuery(ctx context.Context, conn *gorm.DB, actor pkgAuth.Actor, offer *models.Offer) error {
	if actor.IsAdmin {
		return nil
	}
	if actor.IsZero() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	group, err := groups.NewRepository(conn).FindByID(ctx, offer.SendingGroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not permitted to access this offer")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sending group")
	}
	if group.CaptainID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not permitted to access this offer")
	}
	return nil
}

// AuthorizeMutation extends AuthorizeQuery: captains may only change an
// offer while it is a draft on an open shipment.
func AuthorizeMutation(ctx context.Context, conn *gorm.DB, actor pkgAuth.Actor, offer *models.Offer) error {
	if err := AuthorizeQuery(ctx, conn, actor, offer); err != nil {
		return err
	}
	if actor.IsAdmin {
		return nil
	}
	if offer.Status != enums.OfferStatusDraft {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "offer can no longer be changed")
	}
	var shipment models.Shipment
	if err := conn.WithContext(ctx).Select("id", "status").Where("id = ?", offer.ShipmentID).First(&shipment).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipment")
	}
	if shipment.Status != enums.ShipmentStatusOpen {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is not open for offers")
	}
	return nil
}

// Load fetches an offer or reports NOT_FOUND.
func Load(ctx context.Context, conn *gorm.DB, id uuid.UUID) (*models.Offer, error) {
	offer, err := NewRepository(conn).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer")
	}
	return offer, nil
}
