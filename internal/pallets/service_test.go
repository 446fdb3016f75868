package pallets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/db/testdb"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

type fixture struct {
	svc     Service
	conn    *gorm.DB
	admin   pkgAuth.Actor
	captain pkgAuth.Actor
	offer   *models.Offer
}

func newFixture(t *testing.T, offerStatus enums.OfferStatus) fixture {
	t.Helper()
	conn := testdb.New(t)
	svc, err := NewService(db.Wrap(conn))
	require.NoError(t, err)

	admin := testdb.CreateUser(t, conn, "admin@example.org", true)
	captain := testdb.CreateUser(t, conn, "captain@example.org", false)
	group := testdb.CreateGroup(t, conn, "Senders", enums.GroupTypeSendingGroup, captain.ID)
	shipment := testdb.CreateShipment(t, conn, enums.ShipmentStatusOpen)
	return fixture{
		svc:     svc,
		conn:    conn,
		admin:   pkgAuth.Actor{UserID: admin.ID, IsAdmin: true},
		captain: pkgAuth.Actor{UserID: captain.ID},
		offer:   testdb.CreateOffer(t, conn, shipment.ID, group.ID, offerStatus),
	}
}

func TestCreatePalletAddsEmptyLineItem(t *testing.T) {
	f := newFixture(t, enums.OfferStatusDraft)
	ctx := context.Background()

	pallet, err := f.svc.Create(ctx, f.captain, f.offer.ID, enums.PalletTypeEuro)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusUninitiated, pallet.PaymentStatus)
	require.Len(t, pallet.LineItems, 1)
	assert.Equal(t, enums.LineItemStatusProposed, pallet.LineItems[0].Status)
	assert.Equal(t, enums.CategoryUnset, pallet.LineItems[0].Category)

	var count int64
	require.NoError(t, f.conn.Model(&models.LineItem{}).Where("pallet_id = ?", pallet.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = f.svc.Create(ctx, f.captain, f.offer.ID, "Pallet")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Create(ctx, f.captain, uuid.New(), enums.PalletTypeEuro)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreatePalletWritesNonNullArrays(t *testing.T) {
	f := newFixture(t, enums.OfferStatusDraft)
	ctx := context.Background()

	// line_items.dangerous_goods and photo_uris are NOT NULL, as in the
	// Postgres migration.
	err := f.conn.Exec(
		`INSERT INTO line_items (id, pallet_id, status, status_change_time, container_type, category, dangerous_goods, photo_uris)
		 VALUES (?, ?, 'Proposed', CURRENT_TIMESTAMP, 'Unset', 'Unset', NULL, '{}')`,
		uuid.New(), uuid.New(),
	).Error
	require.Error(t, err, "schema must reject NULL dangerous_goods")

	pallet, err := f.svc.Create(ctx, f.captain, f.offer.ID, enums.PalletTypeStandard)
	require.NoError(t, err)

	var stored models.LineItem
	require.NoError(t, f.conn.First(&stored, "pallet_id = ?", pallet.ID).Error)
	assert.NotNil(t, stored.DangerousGoods)
	assert.Empty(t, stored.DangerousGoods)
	assert.NotNil(t, stored.PhotoURIs)
}

func TestCreatePalletOnSubmittedOffer(t *testing.T) {
	f := newFixture(t, enums.OfferStatusProposed)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.captain, f.offer.ID, enums.PalletTypeStandard)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.Create(ctx, f.admin, f.offer.ID, enums.PalletTypeStandard)
	require.NoError(t, err)
}

func TestUpdatePalletPaymentStatusIsAdminOnly(t *testing.T) {
	f := newFixture(t, enums.OfferStatusDraft)
	ctx := context.Background()
	pallet := testdb.CreatePallet(t, f.conn, f.offer.ID)

	paid := enums.PaymentStatusPaid
	_, err := f.svc.Update(ctx, f.captain, pallet.ID, UpdatePalletInput{PaymentStatus: &paid})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	custom := enums.PalletTypeCustom
	updated, err := f.svc.Update(ctx, f.captain, pallet.ID, UpdatePalletInput{PalletType: &custom})
	require.NoError(t, err)
	assert.Equal(t, enums.PalletTypeCustom, updated.PalletType)

	updated, err = f.svc.Update(ctx, f.admin, pallet.ID, UpdatePalletInput{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, updated.PaymentStatus)
	assert.False(t, updated.PaymentStatusChangeTime.Before(pallet.PaymentStatusChangeTime))
}

func TestDestroyPalletRemovesLineItems(t *testing.T) {
	f := newFixture(t, enums.OfferStatusDraft)
	ctx := context.Background()
	pallet := testdb.CreatePallet(t, f.conn, f.offer.ID)
	testdb.CreateLineItem(t, f.conn, pallet.ID)
	testdb.CreateLineItem(t, f.conn, pallet.ID)

	stranger := testdb.CreateUser(t, f.conn, "stranger@example.org", false)
	_, err := f.svc.Destroy(ctx, pkgAuth.Actor{UserID: stranger.ID}, pallet.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	offer, err := f.svc.Destroy(ctx, f.captain, pallet.ID)
	require.NoError(t, err)
	assert.Equal(t, f.offer.ID, offer.ID)

	var count int64
	require.NoError(t, f.conn.Model(&models.LineItem{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = f.svc.Get(ctx, f.admin, pallet.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListByOffer(t *testing.T) {
	f := newFixture(t, enums.OfferStatusDraft)
	testdb.CreatePallet(t, f.conn, f.offer.ID)
	testdb.CreatePallet(t, f.conn, f.offer.ID)

	pallets, err := f.svc.ListByOffer(context.Background(), f.offer.ID)
	require.NoError(t, err)
	assert.Len(t, pallets, 2)
}
