package testdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// CreateUser inserts a confirmed account.
func CreateUser(t testing.TB, conn *gorm.DB, email string, isAdmin bool) *models.UserAccount {
	t.Helper()
	user := &models.UserAccount{
		Email:        email,
		Name:         email,
		PasswordHash: "unused",
		IsAdmin:      isAdmin,
		IsConfirmed:  true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateGroup inserts a group of the given type captained by captainID.
func CreateGroup(t testing.TB, conn *gorm.DB, name string, groupType enums.GroupType, captainID uuid.UUID) *models.Group {
	t.Helper()
	email := fmt.Sprintf("%s@example.org", uuid.NewString()[:8])
	group := &models.Group{
		Name:            name,
		GroupType:       groupType,
		PrimaryLocation: types.Location{CountryCode: "GB", TownCity: "London"},
		PrimaryContact:  types.Contact{Name: "Contact", Email: &email},
		CaptainID:       captainID,
	}
	if err := conn.Create(group).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	return group
}

// CreateShipment inserts a shipment in the given status without hubs.
func CreateShipment(t testing.TB, conn *gorm.DB, status enums.ShipmentStatus) *models.Shipment {
	t.Helper()
	shipment := &models.Shipment{
		ShippingRoute:    enums.ShippingRouteUkToFr,
		LabelYear:        2024,
		LabelMonth:       3,
		Status:           status,
		StatusChangeTime: time.Now().UTC(),
	}
	if err := conn.Create(shipment).Error; err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	return shipment
}

// CreateOffer inserts an offer from groupID to shipmentID.
func CreateOffer(t testing.TB, conn *gorm.DB, shipmentID, groupID uuid.UUID, status enums.OfferStatus) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		ShipmentID:       shipmentID,
		SendingGroupID:   groupID,
		Status:           status,
		StatusChangeTime: time.Now().UTC(),
	}
	if err := conn.Create(offer).Error; err != nil {
		t.Fatalf("create offer: %v", err)
	}
	return offer
}

// CreatePallet inserts an unpaid standard pallet on offerID.
func CreatePallet(t testing.TB, conn *gorm.DB, offerID uuid.UUID) *models.Pallet {
	t.Helper()
	pallet := &models.Pallet{
		OfferID:                 offerID,
		PalletType:              enums.PalletTypeStandard,
		PaymentStatus:           enums.PaymentStatusUninitiated,
		PaymentStatusChangeTime: time.Now().UTC(),
	}
	if err := conn.Create(pallet).Error; err != nil {
		t.Fatalf("create pallet: %v", err)
	}
	return pallet
}

// CreateLineItem inserts an empty proposed line item on palletID.
func CreateLineItem(t testing.TB, conn *gorm.DB, palletID uuid.UUID) *models.LineItem {
	t.Helper()
	item := &models.LineItem{
		PalletID:         palletID,
		Status:           enums.LineItemStatusProposed,
		StatusChangeTime: time.Now().UTC(),
		ContainerType:    enums.ContainerTypeUnset,
		Category:         enums.CategoryUnset,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("create line item: %v", err)
	}
	return item
}
