package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

type Pallet struct {
	ID                      uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OfferID                 uuid.UUID           `gorm:"column:offer_id;type:uuid;not null;index"`
	PalletType              enums.PalletType    `gorm:"column:pallet_type;not null"`
	PaymentStatus           enums.PaymentStatus `gorm:"column:payment_status;not null"`
	PaymentStatusChangeTime time.Time           `gorm:"column:payment_status_change_time;not null"`
	LineItems               []LineItem          `gorm:"foreignKey:PalletID"`
	CreatedAt               time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
