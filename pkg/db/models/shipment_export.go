package models

import (
	"time"

	"github.com/google/uuid"
)

// ShipmentExport is a frozen CSV snapshot of a shipment's line items.
type ShipmentExport struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID     uuid.UUID `gorm:"column:shipment_id;type:uuid;not null;index"`
	UserAccountID  uuid.UUID `gorm:"column:user_account_id;type:uuid;not null"`
	ContentsCSV    string    `gorm:"column:contents_csv;not null"`
	GoogleSheetURL *string   `gorm:"column:google_sheet_url"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
