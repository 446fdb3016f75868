package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

// Group is an organisation taking part in shipments. The captain is the
// account allowed to act on the group's behalf.
type Group struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null;uniqueIndex"`
	GroupType       enums.GroupType `gorm:"column:group_type;not null"`
	Description     *string         `gorm:"column:description"`
	PrimaryLocation types.Location  `gorm:"column:primary_location;type:jsonb;not null"`
	PrimaryContact  types.Contact   `gorm:"column:primary_contact;type:jsonb;not null"`
	Website         *string         `gorm:"column:website"`
	CaptainID       uuid.UUID       `gorm:"column:captain_id;type:uuid;not null;index"`
	Captain         *UserAccount    `gorm:"foreignKey:CaptainID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
