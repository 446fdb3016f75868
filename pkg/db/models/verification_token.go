package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
)

// VerificationToken is a short numeric code emailed for account
// confirmation and password resets.
type VerificationToken struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primaryKey"`
	Email     string                        `gorm:"column:email;not null;index"`
	Token     string                        `gorm:"column:token;not null"`
	Status    enums.VerificationTokenStatus `gorm:"column:status;not null;default:'unused'"`
	CreatedAt time.Time                     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                     `gorm:"column:updated_at;autoUpdateTime"`
}
