package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAccount is a person who can log in. Captains and administrators are
// both plain accounts; IsAdmin is only set through cmd/admin.
type UserAccount struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name         string     `gorm:"column:name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsAdmin      bool       `gorm:"column:is_admin;not null;default:false"`
	IsConfirmed  bool       `gorm:"column:is_confirmed;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserAccount) TableName() string { return "user_accounts" }
