package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsAdmin     bool       `json:"isAdmin"`
	IsConfirmed bool       `json:"isConfirmed"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	Name         string
	PasswordHash string
}

func FromModel(u *models.UserAccount) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsAdmin:     u.IsAdmin,
		IsConfirmed: u.IsConfirmed,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToModel builds an unconfirmed, non-admin account.
func (c CreateUserDTO) ToModel() *models.UserAccount {
	return &models.UserAccount{
		Email:        NormalizeEmail(c.Email),
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
	}
}
