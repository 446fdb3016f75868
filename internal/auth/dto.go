package auth

import (
	"time"

	"github.com/distributeaid/shipment-tracker/internal/users"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	CaptchaToken string `json:"captchaToken"`
}

// ConfirmRequest is the body of POST /register/confirm.
type ConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,len=6,numeric"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordTokenRequest is the body of POST /password/token.
type PasswordTokenRequest struct {
	Email        string `json:"email" validate:"required,email"`
	CaptchaToken string `json:"captchaToken"`
}

// NewPasswordRequest is the body of POST /password/new.
type NewPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResult carries the signed cookie value and the logged in user.
type LoginResult struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
	User      *users.UserDTO
}
