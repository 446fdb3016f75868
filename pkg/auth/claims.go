package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a session JWT.
type SessionTokenPayload struct {
	UserID  uuid.UUID
	IsAdmin bool
	JTI     string
}

// SessionTokenClaims is the typed JWT carried in the session cookie. IsAdmin
// is informational; middleware re-reads the flag from the database.
type SessionTokenClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	IsAdmin bool      `json:"is_admin"`
	jwt.RegisteredClaims
}
