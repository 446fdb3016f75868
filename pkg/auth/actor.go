package auth

import "github.com/google/uuid"

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// IsZero reports whether no user is attached.
func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil
}
