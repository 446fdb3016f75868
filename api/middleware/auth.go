package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/api/responses"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/auth/session"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

type accountLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserAccount, error)
}

// SessionAuth resolves the session cookie into an Actor. The admin flag is
// read from the database on every request so a demotion applies at once.
type SessionAuth struct {
	jwt      config.JWTConfig
	cookie   string
	sessions session.Checker
	accounts accountLoader
	logg     *logger.Logger
}

func NewSessionAuth(jwt config.JWTConfig, cookie config.CookieConfig, sessions session.Checker, accounts accountLoader, logg *logger.Logger) *SessionAuth {
	return &SessionAuth{
		jwt:      jwt,
		cookie:   cookie.Name,
		sessions: sessions,
		accounts: accounts,
		logg:     logg,
	}
}

// Require rejects requests without a live session with 401.
func (a *SessionAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := a.authenticate(r)
		if err != nil {
			responses.WriteError(r.Context(), a.logg, w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the actor when the cookie is valid and otherwise passes
// the request through untouched.
func (a *SessionAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := a.authenticate(r)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
				next.ServeHTTP(w, r)
				return
			}
			responses.WriteError(r.Context(), a.logg, w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *SessionAuth) authenticate(r *http.Request) (context.Context, error) {
	ctx := r.Context()
	cookie, err := r.Cookie(a.cookie)
	if err != nil || cookie.Value == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}

	claims, err := pkgAuth.ParseSessionToken(a.jwt, cookie.Value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session")
	}

	owner, err := a.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
	}
	if owner != claims.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session mismatch")
	}

	account, err := a.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}

	actor := pkgAuth.Actor{UserID: account.ID, IsAdmin: account.IsAdmin}
	ctx = WithActor(ctx, actor)
	ctx = withSessionID(ctx, claims.ID)
	if a.logg != nil {
		ctx = a.logg.WithUserID(ctx, actor.UserID.String())
		ctx = a.logg.WithAdmin(ctx, actor.IsAdmin)
	}
	return ctx, nil
}
