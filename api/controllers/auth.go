package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/distributeaid/shipment-tracker/api/middleware"
	"github.com/distributeaid/shipment-tracker/api/responses"
	"github.com/distributeaid/shipment-tracker/api/validators"
	"github.com/distributeaid/shipment-tracker/internal/auth"
	"github.com/distributeaid/shipment-tracker/internal/users"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

type accountLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserAccount, error)
}

// AuthRegister creates an unconfirmed account and mails its verification token.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body, middleware.ClientIP(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

func AuthConfirm(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.ConfirmRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Confirm(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AuthLogin sets the session cookie on success. The token itself is never
// part of the response body.
func AuthLogin(svc auth.Service, cookie config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(cookie, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, result.User)
	}
}

// AuthLogout is mounted behind the optional session middleware so a stale
// cookie still gets cleared.
func AuthLogout(svc auth.Service, cookie config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		http.SetCookie(w, expiredCookie(cookie))
		w.WriteHeader(http.StatusNoContent)
	}
}

func AuthMe(accounts accountLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		account, err := accounts.FindByID(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account"))
			return
		}
		responses.WriteSuccess(w, users.FromModel(account))
	}
}

// PasswordToken always answers 202 so callers cannot probe for accounts.
func PasswordToken(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.PasswordTokenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RequestPasswordReset(r.Context(), body, middleware.ClientIP(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func PasswordNew(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.NewPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetNewPassword(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionCookie(cfg config.CookieConfig, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie(cfg config.CookieConfig) *http.Cookie {
	c := sessionCookie(cfg, "", time.Unix(0, 0))
	c.MaxAge = -1
	return c
}
