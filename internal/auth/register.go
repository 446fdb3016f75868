package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/users"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/mailer"
	"github.com/distributeaid/shipment-tracker/pkg/security"
)

const emailTakenMessage = "email already registered"

// Register creates an unconfirmed account and emails its confirmation code.
// Registering an address that exists but was never confirmed resends a new
// code instead of failing, so a lost or undelivered email can be retried.
func (s *service) Register(ctx context.Context, req RegisterRequest, remoteIP string) (*users.UserDTO, error) {
	if err := s.captcha.Verify(ctx, req.CaptchaToken, remoteIP); err != nil {
		return nil, err
	}

	email := users.NormalizeEmail(req.Email)
	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var (
		user *models.UserAccount
		code string
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		existing, err := userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.IsConfirmed:
			return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		case err == nil:
			// Unconfirmed accounts get a fresh code; the stored password stays.
			user = existing
			code, err = s.issueToken(ctx, tx, email)
			return err
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			Name:         req.Name,
			PasswordHash: passwordHash,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		user = created

		code, err = s.issueToken(ctx, tx, email)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.sendMail(ctx, mailer.Message{
		To:      email,
		Subject: "Confirm your Shipment Tracker account",
		Body:    fmt.Sprintf("Hello %s,\n\nyour confirmation code is %s.\n", user.Name, code),
	}); err != nil {
		return nil, err
	}

	return users.FromModel(user), nil
}

func (s *service) Confirm(ctx context.Context, req ConfirmRequest) error {
	email := users.NormalizeEmail(req.Email)
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.loadUser(ctx, tx, email)
		if err != nil {
			return err
		}
		if err := s.consumeToken(ctx, tx, email, req.Token); err != nil {
			return err
		}
		if err := users.NewRepository(tx).SetConfirmed(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm user")
		}
		return nil
	})
}
