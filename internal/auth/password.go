package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/users"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/mailer"
	"github.com/distributeaid/shipment-tracker/pkg/security"
)

// RequestPasswordReset emails a reset code. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *service) RequestPasswordReset(ctx context.Context, req PasswordTokenRequest, remoteIP string) error {
	if err := s.captcha.Verify(ctx, req.CaptchaToken, remoteIP); err != nil {
		return err
	}

	email := users.NormalizeEmail(req.Email)
	var code string
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := users.NewRepository(tx).FindByEmail(ctx, email); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		var err error
		code, err = s.issueToken(ctx, tx, email)
		return err
	})
	if err != nil {
		return err
	}
	if code == "" {
		if s.logg != nil {
			s.logg.Debug(ctx, "password reset requested for unknown email")
		}
		return nil
	}

	return s.sendMail(ctx, mailer.Message{
		To:      email,
		Subject: "Reset your Shipment Tracker password",
		Body:    fmt.Sprintf("Your password reset code is %s.\n\nIgnore this email if you did not ask for it.\n", code),
	})
}

// SetNewPassword consumes a reset code and replaces the password. Proving
// control of the mailbox also confirms the account.
func (s *service) SetNewPassword(ctx context.Context, req NewPasswordRequest) error {
	email := users.NormalizeEmail(req.Email)
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.loadUser(ctx, tx, email)
		if err != nil {
			return err
		}
		if err := s.consumeToken(ctx, tx, email, req.Token); err != nil {
			return err
		}
		userRepo := users.NewRepository(tx)
		if err := userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
		if !user.IsConfirmed {
			if err := userRepo.SetConfirmed(ctx, user.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm user")
			}
		}
		return nil
	})
}
