package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/users"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/captcha"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/mailer"
	"github.com/distributeaid/shipment-tracker/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidTokenMessage       = "invalid or expired verification token"
	tokenDigits               = 6
)

// Service covers account registration, login and password resets.
type Service interface {
	Register(ctx context.Context, req RegisterRequest, remoteIP string) (*users.UserDTO, error)
	Confirm(ctx context.Context, req ConfirmRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	RequestPasswordReset(ctx context.Context, req PasswordTokenRequest, remoteIP string) error
	SetNewPassword(ctx context.Context, req NewPasswordRequest) error
}

type database interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Start(ctx context.Context, sessionID string, userID uuid.UUID) error
	Revoke(ctx context.Context, sessionID string) error
}

type service struct {
	db          database
	sessions    sessionManager
	mail        mailer.Sender
	captcha     captcha.Verifier
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	tokenTTL    time.Duration
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB             database
	SessionManager sessionManager
	Mailer         mailer.Sender
	Captcha        captcha.Verifier
	Logger         *logger.Logger
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	TokenTTL       time.Duration
	Now            func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if params.Captcha == nil {
		return nil, fmt.Errorf("captcha verifier is required")
	}
	if params.TokenTTL <= 0 {
		return nil, fmt.Errorf("verification token ttl must be positive")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:          params.DB,
		sessions:    params.SessionManager,
		mail:        params.Mailer,
		captcha:     params.Captcha,
		logg:        params.Logger,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		tokenTTL:    params.TokenTTL,
		now:         now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	userRepo := users.NewRepository(s.db.DB())
	user, err := userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		s.upgradeHash(ctx, userRepo, user.ID, req.Password)
	}

	now := s.now()
	if err := userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	token, claims, err := pkgAuth.MintSessionToken(s.jwtCfg, now, pkgAuth.SessionTokenPayload{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Start(ctx, claims.ID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &LoginResult{
		Token:     token,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      users.FromModel(user),
	}, nil
}

// upgradeHash re-encodes a password whose stored hash predates the current
// argon2 settings. Failures only cost the upgrade, never the login.
func (s *service) upgradeHash(ctx context.Context, repo *users.Repository, userID uuid.UUID, password string) {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = repo.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.password.rehash_failed")
	}
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// consumeToken checks the newest unused token for email and marks it used.
// Callers run it inside the transaction that applies the token's effect.
func (s *service) consumeToken(ctx context.Context, tx *gorm.DB, email, provided string) error {
	tokens := NewTokenRepository(tx)
	token, err := tokens.LatestUnused(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup verification token")
	}
	if !security.CodesEqual(token.Token, provided) || s.now().Sub(token.CreatedAt) > s.tokenTTL {
		return pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
	}
	if err := tokens.MarkUsed(ctx, token.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark token used")
	}
	return nil
}

// issueToken stores a fresh code for email inside tx.
func (s *service) issueToken(ctx context.Context, tx *gorm.DB, email string) (string, error) {
	code, err := security.GenerateNumericCode(tokenDigits)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification token")
	}
	if _, err := NewTokenRepository(tx).Create(ctx, email, code); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
	}
	return code, nil
}

func (s *service) sendMail(ctx context.Context, msg mailer.Message) error {
	if err := s.mail.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, tx *gorm.DB, email string) (*models.UserAccount, error) {
	user, err := users.NewRepository(tx).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

var _ database = (*db.Client)(nil)
