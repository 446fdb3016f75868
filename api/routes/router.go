package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/distributeaid/shipment-tracker/api/controllers"
	"github.com/distributeaid/shipment-tracker/api/middleware"
	"github.com/distributeaid/shipment-tracker/internal/auth"
	"github.com/distributeaid/shipment-tracker/internal/exports"
	"github.com/distributeaid/shipment-tracker/pkg/auth/session"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/metrics"
)

type rateStore interface {
	controllers.Pinger
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

type accountLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserAccount, error)
}

// Params collects everything the HTTP surface needs.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       rateStore
	Sessions    session.Checker
	Accounts    accountLoader
	Auth        auth.Service
	Exports     exports.Service
	Schema      *graphql.Schema
	HTTPMetrics *metrics.HTTPMetrics
	MetricsView http.Handler
}

func (p Params) validate() error {
	switch {
	case p.Config == nil:
		return fmt.Errorf("config required")
	case p.DB == nil:
		return fmt.Errorf("db pinger required")
	case p.Redis == nil:
		return fmt.Errorf("redis client required")
	case p.Sessions == nil:
		return fmt.Errorf("session checker required")
	case p.Accounts == nil:
		return fmt.Errorf("account loader required")
	case p.Auth == nil:
		return fmt.Errorf("auth service required")
	case p.Exports == nil:
		return fmt.Errorf("exports service required")
	case p.Schema == nil:
		return fmt.Errorf("graphql schema required")
	}
	return nil
}

func NewRouter(p Params) (http.Handler, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	sessions := middleware.NewSessionAuth(cfg.JWT, cfg.Cookie, p.Sessions, p.Accounts, logg)
	limits := cfg.AuthRateLimit
	loginLimit := middleware.AuthRateLimit(
		middleware.NewAuthRateLimitPolicy("login", limits.LoginWindow, limits.LoginIPLimit, limits.LoginEmailLimit),
		p.Redis, logg,
	)
	registerLimit := middleware.AuthRateLimit(
		middleware.NewAuthRateLimitPolicy("register", limits.RegisterWindow, limits.RegisterIPLimit, limits.RegisterEmailLimit),
		p.Redis, logg,
	)
	resetLimit := middleware.AuthRateLimit(
		middleware.NewAuthRateLimitPolicy("reset", limits.ResetWindow, limits.ResetIPLimit, limits.ResetEmailLimit),
		p.Redis, logg,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}, logg))
	})
	if p.MetricsView != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsView)
	}

	// Token guessing goes through the same limits as the request that
	// issued the token.
	r.With(registerLimit).Post("/register", controllers.AuthRegister(p.Auth, logg))
	r.With(registerLimit).Post("/register/confirm", controllers.AuthConfirm(p.Auth, logg))
	r.With(loginLimit).Post("/login", controllers.AuthLogin(p.Auth, cfg.Cookie, logg))
	r.With(sessions.Optional).Post("/logout", controllers.AuthLogout(p.Auth, cfg.Cookie, logg))
	r.With(resetLimit).Post("/password/token", controllers.PasswordToken(p.Auth, logg))
	r.With(resetLimit).Post("/password/new", controllers.PasswordNew(p.Auth, logg))

	r.Group(func(r chi.Router) {
		r.Use(sessions.Require)
		r.Get("/me", controllers.AuthMe(p.Accounts, logg))
		r.Get("/shipment-exports/{id}", controllers.ShipmentExportDownload(p.Exports, logg))
		r.Method(http.MethodPost, "/graphql", &relay.Handler{Schema: p.Schema})
	})

	return r, nil
}
