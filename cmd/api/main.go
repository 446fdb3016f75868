package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/distributeaid/shipment-tracker/api/graph"
	"github.com/distributeaid/shipment-tracker/api/routes"
	"github.com/distributeaid/shipment-tracker/internal/auth"
	"github.com/distributeaid/shipment-tracker/internal/exports"
	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/internal/lineitems"
	"github.com/distributeaid/shipment-tracker/internal/offers"
	"github.com/distributeaid/shipment-tracker/internal/pallets"
	"github.com/distributeaid/shipment-tracker/internal/shipments"
	"github.com/distributeaid/shipment-tracker/internal/users"
	"github.com/distributeaid/shipment-tracker/pkg/auth/session"
	"github.com/distributeaid/shipment-tracker/pkg/captcha"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/mailer"
	"github.com/distributeaid/shipment-tracker/pkg/metrics"
	"github.com/distributeaid/shipment-tracker/pkg/migrate"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
	"github.com/distributeaid/shipment-tracker/pkg/redis"
	"github.com/distributeaid/shipment-tracker/pkg/sheets"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	router, err := buildRouter(cfg, logg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to build router", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"serviceKind": cfg.Service.Kind,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server shutting down gracefully")
	}
}

func buildRouter(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, sessionManager *session.Manager) (http.Handler, error) {
	conn := dbClient.DB()
	accounts := users.NewRepository(conn)

	mail, err := mailer.New(cfg.Email, logg)
	if err != nil {
		return nil, err
	}
	verifier, err := captcha.NewFromConfig(cfg.Captcha)
	if err != nil {
		return nil, err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		SessionManager: sessionManager,
		Mailer:         mail,
		Captcha:        verifier,
		Logger:         logg,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		TokenTTL:       cfg.Cron.VerificationTokenTTL,
	})
	if err != nil {
		return nil, err
	}

	events := outbox.NewService(outbox.NewRepository(conn), logg)

	groupService, err := groups.NewService(groups.NewRepository(conn))
	if err != nil {
		return nil, err
	}
	shipmentService, err := shipments.NewService(dbClient, events)
	if err != nil {
		return nil, err
	}
	offerService, err := offers.NewService(dbClient, events)
	if err != nil {
		return nil, err
	}
	palletService, err := pallets.NewService(dbClient)
	if err != nil {
		return nil, err
	}
	lineItemService, err := lineitems.NewService(dbClient)
	if err != nil {
		return nil, err
	}

	var writer sheets.Writer
	if cfg.Sheets.Enabled {
		client, err := sheets.NewClient(context.Background(), cfg.GCP)
		if err != nil {
			return nil, err
		}
		writer = client
	}
	exportService, err := exports.NewService(dbClient, writer, logg)
	if err != nil {
		return nil, err
	}

	resolver, err := graph.NewResolver(graph.ResolverParams{
		Groups:    groupService,
		Shipments: shipmentService,
		Offers:    offerService,
		Pallets:   palletService,
		LineItems: lineItemService,
		Exports:   exportService,
		Accounts:  accounts,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(routes.Params{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Sessions:    sessionManager,
		Accounts:    accounts,
		Auth:        authService,
		Exports:     exportService,
		Schema:      schema,
		HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		MetricsView: promhttp.Handler(),
	})
}
