package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/internal/users"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "email of the account to promote")
	revoke := flag.Bool("revoke", false, "remove admin rights instead of granting them")
	flag.Parse()

	address := strings.ToLower(strings.TrimSpace(*email))
	if address == "" {
		exitf("missing -email\n")
	}

	cfg, err := config.Load()
	if err != nil {
		exitf("failed to load config: %v\n", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx := context.Background()
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		exitf("failed to bootstrap database: %v\n", err)
	}
	defer dbClient.Close()

	user, err := users.NewRepository(dbClient.DB()).SetAdmin(ctx, address, !*revoke)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		exitf("no account registered for %s\n", address)
	}
	if err != nil {
		exitf("failed to update account: %v\n", err)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"userId":  user.ID.String(),
		"isAdmin": user.IsAdmin,
	}), "admin flag updated")
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
