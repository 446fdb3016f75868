// Package testdb opens throwaway SQLite databases carrying the domain
// schema for repository and service tests.
package testdb

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

// Models lists every table the application persists.
func Models() []any {
	return []any{
		&models.UserAccount{},
		&models.VerificationToken{},
		&models.Group{},
		&models.Shipment{},
		&models.ShipmentSendingHub{},
		&models.ShipmentReceivingHub{},
		&models.Offer{},
		&models.Pallet{},
		&models.LineItem{},
		&models.ShipmentExport{},
		&models.OutboxEvent{},
	}
}

// New returns an in-memory database private to the test. The connection
// pool is pinned to one connection so the memory database outlives
// individual statements.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}
