// Package db opens the relational store and keeps its schema current.
package db

import (
	"fmt"
	"time"

	"github.com/diewo77/go-inventory/internal/config"
	"github.com/diewo77/go-inventory/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MigrationsSource is where golang-migrate looks for SQL files.
var MigrationsSource = "file://migrations"

// Open connects to the configured engine. Network engines are retried to let a
// freshly started container accept connections.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	attempts := 10
	if cfg.Driver == config.DriverSQLite {
		attempts = 1
	}
	var conn *gorm.DB
	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		zap.L().Warn("retrying database connection", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	zap.L().Info("database connected",
		zap.String("driver", cfg.Driver),
		zap.String("dsn", MaskDSN(cfg.DSN)))
	return conn, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(SQLiteDSN(cfg.DSN)), nil
	case config.DriverPostgres:
		dsn := NormalizeDSN(cfg.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_DSN is empty for driver %s", cfg.Driver)
		}
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		return mysql.Open(MySQLDSN(cfg.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Models lists every table managed by AutoMigrate, parents first.
func Models() []any {
	return []any{&models.Product{}, &models.Item{}}
}

// Migrate brings the schema up to date. With useSQL the versioned files under
// migrations/ are applied through golang-migrate (postgres only); otherwise GORM
// AutoMigrate is used.
func Migrate(conn *gorm.DB, cfg config.DatabaseConfig, useSQL bool) error {
	if useSQL {
		if cfg.Driver != config.DriverPostgres {
			return fmt.Errorf("sql migrations require postgres, got %s", cfg.Driver)
		}
		if err := runSQLMigrations(ToURLDSN(NormalizeDSN(cfg.DSN))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range Models() {
			if err := conn.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range []string{"products", "items"} {
		if !conn.Migrator().HasTable(table) {
			return fmt.Errorf("missing table after migration: %s", table)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New(MigrationsSource, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Seed inserts a few demo products with stock when the catalog is empty.
func Seed(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	demo := []struct {
		product  models.Product
		quantity int
	}{
		{models.Product{Name: "Beras 5kg", Category: "Sembako", SellPrice: 75000, BuyPrice: 68000}, 10},
		{models.Product{Name: "Minyak Goreng 2L", Category: "Sembako", SellPrice: 36000, BuyPrice: 31000}, 8},
		{models.Product{Name: "Sabun Mandi", Category: "Kebersihan", SellPrice: 4500, BuyPrice: 3200}, 24},
	}
	return conn.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, d := range demo {
			p := d.product
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			items := make([]models.Item, d.quantity)
			for i := range items {
				items[i] = models.Item{ProductID: p.ID, EntryDate: now, Status: models.ItemStatusAvailable}
			}
			if err := tx.CreateInBatches(items, 100).Error; err != nil {
				return err
			}
		}
		zap.L().Info("seeded demo catalog", zap.Int("products", len(demo)))
		return nil
	})
}
