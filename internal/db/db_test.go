package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/diewo77/go-inventory/internal/config"
	"github.com/diewo77/go-inventory/internal/models"
)

func openTestDB(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{Driver: config.DriverSQLite, DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := openTestDB(t)
	conn, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(conn, cfg, false); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"products", "items"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
}

func TestSQLiteForeignKeysOnEveryConnection(t *testing.T) {
	cfg := openTestDB(t)
	conn, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(3)
	ctx := context.Background()
	var held []*sql.Conn
	for i := 0; i < 3; i++ {
		c, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		held = append(held, c)
		var on int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
			t.Fatalf("pragma: %v", err)
		}
		if on != 1 {
			t.Fatalf("connection %d: foreign keys off", i)
		}
	}
	for _, c := range held {
		_ = c.Close()
	}
}

func TestMigrateSQLRequiresPostgres(t *testing.T) {
	cfg := openTestDB(t)
	conn, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(conn, cfg, true); err == nil {
		t.Fatalf("expected error for sql migrations on sqlite")
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestSeedIdempotent(t *testing.T) {
	cfg := openTestDB(t)
	conn, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(conn, cfg, false); err != nil {
		t.Fatal(err)
	}
	if err := Seed(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Seed(conn); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var products, items int64
	conn.Model(&models.Product{}).Count(&products)
	conn.Model(&models.Item{}).Count(&items)
	if products != 3 {
		t.Fatalf("expected 3 demo products got %d", products)
	}
	if items != 42 {
		t.Fatalf("expected 42 demo items got %d", items)
	}
}
