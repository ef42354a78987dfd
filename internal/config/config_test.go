package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_DSN", "DATABASE_URL", "DB_DRIVER", "SECRET_KEY", "UPLOAD_DIR", "MIGRATIONS", "APP_ENV"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080 got %s", cfg.Server.Port)
	}
	if cfg.Database.DSN != "inventory.db" {
		t.Fatalf("expected sqlite default dsn got %s", cfg.Database.DSN)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver got %s", cfg.Database.Driver)
	}
	if cfg.Auth.SecretKey != "your-secret-key" {
		t.Fatalf("unexpected default secret %q", cfg.Auth.SecretKey)
	}
	if cfg.Storage.UploadDir != "static/uploads" {
		t.Fatalf("unexpected upload dir %q", cfg.Storage.UploadDir)
	}
	if cfg.App.Migrations {
		t.Fatalf("migrations should default to false")
	}
	if cfg.IsProduction() {
		t.Fatalf("default env should not be production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/inv?sslmode=disable")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("SERVER_READ_TIMEOUT", "5")
	t.Setenv("APP_ENV", "Production")
	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Fatalf("port override ignored: %s", cfg.Server.Port)
	}
	if cfg.Auth.SecretKey != "s3cret" {
		t.Fatalf("secret override ignored")
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("expected postgres driver got %s", cfg.Database.Driver)
	}
	if !cfg.App.Migrations {
		t.Fatalf("expected migrations enabled")
	}
	if cfg.Server.ReadTimeout != 5 {
		t.Fatalf("expected read timeout 5 got %d", cfg.Server.ReadTimeout)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
}

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		explicit string
		dsn      string
		want     string
	}{
		{"", "inventory.db", DriverSQLite},
		{"", "file::memory:?cache=shared", DriverSQLite},
		{"", "postgresql://u@h/db", DriverPostgres},
		{"", "host=localhost user=u dbname=inv", DriverPostgres},
		{"", "user:pass@tcp(127.0.0.1:3306)/inv", DriverMySQL},
		{"MySQL", "anything", DriverMySQL},
		{"postgresql", "inventory.db", DriverPostgres},
	}
	for _, tt := range tests {
		if got := DetectDriver(tt.explicit, tt.dsn); got != tt.want {
			t.Errorf("DetectDriver(%q, %q) = %s, want %s", tt.explicit, tt.dsn, got, tt.want)
		}
	}
}

func TestGetEnvBoolInvalidFallsBack(t *testing.T) {
	t.Setenv("X_FLAG", "maybe")
	if getEnvBool("X_FLAG", true) != true {
		t.Fatalf("invalid bool should fall back to default")
	}
	t.Setenv("X_FLAG", "0")
	if getEnvBool("X_FLAG", true) != false {
		t.Fatalf("0 should parse to false")
	}
}
