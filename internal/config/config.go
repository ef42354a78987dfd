// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the storage engine selection and connection string.
type DatabaseConfig struct {
	Driver string
	DSN    string
	Debug  bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string
	Dev        bool
	Migrations bool
	Seed       bool
}

// AuthConfig holds session and credential settings.
type AuthConfig struct {
	SecretKey       string
	CredentialsFile string
}

// StorageConfig holds filesystem locations for static assets and uploads.
type StorageConfig struct {
	StaticDir string
	UploadDir string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	File  string
}

// Driver names understood by the db package.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// IsProduction reports whether APP_ENV is set to production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	dsn := getEnv("DATABASE_DSN", getEnv("DATABASE_URL", "inventory.db"))
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver: DetectDriver(getEnv("DB_DRIVER", ""), dsn),
			DSN:    dsn,
			Debug:  getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Env:        getEnv("APP_ENV", "development"),
			Dev:        getEnvBool("DEV", false),
			Migrations: getEnvBool("MIGRATIONS", false),
			Seed:       getEnvBool("DB_SEED", false),
		},
		Auth: AuthConfig{
			SecretKey:       getEnv("SECRET_KEY", "your-secret-key"),
			CredentialsFile: getEnv("CREDENTIALS_FILE", ""),
		},
		Storage: StorageConfig{
			StaticDir: getEnv("STATIC_DIR", "static"),
			UploadDir: getEnv("UPLOAD_DIR", "static/uploads"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}
}

// DetectDriver returns the explicit driver when set, otherwise infers it from the DSN shape.
func DetectDriver(explicit, dsn string) string {
	if d := strings.ToLower(strings.TrimSpace(explicit)); d != "" {
		if d == "postgresql" {
			return DriverPostgres
		}
		return d
	}
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "host=") && strings.Contains(lower, "dbname="):
		return DriverPostgres
	case strings.HasPrefix(lower, "mysql://"), strings.Contains(lower, "@tcp("):
		return DriverMySQL
	default:
		return DriverSQLite
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := cast.ToIntE(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "yes" in addition to the forms strconv understands.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	if value == "yes" {
		return true
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return defaultValue
	}
	return b
}
