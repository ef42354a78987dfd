package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/internal/config"
	"github.com/diewo77/go-inventory/internal/db"
	"github.com/diewo77/go-inventory/internal/logging"
	"github.com/diewo77/go-inventory/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.Init(logging.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.String("dsn", db.MaskDSN(cfg.Database.DSN)), zap.Error(err))
	}

	if *migrateOnlyFlag {
		if err := migrate(dbConn, cfg); err != nil {
			zap.L().Fatal("migration failed", zap.Error(err))
		}
		zap.L().Info("migrations completed successfully")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			zap.L().Fatal("seeding failed", zap.Error(err))
		}
		return
	}

	handler, err := setup(dbConn, cfg)
	if err != nil {
		zap.L().Fatal("startup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zap.L().Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("driver", cfg.Database.Driver),
			zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("error during shutdown", zap.Error(err))
	}
	zap.L().Info("server stopped gracefully")
}

// migrate uses the versioned SQL files on postgres when MIGRATIONS is set and
// falls back to AutoMigrate everywhere else.
func migrate(conn *gorm.DB, cfg *config.Config) error {
	useSQL := cfg.App.Migrations && cfg.Database.Driver == config.DriverPostgres
	return db.Migrate(conn, cfg.Database, useSQL)
}

// setup prepares the schema, optional demo data and credentials, then builds the router.
func setup(conn *gorm.DB, cfg *config.Config) (http.Handler, error) {
	if err := migrate(conn, cfg); err != nil {
		return nil, err
	}
	if cfg.App.Seed {
		if err := db.Seed(conn); err != nil {
			return nil, err
		}
	}
	creds, err := auth.LoadCredentials(cfg.Auth.CredentialsFile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		return nil, err
	}
	return server.New(conn, cfg, creds), nil
}
