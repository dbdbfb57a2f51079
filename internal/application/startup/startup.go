// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rewater/rewater-go/internal/application/container"
	schema "github.com/rewater/rewater-go/internal/infrastructure/database"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/database"
	"github.com/rewater/rewater-go/internal/infrastructure/security"
	"github.com/rewater/rewater-go/internal/presentation/http/server"
	"github.com/rewater/rewater-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[36m" + `
  ReWater admin dashboard
` + "\033[0m")

	// Step 1: Channeled logging
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized", "level", config.LogLevel, "toFile", config.LogToFile)

	// Step 2: Database
	db, err := database.NewConnectionWithLogger(ctx, config.DBDriver, config.DBDSN, database.PoolOptions{
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
	}, logger)
	if db == nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err != nil {
		logger.Startup().Warn("Database unreachable, dashboard will serve fallback values", "error", err.Error())
	} else {
		prepareSchema(ctx, db, logger)
	}

	// Step 3: Dependency injection container
	opts := container.OptionsFromConfig()
	if opts.SessionSecret == "" {
		key, err := security.GenerateSecureKey(64)
		if err != nil {
			return err
		}
		opts.SessionSecret = key
		logger.Startup().Warn("SESSION_SECRET not set, using a per-process key; sessions will not survive restarts")
	}
	appContainer := container.NewContainer(logger, performance.NewTracker(nil), db, opts)
	logger.Startup().Info("Dependency injection container created")

	// Step 4: Background cleanup worker
	go appContainer.CleanupWorker.Start(ctx)
	logger.Startup().Info("Background cleanup worker started", "interval", opts.Cleanup.CleanupInterval)

	// Step 5: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"driver", config.DBDriver,
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return logging.NewChanneledLogger(cfg)
}

// prepareSchema creates missing tables and seeds demo vendors. Failures are
// logged; the dashboard still runs on fallbacks.
func prepareSchema(ctx context.Context, db *database.DB, logger *logging.ChanneledLogger) {
	tc := schema.NewTableCreator(database.IsSQLiteFamily(db.Driver))
	if err := tc.CreateSchema(ctx, db.DB); err != nil {
		logger.Startup().Error("Schema creation failed", "error", err.Error())
		return
	}

	if !config.SeedVendors {
		return
	}
	n, err := tc.SeedVendors(ctx, db.DB)
	if err != nil {
		logger.Startup().Error("Vendor seeding failed", "error", err.Error(), "inserted", n)
		return
	}
	logger.Startup().Info("Schema ready", "vendorsSeeded", n)
}

// setupLogging configures gin mode and the standard logger used before the
// channeled logger exists.
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
