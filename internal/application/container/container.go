// Package container provides dependency injection for all singleton services
package container

import (
	"time"

	"github.com/rewater/rewater-go/internal/application/services"
	"github.com/rewater/rewater-go/internal/domain/report"
	"github.com/rewater/rewater-go/internal/infrastructure/caching/cleanup"
	"github.com/rewater/rewater-go/internal/infrastructure/caching/stores"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	accountrepo "github.com/rewater/rewater-go/internal/infrastructure/persistence/account"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/database"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/refill"
	"github.com/rewater/rewater-go/pkg/config"
)

// Options are the tunables the container needs beyond its infrastructure.
type Options struct {
	SessionSecret      string
	SessionTTL         time.Duration
	SecureCookies      bool
	CORSAllowedOrigins []string
	Fallbacks          report.Fallbacks
	Cleanup            *cleanup.Config
}

// OptionsFromConfig reads Options from the central config package.
// SessionSecret is returned as configured; callers substitute a random key
// when it is empty.
func OptionsFromConfig() Options {
	fb := report.DefaultFallbacks()
	fb.RefillsTotal = config.FallbackRefillsTotal
	fb.ActiveCustomers = config.FallbackActiveCustomers
	fb.PlasticLitersSaved = config.FallbackPlasticLiters
	fb.BottlesSaved = config.FallbackBottlesSaved

	return Options{
		SessionSecret:      config.SessionSecret,
		SessionTTL:         config.SessionTTL,
		SecureCookies:      config.SessionCookieSecure,
		CORSAllowedOrigins: config.CORSAllowedOrigins,
		Fallbacks:          fb,
		Cleanup:            cleanup.NewConfig(),
	}
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	AuthService      *services.AuthService
	DashboardService *services.DashboardService
	StatusService    *services.StatusService

	// Infrastructure Dependencies
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
	DB            *database.DB
	Sessions      *stores.SessionsStore
	CleanupWorker *cleanup.Worker
	Options       Options
}

// NewContainer creates and wires all singleton services on top of an open
// database handle.
func NewContainer(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, db *database.DB, opts Options) *Container {
	sessions := stores.NewSessionsStore(opts.SessionTTL, logger)
	accounts := accountrepo.NewSQLAccountRepository(db, logger)
	metrics := refill.NewSQLMetricsRepository(db, logger)

	rng := report.SystemRandom{}
	generator := report.NewGenerator(
		report.NewAggregator(metrics, opts.Fallbacks, rng, time.Now),
		report.NewNormalizer(metrics, rng, time.Now),
	)

	var pinger services.Pinger
	if db != nil {
		pinger = db
	}

	cleanupConfig := opts.Cleanup
	if cleanupConfig == nil {
		cleanupConfig = cleanup.NewConfig()
	}

	return &Container{
		AuthService:      services.NewAuthService(logger, perfTracker, accounts, sessions, opts.SessionSecret, opts.SessionTTL),
		DashboardService: services.NewDashboardService(logger, perfTracker, generator),
		StatusService:    services.NewStatusService(logger, perfTracker, pinger),

		Logger:      logger,
		PerfTracker: perfTracker,
		DB:          db,
		Sessions:    sessions,
		CleanupWorker: cleanup.NewWorker(map[string]cleanup.Target{
			"sessions":    sessions,
			"performance": perfTracker,
		}, cleanupConfig, logger),
		Options: opts,
	}
}
