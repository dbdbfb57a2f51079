package services

import (
	"context"
	"errors"
	"time"

	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var errNoDatabase = errors.New("no database connection")

// StatusReport is the body of the status endpoint.
type StatusReport struct {
	Status      string            `json:"status"`
	Database    string            `json:"database"`
	Error       string            `json:"error,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Performance performance.Stats `json:"performance"`
}

// StatusService reports database connectivity and performance counters.
type StatusService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	db          Pinger
}

// NewStatusService creates a new status service. db may be nil when no
// database handle could be created.
func NewStatusService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, db Pinger) *StatusService {
	return &StatusService{
		logger:      logger,
		perfTracker: perfTracker,
		db:          db,
	}
}

// CheckStatus pings the database. The service is "degraded" rather than down
// when the database is unreachable, since the dashboard still serves
// fallbacks.
func (s *StatusService) CheckStatus(ctx context.Context) StatusReport {
	result := StatusReport{
		Status:    "ok",
		Database:  "connected",
		Timestamp: time.Now().UTC(),
	}

	var err error
	if s.db == nil {
		err = errNoDatabase
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err = s.db.PingContext(pingCtx)
	}
	if err != nil {
		result.Status = "degraded"
		result.Database = "unreachable"
		result.Error = err.Error()
		s.logger.Database().Warn("Status check found database unreachable", "error", err.Error())
	}

	result.Performance = s.perfTracker.GetOverallStats()
	return result
}
