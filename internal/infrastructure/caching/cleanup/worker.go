// Package cleanup provides background worker
package cleanup

import (
	"context"
	"time"

	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
)

// Target is anything that can drop its own stale entries.
type Target interface {
	Cleanup() int
}

// Worker periodically expires idle sessions and old performance markers.
type Worker struct {
	targets map[string]Target
	config  *Config
	logger  *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(targets map[string]Target, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		targets: targets,
		config:  config,
		logger:  logger,
	}
}

// Start runs the cleanup loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	interval := w.config.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.System().Info("Cleanup worker started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs one cleanup pass and returns the number of removed
// entries per target.
func (w *Worker) RunOnce(ctx context.Context) map[string]int {
	start := time.Now()
	removed := make(map[string]int, len(w.targets))
	total := 0
	for name, target := range w.targets {
		if ctx.Err() != nil {
			break
		}
		n := target.Cleanup()
		removed[name] = n
		total += n
	}

	if total > 0 {
		w.logger.System().Info("Cleanup completed", "removed", removed, "duration", time.Since(start))
	} else {
		w.logger.System().Debug("Cleanup completed, nothing to remove", "duration", time.Since(start))
	}
	return removed
}
