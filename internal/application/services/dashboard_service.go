package services

import (
	"context"

	"github.com/rewater/rewater-go/internal/domain/report"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
)

// ReportGenerator produces a dashboard report. *report.Generator satisfies it.
type ReportGenerator interface {
	Generate(ctx context.Context) report.Report
}

// DashboardService builds the dashboard payload and logs degraded metrics.
type DashboardService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	generator   ReportGenerator
}

func NewDashboardService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, generator ReportGenerator) *DashboardService {
	return &DashboardService{
		logger:      logger,
		perfTracker: perfTracker,
		generator:   generator,
	}
}

// ComputeDashboard always returns a complete payload; metric failures are
// logged on the analytics channel and never surfaced.
func (s *DashboardService) ComputeDashboard(ctx context.Context) report.Payload {
	marker := s.perfTracker.StartOperation("compute_dashboard")
	defer marker.Complete()

	r := s.generator.Generate(ctx)

	log := s.logger.WithContext(logging.ChannelAnalytics, ctx)
	for _, d := range r.Degraded {
		if d.Cause != nil {
			log.Warn("Metric served from fallback", "metric", d.Metric, "cause", d.Cause.Error())
		} else {
			log.Warn("Metric served from fallback", "metric", d.Metric)
		}
	}
	marker.AddMetadata("degraded", len(r.Degraded))

	log.Info("Successfully computed dashboard", "degradedCount", len(r.Degraded), "duration", marker.Elapsed())
	s.logger.Perf().Info("Performance for ComputeDashboard", "duration", marker.Elapsed(), "success", true)
	return r.Payload
}
