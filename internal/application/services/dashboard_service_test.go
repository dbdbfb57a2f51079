package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rewater/rewater-go/internal/domain/report"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	report report.Report
	calls  int
}

func (s *stubGenerator) Generate(context.Context) report.Report {
	s.calls++
	return s.report
}

func TestComputeDashboard_ReturnsPayloadAndTracks(t *testing.T) {
	gen := &stubGenerator{report: report.Report{
		Payload: report.Payload{RefillsTotal: 2348, RecentActivity: []report.ActivityRecord{}},
		Degraded: []report.Degradation{
			{Metric: "refillsTotal", Cause: errors.New("db down")},
			{Metric: "vendorBreakdown", Cause: report.ErrNotComputed},
		},
	}}
	tracker := performance.NewTracker(nil)
	svc := NewDashboardService(logging.NewDiscardLogger(), tracker, gen)

	p := svc.ComputeDashboard(context.Background())
	assert.Equal(t, 2348, p.RefillsTotal)
	assert.Equal(t, 1, gen.calls)

	stats := tracker.GetOverallStats()
	require.Contains(t, stats.Operations, "compute_dashboard")
	assert.Equal(t, 1, stats.Operations["compute_dashboard"].Count)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestCheckStatus(t *testing.T) {
	logger := logging.NewDiscardLogger()
	tracker := performance.NewTracker(nil)

	ok := NewStatusService(logger, tracker, stubPinger{}).CheckStatus(context.Background())
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, "connected", ok.Database)

	down := NewStatusService(logger, tracker, stubPinger{err: errStoreDown}).CheckStatus(context.Background())
	assert.Equal(t, "degraded", down.Status)
	assert.Equal(t, "unreachable", down.Database)
	assert.Equal(t, errStoreDown.Error(), down.Error)

	none := NewStatusService(logger, tracker, nil).CheckStatus(context.Background())
	assert.Equal(t, "degraded", none.Status)
}
