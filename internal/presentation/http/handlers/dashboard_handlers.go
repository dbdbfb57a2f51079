package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewater/rewater-go/internal/application/services"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	"github.com/rewater/rewater-go/internal/presentation/http/middleware"
	"github.com/rewater/rewater-go/internal/presentation/templates"
)

// DashboardHandlers serves the gated dashboard page and its JSON twin.
type DashboardHandlers struct {
	dashboardService *services.DashboardService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewDashboardHandlers creates dashboard handlers with injected dependencies
func NewDashboardHandlers(dashboardService *services.DashboardService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardHandlers {
	return &DashboardHandlers{
		dashboardService: dashboardService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetDashboardPage handles GET /dashboard
func (h *DashboardHandlers) GetDashboardPage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_dashboard_page_request")
	defer marker.Complete()

	s, ok := middleware.GetSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	payload := h.dashboardService.ComputeDashboard(c.Request.Context())

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetDashboardPage request", "duration", marker.Elapsed(), "success", true)
	c.HTML(http.StatusOK, "dashboard.html", templates.DashboardView{
		FullName: s.FullName,
		Payload:  payload,
	})
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandlers) GetDashboard(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_dashboard_request")
	defer marker.Complete()

	if _, ok := middleware.GetSession(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	payload := h.dashboardService.ComputeDashboard(c.Request.Context())

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetDashboard request", "duration", marker.Elapsed(), "success", true)
	c.JSON(http.StatusOK, gin.H{"dashboard": payload})
}
