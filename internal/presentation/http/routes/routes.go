// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewater/rewater-go/internal/application/container"
	"github.com/rewater/rewater-go/internal/presentation/http/handlers"
	"github.com/rewater/rewater-go/internal/presentation/http/middleware"
	"github.com/rewater/rewater-go/internal/presentation/templates"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(templates.Pages)
	r.Use(middleware.RequestID())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker, container.Options.SecureCookies)
	dashboardHandlers := handlers.NewDashboardHandlers(container.DashboardService, container.Logger, container.PerfTracker)
	statusHandlers := handlers.NewStatusHandlers(container.StatusService, container.Logger, container.PerfTracker)

	requireSession := middleware.RequireSession(container.AuthService, container.Logger, container.Options.SecureCookies)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	// Public form pages
	r.GET("/login", authHandlers.GetLogin)
	r.POST("/login", authHandlers.PostLogin)
	r.GET("/register", authHandlers.GetRegister)
	r.POST("/register", authHandlers.PostRegister)
	r.GET("/logout", authHandlers.Logout)
	r.POST("/logout", authHandlers.Logout)

	r.GET("/dashboard", requireSession, dashboardHandlers.GetDashboardPage)

	api := r.Group("/api/v1")
	api.Use(middleware.CORSMiddleware(container.Options.CORSAllowedOrigins))
	{
		api.GET("/status", statusHandlers.GetStatus)
		api.GET("/dashboard", requireSession, dashboardHandlers.GetDashboard)
	}

	return r
}
