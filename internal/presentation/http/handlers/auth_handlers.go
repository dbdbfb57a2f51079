// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewater/rewater-go/internal/application/services"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	"github.com/rewater/rewater-go/internal/presentation/http/middleware"
	"github.com/rewater/rewater-go/internal/presentation/templates"
)

const registeredNotice = "Account created. You can sign in now."

// AuthHandlers contains the login, registration and logout handlers
type AuthHandlers struct {
	authService   *services.AuthService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
	secureCookies bool
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		logger:        logger,
		perfTracker:   perfTracker,
		secureCookies: secureCookies,
	}
}

// GetLogin handles GET /login
func (h *AuthHandlers) GetLogin(c *gin.Context) {
	view := templates.AuthFormView{}
	if c.Query("registered") == "1" {
		view.Notice = registeredNotice
	}
	c.HTML(http.StatusOK, "login.html", view)
}

// PostLogin handles POST /login
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()
	log := h.logger.WithContext(logging.ChannelAuth, c.Request.Context())
	log.Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	username := c.PostForm("username")
	result, err := h.authService.Login(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		marker.SetError(err)
		log.Debug("Login rejected", "reason", err.Error())
		c.HTML(http.StatusOK, "login.html", templates.AuthFormView{
			Error:    formMessage(err),
			Username: username,
		})
		return
	}

	h.setSessionCookie(c, result.Token)
	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostLogin request", "duration", marker.Elapsed(), "success", true)
	c.Redirect(http.StatusFound, "/dashboard")
}

// GetRegister handles GET /register
func (h *AuthHandlers) GetRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", templates.AuthFormView{})
}

// PostRegister handles POST /register
func (h *AuthHandlers) PostRegister(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_register_request")
	defer marker.Complete()
	log := h.logger.WithContext(logging.ChannelAuth, c.Request.Context())
	log.Debug("Received registration request", "method", c.Request.Method, "path", c.Request.URL.Path)

	in := services.RegisterInput{
		FullName:        c.PostForm("fullName"),
		EmailPhone:      c.PostForm("emailPhone"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
	}

	result, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		marker.SetError(err)
		log.Debug("Registration rejected", "reason", err.Error())
		c.HTML(http.StatusOK, "register.html", templates.AuthFormView{
			Error:      formMessage(err),
			FullName:   in.FullName,
			EmailPhone: in.EmailPhone,
		})
		return
	}

	h.setSessionCookie(c, result.Token)
	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostRegister request", "duration", marker.Elapsed(), "success", true)
	c.Redirect(http.StatusFound, "/login?registered=1")
}

// Logout handles GET and POST /logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.Logout(token)
	}
	middleware.ClearSessionCookie(c, h.secureCookies)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	middleware.SetSessionCookie(c, token, h.authService.TTL(), h.secureCookies)
}

func formMessage(err error) string {
	var fe *services.FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return services.MsgServerError
}
