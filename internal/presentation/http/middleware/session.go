package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rewater/rewater-go/internal/domain/session"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
)

// SessionCookieName is the HTTP-only cookie holding the signed session token.
const SessionCookieName = "rewater_session"

const sessionContextKey = "session"

// SessionResolver turns a cookie value into a gated session and signs
// replacement cookie values.
type SessionResolver interface {
	Authenticate(token string) (*session.Session, error)
	IssueToken(s *session.Session) (string, error)
	TTL() time.Duration
}

// SetSessionCookie writes the HTTP-only session cookie.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// RequireSession redirects to /login unless the request carries a valid
// session. Downstream handlers are never reached without one. On success the
// cookie is re-issued so its expiry follows the session's idle timeout.
func RequireSession(resolver SessionResolver, logger *logging.ChanneledLogger, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookieName)
		s, err := resolver.Authenticate(token)
		if err != nil {
			logger.WithContext(logging.ChannelAuth, c.Request.Context()).Debug("Unauthenticated request redirected", "path", c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if fresh, err := resolver.IssueToken(s); err == nil {
			SetSessionCookie(c, fresh, resolver.TTL(), secureCookies)
		} else {
			logger.WithContext(logging.ChannelAuth, c.Request.Context()).Warn("Failed to refresh session cookie", "error", err.Error())
		}

		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// GetSession returns the session stored by RequireSession.
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
