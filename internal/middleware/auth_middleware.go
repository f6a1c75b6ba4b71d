package middleware

import (
	"context"
	"net/http"
	"strings"

	"easyride/internal/utils"
	"easyride/pkg/identity"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the identity session behind a request.
type AuthMiddleware struct {
	identity identity.Provider
	logger   *logger.Logger
}

func NewAuthMiddleware(provider identity.Provider, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{identity: provider, logger: log}
}

// AuthRequired middleware validates the bearer token and sets user context
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header required")
			c.Abort()
			return
		}

		session, err := m.identity.VerifyToken(c.Request.Context(), token)
		if err != nil {
			m.logger.WithRequestID(c.GetString(utils.ContextKeyRequestID)).WithError(err).Debug("Rejected token")
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token")
			c.Abort()
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth sets user context when a valid token is present and lets
// the request through either way.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if session, err := m.identity.VerifyToken(c.Request.Context(), token); err == nil {
				setSession(c, session)
			}
		}
		c.Next()
	}
}

// SessionFromContext returns nil for anonymous requests.
func SessionFromContext(c *gin.Context) *identity.Session {
	value, ok := c.Get(utils.ContextKeySession)
	if !ok {
		return nil
	}
	session, _ := value.(*identity.Session)
	return session
}

func setSession(c *gin.Context, session *identity.Session) {
	c.Set(utils.ContextKeySession, session)
	c.Set(utils.ContextKeyUserID, session.UID)
	c.Set(utils.ContextKeyEmail, session.Email)
	c.Set(utils.ContextKeyEmailVerified, session.EmailVerified)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.ContextKeyUserID, session.UID))
}

// bearerToken reads the Authorization header. Browsers cannot set headers
// on a websocket handshake, so the token query parameter is accepted too.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}
