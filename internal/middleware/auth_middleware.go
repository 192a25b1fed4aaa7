package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oikia/backend-go/internal/database/service"
)

// Context keys set by RequireAuth.
const (
	ContextUserKey   = "user"
	ContextClientKey = "client"
)

// AuthMiddleware guards routes behind either a bearer token or an API key.
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth accepts an Authorization bearer token (setting the user in the
// context) or an X-API-KEY header (setting the client). Everything else is a
// 401 with a single opaque detail.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
				m.reject(c)
				return
			}

			user, err := m.service.ResolveBearer(parts[1])
			if err != nil {
				m.logger.Warn("⚠️ [Middleware] Bearer token rejected", "error", err)
				m.reject(c)
				return
			}

			c.Set(ContextUserKey, user)
			m.logger.Debug("✅ [Middleware] Bearer validated", "user_id", user.ID)
			c.Next()
			return
		}

		if apiKey := c.GetHeader("X-API-KEY"); apiKey != "" {
			client, err := m.service.ResolveAPIKey(apiKey)
			if err != nil {
				m.logger.Warn("⚠️ [Middleware] API key rejected", "error", err)
				m.reject(c)
				return
			}

			c.Set(ContextClientKey, client)
			m.logger.Debug("✅ [Middleware] API key validated", "client_id", client.ID)
			c.Next()
			return
		}

		m.logger.Warn("⚠️ [Middleware] Missing credentials")
		m.reject(c)
	}
}

func (m *AuthMiddleware) reject(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
	c.Abort()
}
