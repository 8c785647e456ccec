package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/auth"
	"github.com/ukydev/ac-service-backend/internal/models"
)

// UserContextKey is the gin context key holding *models.Claims
const UserContextKey = "user"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authService *auth.Service
	logger      log.FieldLogger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *auth.Service, logger log.FieldLogger) *AuthMiddleware {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth rejects requests without a valid token and stores the
// verified claims in the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.authService.ExtractToken(c.Request.Header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		c.Set(UserContextKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth. The role is read from the token,
// so a promotion or demotion applies once the holder's token is reissued.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Admin only."})
			return
		}
		c.Next()
	}
}

// OptionalIdentity resolves the caller when a valid token is present and
// otherwise lets the request through as a guest.
func (m *AuthMiddleware) OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.authService.ExtractToken(c.Request.Header)
		if err != nil {
			c.Next()
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.WithError(err).WithField("path", c.FullPath()).Debug("Ignoring unusable token on guest endpoint")
			c.Next()
			return
		}

		c.Set(UserContextKey, claims)
		c.Next()
	}
}

// IdentityFromContext returns the verified caller, if any
func IdentityFromContext(c *gin.Context) (*models.Claims, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.Claims)
	return claims, ok && claims != nil
}
