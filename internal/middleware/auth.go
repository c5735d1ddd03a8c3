package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loandesk/internal/domain"
	"loandesk/internal/service"
)

const (
	ContextKeyOperatorID = "operator_id"
	ContextKeyUsername   = "username"
	ContextKeyRole       = "role"
	ContextKeyClaims     = "claims"
)

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   msg,
		"code":    code,
	})
}

// AuthMiddleware returns Gin middleware that validates JWT tokens, checks the token's
// session is still the active one for its role, and injects operator context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		if err := authService.CheckSession(c.Request.Context(), claims); err != nil {
			if errors.Is(err, domain.ErrSessionRevoked) {
				abort(c, http.StatusUnauthorized, "SESSION_REVOKED", "session was replaced by a newer login")
				return
			}
			abort(c, http.StatusServiceUnavailable, "SESSION_UNAVAILABLE", "session store unavailable")
			return
		}

		c.Set(ContextKeyOperatorID, claims.OperatorID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole returns middleware that checks the operator's role against allowed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr, exists := c.Get(ContextKeyRole)
		if !exists {
			abort(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}

		userRole := domain.UserRole(roleStr.(string))
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// GetUsername extracts the operator username from the Gin context.
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetClaims extracts the token claims from the Gin context.
func GetClaims(c *gin.Context) (*service.Claims, error) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, domain.ErrUnauthorized
	}
	return val.(*service.Claims), nil
}
