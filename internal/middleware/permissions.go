package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PermissionChecker resolves the permission set of an authenticated user.
// The user service implements this.
type PermissionChecker interface {
	UserHasPermission(ctx context.Context, userID string, permission string) (bool, error)
}

// RequirePermission creates a Gin middleware handler that rejects requests
// whose authenticated user lacks the named permission. Missing permissions map
// to 403, not 401: the caller is known, just not allowed.
func RequirePermission(checker PermissionChecker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Warn("Permission check without authenticated user", "permission", permission)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		allowed, err := checker.UserHasPermission(c.Request.Context(), userID, permission)
		if err != nil {
			logger.Error("Permission check failed", "permission", permission, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during permission check"})
			return
		}
		if !allowed {
			logger.Warn("Permission denied", "permission", permission)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Next()
	}
}
