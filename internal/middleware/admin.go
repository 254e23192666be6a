package middleware

import (
	"net/http"

	"github.com/SscSPs/fintech_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the operator key on cross-tenant routes.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards operator routes with a shared key compared
// against its bcrypt hash. An empty hash disables the routes entirely.
func AdminKeyMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		if keyHash == "" {
			logger.Warn("Admin route called but no admin key is configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access is disabled"})
			return
		}

		key := c.GetHeader(AdminKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": AdminKeyHeader + " header required"})
			return
		}
		if !utils.CheckAdminKey(key, keyHash) {
			logger.Warn("Admin key rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid admin key"})
			return
		}
		c.Next()
	}
}
