package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ServiceKeyHeader carries the shared key on service-to-service calls.
const ServiceKeyHeader = "X-Service-Key"

// RequireServiceKey guards internal endpoints (issuance, notify,
// email) with a bcrypt-hashed shared key. An empty hash fails closed:
// every request is rejected until the key is configured.
func RequireServiceKey(keyHash string, log *slog.Logger) gin.HandlerFunc {
	if keyHash == "" {
		log.Warn("service key hash not configured; internal endpoints are disabled")
	}

	return func(c *gin.Context) {
		if keyHash == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "internal endpoints not configured",
			})
			return
		}

		key := c.GetHeader(ServiceKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
			log.WarnContext(c.Request.Context(), "service key rejected",
				"path", c.Request.URL.Path,
				"ip", c.ClientIP(),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
