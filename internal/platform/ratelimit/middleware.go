package ratelimit

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests over the limit with 429. Requests are keyed by client IP.
// When the limiter backend fails the request is let through.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "rate limiter failed", "error", err, "path", c.FullPath())
			c.Next()
			return
		}
		if !allowed {
			slog.WarnContext(c.Request.Context(), "rate limit exceeded", "remote_addr", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
