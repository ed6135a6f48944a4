package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/ratelimit"
)

// RateLimit throttles a route per client IP. Limiter failures let the request
// through.
func RateLimit(limiter ratelimit.Limiter, log *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := c.FullPath() + "|" + c.ClientIP()
		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable", "path", c.FullPath(), "error", err)
			}
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorEnvelope{
				Error: response.APIError{Message: "too many attempts, try again later", Code: "rate_limited"},
			})
			return
		}
		c.Next()
	}
}
