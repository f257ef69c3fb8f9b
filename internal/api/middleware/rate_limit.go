package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

// RateLimiter sliding-window counter (redis in production)
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows limit requests per window for each client and route.
// Authenticated callers get their own bucket so conductors behind one NAT
// do not throttle each other; anonymous requests are keyed by client IP.
// A nil limiter or a failing store lets requests through.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := rateLimitKey(c)
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if caller := CallerFromContext(c); caller != nil {
		return fmt.Sprintf("rate_limit:user:%d:%s", caller.ID, c.FullPath())
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), c.FullPath())
}
