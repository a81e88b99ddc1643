package handlers

import (
	"net/http"
	"os"
	"strconv"

	"collab-poll-backend/cache"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	rateLimitEnabled bool
	redisLimiter     *cache.TokenBucketRateLimiter
	// localLimiter keeps the API limited even when Redis is down; it only
	// covers this one process, which is good enough as a fallback.
	localLimiter *rate.Limiter
)

// InitRateLimiters configures the API rate limiter from the environment.
// Disabled unless ENABLE_RATE_LIMIT=true.
func InitRateLimiters() {
	rateLimitEnabled = os.Getenv("ENABLE_RATE_LIMIT") == "true"
	if !rateLimitEnabled {
		return
	}

	limit := 100
	if limitStr := os.Getenv("GLOBAL_RATE_LIMIT"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	redisLimiter = cache.NewTokenBucketRateLimiter("api_global", limit, limit*2)
	localLimiter = rate.NewLimiter(rate.Limit(limit), limit*2)
}

// RateLimitMiddleware applies the global token bucket. The Redis bucket is
// authoritative across processes; when it is unreachable the in-process
// limiter takes over.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimitEnabled {
			c.Next()
			return
		}

		allowed, err := redisLimiter.Allow(c.Request.Context())
		if err != nil {
			allowed = localLimiter.Allow()
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}

		c.Next()
	}
}
