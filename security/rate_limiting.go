package security

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles the public registration endpoints. A fixed window
// per client IP in Redis: the first request in a window creates the counter
// with a TTL, later requests increment it.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: redisClient, limit: limit, window: window}
}

// RegisterRateLimit is bound on the customer registration route group.
func (r *RateLimiter) RegisterRateLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ip := e.RealIP()
		if r.isSuspiciousUserAgent(e.Request.Header.Get("User-Agent")) {
			return apis.NewForbiddenError("Access denied", nil)
		}

		key := fmt.Sprintf("ratelimit:register:%s", ip)
		ctx := e.Request.Context()

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			// Redis trouble must not take registration down with it.
			log.Printf("Rate limiter unavailable, letting request through: %v", err)
			return e.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, key, r.window)
		}
		if count > int64(r.limit) {
			return e.JSON(429, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		return e.Next()
	}
}

func (r *RateLimiter) isSuspiciousUserAgent(userAgent string) bool {
	if userAgent == "" {
		return true
	}
	suspicious := []string{"bot", "crawler", "spider", "scraper", "curl", "wget"}
	lower := strings.ToLower(userAgent)
	for _, pattern := range suspicious {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
