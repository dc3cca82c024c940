package security

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles the check-in endpoint. A door scanner in a retry
// loop (or a guessed-code brute force) gets a fixed window per scanner
// identity backed by Redis, so the limit holds across replicas.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// CheckinLimit is route middleware for the scan endpoint. Counting is
// best effort: if Redis is down the scan still goes through.
func (r *RateLimiter) CheckinLimit() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := fmt.Sprintf("ratelimit:checkin:%s", r.identifier(e))
		ctx := e.Request.Context()

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limit counter unavailable", "error", err)
			return e.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, key, r.window)
		}
		if count > int64(r.limit) {
			return e.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		return e.Next()
	}
}

// BlockBots rejects obvious non-browser scrapers on public listings.
func BlockBots() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userAgent := strings.ToLower(e.Request.Header.Get("User-Agent"))
		for _, pattern := range []string{"bot", "crawler", "spider", "scraper"} {
			if strings.Contains(userAgent, pattern) {
				return e.JSON(http.StatusForbidden, map[string]string{
					"error": "Access denied",
				})
			}
		}
		return e.Next()
	}
}

func (r *RateLimiter) identifier(e *core.RequestEvent) string {
	if e.Auth != nil {
		return "user:" + e.Auth.Id
	}
	return "ip:" + e.RealIP()
}
