package ratelimit

import (
	"context"
	"fmt"
	"time"

	"portfolio_go_backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// counterStore is the slice of the Redis API the limiter uses.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter is a fixed-window per-client-IP rate limiter backed by Redis, so
// the window is shared across worker processes.
type Limiter struct {
	client counterStore
	prefix string
	limit  int
	window time.Duration
}

func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// windowKey buckets requests from one client into fixed windows.
func windowKey(prefix, clientIP string, now time.Time, window time.Duration) string {
	bucket := now.Unix() / int64(window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", prefix, clientIP, bucket)
}

// Middleware rejects requests over the limit with 429. A Redis outage fails
// open and the request is allowed through.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := windowKey(l.prefix, c.ClientIP(), time.Now(), l.window)

		count, err := l.client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			l.client.Expire(c.Request.Context(), key, l.window)
		}

		if count > int64(l.limit) {
			c.Abort()
			errors.HandleError(c, errors.New429Error(
				fmt.Sprintf("Rate limit %d per %s exceeded.", l.limit, l.window)))
			return
		}

		c.Next()
	}
}
