package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/flight-fare/internal/infra/config"
)

const idleClientTTL = 5 * time.Minute

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(cfg.RequestsPerMinute, cfg.Burst)
	retryAfter := strconv.Itoa(limiter.retryAfter())
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.allow(ip) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
		c.Header("Retry-After", retryAfter)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// clientLimiter is a token bucket per client IP. Buckets idle for longer
// than idleClientTTL are dropped.
type clientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	perSec  float64
	burst   float64
	now     func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

func newClientLimiter(perMinute, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		buckets: make(map[string]*bucket),
		perSec:  float64(perMinute) / 60,
		burst:   float64(burst),
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{tokens: l.burst, seen: now}
		l.buckets[client] = b
	} else if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+elapsed*l.perSec)
		b.seen = now
	}
	l.evictIdle(now)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// retryAfter is the whole number of seconds needed to earn one token.
func (l *clientLimiter) retryAfter() int {
	if l.perSec <= 0 {
		return 60
	}
	return int(math.Ceil(1 / l.perSec))
}

func (l *clientLimiter) evictIdle(now time.Time) {
	for client, b := range l.buckets {
		if now.Sub(b.seen) > idleClientTTL {
			delete(l.buckets, client)
		}
	}
}
