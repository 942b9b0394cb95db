package auth

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// maxTrackedClients bounds the limiter map; it is reset once exceeded.
const maxTrackedClients = 10000

// limiterCache hands out one token bucket per key.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()
	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	if len(lc.limiters) >= maxTrackedClients {
		lc.limiters = make(map[K]*rate.Limiter)
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// LoginLimiter throttles credential attempts per client IP.
type LoginLimiter struct {
	cache  *limiterCache[string]
	logger *zap.Logger
}

// NewLoginLimiter allows burst attempts, refilled at rps per second.
func NewLoginLimiter(rps float64, burst int, logger *zap.Logger) *LoginLimiter {
	if burst <= 0 {
		burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginLimiter{cache: newLimiterCache[string](rps, burst), logger: logger}
}

// Middleware rejects requests over the limit with 429.
func (l *LoginLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !l.cache.get(ip).Allow() {
			l.logger.Warn("login rate limit exceeded", zap.String("ip", ip))
			return apperrors.NewTooManyRequests("Too many login attempts. Please try again later.")
		}
		return c.Next()
	}
}
