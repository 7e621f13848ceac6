// Package ratelimit applies a transport-level per-client token bucket
// across all routes. The per-faculty keyword-generation budget is separate
// and lives with the generation workflow.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxRequestsPerMinute int
	WindowDuration       time.Duration
	Logger               *zap.Logger
}

type entry struct {
	tokens float64
	last   time.Time
}

type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	capacity float64
	rate     float64 // tokens per second
	logger   *zap.Logger
	done     chan struct{}
}

func New(cfg Config) *RateLimiter {
	if cfg.MaxRequestsPerMinute <= 0 {
		cfg.MaxRequestsPerMinute = 60
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	rl := &RateLimiter{
		entries:  make(map[string]*entry),
		capacity: float64(cfg.MaxRequestsPerMinute),
		rate:     float64(cfg.MaxRequestsPerMinute) / cfg.WindowDuration.Seconds(),
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Middleware keys buckets by authenticated faculty when available, falling
// back to client IP.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if facultyID, ok := c.Locals("faculty_id").(string); ok && facultyID != "" {
			key = facultyID
		}

		if !rl.allow(key) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		return c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok {
		e = &entry{tokens: rl.capacity, last: now}
		rl.entries[key] = e
	} else {
		e.tokens += now.Sub(e.last).Seconds() * rl.rate
		if e.tokens > rl.capacity {
			e.tokens = rl.capacity
		}
		e.last = now
	}

	if e.tokens < 1 {
		return false
	}
	e.tokens--
	return true
}

// sweep drops entries idle long enough to have refilled completely.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, e := range rl.entries {
				if now.Sub(e.last) > 10*time.Minute {
					delete(rl.entries, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	close(rl.done)
}
