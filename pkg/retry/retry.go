// Package retry runs an operation with exponential backoff and jitter.
// With no RetryableErrors configured every error retries, which suits the
// transient failure modes of the model API.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	Multiplier      float64
	JitterFraction  float64
	RetryableErrors []error
	Logger          *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         zap.NewNop(),
	}
}

// normalized fills zero-valued fields from DefaultConfig so a partially
// populated Config behaves sensibly.
func (cfg Config) normalized() Config {
	def := DefaultConfig()
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialDelay == 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = def.Multiplier
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

func (cfg Config) retryable(err error) bool {
	if len(cfg.RetryableErrors) == 0 {
		return true
	}
	for _, candidate := range cfg.RetryableErrors {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

// Do invokes operation until it succeeds, exhausts cfg.MaxAttempts, hits a
// non-retryable error, or the context is done. The last operation error is
// returned on exhaustion; a context error wins whenever the context ends
// while waiting.
func Do(ctx context.Context, cfg Config, operation func() error) error {
	cfg = cfg.normalized()

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				cfg.Logger.Info("Operation succeeded after retry", zap.Int("attempt", attempt))
			}
			return nil
		}

		if !cfg.retryable(lastErr) {
			cfg.Logger.Debug("Error not retryable", zap.Error(lastErr), zap.Int("attempt", attempt))
			return lastErr
		}
		if attempt >= cfg.MaxAttempts {
			return lastErr
		}

		delay := cfg.backoff(attempt)
		cfg.Logger.Warn("Operation failed, retrying",
			zap.Error(lastErr),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// DoWithResult is Do for operations that produce a value.
func DoWithResult[T any](ctx context.Context, cfg Config, operation func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var opErr error
		result, opErr = operation()
		return opErr
	})
	return result, err
}

// backoff returns the jittered delay before the attempt after the given
// one. Growth is geometric in cfg.Multiplier, capped at cfg.MaxDelay, with
// a symmetric jitter of up to cfg.JitterFraction either way.
func (cfg Config) backoff(attempt int) time.Duration {
	delay := cfg.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay >= cfg.MaxDelay {
			delay = cfg.MaxDelay
			break
		}
	}
	if cfg.JitterFraction > 0 {
		spread := float64(delay) * cfg.JitterFraction
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	return delay
}
