package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Store is the key-with-expiry primitive a cooldown needs
type Store interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error)
}

// CooldownLimiter allows one ingestion per actor per window
type CooldownLimiter struct {
	store  Store
	window time.Duration
	prefix string
	logger *zap.Logger
}

// NewCooldownLimiter creates a limiter; a zero window disables it
func NewCooldownLimiter(store Store, window time.Duration, logger *zap.Logger) *CooldownLimiter {
	return &CooldownLimiter{
		store:  store,
		window: window,
		prefix: "ingest:cooldown:",
		logger: logger,
	}
}

// Allow reports whether actorID may ingest now and, if not, how long to wait.
// Empty actors (CLI, webhooks) are never limited.
func (l *CooldownLimiter) Allow(ctx context.Context, actorID string) (bool, time.Duration, error) {
	if l == nil || l.window <= 0 || actorID == "" {
		return true, 0, nil
	}

	ok, retryAfter, err := l.store.Acquire(ctx, l.prefix+actorID, l.window)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check cooldown: %w", err)
	}

	if !ok && l.logger != nil {
		l.logger.Info("⏳ ingestion cooldown active",
			zap.String("actor_id", actorID),
			zap.Duration("retry_after", retryAfter),
		)
	}
	return ok, retryAfter, nil
}
