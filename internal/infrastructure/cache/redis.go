package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// RedisStore keeps cooldown keys in Redis so every API replica shares them
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a Redis backed store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Acquire runs SET key NX PX ttl; when the key already exists the remaining
// lifetime comes from PTTL
func (rs *RedisStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	ok, err := rs.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to set cooldown key: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	remaining, err := rs.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read cooldown ttl: %w", err)
	}
	// -2 (gone) or -1 (no expiry): report the full window
	if remaining < 0 {
		remaining = ttl
	}
	return false, remaining, nil
}
