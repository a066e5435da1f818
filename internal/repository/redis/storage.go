package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/pkg/database"
)

const keyPrefix = "storefront:"

// Storage implements repository.Storage on Redis. Every write refreshes the
// key's TTL so abandoned sessions expire.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStorage creates a Redis-backed storage. A zero ttl keeps keys forever.
func NewStorage(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the value for key.
func (s *Storage) Get(ctx context.Context, key string) (value string, found bool, err error) {
	ctx, end := database.TraceCommand(ctx, "GET", keyPrefix+key)
	defer func() { end(err) }()

	value, err = s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with the configured TTL.
func (s *Storage) Set(ctx context.Context, key, value string) (err error) {
	ctx, end := database.TraceCommand(ctx, "SET", keyPrefix+key)
	defer func() { end(err) }()

	if err = s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
