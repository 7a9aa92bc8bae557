// Package redis provides the Redis-backed page cache and client wiring.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"collection-filter-service/internal/config"
)

// clearBatch is the number of keys deleted per round trip by Clear.
const clearBatch = 200

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// Cache implements domain.Cache on Redis. Every key lives under the
// configured namespace.
type Cache struct {
	client    *redis.Client
	logger    *zap.Logger
	namespace string
}

// NewCache creates a Cache storing keys under namespace.
func NewCache(client *redis.Client, logger *zap.Logger, namespace string) *Cache {
	return &Cache{
		client:    client,
		logger:    logger.With(zap.String("cache", namespace)),
		namespace: namespace,
	}
}

// Get returns the cached value, or nil on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.logger.Debug("cache miss", zap.String("key", key))
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	c.logger.Debug("cache hit", zap.String("key", key), zap.Int("bytes", len(data)))

	return data, nil
}

// Set stores value for ttl.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}

	return nil
}

// Clear removes every key of the namespace, scanning in batches.
func (c *Cache) Clear(ctx context.Context) error {
	pattern := c.namespace + ":*"
	iter := c.client.Scan(ctx, 0, pattern, clearBatch).Iterator()

	deleted := 0
	batch := make([]string, 0, clearBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("clearing %s: %w", pattern, err)
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return err
	}

	c.logger.Info("cache cleared", zap.Int("key_count", deleted))

	return nil
}

func (c *Cache) key(key string) string {
	return c.namespace + ":" + key
}
