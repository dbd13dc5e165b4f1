package distance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

// Cache stores known distances between coordinate pairs
type Cache interface {
	GetMany(ctx context.Context, keys []string) (map[string]float64, error)
	SetMany(ctx context.Context, values map[string]float64, ttl time.Duration) error
}

// CacheKey identifies the distance between two points as measured by one provider.
// Coordinates are rounded so the key matches what is stored on events and profiles.
func CacheKey(provider string, origin, destination geo.Point) string {
	return fmt.Sprintf("distance:%s:%s:%s", provider, origin.Rounded(), destination.Rounded())
}

// RedisCache is a Cache backed by Redis string keys
type RedisCache struct {
	client redis.Cmdable
}

// NewRedisCache creates a cache on top of an existing redis client
func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

// GetMany implements Cache. Missing or unparsable keys are left out of the result.
func (c *RedisCache) GetMany(ctx context.Context, keys []string) (map[string]float64, error) {
	found := make(map[string]float64, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		km, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		found[keys[i]] = km
	}
	return found, nil
}

// SetMany implements Cache
func (c *RedisCache) SetMany(ctx context.Context, values map[string]float64, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for key, km := range values {
		pipe.Set(ctx, key, strconv.FormatFloat(km, 'f', 2, 64), ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}
