package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

// DefaultTTL is used when no positive TTL is configured
const DefaultTTL = 30 * time.Second

// client is the subset of *redis.Client used by the cache
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache stores search envelopes as JSON with a TTL
type RedisCache struct {
	rdb client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return newRedisCache(rdb, ttl)
}

func newRedisCache(rdb client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached envelope for key, or nil on a miss
func (c *RedisCache) Get(ctx context.Context, key string) (*search.Envelope, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read cached envelope")
	}

	var env search.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached envelope")
	}
	return &env, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, env *search.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "failed to encode envelope")
	}
	return errors.Wrap(c.rdb.Set(ctx, key, data, c.ttl).Err(), "failed to cache envelope")
}

// NewClient connects to Redis and checks that it answers
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}
	return rdb, nil
}
