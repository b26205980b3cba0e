package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection before
// returning. Backend selection happens once at startup; there is no silent
// fallback to another backend when Redis is down.
func NewRedisStore(redisURL string) (KVStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// If URL parsing fails, try as simple host:port
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

// wrap maps transport-level failures to ErrUnavailable so callers never have
// to inspect go-redis error types.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrap(err)
	}
	return val, nil
}

func (r *redisStore) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return wrap(r.client.Set(ctx, key, value, expiration).Err())
}

func (r *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, wrap(err)
	}
	return count > 0, nil
}

func (r *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, wrap(err)
	}
	return n, nil
}

func (r *redisStore) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	ok, err := r.client.Expire(ctx, key, expiration).Result()
	if err != nil {
		return false, wrap(err)
	}
	return ok, nil
}

func (r *redisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, wrap(err)
	}
	// go-redis reports -2 for a missing key and -1 for a key with no expiry.
	if d == -2 {
		return 0, ErrNotFound
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	return wrap(r.client.Del(ctx, key).Err())
}

func (r *redisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, wrap(err)
	}
	return keys, nil
}

func (r *redisStore) Ping(ctx context.Context) error {
	return wrap(r.client.Ping(ctx).Err())
}
