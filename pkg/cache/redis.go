package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codecat1111/radar-clone/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

// Redis is a TTL cache of serialized values
type Redis struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedis connects to the configured Redis and verifies it answers
func NewRedis(cfg config.CacheConfig) (*Redis, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r == nil || r.rdb == nil {
		return nil, false, errors.New("redis cache not initialized")
	}
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if r == nil || r.rdb == nil {
		return errors.New("redis cache not initialized")
	}
	return r.rdb.Set(ctx, key, value, r.ttl).Err()
}

// Invalidate drops a cached key
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if r == nil || r.rdb == nil {
		return errors.New("redis cache not initialized")
	}
	return r.rdb.Del(ctx, key).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
