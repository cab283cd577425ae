package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/codecat1111/radar-clone/pkg/config"
)

func TestNewRedisRequiresAddr(t *testing.T) {
	if _, err := NewRedis(config.CacheConfig{}); err == nil {
		t.Fatal("expected error without address")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	if _, err := NewRedis(config.CacheConfig{RedisAddr: "127.0.0.1:1"}); err == nil {
		t.Fatal("expected ping failure")
	}
}

func TestNilCache(t *testing.T) {
	var r *Redis
	if _, _, err := r.Get(context.Background(), "k"); err == nil {
		t.Error("Get on nil cache should fail")
	}
	if err := r.Set(context.Background(), "k", nil); err == nil {
		t.Error("Set on nil cache should fail")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

// Runs against a real server when TEST_REDIS_ADDR is set
func TestRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	r, err := NewRedis(config.CacheConfig{RedisAddr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ctx := context.Background()
	key := "radar:test:" + t.Name()
	defer r.Invalidate(ctx, key)

	if _, found, err := r.Get(ctx, key); err != nil || found {
		t.Fatalf("Get() before Set = %v, %v", found, err)
	}
	if err := r.Set(ctx, key, []byte(`{"domains":[]}`)); err != nil {
		t.Fatal(err)
	}
	raw, found, err := r.Get(ctx, key)
	if err != nil || !found || string(raw) != `{"domains":[]}` {
		t.Errorf("Get() = %q, %v, %v", raw, found, err)
	}
}
