package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedis(client, "dormbase:"), mr
}

func TestRedisSetGet(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	stored := map[string]int{"pending_reviews": 3, "total_dorms": 41}
	if err := c.Set(ctx, "admin:stats", stored, StatsTTL); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got map[string]int
	if err := c.Get(ctx, "admin:stats", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["pending_reviews"] != 3 || got["total_dorms"] != 41 {
		t.Errorf("got %+v, want %+v", got, stored)
	}
}

func TestRedisExpiry(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "stats:top", []string{"york-university"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	var got []string
	if err := c.Get(ctx, "stats:top", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestRedisNilClientDegradesGracefully(t *testing.T) {
	c := NewRedis(nil, "dormbase:")
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set with nil client should be a no-op, got %v", err)
	}
	var got string
	if err := c.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss with nil client, got %v", err)
	}
}
