package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type topEntry struct {
	Slug   string  `json:"slug"`
	Count  int     `json:"count"`
	Rating float64 `json:"rating"`
}

func TestMemoryHitWithinTTL(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	stored := []topEntry{{Slug: "york-university", Count: 12, Rating: 4.1}}
	if err := c.Set(ctx, "stats:top", stored, StatsTTL); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A second within the window, even after unrelated writes, returns the
	// memoized value unchanged.
	now = now.Add(StatsTTL - time.Second)
	if err := c.Set(ctx, "admin:stats", map[string]int{"reviews": 99}, StatsTTL); err != nil {
		t.Fatalf("set unrelated: %v", err)
	}

	var got []topEntry
	if err := c.Get(ctx, "stats:top", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0] != stored[0] {
		t.Errorf("got %+v, want %+v", got, stored)
	}
}

func TestMemoryExpiryEvictsOnRead(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := c.Set(ctx, "stats:top", []topEntry{{Slug: "uoft"}}, StatsTTL); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(StatsTTL)

	var got []topEntry
	if err := c.Get(ctx, "stats:top", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after TTL, got %v", err)
	}

	// The stale entry is gone; a fresh Set takes over.
	if err := c.Set(ctx, "stats:top", []topEntry{{Slug: "uoft", Count: 1}}, StatsTTL); err != nil {
		t.Fatalf("re-set: %v", err)
	}
	if err := c.Get(ctx, "stats:top", &got); err != nil {
		t.Fatalf("get after re-set: %v", err)
	}
	if got[0].Count != 1 {
		t.Errorf("count = %d, want 1", got[0].Count)
	}
}

func TestMemoryMissUnknownKey(t *testing.T) {
	c := NewMemory()
	var dest any
	if err := c.Get(context.Background(), "nope", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
}
