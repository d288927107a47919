package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: miss")

// Cache memoizes expensive aggregate queries. Values are stored as JSON so a
// repeated Get within the TTL returns byte-identical output regardless of
// backend. Writes never invalidate entries; staleness up to the TTL is the
// accepted tradeoff.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// StatsTTL bounds how stale the homepage and admin dashboard aggregates may
// get after new reviews or approvals land.
const StatsTTL = 5 * time.Minute
