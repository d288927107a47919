package storage

import (
	"context"

	"dormbase/internal/domain/dorms"
	"dormbase/internal/domain/reviews"
	"dormbase/internal/domain/stats"
	"dormbase/internal/domain/universities"
	"dormbase/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool         *pgxpool.Pool
	Users        users.Store
	Universities universities.Store
	Dorms        dorms.Store
	Reviews      reviews.Store
	Stats        stats.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:         db,
		Users:        users.NewRepository(db),
		Universities: universities.NewRepository(db),
		Dorms:        dorms.NewRepository(db),
		Reviews:      reviews.NewRepository(db),
		Stats:        stats.NewRepository(db),
	}
}

// Ping backs the health check; a dead pool reports unhealthy instead of
// crashing request handling.
func (c *Container) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// PoolStat exposes connection pool counters for the debug vars endpoint.
func (c *Container) PoolStat() map[string]any {
	s := c.pool.Stat()
	return map[string]any{
		"acquired_conns": s.AcquiredConns(),
		"idle_conns":     s.IdleConns(),
		"total_conns":    s.TotalConns(),
		"max_conns":      s.MaxConns(),
	}
}
