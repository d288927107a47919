package universities

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("university not found")

// University rows come from seed scripts or admin import and are rarely
// mutated. The slug is globally unique and immutable once dorms reference it.
type University struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Location       string   `json:"location,omitempty"`
	Website        string   `json:"website,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Highlights     []string `json:"highlights,omitempty"`
	FoundedYear    *int     `json:"foundedYear,omitempty"`
	TotalStudents  *int     `json:"totalStudents,omitempty"`
	AcceptanceRate *float64 `json:"acceptanceRate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store interface {
	List(ctx context.Context) ([]University, error)
	GetBySlug(ctx context.Context, slug string) (*University, error)
	Upsert(ctx context.Context, u *University) error
}
