package dorms

import (
	"context"
	"errors"
	"time"

	"dormbase/internal/domain/moderation"
)

var (
	ErrNotFound  = errors.New("dorm not found")
	ErrDuplicate = errors.New("a dorm with that name already exists at this university")
)

// Dorm references its university by slug, not by id — a deliberate
// value-based reference matching the public API contract. The
// (universitySlug, slug) pair is unique.
type Dorm struct {
	ID             int64             `json:"id"`
	UniversitySlug string            `json:"universitySlug"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Description    string            `json:"description,omitempty"`
	ImageURL       string            `json:"imageUrl,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Amenities      []string          `json:"amenities,omitempty"`
	RoomTypes      []string          `json:"roomTypes,omitempty"`
	Status         moderation.Status `json:"status"`
	SubmittedBy    string            `json:"submittedBy,omitempty"`

	DecidedBy *string    `json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Filter struct {
	Status *moderation.Status
	Limit  int
	Offset int
}

type Store interface {
	Create(ctx context.Context, d *Dorm) error
	ListByUniversity(ctx context.Context, universitySlug string, approvedOnly bool) ([]Dorm, error)
	GetBySlug(ctx context.Context, universitySlug, slug string) (*Dorm, error)
	List(ctx context.Context, filter Filter) ([]Dorm, error)
	SetStatus(ctx context.Context, id int64, status moderation.Status, decidedBy string) error
	Delete(ctx context.Context, id int64) error
}
