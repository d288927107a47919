package universities

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const universityColumns = `
	id, name, slug, location, website, image_url,
	highlights, founded_year, total_students, acceptance_rate,
	created_at, updated_at
`

func scanUniversity(row pgx.Row) (*University, error) {
	var u University
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Slug,
		&u.Location,
		&u.Website,
		&u.ImageURL,
		&u.Highlights,
		&u.FoundedYear,
		&u.TotalStudents,
		&u.AcceptanceRate,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) List(ctx context.Context) ([]University, error) {
	q := fmt.Sprintf(`SELECT %s FROM universities ORDER BY name`, universityColumns)

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer rows.Close()

	var out []University
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan university: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows universities: %w", err)
	}
	return out, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*University, error) {
	q := fmt.Sprintf(`SELECT %s FROM universities WHERE slug = $1`, universityColumns)

	u, err := scanUniversity(r.db.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get university: %w", err)
	}
	return u, nil
}

// Upsert inserts or refreshes a university by slug. Used by the seed
// process and admin import; the slug itself never changes.
func (r *Repository) Upsert(ctx context.Context, u *University) error {
	const q = `
		INSERT INTO universities (
			name, slug, location, website, image_url,
			highlights, founded_year, total_students, acceptance_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			website = EXCLUDED.website,
			image_url = EXCLUDED.image_url,
			highlights = EXCLUDED.highlights,
			founded_year = EXCLUDED.founded_year,
			total_students = EXCLUDED.total_students,
			acceptance_rate = EXCLUDED.acceptance_rate,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		u.Name,
		u.Slug,
		u.Location,
		u.Website,
		u.ImageURL,
		u.Highlights,
		u.FoundedYear,
		u.TotalStudents,
		u.AcceptanceRate,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert university: %w", err)
	}
	return nil
}
