package dorms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dormbase/internal/domain/moderation"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const dormColumns = `
	id, university_slug, name, slug, description, image_url,
	images, amenities, room_types, status, submitted_by,
	decided_by, decided_at, created_at, updated_at
`

func scanDorm(row pgx.Row) (*Dorm, error) {
	var d Dorm
	err := row.Scan(
		&d.ID,
		&d.UniversitySlug,
		&d.Name,
		&d.Slug,
		&d.Description,
		&d.ImageURL,
		&d.Images,
		&d.Amenities,
		&d.RoomTypes,
		&d.Status,
		&d.SubmittedBy,
		&d.DecidedBy,
		&d.DecidedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *Dorm) error {
	const q = `
		INSERT INTO dorms (
			university_slug, name, slug, description, image_url,
			images, amenities, room_types, status, submitted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		d.UniversitySlug,
		d.Name,
		d.Slug,
		d.Description,
		d.ImageURL,
		d.Images,
		d.Amenities,
		d.RoomTypes,
		d.Status,
		d.SubmittedBy,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create dorm: %w", err)
	}
	return nil
}

// ListByUniversity returns a university's dorms. Public reads pass
// approvedOnly=true so pending and declined submissions stay hidden.
func (r *Repository) ListByUniversity(ctx context.Context, universitySlug string, approvedOnly bool) ([]Dorm, error) {
	q := fmt.Sprintf(`SELECT %s FROM dorms WHERE university_slug = $1`, dormColumns)
	args := []any{universitySlug}
	if approvedOnly {
		q += ` AND status = $2`
		args = append(args, moderation.StatusApproved)
	}
	q += ` ORDER BY name`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list dorms: %w", err)
	}
	defer rows.Close()

	return collectDorms(rows)
}

func (r *Repository) GetBySlug(ctx context.Context, universitySlug, slug string) (*Dorm, error) {
	q := fmt.Sprintf(`SELECT %s FROM dorms WHERE university_slug = $1 AND slug = $2`, dormColumns)

	d, err := scanDorm(r.db.QueryRow(ctx, q, universitySlug, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get dorm: %w", err)
	}
	return d, nil
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]Dorm, error) {
	if filter.Limit <= 0 || filter.Limit > 60 {
		filter.Limit = 20
	}

	where := []string{"1=1"}
	args := []any{}
	arg := 1

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", arg))
		args = append(args, string(*filter.Status))
		arg++
	}

	q := fmt.Sprintf(`
		SELECT %s FROM dorms
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, dormColumns, strings.Join(where, " AND "), arg, arg+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list dorms: %w", err)
	}
	defer rows.Close()

	return collectDorms(rows)
}

// SetStatus transitions a submission. The update carries no status guard,
// so re-approving an approved dorm is accepted and changes nothing but the
// decision metadata.
func (r *Repository) SetStatus(ctx context.Context, id int64, status moderation.Status, decidedBy string) error {
	const q = `
		UPDATE dorms
		SET status = $1,
		    decided_by = $2,
		    decided_at = NOW(),
		    updated_at = NOW()
		WHERE id = $3
	`
	ct, err := r.db.Exec(ctx, q, status, decidedBy, id)
	if err != nil {
		return fmt.Errorf("set dorm status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM dorms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dorm: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectDorms(rows pgx.Rows) ([]Dorm, error) {
	var out []Dorm
	for rows.Next() {
		d, err := scanDorm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dorm: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows dorms: %w", err)
	}
	return out, nil
}
