package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// overallExpr derives the overall rating in SQL; it is never stored.
const overallExpr = `(r.room + r.bathroom + r.building + r.amenities + r.location) / 5.0`

// TopUniversities ranks by review count. Reviews reference universities by
// free text, so the catalog join matches on slug or name and legacy rows
// without a catalog match still aggregate. Ties keep natural order.
func (s *Repository) TopUniversities(ctx context.Context, n int) ([]UniversityStats, error) {
	q := fmt.Sprintf(`
		SELECT
			r.university,
			COALESCE(u.slug, '') AS slug,
			COALESCE(u.image_url, '') AS image_url,
			COUNT(*) AS review_count,
			AVG(%s) AS avg_rating
		FROM reviews r
		LEFT JOIN universities u ON u.slug = r.university OR u.name = r.university
		WHERE r.status = 'approved'
		GROUP BY r.university, u.slug, u.image_url
		ORDER BY review_count DESC
		LIMIT $1
	`, overallExpr)

	rows, err := s.db.Query(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("top universities: %w", err)
	}
	defer rows.Close()

	var out []UniversityStats
	for rows.Next() {
		var st UniversityStats
		if err := rows.Scan(&st.University, &st.Slug, &st.ImageURL, &st.ReviewCount, &st.AvgRating); err != nil {
			return nil, fmt.Errorf("scan university stats: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows university stats: %w", err)
	}
	return out, nil
}

// TopDorms ranks by mean overall rating, count as tiebreaker.
func (s *Repository) TopDorms(ctx context.Context, n int) ([]DormStats, error) {
	return s.dormAggregate(ctx, n, "avg_rating DESC, review_count DESC")
}

// MostReviewedDorms ranks by review count.
func (s *Repository) MostReviewedDorms(ctx context.Context, n int) ([]DormStats, error) {
	return s.dormAggregate(ctx, n, "review_count DESC")
}

func (s *Repository) dormAggregate(ctx context.Context, n int, order string) ([]DormStats, error) {
	q := fmt.Sprintf(`
		SELECT
			r.university,
			r.dorm,
			COUNT(*) AS review_count,
			AVG(%s) AS avg_rating
		FROM reviews r
		WHERE r.status = 'approved'
		GROUP BY r.university, r.dorm
		ORDER BY %s
		LIMIT $1
	`, overallExpr, order)

	rows, err := s.db.Query(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("dorm aggregate: %w", err)
	}
	defer rows.Close()

	var out []DormStats
	for rows.Next() {
		var st DormStats
		if err := rows.Scan(&st.University, &st.Dorm, &st.ReviewCount, &st.AvgRating); err != nil {
			return nil, fmt.Errorf("scan dorm stats: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows dorm stats: %w", err)
	}
	return out, nil
}

func (s *Repository) GetOverview(ctx context.Context) (*Overview, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM universities),

			(SELECT COUNT(*) FROM dorms),
			(SELECT COUNT(*) FROM dorms WHERE status = 'pending'),

			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM reviews WHERE status = 'pending'),
			(SELECT COUNT(*) FROM reviews WHERE status = 'approved'),
			(SELECT COUNT(*) FROM reviews WHERE pending_edit IS NOT NULL),

			(SELECT COUNT(*) FROM users)
	`

	var o Overview
	err := s.db.QueryRow(ctx, q).Scan(
		&o.TotalUniversities,

		&o.TotalDorms,
		&o.PendingDorms,

		&o.TotalReviews,
		&o.PendingReviews,
		&o.ApprovedReviews,
		&o.PendingEdits,

		&o.TotalUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("get overview: %w", err)
	}

	return &o, nil
}
