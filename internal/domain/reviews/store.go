package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dormbase/internal/domain/moderation"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const reviewColumns = `
	id, university, dorm,
	room, bathroom, building, amenities, location,
	description, years, room_types, would_dorm_again,
	images, file_image, user_email, verified, status,
	upvotes, downvotes, pending_edit,
	created_at, updated_at
`

func scanReview(row pgx.Row) (*Review, error) {
	var (
		r         Review
		years     []int
		roomTypes []string
	)
	err := row.Scan(
		&r.ID,
		&r.University,
		&r.Dorm,
		&r.Room,
		&r.Bathroom,
		&r.Building,
		&r.Amenities,
		&r.Location,
		&r.Description,
		&years,
		&roomTypes,
		&r.WouldDormAgain,
		&r.Images,
		&r.FileImage,
		&r.UserEmail,
		&r.Verified,
		&r.Status,
		&r.Upvotes,
		&r.Downvotes,
		&r.PendingEdit,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Years = years
	r.RoomTypes = roomTypes
	r.Finalize()
	return &r, nil
}

func (s *Repository) Create(ctx context.Context, r *Review) error {
	const q = `
		INSERT INTO reviews (
			university, dorm,
			room, bathroom, building, amenities, location,
			description, years, room_types, would_dorm_again,
			images, file_image, user_email, verified, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRow(ctx, q,
		r.University,
		r.Dorm,
		r.Room,
		r.Bathroom,
		r.Building,
		r.Amenities,
		r.Location,
		r.Description,
		[]int(r.Years),
		[]string(r.RoomTypes),
		r.WouldDormAgain,
		r.Images,
		r.FileImage,
		r.UserEmail,
		r.Verified,
		r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	r.Finalize()
	return nil
}

func (s *Repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	q := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	r, err := scanReview(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return r, nil
}

func (s *Repository) List(ctx context.Context, filter Filter) ([]Review, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	where := []string{"1=1"}
	args := []any{}
	arg := 1

	if filter.University != "" {
		where = append(where, fmt.Sprintf("university = $%d", arg))
		args = append(args, filter.University)
		arg++
	}
	if filter.Dorm != "" {
		where = append(where, fmt.Sprintf("dorm = $%d", arg))
		args = append(args, filter.Dorm)
		arg++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", arg))
		args = append(args, string(*filter.Status))
		arg++
	}

	q := fmt.Sprintf(`
		SELECT %s FROM reviews
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, reviewColumns, strings.Join(where, " AND "), arg, arg+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListByUser returns everything the caller submitted regardless of status;
// the account view is the one place pending and declined reviews surface.
func (s *Repository) ListByUser(ctx context.Context, email string) ([]Review, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM reviews
		WHERE user_email = $1
		ORDER BY created_at DESC
	`, reviewColumns)

	rows, err := s.db.Query(ctx, q, email)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// SetStatus has no guard on the current status: re-approving an approved
// review succeeds and stays approved.
func (s *Repository) SetStatus(ctx context.Context, id int64, status moderation.Status, decidedBy string) error {
	const q = `
		UPDATE reviews
		SET status = $1,
		    decided_by = $2,
		    decided_at = NOW(),
		    updated_at = NOW()
		WHERE id = $3
	`
	ct, err := s.db.Exec(ctx, q, status, decidedBy, id)
	if err != nil {
		return fmt.Errorf("set review status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SavePendingEdit writes the shadow copy without touching the live fields.
// Only the owner of an approved review may stage an edit.
func (s *Repository) SavePendingEdit(ctx context.Context, id int64, ownerEmail string, snapshot *EditSnapshot) error {
	var owner string
	var status moderation.Status
	err := s.db.QueryRow(ctx, `SELECT user_email, status FROM reviews WHERE id = $1`, id).
		Scan(&owner, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load review for edit: %w", err)
	}
	if owner == "" || owner != ownerEmail {
		return ErrNotOwner
	}
	if status != moderation.StatusApproved {
		return ErrNotEditable
	}

	const q = `UPDATE reviews SET pending_edit = $1, updated_at = NOW() WHERE id = $2`
	if _, err := s.db.Exec(ctx, q, snapshot, id); err != nil {
		return fmt.Errorf("save pending edit: %w", err)
	}
	return nil
}

// ApprovePendingEdit copies the shadow fields onto the live review and
// clears the shadow, inside one transaction.
func (s *Repository) ApprovePendingEdit(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approve edit: %w", err)
	}
	defer tx.Rollback(ctx)

	var snapshot *EditSnapshot
	var liveImages []string
	err = tx.QueryRow(ctx, `SELECT pending_edit, images FROM reviews WHERE id = $1 FOR UPDATE`, id).
		Scan(&snapshot, &liveImages)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load pending edit: %w", err)
	}
	if snapshot == nil {
		return ErrNoPendingEdit
	}

	images := liveImages
	if len(snapshot.Images) > 0 {
		images = snapshot.Images
	}

	const q = `
		UPDATE reviews
		SET room = $1, bathroom = $2, building = $3, amenities = $4, location = $5,
		    description = $6, years = $7, room_types = $8, would_dorm_again = $9,
		    images = $10, pending_edit = NULL, updated_at = NOW()
		WHERE id = $11
	`
	_, err = tx.Exec(ctx, q,
		snapshot.Room,
		snapshot.Bathroom,
		snapshot.Building,
		snapshot.Amenities,
		snapshot.Location,
		snapshot.Description,
		[]int(snapshot.Years),
		[]string(snapshot.RoomTypes),
		snapshot.WouldDormAgain,
		images,
		id,
	)
	if err != nil {
		return fmt.Errorf("apply pending edit: %w", err)
	}

	return tx.Commit(ctx)
}

// DeclinePendingEdit drops the shadow; the live review is untouched.
func (s *Repository) DeclinePendingEdit(ctx context.Context, id int64) error {
	ct, err := s.db.Exec(ctx, `UPDATE reviews SET pending_edit = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("decline pending edit: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateVotes persists both sets wholesale. Concurrent votes are
// last-write-wins at the row level.
func (s *Repository) UpdateVotes(ctx context.Context, id int64, upvotes, downvotes []string) error {
	const q = `UPDATE reviews SET upvotes = $1, downvotes = $2, updated_at = NOW() WHERE id = $3`
	ct, err := s.db.Exec(ctx, q, upvotes, downvotes, id)
	if err != nil {
		return fmt.Errorf("update votes: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectReviews(rows pgx.Rows) ([]Review, error) {
	var out []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows reviews: %w", err)
	}
	return out, nil
}
