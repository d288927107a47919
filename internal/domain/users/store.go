package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const userColumns = `
	id, email, password, role, google_id, name, picture,
	verification_code, verification_code_expires, created_at, updated_at
`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		hash []byte
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&hash,
		&u.Role,
		&u.GoogleID,
		&u.Name,
		&u.Picture,
		&u.VerificationCode,
		&u.VerificationCodeExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Password = password{hash: hash}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	const q = `
		INSERT INTO users (email, password, role, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		strings.ToLower(u.Email),
		u.Password.hash,
		u.Role,
		u.Name,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, q, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// UpsertGoogle lands a federated sign-in on the account matching the
// verified email, creating it if absent. Profile fields refresh on every
// sign-in; the stored role is never touched.
func (r *Repository) UpsertGoogle(ctx context.Context, u *User) error {
	const q = `
		INSERT INTO users (email, role, google_id, name, picture)
		VALUES ($1, 'user', $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			google_id = EXCLUDED.google_id,
			name = EXCLUDED.name,
			picture = EXCLUDED.picture,
			updated_at = NOW()
		RETURNING id, role, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		strings.ToLower(u.Email),
		u.GoogleID,
		u.Name,
		u.Picture,
	).Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert google user: %w", err)
	}
	return nil
}

// SetVerificationCode stores a one-time code on the user row, creating the
// account on first contact.
func (r *Repository) SetVerificationCode(ctx context.Context, email, code string, expires time.Time) error {
	const q = `
		INSERT INTO users (email, role, verification_code, verification_code_expires)
		VALUES ($1, 'user', $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			verification_code = EXCLUDED.verification_code,
			verification_code_expires = EXCLUDED.verification_code_expires,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, q, strings.ToLower(email), code, expires); err != nil {
		return fmt.Errorf("set verification code: %w", err)
	}
	return nil
}

// RedeemVerificationCode atomically matches a non-expired code and clears
// it, so a code can be used at most once.
func (r *Repository) RedeemVerificationCode(ctx context.Context, email, code string) (*User, error) {
	q := fmt.Sprintf(`
		UPDATE users
		SET verification_code = '',
		    verification_code_expires = NULL,
		    updated_at = NOW()
		WHERE email = $1
		  AND verification_code = $2
		  AND verification_code <> ''
		  AND verification_code_expires > NOW()
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, q, strings.ToLower(email), code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("redeem verification code: %w", err)
	}
	return u, nil
}
