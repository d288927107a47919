package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with that email already exists")
	ErrNoPassword     = errors.New("account has no password set")
	ErrInvalidCode    = errors.New("invalid or expired verification code")
)

// User is identified by email across every auth method: password, Google,
// and one-time codes all land on the same row.
type User struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	Password password `json:"-"`
	Role     string   `json:"role"`
	GoogleID string   `json:"-"`
	Name     string   `json:"name,omitempty"`
	Picture  string   `json:"picture,omitempty"`

	VerificationCode        string     `json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// password keeps only the bcrypt hash. A nil hash means an OAuth- or
// code-only account.
type password struct {
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.hash = hash
	return nil
}

func (p *password) Compare(text string) error {
	if len(p.hash) == 0 {
		return ErrNoPassword
	}
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

func (p *password) IsSet() bool { return len(p.hash) > 0 }

type Store interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpsertGoogle(ctx context.Context, u *User) error
	SetVerificationCode(ctx context.Context, email, code string, expires time.Time) error
	RedeemVerificationCode(ctx context.Context, email, code string) (*User, error)
}
