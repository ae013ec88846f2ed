package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// CheckPassword reports whether password matches the stored hash.
// A mismatch is not an error.
func (u *User) CheckPassword(password string) (bool, error) {
	if u == nil || u.PasswordHash == "" {
		return false, nil
	}

	err := ComparePasswordAndHash(password, u.PasswordHash)
	if err == nil {
		return true, nil
	}

	// passwords over the bcrypt limit were never stored
	if errors.Is(err, ErrMismatchedHashAndPassword) || errors.Is(err, ErrPasswordTooLong) {
		return false, nil
	}

	return false, err
}
