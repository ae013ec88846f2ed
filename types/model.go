package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Type is a named category owned by a user
type Type struct {
	bun.BaseModel `bun:"table:types,alias:typ"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Name          string     `bun:"name,notnull" json:"name"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// DefaultNames is the set created for new users when none is configured
var DefaultNames = []string{"default"}
