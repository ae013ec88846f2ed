package types

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Repository struct {
	repo  repository.Repository[*Type]
	db    *bun.DB
	names []string
}

type Option func(*Repository)

// WithDefaultNames overrides the names seeded for new users
func WithDefaultNames(names ...string) Option {
	return func(r *Repository) {
		cleaned := make([]string, 0, len(names))
		seen := map[string]bool{}
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			cleaned = append(cleaned, n)
		}
		if len(cleaned) > 0 {
			r.names = cleaned
		}
	}
}

func NewRepository(db *bun.DB, opts ...Option) *Repository {
	r := &Repository{
		db:    db,
		names: append([]string(nil), DefaultNames...),
		repo: repository.NewRepository[*Type](db, repository.ModelHandlers[*Type]{
			NewRecord: func() *Type { return &Type{} },
			GetID: func(t *Type) uuid.UUID {
				if t == nil {
					return uuid.Nil
				}
				return t.ID
			},
			SetID: func(t *Type, id uuid.UUID) {
				if t != nil {
					t.ID = id
				}
			},
			GetIdentifier: func() string {
				return "name"
			},
		}),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Names returns the default names seeded for new users
func (r *Repository) Names() []string {
	return append([]string(nil), r.names...)
}

// CreateDefaults inserts the default set for userID in one transaction
func (r *Repository) CreateDefaults(ctx context.Context, userID uuid.UUID) ([]*Type, error) {
	out := make([]*Type, 0, len(r.names))

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()
		for _, name := range r.names {
			record := &Type{
				ID:        uuid.New(),
				UserID:    userID,
				Name:      name,
				CreatedAt: &now,
			}

			created, err := r.repo.CreateTx(ctx, tx, record)
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create default types").
			WithMetadata(map[string]any{"user_id": userID.String()})
	}

	return out, nil
}

// ListByUser returns the types owned by userID ordered by name
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Type, error) {
	records := make([]*Type, 0)

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list types").
			WithMetadata(map[string]any{"user_id": userID.String()})
	}

	return records, nil
}

// CreateForUser seeds the default types for a newly registered user
func (r *Repository) CreateForUser(ctx context.Context, userID uuid.UUID) (any, error) {
	return r.CreateDefaults(ctx, userID)
}

// GetForUser returns the types of an existing user
func (r *Repository) GetForUser(ctx context.Context, userID uuid.UUID) (any, error) {
	return r.ListByUser(ctx, userID)
}
