package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the bun backed UserStore
type Users interface {
	UserStore
}

type users struct {
	repository.Repository[*User]
	db           *bun.DB
	passwordCost int
	useHashid    bool
}

var _ Users = (*users)(nil)

type UsersOption func(*users)

// WithPasswordCost sets the bcrypt cost used when registering users
func WithPasswordCost(cost int) UsersOption {
	return func(u *users) {
		u.passwordCost = cost
	}
}

// WithHashidIDs derives user ids from the email address instead of random uuids
func WithHashidIDs(enabled bool) UsersOption {
	return func(u *users) {
		u.useHashid = enabled
	}
}

func NewUsersRepository(db *bun.DB, opts ...UsersOption) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	repoUsers := &users{
		Repository:   repo,
		db:           db,
		passwordCost: passwordHashCost(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoUsers)
		}
	}

	return repoUsers
}

// Register hashes the password and creates the user record
func (a *users) Register(ctx context.Context, email, password string) (*User, error) {
	hash, err := HashPasswordWithCost(password, a.passwordCost)
	if err != nil {
		return nil, err
	}

	record := &User{
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	a.prepareUserDefaults(record)

	user, err := a.Repository.CreateTx(ctx, a.db, record)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
			WithMetadata(map[string]any{"email": record.Email})
	}

	return user, nil
}

// FindByEmail looks a user up by email. When columns are given only
// those are selected.
func (a *users) FindByEmail(ctx context.Context, email string, columns ...string) (*User, error) {
	record := &User{}
	q := a.db.NewSelect().Model(record)
	if len(columns) > 0 {
		q.Column(columns...)
	}

	err := q.
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "email", email)
	}

	return record, nil
}

// FindByID looks a user up by id leaving out excludeColumns
func (a *users) FindByID(ctx context.Context, id string, excludeColumns ...string) (*User, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrUserNotFound
	}

	record := &User{}
	q := a.db.NewSelect().Model(record)
	if len(excludeColumns) > 0 {
		q.ExcludeColumn(excludeColumns...)
	}

	err = q.
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "id", id)
	}

	return record, nil
}

func (a *users) prepareUserDefaults(record *User) {
	if record.ID == uuid.Nil && a.useHashid {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.ID = id
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now().UTC()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}
}

func notFoundOr(err error, key, value string) error {
	if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
		return ErrUserNotFound
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user").
		WithMetadata(map[string]any{key: value})
}
