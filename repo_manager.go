package auth

import (
	"errors"
	"log"

	"github.com/goliatone/go-bearer-auth/types"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	Users() Users
	Types() *types.Repository
}

type mngr struct {
	db    *bun.DB
	users Users
	types *types.Repository
}

type ManagerOption func(*managerOptions)

type managerOptions struct {
	users []UsersOption
	types []types.Option
}

// WithUsersOptions forwards options to the users repository
func WithUsersOptions(opts ...UsersOption) ManagerOption {
	return func(o *managerOptions) {
		o.users = append(o.users, opts...)
	}
}

// WithTypesOptions forwards options to the types repository
func WithTypesOptions(opts ...types.Option) ManagerOption {
	return func(o *managerOptions) {
		o.types = append(o.types, opts...)
	}
}

func NewRepositoryManager(db *bun.DB, opts ...ManagerOption) RepositoryManager {
	o := &managerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return &mngr{
		db:    db,
		users: NewUsersRepository(db, o.users...),
		types: types.NewRepository(db, o.types...),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager needs a database")
	}

	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.types == nil {
		return errors.New("repository types should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Types() *types.Repository {
	return m.types
}
