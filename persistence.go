package auth

import (
	"context"
	"database/sql"
	"io/fs"
	"sync"
	"time"

	"github.com/goliatone/go-bearer-auth/types"
	goerrors "github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const migrationsDir = "data/sql/migrations"

var registerModels sync.Once

// PersistenceConfig implements persistence.Config
type PersistenceConfig struct {
	Debug          bool
	Driver         string
	Server         string
	PingTimeout    time.Duration
	OtelIdentifier string
}

func (c PersistenceConfig) GetDebug() bool                { return c.Debug }
func (c PersistenceConfig) GetDriver() string             { return c.Driver }
func (c PersistenceConfig) GetServer() string             { return c.Server }
func (c PersistenceConfig) GetPingTimeout() time.Duration { return c.PingTimeout }
func (c PersistenceConfig) GetOtelIdentifier() string     { return c.OtelIdentifier }

// OpenDB registers the auth models, runs the embedded migrations through a
// persistence client and returns its database handle
func OpenDB(ctx context.Context, cfg persistence.Config, sqldb *sql.DB) (*bun.DB, error) {
	registerModels.Do(func() {
		persistence.RegisterModel((*User)(nil))
		persistence.RegisterModel((*types.Type)(nil))
	})

	client, err := persistence.New(cfg, sqldb, sqlitedialect.New())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create persistence client")
	}

	migrations, err := fs.Sub(GetMigrationsFS(), migrationsDir)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations")
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel(migrationsDir),
		persistence.WithValidationTargets("sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "invalid migrations")
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migrations")
	}

	return client.DB(), nil
}
