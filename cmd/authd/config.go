package main

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Config is loaded from the environment, optionally seeded from a .env file
type Config struct {
	SigningKey    string        `env:"AUTH_SIGNING_KEY,required"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`
	Issuer        string        `env:"AUTH_ISSUER"`
	Audience      []string      `env:"AUTH_AUDIENCE" envSeparator:","`
	ContextKey    string        `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
	AuthScheme    string        `env:"AUTH_SCHEME" envDefault:"Bearer"`
	DefaultTypes  []string      `env:"AUTH_DEFAULT_TYPES" envSeparator:"," envDefault:"default"`
	PasswordCost  int           `env:"AUTH_PASSWORD_COST" envDefault:"12"`
	HashidIDs     bool          `env:"AUTH_HASHID_IDS" envDefault:"false"`
	Debug         bool          `env:"AUTH_DEBUG" envDefault:"false"`
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8572"`
	DatabaseDSN   string        `env:"DATABASE_DSN" envDefault:"file:authd.db?cache=shared&_pragma=foreign_keys(1)"`
	DBPingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads envFiles (missing files are ignored) and parses the environment
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values env parsing accepts but the service can not run with
func (c Config) Validate() error {
	if c.TokenTTL <= 0 {
		return goerrors.New("AUTH_TOKEN_TTL must be positive", goerrors.CategoryValidation).
			WithMetadata(map[string]any{"token_ttl": c.TokenTTL.String()})
	}
	return nil
}

func (c Config) GetSigningKey() string      { return c.SigningKey }
func (c Config) GetTokenTTL() time.Duration { return c.TokenTTL }
func (c Config) GetIssuer() string          { return c.Issuer }
func (c Config) GetAudience() []string      { return c.Audience }
func (c Config) GetContextKey() string      { return c.ContextKey }
func (c Config) GetAuthScheme() string      { return c.AuthScheme }

// persistence.Config

func (c Config) GetDebug() bool                { return c.Debug }
func (c Config) GetDriver() string             { return sqliteshim.ShimName }
func (c Config) GetServer() string             { return c.DatabaseDSN }
func (c Config) GetPingTimeout() time.Duration { return c.DBPingTimeout }
func (c Config) GetOtelIdentifier() string     { return "authd" }
