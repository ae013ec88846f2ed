package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	auth "github.com/goliatone/go-bearer-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

const testSigningKey = "test-signing-key"

type testConfig struct {
	signingKey string
	ttl        time.Duration
	issuer     string
	audience   []string
	contextKey string
	scheme     string
}

func newMockConfig() *testConfig {
	return &testConfig{
		signingKey: testSigningKey,
		ttl:        time.Hour,
		contextKey: "user",
		scheme:     "Bearer",
	}
}

func (c *testConfig) GetSigningKey() string      { return c.signingKey }
func (c *testConfig) GetTokenTTL() time.Duration { return c.ttl }
func (c *testConfig) GetIssuer() string          { return c.issuer }
func (c *testConfig) GetAudience() []string      { return c.audience }
func (c *testConfig) GetContextKey() string      { return c.contextKey }
func (c *testConfig) GetAuthScheme() string      { return c.scheme }

type capturingSink struct {
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, evt auth.ActivityEvent) error {
	c.events = append(c.events, evt)
	return nil
}

func newTestUser(t *testing.T, email, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
}

var testPersistenceConfig = auth.PersistenceConfig{
	Driver:      sqliteshim.ShimName,
	Server:      ":memory:",
	PingTimeout: time.Second,
}

func newTestSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqldb.Close()
	})

	return sqldb
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := auth.OpenDB(context.Background(), testPersistenceConfig, newTestSQLDB(t))
	require.NoError(t, err)

	return db
}
