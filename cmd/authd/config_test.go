package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.GetSigningKey())
	assert.Equal(t, 168*time.Hour, cfg.GetTokenTTL())
	assert.Equal(t, "user", cfg.GetContextKey())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
	assert.Equal(t, []string{"default"}, cfg.DefaultTypes)
	assert.Equal(t, ":8572", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.DBPingTimeout)
	assert.Empty(t, cfg.GetIssuer())
	assert.Empty(t, cfg.GetAudience())
}

func TestLoadConfig_RequiresSigningKey(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "")
	os.Unsetenv("AUTH_SIGNING_KEY")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "AUTH_SIGNING_KEY=from-file\nAUTH_TOKEN_TTL=30m\nAUTH_AUDIENCE=api,web\nAUTH_DEFAULT_TYPES=admin,viewer\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	for _, key := range []string{"AUTH_SIGNING_KEY", "AUTH_TOKEN_TTL", "AUTH_AUDIENCE", "AUTH_DEFAULT_TYPES"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("AUTH_ISSUER", "authd")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.GetSigningKey())
	assert.Equal(t, 30*time.Minute, cfg.GetTokenTTL())
	assert.Equal(t, "authd", cfg.GetIssuer())
	assert.Equal(t, []string{"api", "web"}, cfg.GetAudience())
	assert.Equal(t, []string{"admin", "viewer"}, cfg.DefaultTypes)
}

func TestLoadConfig_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "secret")

	for _, ttl := range []string{"0s", "-1h"} {
		t.Run(ttl, func(t *testing.T) {
			t.Setenv("AUTH_TOKEN_TTL", ttl)

			cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
			assert.Nil(t, cfg)

			var richErr *goerrors.Error
			require.True(t, goerrors.As(err, &richErr))
			assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
			assert.Contains(t, err.Error(), "AUTH_TOKEN_TTL")
		})
	}
}

func TestConfig_PersistenceSettings(t *testing.T) {
	cfg := Config{DatabaseDSN: ":memory:", DBPingTimeout: time.Second, Debug: true}

	assert.Equal(t, sqliteshim.ShimName, cfg.GetDriver())
	assert.Equal(t, ":memory:", cfg.GetServer())
	assert.Equal(t, time.Second, cfg.GetPingTimeout())
	assert.True(t, cfg.GetDebug())
	assert.Equal(t, "authd", cfg.GetOtelIdentifier())
}
