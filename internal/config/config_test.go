package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.SeedDemo)
	assert.Equal(t, "0.0.0.0:3001", cfg.Server.Addr)
	assert.Equal(t, "change-me-in-production", cfg.Auth.JWTSecret)
	assert.Equal(t, "sha256", cfg.Auth.PasswordScheme)
	assert.Equal(t, "*", cfg.CORS.Origin)
	assert.Equal(t, "memory", cfg.Database.Driver)

	ttl, err := cfg.TokenLifetime()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TODO_AUTH_JWTSECRET", "from-env")
	t.Setenv("TODO_AUTH_TOKENTTL", "2h")
	t.Setenv("TODO_APP_SEEDDEMO", "false")
	t.Setenv("TODO_DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.False(t, cfg.App.SeedDemo)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	ttl, err := cfg.TokenLifetime()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, ttl)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TODO_SERVER_ADDR=127.0.0.1:9999\nTODO_CORS_ORIGIN=https://dotenv.example\n"), 0o600))
	t.Setenv("TODO_CORS_ORIGIN", "https://env.example")
	// godotenv sets variables the test did not; clear it afterwards
	t.Cleanup(func() { os.Unsetenv("TODO_SERVER_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, "https://env.example", cfg.CORS.Origin)
}

func TestParseLifetime(t *testing.T) {
	cases := map[string]time.Duration{
		"1d":     24 * time.Hour,
		"7d":     7 * 24 * time.Hour,
		"1d12h":  36 * time.Hour,
		"12h":    12 * time.Hour,
		"90m":    90 * time.Minute,
		"3600":   time.Hour,
		" 2h30m": 150 * time.Minute,
	}
	for in, want := range cases {
		got, err := ParseLifetime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "d", "xd", "1w", "soon"} {
		_, err := ParseLifetime(bad)
		assert.Error(t, err, bad)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
