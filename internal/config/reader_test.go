package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReaderRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	_, err := NewEnvReader("").Read()
	require.Error(t, err)
}

func TestEnvReaderDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://todos.db")

	cfg, err := NewEnvReader("").Read()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://todos.db", cfg.DatabaseURL)
	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "8000", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, int32(10), cfg.Storage.MaxConns)
	assert.False(t, cfg.CORS.Enabled())
	assert.Equal(t, "todo-server", cfg.Log.Service)
	assert.Empty(t, cfg.Log.Level)
}

func TestEnvReaderRejectsUnknownEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://todos.db")
	t.Setenv("ENV", "staging")

	_, err := NewEnvReader("").Read()
	require.ErrorContains(t, err, "unknown env")
}

func TestEnvReaderParsesCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://todos.db")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test,http://b.test")

	cfg, err := NewEnvReader("").Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.CORS.Enabled())
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		found, err := NewEnvReader(filepath.Join(t.TempDir(), ".env")).LoadDotEnv()
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("TODO_DOTENV_PROBE=loaded\n"), 0o600))
		t.Setenv("TODO_DOTENV_PROBE", "")
		os.Unsetenv("TODO_DOTENV_PROBE")

		found, err := NewEnvReader(path).LoadDotEnv()
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "loaded", os.Getenv("TODO_DOTENV_PROBE"))
	})
}
