package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inEmptyDir runs the test from a directory without a .env file.
func inEmptyDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	inEmptyDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, BackendRedis, cfg.AttendanceBackend)
	assert.Equal(t, "prayer_attendance", cfg.Redis.Key)
	assert.True(t, cfg.SeedDefaults)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ATTENDANCE_BACKEND", "Memory")
	t.Setenv("SEED_DEFAULT_CLASSES", "false")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, BackendMemory, cfg.AttendanceBackend)
	assert.False(t, cfg.SeedDefaults)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("DB_PORT", "five")
	t.Setenv("SEED_DEFAULT_CLASSES", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.SeedDefaults)
}

func TestLoadValidation(t *testing.T) {
	inEmptyDir(t)

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("ATTENDANCE_BACKEND", "sqlite")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ATTENDANCE_BACKEND")
	})

	t.Run("empty cors origins", func(t *testing.T) {
		t.Setenv("CORS_ORIGINS", " , ")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CORS_ORIGINS")
	})

	t.Run("production needs a password", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_PASSWORD", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	})

	t.Run("production ssl", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_PASSWORD", "secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.True(t, cfg.IsProduction())
	})
}
