package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, int64(500000), cfg.AvatarMaxBytes)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.RedisEnabled)
}

func TestLoadGroupedJSON(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, `{
		"app": {"AppPort": "9000", "JWTSecret": "from-file", "AllowedOrigins": ["https://a.example"]},
		"database": {"Driver": "sqlite", "DatabaseURI": "file::memory:"},
		"redis": {"Enabled": true, "RedisPort": 6380, "CacheTTLSeconds": 60},
		"upload": {"Dir": "/tmp/avatars", "AvatarMaxBytes": 1024}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseURI)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, "/tmp/avatars", cfg.UploadDir)
	assert.Equal(t, int64(1024), cfg.AvatarMaxBytes)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"app": {"AppPort": "9000", "JWTSecret": "from-file"}}`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "7000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "7000", cfg.AppPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RedisEnabled)
}

func TestInvalidIntegerEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("REDIS_PORT", "not-a-number")
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestInvalidJSON(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	_, err := Load(writeConfig(t, `{not json`))
	assert.Error(t, err)
}

func TestOpenDatabaseSQLite(t *testing.T) {
	type widget struct {
		ID   uint
		Name string
	}
	db, err := OpenDatabase(AppConfig{DBDriver: "sqlite", DatabaseURI: "file::memory:", LogLevel: "silent"}, &widget{})
	require.NoError(t, err)
	require.NoError(t, db.Create(&widget{Name: "a"}).Error)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenDatabaseUnknownDriver(t *testing.T) {
	_, err := OpenDatabase(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}
