package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "p@ss")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres://postgres:p%40ss@db:5432/storefront?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 3*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.CartCacheTTL)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DatabaseURL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")

	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("REDIS_DB", "one")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "REDIS_DB")
}
