package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "DATABASE_URL", "PROBLEM_SOURCE_URL", "METADATA_CACHE_TTL", "JWT_EXPIRATION_HOURS", "DB_HOST"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, DefaultProblemSourceURL, cfg.ProblemSourceURL)
	assert.Contains(t, cfg.DBConnStr, "host=localhost")
	assert.Equal(t, 72*time.Hour, cfg.JWTExp)
	assert.Equal(t, 24*time.Hour, cfg.MetadataCacheTTL)
	assert.Equal(t, 15*time.Second, cfg.ProblemSourceTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("METADATA_CACHE_TTL", "90m")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tracker?sslmode=disable")

	cfg := Load()

	assert.Equal(t, "9090", cfg.APIPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.MetadataCacheTTL)
	assert.Equal(t, "postgres://u:p@db:5432/tracker?sslmode=disable", cfg.DBConnStr)
}

func TestGetEnvAsDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("PROBLEM_SOURCE_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, getEnvAsDuration("PROBLEM_SOURCE_TIMEOUT", 5*time.Second))

	t.Setenv("PROBLEM_SOURCE_TIMEOUT", "-1s")
	assert.Equal(t, 5*time.Second, getEnvAsDuration("PROBLEM_SOURCE_TIMEOUT", 5*time.Second))
}
