package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("ENV", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, "futsal_matcher", cfg.MongoDatabase)
	assert.Equal(t, 0, cfg.RateLimitRPS)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("PUBLIC_BASE_URL", "https://futsal.example.com/")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 5, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "https://futsal.example.com", cfg.PublicBaseURL)
}
