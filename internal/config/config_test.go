package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDriverDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(10<<20), cfg.MediaMaxBytes)
	assert.Equal(t, "/media/files", cfg.MediaBaseURL)
	assert.Equal(t, 7, cfg.StatsTrendDays)
}

func TestLoadConfig_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown STORAGE_DRIVER")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://localhost:5173 , ,https://aid.example.org")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example.org/media/")
	t.Setenv("WEBHOOK_MAX_RETRIES", "not-a-number")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://aid.example.org"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://cdn.example.org/media", cfg.MediaBaseURL)
	assert.Equal(t, 3, cfg.WebhookMaxRetries) // некорректное значение -> значение по умолчанию
}

func TestLoadConfig_AdminEmailWithoutPassword(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")
}
