package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  public_base_url: "https://track.example.com/"
  api_rate_limit_per_minute: 120

storage:
  db_path: "/var/lib/tracker/tracker.db"

geo:
  disabled: true
  timeout_ms: 1500
  redis_url: "redis://localhost:6379/0"

publisher:
  sqs_queue_url: "https://sqs.us-east-1.amazonaws.com/123/engagement"
  aws_region: "us-east-1"

logging:
  level: debug
  redact_pii: false
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test server config
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "https://track.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, 120, cfg.Server.APIRateLimitPerMinute)

	// Test storage config
	assert.Equal(t, "/var/lib/tracker/tracker.db", cfg.Storage.DBPath)
	assert.Equal(t, 5*time.Second, cfg.Storage.BusyTimeout())

	// Test geo config
	assert.True(t, cfg.Geo.Disabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.Geo.Timeout())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Geo.RedisURL)
	assert.Equal(t, "http://ip-api.com", cfg.Geo.BaseURL)

	// Test publisher config
	assert.True(t, cfg.Publisher.Enabled())
	assert.Equal(t, "us-east-1", cfg.Publisher.AWSRegion)

	// Test logging config
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.ShouldRedactPII())
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Minimal config
	err := os.WriteFile(configPath, []byte("server:\n  port: 0\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "static", cfg.Server.DashboardDir)
	assert.Equal(t, "data/tracker.db", cfg.Storage.DBPath)
	assert.False(t, cfg.Geo.Disabled)
	assert.Equal(t, 2*time.Second, cfg.Geo.Timeout())
	assert.Equal(t, uint32(5), cfg.Geo.BreakerFailures)
	assert.Equal(t, time.Minute, cfg.Geo.BreakerCooldown())
	assert.Equal(t, 24*time.Hour, cfg.Geo.CacheTTL())
	assert.False(t, cfg.Publisher.Enabled())
	assert.True(t, cfg.Logging.ShouldRedactPII())
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("server: [unclosed"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	assert.Error(t, err)
}

func TestLoadFromEnv_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("PORT", "9191")
	t.Setenv("PUBLIC_BASE_URL", "https://t.example.com/")
	t.Setenv("SQS_TRACKING_QUEUE_URL", "https://sqs.example/queue")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.Storage.DBPath)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "https://t.example.com", cfg.Server.PublicBaseURL)
	assert.True(t, cfg.Publisher.Enabled())
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServerConfig_GetHost(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("SERVER_HOST", "")

	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1", cfg.GetHost())
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())

	t.Setenv("SERVER_HOST", "10.0.0.5")
	assert.Equal(t, "10.0.0.5", cfg.GetHost())
}
