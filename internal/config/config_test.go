package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
logs_path = ""
log_to_stdout = true
sentry_enabled = false
redis_host = "localhost"
redis_port = 6379
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitsphere"
prom_metrics_host = "localhost"
prom_metrics_port = 9001
login_rate_limit_allowed_per_min = 5

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/fitsphere/service.log"
log_to_stdout = false
sentry_enabled = true
redis_host = "localhost"
redis_port = 6379
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitsphere"
prom_metrics_host = ""
prom_metrics_port = 9001
login_rate_limit_allowed_per_min = 10
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.False(t, cfg.SentryEnabled)
	assert.Equal(t, "fitsphere", cfg.PostgresDBName)
	assert.Equal(t, 5, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "/var/log/fitsphere/service.log", cfg.LogsPath)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, 10, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_unknownEnv(t *testing.T) {
	cfg, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_missingFile(t *testing.T) {
	cfg, err := Load("development", "/tmp/does-not-exist/config.toml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
