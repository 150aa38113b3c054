package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
api:
  environment: test
  port: "9000"
  allowed_cors_domains:
    - http://localhost:3000
  jwt_signing_key: secret
gin:
  mode: test
postgres:
  host: localhost
  port: "5432"
  user: postgres
  password: postgres
  db: eventos
raffle:
  general_pool_size: 20
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "eventos", conf.Postgres.DB)
	assert.Equal(t, 20, conf.Raffle.GeneralPoolSize)

	// defaults
	assert.Equal(t, "postgres", conf.Database.Driver)
	assert.Equal(t, "America/Mexico_City", conf.Raffle.Timezone)
	assert.Equal(t, 2, conf.Raffle.MaxScanCount)
	assert.Equal(t, 3, conf.Queue.MaxAttempts)
	assert.Equal(t, []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second}, conf.Queue.Backoff)
	assert.NotNil(t, conf.MySQL)
	assert.Empty(t, conf.RabbitMQ.URL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("RAFFLE_TIMEZONE", "UTC")

	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "UTC", conf.Raffle.Timezone)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
