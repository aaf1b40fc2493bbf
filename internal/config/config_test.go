package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  environment: development
  port: "8080"
  allowed_cors_domains:
    - localhost
  jwt_signing_key: test-key
  token_ttl_hours: 72
gin:
  mode: debug
postgres:
  host: localhost
  port: "5432"
  user: raffle
  password: raffle
  db: raffle
  sslmode: disable
`), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "development", conf.API.Environment)
	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, []string{"localhost"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 72, conf.API.TokenTTLHours)
	assert.Equal(t, "debug", conf.Gin.Mode)
	assert.Equal(t, "raffle", conf.Postgres.DB)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
