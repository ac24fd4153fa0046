package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/kz")
	t.Setenv("AUTH_TOKEN_SECRET", testSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Database.MaxConnections)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "http://localhost:5000", cfg.Steam.Realm)
	assert.Equal(t, "#/steam_auth", cfg.Steam.ReturnPath)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/kz", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.TokenSecret)
}

func TestLoadFileWithEnvExpansion(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(db:3306)/kz")
	t.Setenv("AUTH_TOKEN_SECRET", testSecret)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "127.0.0.1:8080"
database:
  url: "${DATABASE_URL}"
  max_connections: 10
steam:
  realm: "https://kz.example.com"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "user:pass@tcp(db:3306)/kz", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, "https://kz.example.com", cfg.Steam.Realm)
	// Unset fields still get defaults
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_TOKEN_SECRET", testSecret)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRequiresLongSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/kz")
	t.Setenv("AUTH_TOKEN_SECRET", "short")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "32 bytes")

	t.Setenv("AUTH_TOKEN_SECRET", "")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "AUTH_TOKEN_SECRET")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
