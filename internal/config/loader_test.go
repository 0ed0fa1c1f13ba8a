package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "access-secret")
	t.Setenv("AUTH_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "authsvc", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "refreshToken", cfg.Auth.CookieName)
	assert.Equal(t, "/", cfg.Auth.CookiePath)
	assert.Equal(t, 2*time.Second, cfg.DB.QueryTimeout)
}

func TestLoad_MissingSecrets(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_secret")
}

func TestLoad_EqualSecrets(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "same")
	t.Setenv("AUTH_REFRESH_SECRET", "same")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "authsvc.yaml")
	data := []byte(`
app:
  name: authsvc-test
  env: test
server:
  http_addr: ":9999"
auth:
  access_secret: file-access
  refresh_secret: file-refresh
  access_ttl: 5m
  cookie_secure: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "authsvc-test", cfg.App.Name)
	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	// Unset keys still fall back to defaults.
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "env-access")
	t.Setenv("AUTH_REFRESH_SECRET", "env-refresh")
	t.Setenv("SERVER_HTTP_ADDR", ":7777")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.HTTPAddr)
	assert.Equal(t, "env-access", cfg.Auth.AccessSecret)
}
