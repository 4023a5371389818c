package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(yaml), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  env: dev\n"))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "memory", cfg.Cache.Driver)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Equal(t, "shakehands_sid", cfg.Session.CookieName)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, "shakehands", cfg.Session.Issuer)
}

func TestLoad_Providers(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
providers:
  google:
    enabled: true
    key: gk
    secret: gs
    callback_url: http://localhost/auth/google/callback
    options:
      whitelist: [corp.example]
  facebook:
    enabled: true
    key: fk
    secret: fs
    options:
      enable_email: true
`))
	require.NoError(t, err)

	g := cfg.Providers["google"]
	require.True(t, g.Enabled)
	require.Equal(t, "gk", g.Key)
	require.Equal(t, []string{"corp.example"}, g.Options.Whitelist)

	fb := cfg.Providers["facebook"]
	require.True(t, fb.Options.EnableEmail)
}

func TestLoad_EnabledProviderWithoutCredentials(t *testing.T) {
	_, err := Load(writeConfig(t, `
providers:
  google:
    enabled: true
`))
	require.Error(t, err)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	_, err := Load(writeConfig(t, `
storage:
  driver: postgres
`))
	require.Error(t, err)
}

func TestLoad_ProdRequiresJWTSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "app:\n  env: prod\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `
app:
  env: prod
session:
  jwt_secret: super-secret
`))
	require.NoError(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHAKEHANDS_ADDR", ":9999")
	t.Setenv("SHAKEHANDS_SESSION_SECRET", "from-env")

	cfg, err := Load(writeConfig(t, "app:\n  env: dev\n"))
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Server.Addr)
	require.Equal(t, "from-env", cfg.Session.JWTSecret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
