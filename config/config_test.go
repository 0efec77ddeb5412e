package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: "127.0.0.1:8080"
log_level: debug
database:
  path: /tmp/vaaskel-test.db
session:
  key: super-secret
bootstrap:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/vaaskel-test.db", cfg.Database.Path)
	assert.Equal(t, "super-secret", cfg.Session.Key)
	assert.False(t, cfg.Bootstrap.Enabled)

	// Defaults fill whatever the file leaves out.
	assert.Equal(t, 172800, cfg.Session.MaxAge)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, 300, cfg.Cache.TTL)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
session:
  key: super-secret
`)

	t.Setenv("VAASKEL_LISTEN", "0.0.0.0:9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.Listen)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing session key",
			content: "listen: \"127.0.0.1:8080\"\n",
			errMsg:  "session key is required",
		},
		{
			name: "redis cache without url",
			content: `
session:
  key: super-secret
cache:
  type: redis
`,
			errMsg: "redis URL is required",
		},
		{
			name: "unknown cache type",
			content: `
session:
  key: super-secret
cache:
  type: memcached
`,
			errMsg: "unknown cache type",
		},
		{
			name: "bootstrap without credentials",
			content: `
session:
  key: super-secret
bootstrap:
  enabled: true
  username: ""
  password: ""
`,
			errMsg: "bootstrap username is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
