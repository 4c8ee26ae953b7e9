package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.mail.tm", cfg.Provider.BaseURL)
	assert.Equal(t, 15, cfg.Poll.IntervalSec)
	assert.Equal(t, 30, cfg.Provider.TimeoutSec)
	assert.Equal(t, "", cfg.Admin.GateSecret)
	assert.NotEmpty(t, cfg.DirectoryPath)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
provider:
  base_url: https://mail.example.org
  timeout_sec: 5
poll:
  interval_sec: 30
admin:
  gate_secret: opensesame
directory_path: /tmp/dir.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mail.example.org", cfg.Provider.BaseURL)
	assert.Equal(t, 5, cfg.Provider.TimeoutSec)
	assert.Equal(t, 30, cfg.Poll.IntervalSec)
	assert.Equal(t, "opensesame", cfg.Admin.GateSecret)
	assert.Equal(t, "/tmp/dir.db", cfg.DirectoryPath)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TEMPBOX_ADMIN_GATE_SECRET", "from-env")
	t.Setenv("TEMPBOX_POLL_INTERVAL_SEC", "20")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Admin.GateSecret)
	assert.Equal(t, 20, cfg.Poll.IntervalSec)
}

func TestLoadConfigClampsNonPositiveInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll:\n  interval_sec: 0\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Poll.IntervalSec)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	in := &AppConfig{
		Provider:      ProviderConfig{BaseURL: "https://x.test", TimeoutSec: 7},
		Poll:          PollConfig{IntervalSec: 45},
		Admin:         AdminConfig{GateSecret: "gate"},
		DirectoryPath: "/tmp/d.db",
	}

	require.NoError(t, SaveConfig(path, in))

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
