package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.StepLatency, cfg.StepLatency)
	assert.Equal(t, def.Server.ListenPort, cfg.Server.ListenPort)
	assert.NotContains(t, cfg.DataDir, "~", "data dir is expanded")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/gompa
step_latency: 10ms
server:
  listen_port: 9090
reachability:
  disabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/gompa", cfg.DataDir)
	assert.Equal(t, 10*time.Millisecond, cfg.StepLatency)
	assert.Equal(t, 9090, cfg.Server.ListenPort)
	assert.Equal(t, "127.0.0.1", cfg.Server.ListenHost, "unset nested fields keep defaults")
	assert.True(t, cfg.Reachability.Disabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "data_dir: /from/file\nstep_latency: 10ms\n")
	t.Setenv("GOMPA_DATA_DIR", "/from/env")
	t.Setenv("GOMPA_SERVER_LISTEN_PORT", "7070")
	t.Setenv("GOMPA_REACHABILITY_INTERVAL", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, 10*time.Millisecond, cfg.StepLatency)
	assert.Equal(t, 7070, cfg.Server.ListenPort)
	assert.Equal(t, time.Minute, cfg.Reachability.Interval)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad yaml":                "step_latency: [",
		"negative":                "step_latency: -1s\n",
		"negative stale after":    "stale_after: -1h\n",
		"negative download bytes": "max_download_bytes: -1\n",
		"negative body bytes":     "server:\n  max_body_bytes: -1\n",
		"negative search delay":   "server:\n  search_delay: -1s\n",
		"port range":              "server:\n  listen_port: 70000\n",
		"zero interval":           "reachability:\n  interval: 0s\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gompa", "config.yml")
	cfg := Default()
	cfg.DataDir = "/srv/gompa"
	cfg.StepLatency = 0

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/gompa", got.DataDir)
	assert.Equal(t, time.Duration(0), got.StepLatency)
}

func TestDefaultPath_HonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/gompa/config.yml", p)
}
