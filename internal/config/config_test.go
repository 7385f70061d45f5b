package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.LogDir)
	assert.Equal(t, 120, cfg.Defaults.TimeoutSeconds)
	assert.Equal(t, 64*1024, cfg.Defaults.MaxOutputBytes)
	assert.Equal(t, 3, cfg.Swarm.MaxConcurrency)
	assert.Equal(t, "/bin/sh", cfg.Sessions.Shell)
	assert.Contains(t, cfg.Tools.AutoApprove, "processes")

	require.NoError(t, cfg.Validate())
}

func TestValidateFillsGaps(t *testing.T) {
	cfg := &Config{LogDir: "/tmp/hive-logs", Swarm: SwarmConfig{MaxConcurrency: 2}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120, cfg.Defaults.TimeoutSeconds)
	assert.Equal(t, 64*1024, cfg.Defaults.MaxOutputBytes)
	assert.Equal(t, 3, cfg.Defaults.KillGraceSeconds)
	assert.Equal(t, "/bin/sh", cfg.Sessions.Shell)
	assert.Equal(t, 30, cfg.Sessions.MaxIdleMinutes)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogDir = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Swarm.MaxConcurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.TimeoutSeconds = 5
	cfg.Defaults.KillGraceSeconds = 2
	cfg.Sessions.MaxIdleMinutes = 10

	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 2*time.Second, cfg.KillGrace())
	assert.Equal(t, 10*time.Minute, cfg.SessionMaxIdle())
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("HIVE_TEST_DIR", "/data/hive")

	assert.Equal(t, "/data/hive/logs", expandEnv("$HIVE_TEST_DIR/logs"))
	assert.Equal(t, "$UNSET_VAR_XYZ/logs", expandEnv("$UNSET_VAR_XYZ/logs"))
	assert.Equal(t, "/plain/path", expandEnv("/plain/path"))
}

func TestLoadEnvOverrides(t *testing.T) {
	logDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HIVE_LOG_DIR", logDir)
	t.Setenv("HIVE_DEFAULTS_TIMEOUT_SECONDS", "7")
	t.Setenv("HIVE_SWARM_MAX_CONCURRENCY", "5")
	t.Setenv("HIVE_SESSIONS_SHELL", "/bin/bash")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, logDir, cfg.LogDir)
	assert.Equal(t, 7, cfg.Defaults.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Swarm.MaxConcurrency)
	assert.Equal(t, "/bin/bash", cfg.Sessions.Shell)

	// unset keys keep their defaults
	assert.Equal(t, 64*1024, cfg.Defaults.MaxOutputBytes)
	assert.Equal(t, 30, cfg.Sessions.MaxIdleMinutes)
}

func TestLoadEnvBeatsConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "hive"), 0o755))
	file := "log_dir: /tmp/from-file\ndefaults:\n  timeout_seconds: 9\n"
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "hive", "config.yaml"), []byte(file), 0o644))

	t.Setenv("HIVE_DEFAULTS_TIMEOUT_SECONDS", "11")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file", cfg.LogDir)
	assert.Equal(t, 11, cfg.Defaults.TimeoutSeconds)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Defaults.TimeoutSeconds = 42
	cfg.Tools.DisallowedCommands = []string{"rm -rf *"}

	path, err := cfg.Save()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "hive", "config.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, 42, loaded.Defaults.TimeoutSeconds)
	assert.Equal(t, []string{"rm -rf *"}, loaded.Tools.DisallowedCommands)
}
