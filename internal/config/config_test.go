package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_GlobalFile(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), GlobalConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_ExplicitFileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
storage:
  keep_snapshots: 5
policy:
  reject_locked_into_unlocked: false
layout:
  jitter: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.Set("config", path)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Storage.KeepSnapshots)
	assert.Equal(t, Default().Storage.MaxBytes, cfg.Storage.MaxBytes)
	assert.False(t, cfg.Policy.RejectLockedIntoUnlocked)
	assert.Zero(t, cfg.Layout.Jitter)
	assert.Equal(t, 200.0, cfg.Layout.OriginX)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadConfig(v)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLTREE_STORAGE_DB_PATH", "/tmp/tree.db")
	t.Setenv("SKILLTREE_POLICY_REJECT_LOCKED_INTO_UNLOCKED", "false")

	v := viper.New()
	v.SetEnvPrefix("SKILLTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tree.db", cfg.Storage.DBPath)
	assert.False(t, cfg.Policy.RejectLockedIntoUnlocked)
}
