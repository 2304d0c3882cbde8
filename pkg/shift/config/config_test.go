package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPolicy, cfg.Policy)
	assert.Equal(t, DefaultMaxRecords, cfg.MaxRecords)
	assert.False(t, cfg.StrictVerify)
	assert.NotEmpty(t, cfg.JournalPath)
	assert.NotEmpty(t, cfg.BackupDir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "shift")
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := `policy: skip
max_records: 100
strict_verify: true
exclude:
  - "node_modules/**"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "skip", cfg.Policy)
	assert.Equal(t, 100, cfg.MaxRecords)
	assert.True(t, cfg.StrictVerify)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Exclude)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHIFT_POLICY", "overwrite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "overwrite", cfg.Policy)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "shift")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("policy: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ExpandsTilde(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHIFT_JOURNAL_PATH", "~/journal.json")

	cfg, err := Load()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "journal.json"), cfg.JournalPath)
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, DefaultPolicy, v.GetString("policy"))
	assert.Equal(t, DefaultMaxRecords, v.GetInt("max_records"))
	assert.Equal(t, int64(10*1024*1024), v.GetInt64("logging.rotation.max_size"))
	assert.Equal(t, 5, v.GetInt("logging.rotation.max_backups"))
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/config", "shift"), dir)
}

func TestDefaultPaths(t *testing.T) {
	assert.Equal(t, filepath.Join(DataDir(), "journal.json"), DefaultJournalPath())
	assert.Equal(t, filepath.Join(DataDir(), "backups"), DefaultBackupDir())
	assert.Equal(t, filepath.Join(StateDir(), "shift.log"), DefaultLogPath())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/data/journal.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "journal.json"), expanded)

	unchanged, err := ExpandPath("/absolute/path")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", unchanged)

	empty, err := ExpandPath("")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}
