// Package config loads shift's configuration from file, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Defaults applied when no configuration is present.
const (
	// DefaultPolicy is the conflict policy used when none is selected.
	DefaultPolicy = "copy"

	// DefaultMaxRecords caps the journal length.
	DefaultMaxRecords = 5000

	// DefaultHistoryLimit is how many records the history command shows.
	DefaultHistoryLimit = 20
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    int64 `mapstructure:"max_size"`
	MaxBackups int   `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level        string            `mapstructure:"level"`
	Path         string            `mapstructure:"path"`
	ConsoleLevel string            `mapstructure:"console_level"`
	Rotation     RotationConfig    `mapstructure:"rotation"`
	Components   map[string]string `mapstructure:"components"`
}

// Config represents the application configuration.
type Config struct {
	// Policy is the default conflict policy (skip, overwrite, copy, merge).
	Policy string `mapstructure:"policy"`

	// JournalPath is where the operation journal lives.
	JournalPath string `mapstructure:"journal_path"`

	// BackupDir is the backup staging area for destructive operations.
	BackupDir string `mapstructure:"backup_dir"`

	// MaxRecords caps journal length; older records are dropped.
	MaxRecords int `mapstructure:"max_records"`

	// StrictVerify fails a batch item whose post-move verification is
	// inconclusive instead of only logging a warning.
	StrictVerify bool `mapstructure:"strict_verify"`

	// Exclude holds glob patterns the matcher ignores.
	Exclude []string `mapstructure:"exclude"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/shift/config.yaml
//   - $HOME/.config/shift/config.yaml
//
// Environment variables are prefixed with SHIFT_ (e.g., SHIFT_POLICY).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "shift"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "shift"))

	v.SetEnvPrefix("SHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for _, p := range []*string{&cfg.JournalPath, &cfg.BackupDir, &cfg.Logging.Path} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	return &cfg, nil
}

// SetDefaults registers all configuration defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("policy", DefaultPolicy)
	v.SetDefault("journal_path", DefaultJournalPath())
	v.SetDefault("backup_dir", DefaultBackupDir())
	v.SetDefault("max_records", DefaultMaxRecords)
	v.SetDefault("strict_verify", false)
	v.SetDefault("exclude", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console_level", "")
	v.SetDefault("logging.rotation.max_size", int64(10*1024*1024))
	v.SetDefault("logging.rotation.max_backups", 5)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "shift"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "shift"), nil
}

// DataDir returns $XDG_DATA_HOME/shift/ for the journal and backups.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "shift")
}

// StateDir returns $XDG_STATE_HOME/shift/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "shift")
}

// DefaultJournalPath returns the default journal file path.
func DefaultJournalPath() string {
	return filepath.Join(DataDir(), "journal.json")
}

// DefaultBackupDir returns the default backup staging directory.
func DefaultBackupDir() string {
	return filepath.Join(DataDir(), "backups")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "shift.log")
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
