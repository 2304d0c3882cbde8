package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/shift/pkg/shift/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "shift",
		Short: "Manifest-driven batch file relocation",
		Long: `Shift relocates files and folders in bulk, driven by a manifest of
source and target names. Every batch is journaled and the most recent
completed batch can be undone.

Examples:
  shift relocate -m items.csv ./src ./dst      # Find and copy files by name
  shift relocate -m items.csv --cut ./src ./dst
  shift extract -m folders.csv ./src ./dst     # Extract whole folders
  shift rename -m paths.csv                    # Rename by absolute paths
  shift copy-paths -m paths.csv                # Copy listed files to folders
  shift undo                                   # Revert the last batch
  shift history                                # View the operation journal`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/shift/config.yaml)")
	rootCmd.PersistentFlags().StringP("policy", "p", "", "conflict policy: skip, overwrite, copy, merge")
	rootCmd.PersistentFlags().String("journal", "", "operation journal path")
	rootCmd.PersistentFlags().String("backup-dir", "", "backup staging directory")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().Bool("strict", false, "fail items whose post-move verification is inconclusive")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("policy", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("journal_path", rootCmd.PersistentFlags().Lookup("journal"))
	_ = viper.BindPFlag("backup_dir", rootCmd.PersistentFlags().Lookup("backup-dir"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("strict_verify", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "shift"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "shift"))
		}
	}

	viper.SetEnvPrefix("SHIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
