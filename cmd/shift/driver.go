package main

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/shift/pkg/shift/backup"
	"github.com/jamesainslie/shift/pkg/shift/batch"
	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/jamesainslie/shift/pkg/shift/logging"
	"github.com/jamesainslie/shift/pkg/shift/manifest"
	"github.com/jamesainslie/shift/pkg/shift/types"
	"github.com/spf13/viper"
)

// setupLogging initializes the logging system from the effective config.
func setupLogging() error {
	cfg := logging.Config{
		Level: viper.GetString("logging.level"),
		Path:  viper.GetString("logging.path"),
		Rotation: logging.RotationConfig{
			MaxSize:    viper.GetInt64("logging.rotation.max_size"),
			MaxBackups: viper.GetInt("logging.rotation.max_backups"),
		},
		Components:   viper.GetStringMapString("logging.components"),
		ConsoleLevel: viper.GetString("logging.console_level"),
	}
	if getVerbose() {
		cfg.ConsoleLevel = "debug"
	}
	if err := logging.Init(cfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// newDriver builds a batch driver from the effective configuration.
func newDriver(cut bool) (*batch.Driver, error) {
	j, err := journal.NewStore(viper.GetString("journal_path"))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	b, err := backup.New(viper.GetString("backup_dir"))
	if err != nil {
		return nil, fmt.Errorf("opening backup store: %w", err)
	}

	return batch.NewDriver(batch.Options{
		Journal:    j,
		Backups:    b,
		Policy:     types.ParsePolicy(viper.GetString("policy")),
		Cut:        cut,
		Strict:     viper.GetBool("strict_verify"),
		Exclude:    viper.GetStringSlice("exclude"),
		MaxRecords: viper.GetInt("max_records"),
	})
}

// loadManifest reads and decodes the manifest file.
func loadManifest(path string) ([]manifest.Entry, error) {
	result, err := manifest.Read(path)
	if err != nil {
		return nil, err
	}
	printVerbose("manifest decoded as %s, %d rows", result.Encoding, len(result.Entries))
	return result.Entries, nil
}

// transferVerb names the operation for user-facing messages.
func transferVerb(cut bool) string {
	if cut {
		return "cut"
	}
	return "copied"
}

// reportResult prints the per-batch summary.
func reportResult(res *batch.Result, verb string) {
	if len(res.Renamed) > 0 {
		printInfo("\nRenamed:")
		for _, r := range res.Renamed {
			printInfo("  %s -> %s", r.From, r.To)
		}
	}

	if len(res.Transferred) > 0 {
		printInfo("\nThe following items were %s:", verb)
		for _, path := range res.Transferred {
			printInfo("  - %s", path)
		}
	} else {
		printInfo("\nNo matching items were %s.", verb)
	}

	if len(res.Skipped) > 0 {
		printInfo("Skipped %d conflicting item(s): %s", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	if len(res.Missing) > 0 {
		printInfo("Not found: %s", strings.Join(res.Missing, ", "))
	}
	printInfo("Journal record: %s", res.Record.ID)
}
