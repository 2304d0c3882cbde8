package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/shift/pkg/shift/backup"
	"github.com/jamesainslie/shift/pkg/shift/config"
	"github.com/jamesainslie/shift/pkg/shift/journal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled batch operations",
	Long: `History lists journaled batch operations, newest first. Each line shows
the record ID, operation type, item count, status and age.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show one journal record in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Discard all history and staged backups",
	Long: `Clean discards every journal record and removes all staged backups.
After cleaning, undo has nothing to revert.`,
	Args: cobra.NoArgs,
	RunE: runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", config.DefaultHistoryLimit, "maximum records to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

func openJournal() (*journal.Store, error) {
	j, err := journal.NewStore(viper.GetString("journal_path"))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return j, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}

	records := j.List(historyLimit)
	if len(records) == 0 {
		printInfo("No journaled operations.")
		return nil
	}

	for _, rec := range records {
		printInfo("%s  %-7s %4d item(s)  %-9s %s",
			rec.ID, rec.Type, len(rec.TargetPaths), rec.Status, humanize.Time(rec.Timestamp))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}

	rec, err := j.Get(args[0])
	if err != nil {
		return err
	}

	printInfo("ID:        %s", rec.ID)
	printInfo("Type:      %s", rec.Type)
	printInfo("Status:    %s", rec.Status)
	printInfo("Timestamp: %s (%s)", rec.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(rec.Timestamp))
	if rec.ErrorMessage != "" {
		printInfo("Error:     %s", rec.ErrorMessage)
	}
	if rec.UndoTimestamp != nil {
		printInfo("Undone:    %s", rec.UndoTimestamp.Format("2006-01-02 15:04:05"))
	}

	printInfo("Items:")
	for i, dst := range rec.TargetPaths {
		src := ""
		if i < len(rec.SourcePaths) {
			src = rec.SourcePaths[i]
		}
		if src != "" && src != dst {
			printInfo("  %s -> %s", src, dst)
		} else {
			printInfo("  %s", dst)
		}
	}
	if len(rec.BackupPaths) > 0 {
		printInfo("Backups:")
		for _, slot := range rec.BackupPaths {
			printInfo("  %s", slot)
		}
	}
	return nil
}

func runHistoryClean(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	b, err := backup.New(viper.GetString("backup_dir"))
	if err != nil {
		return fmt.Errorf("opening backup store: %w", err)
	}

	if err := j.Clear(); err != nil {
		return err
	}
	if err := b.RemoveAll(); err != nil {
		return fmt.Errorf("removing backups: %w", err)
	}

	printInfo("History and backups cleared.")
	return nil
}
