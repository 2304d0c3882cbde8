package main

import (
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the most recent completed batch",
	Long: `Undo reverts the newest completed batch: copied items are deleted from
their targets, and cut or renamed items are restored from their backups.
Only one level of undo is kept; running undo twice does nothing the
second time.`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	driver, err := newDriver(false)
	if err != nil {
		return err
	}

	undone, err := driver.Undo()
	if err != nil {
		return err
	}
	if !undone {
		printInfo("Nothing to undo.")
		return nil
	}

	printInfo("Last operation undone.")
	return nil
}
