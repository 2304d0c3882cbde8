package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename files by absolute path pairs",
	Long: `Rename moves files between the absolute paths listed in the manifest:
the first column is the current path, the second the new path. Every rename
is backed up first and can be undone with "shift undo".`,
	Args: cobra.NoArgs,
	RunE: runRename,
}

var renameManifest string

func init() {
	renameCmd.Flags().StringVarP(&renameManifest, "manifest", "m", "", "manifest CSV path (required)")
	_ = renameCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	entries, err := loadManifest(renameManifest)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	driver, err := newDriver(true)
	if err != nil {
		return err
	}

	res, err := driver.RenameAbsolute(entries)
	if err != nil {
		printError("batch failed: %v", err)
		if res != nil && res.Record != nil {
			printInfo("Partial progress journaled as %s", res.Record.ID)
		}
		return err
	}

	reportResult(res, "renamed")
	return nil
}
