package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var copyPathsCmd = &cobra.Command{
	Use:   "copy-paths",
	Short: "Copy listed files into destination folders",
	Long: `Copy-paths copies (or, with --cut, moves) each file listed in the
manifest into the destination folder on the same row: the first column is
an absolute file path, the second the destination folder. Files keep their
names inside the destination folder.`,
	Args: cobra.NoArgs,
	RunE: runCopyPaths,
}

var (
	copyPathsManifest string
	copyPathsCut      bool
)

func init() {
	copyPathsCmd.Flags().StringVarP(&copyPathsManifest, "manifest", "m", "", "manifest CSV path (required)")
	copyPathsCmd.Flags().BoolVar(&copyPathsCut, "cut", false, "move files instead of copying them")
	_ = copyPathsCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(copyPathsCmd)
}

func runCopyPaths(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	entries, err := loadManifest(copyPathsManifest)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	driver, err := newDriver(copyPathsCut)
	if err != nil {
		return err
	}

	res, err := driver.CopyPaths(entries)
	if err != nil {
		printError("batch failed: %v", err)
		if res != nil && res.Record != nil {
			printInfo("Partial progress journaled as %s", res.Record.ID)
		}
		return err
	}

	reportResult(res, transferVerb(copyPathsCut))
	return nil
}
