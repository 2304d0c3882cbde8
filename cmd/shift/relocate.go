package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate <source-root> <target-root>",
	Short: "Search the source tree and relocate matching files",
	Long: `Relocate finds each manifest source name anywhere under the source root
by case-insensitive file-name match and copies (or, with --cut, moves) the
first match to the target root under the manifest target name.

Manifest rows have one or two fields: "source.txt" or "source.txt,target.txt".
Rows with a single field keep the original name.`,
	Args: cobra.ExactArgs(2),
	RunE: runRelocate,
}

var (
	relocateManifest string
	relocateCut      bool
	relocateExport   string
)

func init() {
	relocateCmd.Flags().StringVarP(&relocateManifest, "manifest", "m", "", "manifest CSV path (required)")
	relocateCmd.Flags().BoolVar(&relocateCut, "cut", false, "move files instead of copying them")
	relocateCmd.Flags().StringVar(&relocateExport, "export", "", "write the resulting structure to this CSV path")
	_ = relocateCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(relocateCmd)
}

func runRelocate(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	entries, err := loadManifest(relocateManifest)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	driver, err := newDriver(relocateCut)
	if err != nil {
		return err
	}

	res, err := driver.SearchRelocate(args[0], args[1], entries)
	if err != nil {
		printError("batch failed: %v", err)
		if res != nil && res.Record != nil {
			printInfo("Partial progress journaled as %s", res.Record.ID)
		}
		return err
	}

	reportResult(res, transferVerb(relocateCut))
	return exportAfterBatch(relocateExport, args[1])
}
