package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <source-root> <target-root>",
	Short: "Extract whole folders matching the manifest",
	Long: `Extract finds every directory under the source root whose name matches a
manifest source name and copies (or, with --cut, moves) each match directly
under the target root. All matches anywhere in the tree are processed; the
source-relative layout is not preserved.

With the merge policy, a folder whose destination already exists has its
content recursively merged into the existing folder instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

var (
	extractManifest string
	extractCut      bool
	extractExport   string
)

func init() {
	extractCmd.Flags().StringVarP(&extractManifest, "manifest", "m", "", "manifest CSV path (required)")
	extractCmd.Flags().BoolVar(&extractCut, "cut", false, "move folders instead of copying them")
	extractCmd.Flags().StringVar(&extractExport, "export", "", "write the resulting structure to this CSV path")
	_ = extractCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	entries, err := loadManifest(extractManifest)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	driver, err := newDriver(extractCut)
	if err != nil {
		return err
	}

	res, err := driver.ExtractFolders(args[0], args[1], entries)
	if err != nil {
		printError("batch failed: %v", err)
		if res != nil && res.Record != nil {
			printInfo("Partial progress journaled as %s", res.Record.ID)
		}
		return err
	}

	reportResult(res, transferVerb(extractCut))
	return exportAfterBatch(extractExport, args[1])
}
