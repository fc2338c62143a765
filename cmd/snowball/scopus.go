package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refsnow/snowball/internal/scopus"
)

func init() {
	rootCmd.AddCommand(scopusCmd)
}

var scopusCmd = &cobra.Command{
	Use:   "scopus <file.csv>",
	Short: "Import articles from a Scopus CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runScopus,
}

func runScopus(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	records, err := scopus.Parse(f)
	if err != nil {
		return err
	}

	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	imp, cleanup, err := newImporter(store)
	if err != nil {
		return err
	}
	defer cleanup()

	imported := imp.ImportScopus(records)
	fmt.Printf("Imported %d of %d rows\n", len(imported), len(records))

	return saveGraph(graphPath, store)
}
