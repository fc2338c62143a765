package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refsnow/snowball/internal/pdfdoi"
)

func init() {
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file.pdf>...",
	Short: "Import articles by extracting DOIs from PDF files",
	Long: `Extract the DOI from the first pages of each PDF and import the
matching work from CrossRef.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPDF,
}

func runPDF(cmd *cobra.Command, args []string) error {
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

	for _, path := range args {
		doi, err := pdfdoi.ExtractDOI(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if doi == "" {
			logger.Warn().Str("path", path).Msg("no DOI found, skipping")
			continue
		}

		article, err := imp.ImportDOI(cmd.Context(), doi)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  %s\n", article.Title(), article.DOI())
	}

	return saveGraph(graphPath, store)
}
