package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi <doi>...",
	Short: "Import articles from CrossRef by DOI",
	Long: `Import one or more articles from CrossRef by DOI.

Each work's reference list is imported alongside it, so a single DOI can
seed a whole snowball of cited articles. Authors and journals are
deduplicated by ORCID/name and ISSN/name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDOI,
}

func runDOI(cmd *cobra.Command, args []string) error {
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

	for _, doi := range args {
		article, err := imp.ImportDOI(cmd.Context(), doi)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  %s\n", article.Title(), article.DOI())
	}

	return saveGraph(graphPath, store)
}
