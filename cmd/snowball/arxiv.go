package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(arxivCmd)
}

var arxivCmd = &cobra.Command{
	Use:   "arxiv <id>...",
	Short: "Import articles from arXiv by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArxiv,
}

func runArxiv(cmd *cobra.Command, args []string) error {
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

	for _, id := range args {
		article, err := imp.ImportArxiv(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(article.Title())
	}

	return saveGraph(graphPath, store)
}
