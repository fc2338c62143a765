package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refsnow/snowball/internal/bib"
	"github.com/refsnow/snowball/internal/crossref"
	"github.com/refsnow/snowball/internal/ingest"
)

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.AddCommand(mergeAuthorCmd)
	mergeCmd.AddCommand(mergeArticleCmd)
	mergeCmd.AddCommand(mergeJournalCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge duplicate entities",
}

var mergeAuthorCmd = &cobra.Command{
	Use:   "author <target name> <source name>",
	Short: "Merge one author into another, re-pointing all articles",
	Args:  cobra.ExactArgs(2),
	RunE:  runMergeAuthor,
}

var mergeArticleCmd = &cobra.Command{
	Use:   "article <target doi> <source doi>",
	Short: "Merge one article into another, re-pointing all citations",
	Args:  cobra.ExactArgs(2),
	RunE:  runMergeArticle,
}

var mergeJournalCmd = &cobra.Command{
	Use:   "journal <target name> <source name>",
	Short: "Merge one journal into another",
	Args:  cobra.ExactArgs(2),
	RunE:  runMergeJournal,
}

func findAuthor(store *bib.Store, name string) (*bib.Author, error) {
	first, last := ingest.SplitName(name)
	for _, a := range store.Authors() {
		if a.FirstName() == first && a.LastName() == last {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no author named %q", name)
}

func runMergeAuthor(cmd *cobra.Command, args []string) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	target, err := findAuthor(store, args[0])
	if err != nil {
		return err
	}
	source, err := findAuthor(store, args[1])
	if err != nil {
		return err
	}

	if err := store.MergeAuthors(target, source); err != nil {
		return err
	}
	logger.Info().Str("into", args[0]).Str("from", args[1]).Msg("merged authors")
	return saveGraph(graphPath, store)
}

func runMergeArticle(cmd *cobra.Command, args []string) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	target, ok := store.ArticleByDOI(crossref.NormalizeDOI(args[0]))
	if !ok {
		return fmt.Errorf("no article with DOI %q", args[0])
	}
	source, ok := store.ArticleByDOI(crossref.NormalizeDOI(args[1]))
	if !ok {
		return fmt.Errorf("no article with DOI %q", args[1])
	}

	if err := store.MergeArticles(target, source); err != nil {
		return err
	}
	logger.Info().Str("into", args[0]).Str("from", args[1]).Msg("merged articles")
	return saveGraph(graphPath, store)
}

func runMergeJournal(cmd *cobra.Command, args []string) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var target, source *bib.Journal
	for _, j := range store.Journals() {
		switch j.Name() {
		case args[0]:
			target = j
		case args[1]:
			source = j
		}
	}
	if target == nil {
		return fmt.Errorf("no journal named %q", args[0])
	}
	if source == nil {
		return fmt.Errorf("no journal named %q", args[1])
	}

	if err := store.MergeJournals(target, source); err != nil {
		return err
	}
	logger.Info().Str("into", args[0]).Str("from", args[1]).Msg("merged journals")
	return saveGraph(graphPath, store)
}
