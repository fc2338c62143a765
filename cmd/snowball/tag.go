package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refsnow/snowball/internal/bib"
	"github.com/refsnow/snowball/internal/crossref"
)

var tagColor int

func init() {
	tagAddCmd.Flags().IntVar(&tagColor, "color", 0x808080, "24-bit RGB tag color")
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagArticleCmd)
	tagCmd.AddCommand(tagUpCmd)
	tagCmd.AddCommand(tagDownCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags and tag assignments",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

var tagArticleCmd = &cobra.Command{
	Use:   "article <tag name> <doi>",
	Short: "Attach a tag to an article",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagArticle,
}

var tagUpCmd = &cobra.Command{
	Use:   "up <name>",
	Short: "Move a tag one position up in the tag order",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runTagMove(args[0], true) },
}

var tagDownCmd = &cobra.Command{
	Use:   "down <name>",
	Short: "Move a tag one position down in the tag order",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runTagMove(args[0], false) },
}

func findTag(store *bib.Store, name string) (*bib.Tag, error) {
	for _, t := range store.Tags() {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no tag named %q", name)
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	store.NewTag(args[0], tagColor)
	return saveGraph(graphPath, store)
}

func runTagArticle(cmd *cobra.Command, args []string) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := findTag(store, args[0])
	if err != nil {
		return err
	}
	article, ok := store.ArticleByDOI(crossref.NormalizeDOI(args[1]))
	if !ok {
		return fmt.Errorf("no article with DOI %q", args[1])
	}
	if err := article.AddTag(t); err != nil {
		return err
	}
	return saveGraph(graphPath, store)
}

func runTagMove(name string, up bool) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := findTag(store, name)
	if err != nil {
		return err
	}
	if up {
		err = store.MoveTagUp(t)
	} else {
		err = store.MoveTagDown(t)
	}
	if err != nil {
		return err
	}
	return saveGraph(graphPath, store)
}
