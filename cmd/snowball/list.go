package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:       "list {articles|authors|journals|tags}",
	Short:     "List graph entities in display order",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"articles", "authors", "journals", "tags"},
	RunE:      runList,
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := loadGraph(graphPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch args[0] {
	case "articles":
		for _, a := range store.Articles() {
			line := a.Title()
			if doi := a.DOI(); doi != "" {
				line += "  [" + doi + "]"
			}
			if n := len(a.References()); n > 0 {
				line += fmt.Sprintf("  (%d refs)", n)
			}
			fmt.Println(line)
		}
	case "authors":
		for _, a := range store.Authors() {
			name := strings.TrimSpace(a.LastName() + ", " + a.FirstName())
			name = strings.TrimSuffix(name, ",")
			if orcid := a.ORCID(); orcid != "" {
				name += "  [" + orcid + "]"
			}
			fmt.Println(name)
		}
	case "journals":
		for _, j := range store.Journals() {
			line := j.Name()
			if issn := j.ISSN(); issn != "" {
				line += "  [" + issn + "]"
			}
			fmt.Println(line)
		}
	case "tags":
		for _, t := range store.Tags() {
			fmt.Printf("%s  #%06x\n", t.Name(), t.Color())
		}
	default:
		return fmt.Errorf("unknown kind: %s", args[0])
	}

	return nil
}
