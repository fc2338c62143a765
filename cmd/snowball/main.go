// Package main provides the snowball CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	graphPath string
	verbose   bool

	logger zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snowball",
	Short: "Snowball citation-graph builder",
	Long: `snowball builds a citation graph of articles, authors, journals and
tags by pulling metadata from CrossRef, arXiv and Scopus CSV exports.

The graph is kept in a single JSON document; every command loads it,
applies its changes and writes it back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Local .env may carry SNOWBALL_MAILTO; missing file is fine.
		_ = godotenv.Load()

		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "graph.json", "Path to the graph document")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}
