package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// rootCmd is the base command for the redditscan CLI.
var rootCmd = &cobra.Command{
	Use:   "redditscan",
	Short: "Reddit monetization-evidence scanner",
	Long: `redditscan collects Reddit comments about AI-agent businesses,
scores each comment for concrete monetization evidence (revenue mentions,
market focus, tool stack, sentiment) and exports the ranked results.

Example usage:
  redditscan scan                          # sweep configured subreddits and queries
  redditscan scan --min-score 40           # keep only strong evidence
  redditscan thread <url>                  # score a single thread
  redditscan thread <url> --allow-no-numbers`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("redditscan - Reddit monetization-evidence scanner")
		fmt.Println("Use 'redditscan scan' to sweep the configured subreddits")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML configuration (default config/scraper.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func setupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
