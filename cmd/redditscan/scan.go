package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/DFATPUNK/scraping-reddit/internal/application/pipeline"
	"github.com/DFATPUNK/scraping-reddit/internal/config"
	"github.com/DFATPUNK/scraping-reddit/internal/domain"
	"github.com/DFATPUNK/scraping-reddit/internal/infrastructure/reddit"
	"github.com/DFATPUNK/scraping-reddit/internal/infrastructure/sinks"
)

var (
	scanMinScore       int
	scanAllowNoNumbers bool
	scanWorkers        int
	scanThreads        int
	scanComments       int
	scanOut            string
	scanTimeout        time.Duration
	scanUploadTarget   string
	scanNotionPush     bool
	scanNotionFiles    bool
)

// scanCmd sweeps every configured subreddit with every configured query.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep configured subreddits and score matching comments",
	Long: `Scan searches each configured subreddit for each configured query,
fetches the comment trees of matching threads, scores every comment for
monetization evidence and exports the ranked results.

Threads discovered under multiple queries are fetched once. Subreddits
that refuse access are skipped with a warning; the scan only fails when
no source could be fetched at all.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanMinScore, "min-score", -1, "Drop records below this score (default from config)")
	scanCmd.Flags().BoolVar(&scanAllowNoNumbers, "allow-no-numbers", false, "Keep comments without any monetary mention")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Scoring worker count (0 = GOMAXPROCS)")
	scanCmd.Flags().IntVar(&scanThreads, "threads", 0, "Max threads per subreddit/query pair (default from config)")
	scanCmd.Flags().IntVar(&scanComments, "limit", 0, "Max comments per thread (default from config)")
	scanCmd.Flags().StringVar(&scanOut, "out", "", "Directory for exported files (default: paths from config)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 15*time.Minute, "Overall scan deadline")
	scanCmd.Flags().StringVar(&scanUploadTarget, "upload-target", "", "Publish exports to GitHub: gist or repo")
	scanCmd.Flags().BoolVar(&scanNotionPush, "notion", false, "Push ranked records to the configured Notion database")
	scanCmd.Flags().BoolVar(&scanNotionFiles, "notion-files", false, "Attach published file URLs to the configured Notion block")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyScanOverrides(cmd, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	client := newRedditClient(ctx, cfg)
	items, err := collectItems(ctx, client, cfg)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, newAnalyzer(cfg), items, pipeline.Options{
		MinScore:       cfg.MinScore,
		AllowNoNumbers: cfg.AllowNoNumbers,
		Workers:        cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("score comments: %w", err)
	}

	return exportAndDisplay(ctx, cfg, res)
}

func applyScanOverrides(cmd *cobra.Command, cfg *config.Config) {
	if scanMinScore >= 0 {
		cfg.MinScore = scanMinScore
	}
	if cmd.Flags().Changed("allow-no-numbers") {
		cfg.AllowNoNumbers = scanAllowNoNumbers
	}
	if scanWorkers > 0 {
		cfg.Workers = scanWorkers
	}
	if scanThreads > 0 {
		cfg.MaxThreadsPerQuery = scanThreads
	}
	if scanComments > 0 {
		cfg.MaxCommentsPerThread = scanComments
	}
}

// collectItems runs the subreddit x query sweep. Every thread is
// fetched at most once no matter how many queries surface it.
func collectItems(ctx context.Context, client *reddit.Client, cfg *config.Config) ([]domain.RawItem, error) {
	var (
		items     []domain.RawItem
		seen      = map[string]bool{}
		succeeded int
		failed    int
	)

	for _, subreddit := range cfg.Subreddits {
		for _, query := range cfg.Queries {
			refs, err := client.Search(ctx, subreddit, query, cfg.MaxThreadsPerQuery)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				failed++
				if errors.Is(err, reddit.ErrSourceForbidden) {
					log.Warn().Str("subreddit", subreddit).Msg("Subreddit refused access, skipping")
					break // no point trying the remaining queries
				}
				log.Warn().Err(err).Str("subreddit", subreddit).Str("query", query).Msg("Search failed, skipping")
				continue
			}
			succeeded++

			for _, ref := range refs {
				if seen[ref.ID] {
					continue
				}
				seen[ref.ID] = true

				_, comments, err := client.FetchThread(ctx, ref.Permalink, cfg.MaxCommentsPerThread)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					failed++
					log.Warn().Err(err).Str("thread", ref.ID).Msg("Thread fetch failed, skipping")
					continue
				}
				succeeded++
				items = append(items, comments...)
			}
		}
	}

	// Partial failure is tolerated; total failure is not.
	if succeeded == 0 && failed > 0 {
		return nil, fmt.Errorf("every source failed (%d attempts)", failed)
	}

	log.Info().Int("threads", len(seen)).Int("comments", len(items)).Msg("Collection completed")
	return items, nil
}

// exportAndDisplay fans the batch out to every sink, then runs the
// independent publish/attach steps regardless of sink failures. Partial
// failure is reported at exit, not allowed to drop the other outputs.
func exportAndDisplay(ctx context.Context, cfg *config.Config, res *pipeline.Result) error {
	all, files, cleanup := buildSinks(cfg, scanOut, scanNotionPush)
	defer cleanup()

	batch := sinks.NewBatch(res.Records)
	exportErr := sinks.ExportAll(ctx, batch, all...)

	displayResults(res)

	if err := publishFiles(ctx, cfg, scanUploadTarget, files, scanNotionFiles); err != nil {
		exportErr = errors.Join(exportErr, err)
	}
	return exportErr
}
