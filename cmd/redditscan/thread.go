package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DFATPUNK/scraping-reddit/internal/application/pipeline"
	"github.com/DFATPUNK/scraping-reddit/internal/config"
	"github.com/DFATPUNK/scraping-reddit/internal/infrastructure/sinks"
)

var (
	threadMinScore       int
	threadAllowNoNumbers bool
	threadComments       int
	threadOut            string
	threadTimeout        time.Duration
	threadUploadTarget   string
	threadNotionPush     bool
	threadNotionFiles    bool
)

// threadCmd scores one thread given by URL or permalink.
var threadCmd = &cobra.Command{
	Use:   "thread <url>",
	Short: "Score the comments of a single thread",
	Long: `Thread fetches one thread's comment tree, scores every comment for
monetization evidence and exports the ranked results.

Example usage:
  redditscan thread https://www.reddit.com/r/AI_Agents/comments/abc123/who_is_making_money/
  redditscan thread /r/AI_Agents/comments/abc123/ --min-score 40`,
	Args: cobra.ExactArgs(1),
	RunE: runThread,
}

func init() {
	rootCmd.AddCommand(threadCmd)

	threadCmd.Flags().IntVar(&threadMinScore, "min-score", -1, "Drop records below this score (default from config)")
	threadCmd.Flags().BoolVar(&threadAllowNoNumbers, "allow-no-numbers", false, "Keep comments without any monetary mention")
	threadCmd.Flags().IntVar(&threadComments, "limit", 0, "Max comments to score (default from config)")
	threadCmd.Flags().StringVar(&threadOut, "out", "", "Directory for exported files (default: paths from config)")
	threadCmd.Flags().DurationVar(&threadTimeout, "timeout", 5*time.Minute, "Overall deadline")
	threadCmd.Flags().StringVar(&threadUploadTarget, "upload-target", "", "Publish exports to GitHub: gist or repo")
	threadCmd.Flags().BoolVar(&threadNotionPush, "notion", false, "Push ranked records to the configured Notion database")
	threadCmd.Flags().BoolVar(&threadNotionFiles, "notion-files", false, "Attach published file URLs to the configured Notion block")
}

func runThread(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if threadMinScore >= 0 {
		cfg.MinScore = threadMinScore
	}
	if cmd.Flags().Changed("allow-no-numbers") {
		cfg.AllowNoNumbers = threadAllowNoNumbers
	}
	if threadComments > 0 {
		cfg.MaxCommentsPerThread = threadComments
	}

	ctx, cancel := context.WithTimeout(context.Background(), threadTimeout)
	defer cancel()

	client := newRedditClient(ctx, cfg)
	thread, items, err := client.FetchThread(ctx, args[0], cfg.MaxCommentsPerThread)
	if err != nil {
		return fmt.Errorf("fetch thread: %w", err)
	}
	fmt.Printf("Thread: %s (r/%s, %d comments)\n\n", thread.Title, thread.Subreddit, len(items))

	res, err := pipeline.Run(ctx, newAnalyzer(cfg), items, pipeline.Options{
		MinScore:       cfg.MinScore,
		AllowNoNumbers: cfg.AllowNoNumbers,
		Workers:        cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("score comments: %w", err)
	}

	all, files, cleanup := buildSinks(cfg, threadOut, threadNotionPush)
	defer cleanup()

	batch := sinks.NewBatch(res.Records)
	exportErr := sinks.ExportAll(ctx, batch, all...)

	displayResults(res)

	if err := publishFiles(ctx, cfg, threadUploadTarget, files, threadNotionFiles); err != nil {
		exportErr = errors.Join(exportErr, err)
	}
	return exportErr
}
