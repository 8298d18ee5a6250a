package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/DFATPUNK/scraping-reddit/internal/application/pipeline"
	"github.com/DFATPUNK/scraping-reddit/internal/config"
	"github.com/DFATPUNK/scraping-reddit/internal/domain"
	"github.com/DFATPUNK/scraping-reddit/internal/infrastructure/cache"
	"github.com/DFATPUNK/scraping-reddit/internal/infrastructure/reddit"
	"github.com/DFATPUNK/scraping-reddit/internal/infrastructure/sinks"
)

func newAnalyzer(cfg *config.Config) *domain.Analyzer {
	return domain.NewAnalyzer(cfg.EffectiveLexicon(), cfg.EffectiveWeights())
}

// newRedditClient builds the fetch client, attaching the Redis page
// cache only when it is both enabled and reachable.
func newRedditClient(ctx context.Context, cfg *config.Config) *reddit.Client {
	timeout, _ := cfg.RedditTimeout()
	opts := reddit.Options{
		BaseURL:           cfg.Reddit.BaseURL,
		UserAgent:         cfg.Reddit.UserAgent,
		RequestsPerSecond: cfg.Reddit.RequestsPerSecond,
		Burst:             cfg.Reddit.Burst,
		Timeout:           timeout,
	}

	if cfg.Cache.Enabled {
		ttl, _ := cfg.CacheTTL()
		rc := cache.NewRedis(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, ttl)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.Addr).
				Msg("Redis cache unreachable, continuing without cache")
		} else {
			opts.Cache = rc
		}
	}
	return reddit.NewClient(opts)
}

// buildSinks assembles the enabled sinks. It returns the local file
// paths written (for the optional publish step) and a cleanup closing
// any held connections. Sinks whose credentials are missing or whose
// setup fails are skipped with a warning; one optional sink can never
// cost the run its other outputs.
func buildSinks(cfg *config.Config, outDir string, pushNotion bool) ([]sinks.Sink, []string, func()) {
	var (
		all     []sinks.Sink
		files   []string
		closers []func()
	)
	place := func(path string) string {
		if outDir == "" {
			return path
		}
		return filepath.Join(outDir, filepath.Base(path))
	}

	if cfg.Sinks.CSV.Enabled {
		path := place(cfg.Sinks.CSV.Path)
		all = append(all, &sinks.CSVSink{Path: path})
		files = append(files, path)
	}
	if cfg.Sinks.Markdown.Enabled {
		path := place(cfg.Sinks.Markdown.Path)
		all = append(all, &sinks.MarkdownSink{Path: path})
		files = append(files, path)
	}

	if cfg.Sinks.Postgres.Enabled {
		if cfg.Sinks.Postgres.DSN == "" {
			log.Warn().Msg("Postgres sink enabled but POSTGRES_DSN missing, skipping")
		} else if pg, err := sinks.NewPostgresSink(cfg.Sinks.Postgres.DSN); err != nil {
			log.Warn().Err(err).Msg("Postgres sink unavailable, skipping")
		} else {
			all = append(all, pg)
			closers = append(closers, func() { pg.Close() })
		}
	}

	if pushNotion {
		if cfg.Sinks.Notion.APIKey == "" || cfg.Sinks.Notion.DatabaseID == "" {
			log.Warn().Msg("Notion push requested but NOTION_API_KEY or NOTION_DATABASE_ID missing, skipping")
		} else {
			all = append(all, &sinks.NotionSink{
				Client:     sinks.NewNotionClient(cfg.Sinks.Notion.APIKey),
				DatabaseID: cfg.Sinks.Notion.DatabaseID,
			})
		}
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return all, files, cleanup
}

// publishFiles uploads the exported files to the requested GitHub
// target and optionally attaches the resulting public URLs to a Notion
// block. Missing credentials downgrade each step to a warning.
func publishFiles(ctx context.Context, cfg *config.Config, target string, files []string, attachToNotion bool) error {
	if target == "" {
		return nil
	}
	if cfg.Sinks.GitHub.Token == "" {
		log.Warn().Msg("Upload requested but GITHUB_TOKEN missing, skipping publish")
		return nil
	}

	p := sinks.NewGitHubPublisher(cfg.Sinks.GitHub.Token)
	p.Repo = cfg.Sinks.GitHub.Repo
	if cfg.Sinks.GitHub.Branch != "" {
		p.Branch = cfg.Sinks.GitHub.Branch
	}
	p.PathPrefix = cfg.Sinks.GitHub.PathPrefix

	var (
		urls map[string]string
		err  error
	)
	switch target {
	case "gist":
		urls, err = p.PublishGist(ctx, files)
	case "repo":
		urls, err = p.PublishRepo(ctx, files)
	default:
		return fmt.Errorf("unknown upload target %q (want gist or repo)", target)
	}
	if err != nil {
		return fmt.Errorf("publish files: %w", err)
	}
	for name, publicURL := range urls {
		log.Info().Str("file", name).Str("url", publicURL).Msg("Published export")
	}

	if !attachToNotion {
		return nil
	}
	if cfg.Sinks.Notion.APIKey == "" || cfg.Sinks.Notion.BlockID == "" {
		log.Warn().Msg("Notion attach requested but NOTION_API_KEY or NOTION_BLOCK_ID missing, skipping")
		return nil
	}
	client := sinks.NewNotionClient(cfg.Sinks.Notion.APIKey)
	if err := client.AttachExternalFiles(ctx, cfg.Sinks.Notion.BlockID, urls); err != nil {
		return fmt.Errorf("attach files to notion: %w", err)
	}
	return nil
}

// displayResults prints the ranked table plus the exclusion summary.
func displayResults(res *pipeline.Result) {
	if len(res.Records) == 0 {
		fmt.Println("No comments matched the current filters.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tSUBREDDIT\tAUTHOR\tCOMMENT")
	for i, rec := range res.Records {
		fmt.Fprintf(w, "%d\t%d\tr/%s\t%s\t%s\n",
			i+1, rec.Score, rec.Subreddit, rec.Author, rec.CommentURL)
	}
	w.Flush()

	fmt.Printf("\n%d comments scanned, %d kept (%d without mention, %d duplicates, %d below threshold, %d malformed)\n",
		res.Scanned, len(res.Records), res.NoMention, res.Duplicates, res.BelowMin, res.Malformed)
}
