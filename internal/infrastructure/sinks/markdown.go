package sinks

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// MarkdownSink writes the ranked batch as a human-readable report,
// highest score first, mirroring the CSV order.
type MarkdownSink struct {
	Path  string
	Title string
}

func (s *MarkdownSink) Name() string { return "markdown" }

func (s *MarkdownSink) Export(ctx context.Context, b Batch) error {
	title := s.Title
	if title == "" {
		title = "Reddit AI-agent revenue evidence (sorted by score)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Run `%s`, %d records, generated %s\n\n", b.RunID, len(b.Records), b.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	for _, rec := range b.Records {
		fmt.Fprintf(&sb, "## %s\n", rec.ThreadTitle)
		fmt.Fprintf(&sb, "- **Score**: %d (revenue %d, market %d, stack %d, sentiment %d)\n",
			rec.Score, rec.Breakdown.Revenue, rec.Breakdown.Market, rec.Breakdown.Stack, rec.Breakdown.Sentiment)
		fmt.Fprintf(&sb, "- **Subreddit**: r/%s\n", rec.Subreddit)
		fmt.Fprintf(&sb, "- **Thread**: %s\n", rec.ThreadURL)
		fmt.Fprintf(&sb, "- **Comment**: %s\n", rec.CommentURL)
		fmt.Fprintf(&sb, "- **Author**: %s (%d upvotes)\n", rec.Author, rec.Upvotes)
		if rec.Mention != nil {
			fmt.Fprintf(&sb, "- **Revenue mention**: %s (%s, %s/%s)\n",
				rec.Mention.Raw, rec.Mention.Amount, rec.Mention.Recurrence, rec.Mention.Precision)
		}
		if len(rec.Signals.Tools) > 0 {
			fmt.Fprintf(&sb, "- **Tools**: %s\n", strings.Join(rec.Signals.Tools, ", "))
		}
		fmt.Fprintf(&sb, "- **Post**:\n\n> %s\n\n---\n\n", strings.ReplaceAll(rec.Body, "\n", "\n> "))
	}

	if err := os.WriteFile(s.Path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}
