package sinks

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvHeader fixes the column order; consumers rely on it.
var csvHeader = []string{"subreddit", "thread_url", "comment_url", "author", "post", "score"}

// CSVSink writes the ranked batch as one row per record.
type CSVSink struct {
	Path string
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Export(ctx context.Context, b Batch) error {
	file, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range b.Records {
		row := []string{
			rec.Subreddit,
			rec.ThreadURL,
			rec.CommentURL,
			rec.Author,
			rec.Body,
			strconv.Itoa(rec.Score),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
