// Package pipeline runs the scoring stage over a batch of fetched
// items: embarrassingly-parallel per-item analysis, then a single
// selection/ranking pass once the whole batch is scored.
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

// Options configures one scoring run.
type Options struct {
	// MinScore drops records scoring below it. 0 keeps everything.
	MinScore int

	// AllowNoNumbers lets items without any monetary mention through
	// with a zero revenue sub-score instead of excluding them.
	AllowNoNumbers bool

	// Workers sizes the scoring pool; 0 means GOMAXPROCS.
	Workers int
}

// Result is the outcome of a run, with exclusion counters for the
// summary line.
type Result struct {
	Records    []domain.ScoredRecord
	Scanned    int
	Malformed  int
	NoMention  int
	Duplicates int
	BelowMin   int
}

// Run scores every item concurrently, then filters, deduplicates and
// ranks. Scoring is pure per item, so workers share nothing; results
// land in a slice indexed by discovery order and selection happens only
// after the pool drains.
func Run(ctx context.Context, analyzer *domain.Analyzer, items []domain.RawItem, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}

	type scored struct {
		rec domain.ScoredRecord
		ok  bool
	}
	results := make([]scored, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, ok := analyzer.Analyze(items[i])
				results[i] = scored{rec: rec, ok: ok}
			}
		}()
	}

feed:
	for i := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Scanned: len(items)}
	candidates := make([]domain.ScoredRecord, 0, len(items))
	for i := range results {
		if !results[i].ok {
			res.Malformed++
			continue
		}
		candidates = append(candidates, results[i].rec)
	}

	res.Records = selectAndRank(candidates, opts, res)

	log.Info().
		Int("scanned", res.Scanned).
		Int("kept", len(res.Records)).
		Int("malformed", res.Malformed).
		Int("no_mention", res.NoMention).
		Int("duplicates", res.Duplicates).
		Int("below_min", res.BelowMin).
		Msg("Scoring run completed")

	return res, nil
}
