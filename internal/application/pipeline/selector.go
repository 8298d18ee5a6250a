package pipeline

import (
	"sort"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

// selectAndRank applies the mandatory-mention filter, deduplicates by
// comment URL (first occurrence wins) and stable-sorts by descending
// score. Input arrives in discovery order, so equal scores keep it.
func selectAndRank(candidates []domain.ScoredRecord, opts Options, res *Result) []domain.ScoredRecord {
	seen := make(map[string]bool, len(candidates))
	kept := make([]domain.ScoredRecord, 0, len(candidates))

	for _, rec := range candidates {
		if rec.Mention == nil && !opts.AllowNoNumbers {
			res.NoMention++
			continue
		}
		if rec.CommentURL != "" {
			if seen[rec.CommentURL] {
				res.Duplicates++
				continue
			}
			seen[rec.CommentURL] = true
		}
		if rec.Score < opts.MinScore {
			res.BelowMin++
			continue
		}
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}
