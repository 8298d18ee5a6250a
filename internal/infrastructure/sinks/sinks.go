// Package sinks holds the downstream consumers of ranked records: file
// exports, the Postgres push, the Notion push and the GitHub publish
// step. Sinks are independent and composable; one failing never stops
// the others, and none of them contains scoring logic.
package sinks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

// Batch is one ranked result set handed to every enabled sink. RunID
// ties artifacts from the same invocation together.
type Batch struct {
	RunID       string
	GeneratedAt time.Time
	Records     []domain.ScoredRecord
}

func NewBatch(records []domain.ScoredRecord) Batch {
	return Batch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Records:     records,
	}
}

// Sink consumes a ranked batch. Implementations must preserve the
// batch's order exactly.
type Sink interface {
	Name() string
	Export(ctx context.Context, b Batch) error
}

// ExportAll runs every sink and reports partial failure: each sink's
// error is logged and joined into the returned error, but no failure
// stops the remaining sinks.
func ExportAll(ctx context.Context, b Batch, all ...Sink) error {
	var errs []error
	for _, s := range all {
		if err := s.Export(ctx, b); err != nil {
			log.Error().Err(err).Str("sink", s.Name()).Msg("Sink export failed")
			errs = append(errs, fmt.Errorf("sink %s: %w", s.Name(), err))
			continue
		}
		log.Info().Str("sink", s.Name()).Int("records", len(b.Records)).Msg("Sink export completed")
	}
	return errors.Join(errs...)
}
