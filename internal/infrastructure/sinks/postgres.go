package sinks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

const createEvidenceTable = `
CREATE TABLE IF NOT EXISTS evidence (
	id          BIGSERIAL PRIMARY KEY,
	run_id      TEXT NOT NULL,
	title       TEXT NOT NULL,
	subreddit   TEXT NOT NULL,
	thread_url  TEXT NOT NULL,
	comment_url TEXT NOT NULL,
	author      TEXT NOT NULL,
	post        TEXT NOT NULL,
	score       INT  NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertEvidence = `
INSERT INTO evidence (run_id, title, subreddit, thread_url, comment_url, author, post, score)
VALUES (:run_id, :title, :subreddit, :thread_url, :comment_url, :author, :post, :score)`

type evidenceRow struct {
	RunID      string `db:"run_id"`
	Title      string `db:"title"`
	Subreddit  string `db:"subreddit"`
	ThreadURL  string `db:"thread_url"`
	CommentURL string `db:"comment_url"`
	Author     string `db:"author"`
	Post       string `db:"post"`
	Score      int    `db:"score"`
}

// PostgresSink pushes one row per scored record. The title column is
// mandatory downstream, so it is always synthesized from subreddit and
// author.
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink prepares the sink without dialing. The connection is
// lazy: an unreachable database surfaces at export time and fails this
// sink only, never the others.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Close() error { return s.db.Close() }

func (s *PostgresSink) Export(ctx context.Context, b Batch) error {
	if _, err := s.db.ExecContext(ctx, createEvidenceTable); err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range b.Records {
		if _, err := tx.NamedExecContext(ctx, insertEvidence, toEvidenceRow(b.RunID, rec)); err != nil {
			return fmt.Errorf("insert %s: %w", rec.CommentURL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func toEvidenceRow(runID string, rec domain.ScoredRecord) evidenceRow {
	return evidenceRow{
		RunID:      runID,
		Title:      fmt.Sprintf("%s – %s", rec.Subreddit, rec.Author),
		Subreddit:  rec.Subreddit,
		ThreadURL:  rec.ThreadURL,
		CommentURL: rec.CommentURL,
		Author:     rec.Author,
		Post:       rec.Body,
		Score:      rec.Score,
	}
}
