package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

func newAnalyzer() *domain.Analyzer {
	return domain.NewAnalyzer(domain.DefaultLexicon(), domain.DefaultWeights())
}

func item(i int, url, body string) domain.RawItem {
	return domain.RawItem{
		CommentURL: url,
		Author:     fmt.Sprintf("user%d", i),
		Body:       body,
		Order:      i,
	}
}

func TestRun_FiltersItemsWithoutMentions(t *testing.T) {
	items := []domain.RawItem{
		item(0, "u0", "I make $2k/month with my agent"),
		item(1, "u1", "great thread, following along"),
		item(2, "u2", "we earn about 500 a week"),
	}

	res, err := Run(context.Background(), newAnalyzer(), items, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.NoMention)

	// The same batch with the override keeps the number-free item.
	res, err = Run(context.Background(), newAnalyzer(), items, Options{AllowNoNumbers: true})
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	for _, rec := range res.Records {
		if rec.CommentURL == "u1" {
			assert.Equal(t, 0, rec.Breakdown.Revenue)
		}
	}
}

func TestRun_DeduplicatesByCommentURL(t *testing.T) {
	items := []domain.RawItem{
		item(0, "same", "I make $2k/month, mostly for dentists"),
		item(1, "same", "I make $2k/month, mostly for dentists"),
		item(2, "other", "we charge $900 per week"),
	}

	res, err := Run(context.Background(), newAnalyzer(), items, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Duplicates)

	// First occurrence wins: the survivor carries Order 0.
	for _, rec := range res.Records {
		if rec.CommentURL == "same" {
			assert.Equal(t, 0, rec.Order)
		}
	}
}

func TestRun_StableRankingPreservesDiscoveryOrder(t *testing.T) {
	// A and B score identically; A was discovered first and must stay
	// first. The high scorer leads regardless.
	items := []domain.RawItem{
		item(0, "a", "we charge $100 for small fixes"),
		item(1, "b", "we charge $100 for small fixes"),
		item(2, "c", "I make $5k/week, profitable, for law firm clients using openai and n8n"),
	}
	// Distinct URLs, identical text: same score for a and b.
	res, err := Run(context.Background(), newAnalyzer(), items, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	assert.Equal(t, "c", res.Records[0].CommentURL)
	assert.Equal(t, "a", res.Records[1].CommentURL)
	assert.Equal(t, "b", res.Records[2].CommentURL)
	assert.Equal(t, res.Records[1].Score, res.Records[2].Score)
}

func TestRun_MinScoreFilter(t *testing.T) {
	items := []domain.RawItem{
		item(0, "hi", "I make $5k/week, profitable, for law firm clients using openai"),
		item(1, "lo", "spent 20 bucks on this"),
	}

	res, err := Run(context.Background(), newAnalyzer(), items, Options{MinScore: 60})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "hi", res.Records[0].CommentURL)
	assert.Equal(t, 1, res.BelowMin)
}

func TestRun_CountsMalformed(t *testing.T) {
	items := []domain.RawItem{
		item(0, "ok", "I make $1k/month"),
		item(1, "blank", "   "),
	}

	res, err := Run(context.Background(), newAnalyzer(), items, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Malformed)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]domain.RawItem, 200)
	for i := range items {
		items[i] = item(i, fmt.Sprintf("u%d", i), "I make $1k/month")
	}
	_, err := Run(ctx, newAnalyzer(), items, Options{Workers: 2})
	assert.Error(t, err)
}

func TestRun_EmptyBatchIsNotAnError(t *testing.T) {
	res, err := Run(context.Background(), newAnalyzer(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}
