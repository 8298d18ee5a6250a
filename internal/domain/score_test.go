package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mention(rec Recurrence, prec Precision, currency bool) *Mention {
	return &Mention{
		Amount:          decimal.NewFromInt(1000),
		CurrencyPresent: currency,
		Precision:       prec,
		Recurrence:      rec,
	}
}

func TestScore_RevenueSubScore(t *testing.T) {
	a := NewAggregator(DefaultWeights())

	tests := []struct {
		m    *Mention
		want int
	}{
		{mention(RecurrenceWeek, PrecisionExact, true), 55},  // 25+15+10+5
		{mention(RecurrenceMonth, PrecisionExact, true), 52}, // 25+12+10+5
		{mention(RecurrenceDay, PrecisionApprox, false), 40}, // 25+10+5
		{mention(RecurrenceYear, PrecisionExact, false), 43}, // 25+8+10
		{mention(RecurrenceOther, PrecisionApprox, true), 41},
		{mention(RecurrenceNone, PrecisionExact, false), 35},
		{nil, 0},
	}
	for _, tt := range tests {
		b := a.Score(tt.m, SignalSet{Sentiment: SentimentNone})
		assert.Equal(t, tt.want, b.Revenue)
		assert.LessOrEqual(t, b.Revenue, 55, "revenue sub-score must never exceed its cap")
	}
}

func TestScore_StackCap(t *testing.T) {
	a := NewAggregator(DefaultWeights())

	// Seven distinct tools would be 21 points uncapped.
	tools := []string{"openai", "claude", "langchain", "n8n", "zapier", "groq", "ollama"}
	b := a.Score(nil, SignalSet{Tools: tools, Sentiment: SentimentNone})
	assert.Equal(t, 15, b.Stack)

	// Duplicates count once.
	b = a.Score(nil, SignalSet{Tools: []string{"n8n", "n8n", "n8n"}, Sentiment: SentimentNone})
	assert.Equal(t, 3, b.Stack)
}

func TestScore_MarketBothMayApply(t *testing.T) {
	a := NewAggregator(DefaultWeights())

	b := a.Score(nil, SignalSet{NicheClause: true, Sentiment: SentimentNone})
	assert.Equal(t, 10, b.Market)

	b = a.Score(nil, SignalSet{NicheClause: true, NamedClient: true, Sentiment: SentimentNone})
	assert.Equal(t, 20, b.Market)
}

func TestScore_FailureOverrideWinsOverEverything(t *testing.T) {
	a := NewAggregator(DefaultWeights())

	// Maximal signals everywhere, failure sentiment: score must be 0.
	b := a.Score(mention(RecurrenceWeek, PrecisionExact, true), SignalSet{
		NicheClause: true,
		NamedClient: true,
		Tools:       []string{"openai", "claude", "langchain", "n8n", "zapier"},
		Sentiment:   SentimentFailure,
	})
	require.Equal(t, 0, b.Total)
	// Sub-scores stay visible for traceability; only the total is forced.
	assert.Equal(t, 55, b.Revenue)
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	a := NewAggregator(DefaultWeights())

	sentiments := []Sentiment{SentimentSuccess, SentimentNeutral, SentimentFailure, SentimentNone}
	recurrences := []Recurrence{RecurrenceDay, RecurrenceWeek, RecurrenceMonth, RecurrenceYear, RecurrenceOther, RecurrenceNone}

	for _, s := range sentiments {
		for _, r := range recurrences {
			for _, niche := range []bool{true, false} {
				sig := SignalSet{
					NicheClause: niche,
					NamedClient: true,
					Tools:       []string{"openai", "claude", "langchain", "n8n", "zapier", "groq"},
					Sentiment:   s,
				}
				b := a.Score(mention(r, PrecisionExact, true), sig)
				name := fmt.Sprintf("%s/%s/niche=%t", s, r, niche)
				assert.GreaterOrEqual(t, b.Total, 0, name)
				assert.LessOrEqual(t, b.Total, 100, name)
			}
		}
	}
}

func TestScore_SentimentPoints(t *testing.T) {
	a := NewAggregator(DefaultWeights())

	assert.Equal(t, 10, a.Score(nil, SignalSet{Sentiment: SentimentSuccess}).Sentiment)
	assert.Equal(t, 5, a.Score(nil, SignalSet{Sentiment: SentimentNeutral}).Sentiment)
	assert.Equal(t, 0, a.Score(nil, SignalSet{Sentiment: SentimentNone}).Sentiment)
}
