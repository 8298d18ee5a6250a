package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMentions_DigitsAndSuffixes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   string
		currency bool
	}{
		{"plain dollar amount", "I charge $500 for setup", "500", true},
		{"k suffix", "making 5k a month now", "5000", false},
		{"currency plus k", "$5k in my best week", "5000", true},
		{"m suffix", "the fund manages $2m", "2000000", true},
		{"b suffix", "a $1b market", "1000000000", true},
		{"thousand separators", "closed a $12,500 deal", "12500", true},
		{"decimal value", "about 1.5k per client", "1500", false},
		{"iso code", "around 2000 EUR monthly", "2000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := DetectMentions(tt.text)
			require.NotEmpty(t, mentions, "expected a mention in %q", tt.text)
			want, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.True(t, mentions[0].Amount.Equal(want),
				"amount = %s, want %s", mentions[0].Amount, want)
			assert.Equal(t, tt.currency, mentions[0].CurrencyPresent)
		})
	}
}

func TestDetectMentions_DigitWithScaleWord(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   string
		currency bool
	}{
		{"dollar with million", "we do $2 million per year in bookings", "2000000", true},
		{"bare digit with thousand", "around 300 thousand in revenue", "300000", false},
		{"decimal with billion", "a $1.5 billion market", "1500000000", true},
		{"plural scale word", "roughly 3 millions in sales", "3000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := DetectMentions(tt.text)
			// The scale word folds into the digit mention; it must not
			// also surface as its own spelled-out amount.
			require.Len(t, mentions, 1, "text %q", tt.text)
			want, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.True(t, mentions[0].Amount.Equal(want),
				"amount = %s, want %s", mentions[0].Amount, want)
			assert.Equal(t, tt.currency, mentions[0].CurrencyPresent)
		})
	}
}

func TestDetectMentions_NumberWords(t *testing.T) {
	mentions := DetectMentions("we cleared seven hundred thousand last year")
	require.Len(t, mentions, 1)
	assert.True(t, mentions[0].Amount.Equal(decimal.NewFromInt(700_000)))

	mentions = DetectMentions("two million dollars in pipeline")
	require.Len(t, mentions, 1)
	assert.True(t, mentions[0].Amount.Equal(decimal.NewFromInt(2_000_000)))
	assert.True(t, mentions[0].CurrencyPresent, "adjacent currency word should mark currency")

	// A currency word also qualifies a scale-free run.
	mentions = DetectMentions("they paid twenty dollars")
	require.Len(t, mentions, 1)
	assert.True(t, mentions[0].Amount.Equal(decimal.NewFromInt(20)))
}

func TestDetectMentions_LoneUnitsIgnored(t *testing.T) {
	assert.Empty(t, DetectMentions("one thing I tried was cold outreach"))
	assert.Empty(t, DetectMentions("no numbers here at all"))
}

func TestDetectMentions_RangeUsesUpperBound(t *testing.T) {
	tests := []struct {
		text   string
		amount string
	}{
		{"I charge $2k-5k per project", "5000"},
		{"usually 300 to 500 a week", "500"},
		{"we see 1–2k signups", "2000"},
	}
	for _, tt := range tests {
		mentions := DetectMentions(tt.text)
		require.NotEmpty(t, mentions, "text %q", tt.text)
		best := BestMention(mentions)
		want, _ := decimal.NewFromString(tt.amount)
		assert.True(t, best.Amount.Equal(want), "text %q: amount = %s, want %s", tt.text, best.Amount, want)
		assert.Equal(t, PrecisionApprox, mentions[0].Precision)
	}
}

func TestDetectMentions_RangeBoundsNotDoubleCounted(t *testing.T) {
	mentions := DetectMentions("between $2k-5k monthly")
	require.Len(t, mentions, 1, "range bounds must not re-detect as standalone amounts")
}

func TestHasNumber(t *testing.T) {
	assert.True(t, HasNumber("I have 3 clients"))
	assert.True(t, HasNumber("seven hundred thousand in revenue"))
	assert.False(t, HasNumber("no quantitative evidence whatsoever"))
}

func TestParseAmount_SeparatorStyles(t *testing.T) {
	tests := []struct {
		raw    string
		suffix string
		want   string
	}{
		{"1,234", "", "1234"},
		{"1,234.56", "", "1234.56"},
		{"1.234,56", "", "1234.56"},
		{"3,5", "", "3.5"},
		{"12", "k", "12000"},
		{"2", "b", "2000000000"},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.raw, tt.suffix)
		require.True(t, ok, "parseAmount(%q)", tt.raw)
		want, _ := decimal.NewFromString(tt.want)
		assert.True(t, got.Equal(want), "parseAmount(%q,%q) = %s, want %s", tt.raw, tt.suffix, got, want)
	}
}

func TestBestMention_PrefersSpecificity(t *testing.T) {
	text := "I made 300 once, but now it's $5k/month recurring"
	mentions := DetectMentions(text)
	c := NewClassifier(DefaultLexicon())
	for i := range mentions {
		c.Classify(text, &mentions[i])
	}
	best := BestMention(mentions)
	require.NotNil(t, best)
	assert.True(t, best.Amount.Equal(decimal.NewFromInt(5000)),
		"the recurring, currency-marked mention wins, not the first or largest")
	assert.Nil(t, BestMention(nil))
}
