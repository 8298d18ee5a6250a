// Package domain implements the text-heuristic scoring engine: monetary
// mention detection, recurrence/precision classification, category signal
// extraction and the weighted aggregator. It is pure computation with no
// I/O; fetching and exporting live in infrastructure.
package domain

// RawItem is one unit of text to evaluate. Upvotes is display metadata
// only and never feeds the score.
type RawItem struct {
	Subreddit   string
	ThreadTitle string
	ThreadURL   string
	CommentURL  string
	Author      string
	Body        string
	Upvotes     int

	// Order is the discovery index within a run; ranking ties keep it.
	Order int
}

// Sentiment is the outcome polarity of a comment.
type Sentiment string

const (
	SentimentSuccess Sentiment = "success"
	SentimentNeutral Sentiment = "neutral"
	SentimentFailure Sentiment = "failure"
	SentimentNone    Sentiment = "none"
)

// SignalSet holds the per-item category flags feeding the aggregator.
type SignalSet struct {
	NicheClause bool
	NamedClient bool
	Tools       []string
	Sentiment   Sentiment
}

// Breakdown is the per-category sub-score decomposition kept on every
// record for explainability.
type Breakdown struct {
	Revenue   int `json:"revenue"`
	Market    int `json:"market"`
	Stack     int `json:"stack"`
	Sentiment int `json:"sentiment"`
	Total     int `json:"total"`
}

// ScoredRecord is the immutable output of the aggregator: the raw item
// plus its composite score and the evidence behind it.
type ScoredRecord struct {
	RawItem
	Score     int
	Signals   SignalSet
	Mention   *Mention
	Breakdown Breakdown
}
