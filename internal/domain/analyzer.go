package domain

import "strings"

// Analyzer wires the detector, classifier, extractors and aggregator
// into a single per-item evaluation. It is stateless after construction
// and safe for concurrent use.
type Analyzer struct {
	classifier *Classifier
	extractor  *Extractor
	aggregator *Aggregator
}

func NewAnalyzer(lex Lexicon, weights Weights) *Analyzer {
	return &Analyzer{
		classifier: NewClassifier(lex),
		extractor:  NewExtractor(lex),
		aggregator: NewAggregator(weights),
	}
}

// Analyze evaluates one raw item. ok is false for malformed input (an
// empty or blank body), which callers exclude rather than score. The
// record's Mention is nil when the text holds no qualifying monetary
// mention; the selector decides whether such records survive.
func (a *Analyzer) Analyze(item RawItem) (ScoredRecord, bool) {
	if strings.TrimSpace(item.Body) == "" {
		return ScoredRecord{}, false
	}

	mentions := DetectMentions(item.Body)
	for i := range mentions {
		a.classifier.Classify(item.Body, &mentions[i])
	}
	best := BestMention(mentions)

	signals := a.extractor.Extract(item.Body, item.ThreadTitle)
	breakdown := a.aggregator.Score(best, signals)

	return ScoredRecord{
		RawItem:   item,
		Score:     breakdown.Total,
		Signals:   signals,
		Mention:   best,
		Breakdown: breakdown,
	}, true
}
