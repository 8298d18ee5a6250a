package domain

import (
	"regexp"
	"strings"
)

// companyRe spots a capitalized proper noun carrying a corporate suffix
// ("Acme LLC", "Brightline GmbH").
var companyRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&.\-]{2,}\s(?:Inc|LLC|Ltd|SAS|GmbH|SARL|AG)\b`)

// properNounRe matches a capitalized word that reads as a name rather
// than a sentence opener or the pronoun "I".
var properNounRe = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)

// Extractor runs the independent category detectors: market/client
// context, tool/stack mentions and sentiment polarity.
type Extractor struct {
	lex Lexicon
}

func NewExtractor(lex Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

// Extract computes the full signal set for one item. Title text joins
// the body for tool matching only; sentiment and market read the body.
func (e *Extractor) Extract(body, title string) SignalSet {
	return SignalSet{
		NicheClause: e.hasNicheClause(body),
		NamedClient: e.hasNamedClient(body),
		Tools:       e.MatchTools(body, title),
		Sentiment:   e.Sentiment(body),
	}
}

// hasNicheClause looks for a preposition-led purpose clause ("for
// dentists", "to help realtors"). Any pivot followed by a word sets the
// flag; there is no partial credit.
func (e *Extractor) hasNicheClause(body string) bool {
	t := " " + strings.ToLower(strings.ReplaceAll(body, "\n", " "))
	for _, pivot := range e.lex.NichePivots {
		idx := strings.Index(t, " "+pivot)
		if idx < 0 {
			continue
		}
		tail := strings.TrimSpace(t[idx+1+len(pivot):])
		if tail != "" {
			return true
		}
	}
	return false
}

// hasNamedClient needs an explicit role/company noun sitting near a
// capitalized proper noun, or a corporate-suffixed name anywhere. A bare
// "clients" with nobody named is niche context, not a named client.
func (e *Extractor) hasNamedClient(body string) bool {
	if companyRe.MatchString(body) {
		return true
	}
	t := strings.ToLower(body)
	for _, cue := range e.lex.ClientCues {
		idx := strings.Index(t, cue)
		if idx < 0 {
			continue
		}
		lo := idx - 40
		if lo < 1 { // skip offset 0: a sentence opener is not a name
			lo = 1
		}
		hi := idx + len(cue) + 40
		if hi > len(body) {
			hi = len(body)
		}
		if properNounRe.MatchString(body[lo:hi]) {
			return true
		}
	}
	return false
}

// MatchTools returns the distinct recognized tool names, in lexicon
// order. The scoring cap applies later; the full set stays on the
// record for traceability.
func (e *Extractor) MatchTools(body, title string) []string {
	merged := strings.ToLower(body + " " + title)
	var hits []string
	for _, tool := range e.lex.Tools {
		if strings.Contains(merged, tool) {
			hits = append(hits, tool)
		}
	}
	return hits
}

// Sentiment classifies outcome polarity. Failure phrases short-circuit
// with the highest priority, then success, then hedging language;
// anything else is none.
func (e *Extractor) Sentiment(body string) Sentiment {
	t := strings.ToLower(body)
	for _, cue := range e.lex.FailureCues {
		if strings.Contains(t, cue) {
			return SentimentFailure
		}
	}
	for _, cue := range e.lex.SuccessCues {
		if strings.Contains(t, cue) {
			return SentimentSuccess
		}
	}
	for _, cue := range e.lex.DoubtCues {
		if strings.Contains(t, cue) {
			return SentimentNeutral
		}
	}
	return SentimentNone
}
