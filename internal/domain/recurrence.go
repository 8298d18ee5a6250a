package domain

import "strings"

// windowRadius bounds how far around a mention the classifier looks, in
// bytes, when no sentence boundary cuts in earlier.
const windowRadius = 80

// Clause boundaries: commas count, so a qualifier in one clause does
// not leak onto a mention in the next.
var sentenceBoundary = map[byte]bool{
	'.': true, '!': true, '?': true, ';': true, ',': true, '\n': true,
}

// Classifier resolves a mention's recurrence period and precision from
// the text surrounding it.
type Classifier struct {
	lex Lexicon
}

func NewClassifier(lex Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// Classify fills Recurrence and Precision on the mention in place,
// inspecting the same-sentence window around the matched span. A range
// match keeps its approximate precision regardless of qualifiers.
func (c *Classifier) Classify(text string, m *Mention) {
	window := strings.ToLower(contextWindow(text, m.Start, m.End))

	m.Recurrence = c.detectRecurrence(window)

	if m.Precision != PrecisionApprox {
		m.Precision = PrecisionExact
		for _, cue := range c.lex.ApproxCues {
			if strings.Contains(window, cue) {
				m.Precision = PrecisionApprox
				break
			}
		}
	}

	if !m.CurrencyPresent && HasCurrencyToken(window) {
		m.CurrencyPresent = true
	}
}

func (c *Classifier) detectRecurrence(window string) Recurrence {
	for _, period := range []Recurrence{RecurrenceDay, RecurrenceWeek, RecurrenceMonth, RecurrenceYear, RecurrenceOther} {
		for _, kw := range c.lex.Recurrence[period] {
			if strings.Contains(window, kw) {
				return period
			}
		}
	}
	return RecurrenceNone
}

// contextWindow returns the text around [start,end), clipped at the
// nearest sentence boundary or windowRadius bytes on each side.
func contextWindow(text string, start, end int) string {
	lo := start - windowRadius
	if lo < 0 {
		lo = 0
	}
	for i := start - 1; i >= lo; i-- {
		if sentenceBoundary[text[i]] {
			lo = i + 1
			break
		}
	}

	hi := end + windowRadius
	if hi > len(text) {
		hi = len(text)
	}
	for i := end; i < hi; i++ {
		if sentenceBoundary[text[i]] {
			hi = i
			break
		}
	}
	return text[lo:hi]
}
