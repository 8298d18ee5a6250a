package domain

import "github.com/shopspring/decimal"

// Precision says whether a monetary mention is an exact figure or an
// approximation/range.
type Precision string

const (
	PrecisionExact  Precision = "exact"
	PrecisionApprox Precision = "approximate_or_range"
)

// Recurrence is the time period a monetary mention is tied to.
type Recurrence string

const (
	RecurrenceDay   Recurrence = "day"
	RecurrenceWeek  Recurrence = "week"
	RecurrenceMonth Recurrence = "month"
	RecurrenceYear  Recurrence = "year"
	RecurrenceOther Recurrence = "other"
	RecurrenceNone  Recurrence = "none"
)

// Mention is a monetary amount detected in text. Start/End are byte
// offsets of the matched span, used by the recurrence classifier to
// bound its context window.
type Mention struct {
	Amount          decimal.Decimal
	CurrencyPresent bool
	Precision       Precision
	Recurrence      Recurrence
	Raw             string
	Start           int
	End             int
}

// Specificity ranks a mention for best-of selection: a mention tied to a
// period beats one without, an exact figure beats an approximation, and
// a currency-marked one beats a bare number. Duplicate amounts are never
// summed; scoring uses the single most specific mention.
func (m *Mention) Specificity() int {
	s := 0
	if m.Recurrence != RecurrenceNone {
		s += 4
	}
	if m.Precision == PrecisionExact {
		s += 2
	}
	if m.CurrencyPresent {
		s++
	}
	return s
}

// BestMention returns the most specific mention, or nil when the slice
// is empty. Ties keep the earliest occurrence.
func BestMention(mentions []Mention) *Mention {
	var best *Mention
	for i := range mentions {
		if best == nil || mentions[i].Specificity() > best.Specificity() {
			best = &mentions[i]
		}
	}
	return best
}
