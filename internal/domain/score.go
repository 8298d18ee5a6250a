package domain

// Weights drives the aggregator. Every bonus and cap loads from
// configuration; DefaultWeights matches the documented scoring table.
type Weights struct {
	RevenueBase     int `yaml:"revenue_base"`
	CurrencyBonus   int `yaml:"currency_bonus"`
	PrecisionExact  int `yaml:"precision_exact"`
	PrecisionApprox int `yaml:"precision_approx"`
	RevenueCap      int `yaml:"revenue_cap"`

	Recurrence map[Recurrence]int `yaml:"recurrence"`

	NicheBonus  int `yaml:"niche_bonus"`
	ClientBonus int `yaml:"client_bonus"`
	MarketCap   int `yaml:"market_cap"`

	PerTool  int `yaml:"per_tool"`
	StackCap int `yaml:"stack_cap"`

	SuccessBonus int `yaml:"success_bonus"`
	NeutralBonus int `yaml:"neutral_bonus"`
	SentimentCap int `yaml:"sentiment_cap"`
}

func DefaultWeights() Weights {
	return Weights{
		RevenueBase:     25,
		CurrencyBonus:   5,
		PrecisionExact:  10,
		PrecisionApprox: 5,
		RevenueCap:      55,
		Recurrence: map[Recurrence]int{
			RecurrenceWeek:  15,
			RecurrenceMonth: 12,
			RecurrenceDay:   10,
			RecurrenceYear:  8,
			RecurrenceOther: 6,
			RecurrenceNone:  0,
		},
		NicheBonus:   10,
		ClientBonus:  10,
		MarketCap:    20,
		PerTool:      3,
		StackCap:     15,
		SuccessBonus: 10,
		NeutralBonus: 5,
		SentimentCap: 10,
	}
}

// Aggregator combines a mention and a signal set into the bounded
// composite score.
type Aggregator struct {
	weights Weights
}

func NewAggregator(weights Weights) *Aggregator {
	return &Aggregator{weights: weights}
}

// Score computes the category sub-scores and the clamped total.
//
// The contract that is easiest to get wrong: the failure override is
// applied LAST and wins over every other signal. A comment with a
// perfect revenue mention and a failure phrase scores exactly 0.
func (a *Aggregator) Score(m *Mention, sig SignalSet) Breakdown {
	var b Breakdown

	if m != nil {
		b.Revenue = a.weights.RevenueBase + a.weights.Recurrence[m.Recurrence]
		if m.Precision == PrecisionExact {
			b.Revenue += a.weights.PrecisionExact
		} else {
			b.Revenue += a.weights.PrecisionApprox
		}
		if m.CurrencyPresent {
			b.Revenue += a.weights.CurrencyBonus
		}
		b.Revenue = capAt(b.Revenue, a.weights.RevenueCap)
	}

	if sig.NicheClause {
		b.Market += a.weights.NicheBonus
	}
	if sig.NamedClient {
		b.Market += a.weights.ClientBonus
	}
	b.Market = capAt(b.Market, a.weights.MarketCap)

	b.Stack = capAt(len(distinct(sig.Tools))*a.weights.PerTool, a.weights.StackCap)

	switch sig.Sentiment {
	case SentimentSuccess:
		b.Sentiment = a.weights.SuccessBonus
	case SentimentNeutral:
		b.Sentiment = a.weights.NeutralBonus
	}
	b.Sentiment = capAt(b.Sentiment, a.weights.SentimentCap)

	total := b.Revenue + b.Market + b.Stack + b.Sentiment
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	b.Total = total

	// Override last: failure zeroes everything above.
	if sig.Sentiment == SentimentFailure {
		b.Total = 0
	}
	return b
}

func capAt(v, cap int) int {
	if v > cap {
		return cap
	}
	return v
}

func distinct(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
