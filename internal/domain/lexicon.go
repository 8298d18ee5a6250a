package domain

// Lexicon holds every keyword list the extractors and the recurrence
// classifier consult. Lists are data, not branches: they load from YAML
// so new tools or phrases never touch scoring logic.
type Lexicon struct {
	Tools       []string `yaml:"tools"`
	NichePivots []string `yaml:"niche_pivots"`
	ClientCues  []string `yaml:"client_cues"`
	SuccessCues []string `yaml:"success_cues"`
	DoubtCues   []string `yaml:"doubt_cues"`
	FailureCues []string `yaml:"failure_cues"`
	ApproxCues  []string `yaml:"approx_cues"`

	Recurrence map[Recurrence][]string `yaml:"recurrence"`
}

// DefaultLexicon returns the built-in keyword lists. Callers may
// overlay any non-empty list from configuration via Merge.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Tools: []string{
			"openai", "assistants api", "gpt-4", "gpt-4o", "anthropic", "claude",
			"cohere", "langchain", "llamaindex", "crewai", "autogen", "openagents",
			"flowise", "n8n", "zapier", "make.com", "relevance ai", "agentops",
			"vercel ai sdk", "modal", "bedrock", "vertex ai", "hugging face",
			"groq", "ollama",
		},
		NichePivots: []string{
			"for ", "to help ", "serving ", "targeting ", "for helping ", "with ",
		},
		ClientCues: []string{
			"client", "customer", "customers", "clients", "smb", "realtor",
			"realtors", "law firm", "lawyer", "attorney", "restaurant", "ecom",
			"e-commerce", "saas", "agency", "agencies",
		},
		SuccessCues: []string{
			"paying customer", "paying customers", "mrr", "arr", "profitable",
			"sold", "closed", "booked", "recurring", "retainer", "i make",
			"we make", "i earn", "we earn", "works well", "working well",
			"it works",
		},
		DoubtCues: []string{
			"anyone making", "anyone here", "how to", "question", "help",
			"struggling", "trying", "exploring", "idea", "proof of concept",
			"poc", "thinking about",
		},
		FailureCues: []string{
			"failed", "no sales", "can't monetize", "cannot monetize",
			"didn't sell", "failed to monetize", "never made money",
			"never made a sale", "total failure",
		},
		ApproxCues: []string{
			"~", "≈", "about", "around", "approx", "approximately", "roughly",
			"up to", "over", "almost", "nearly",
		},
		Recurrence: map[Recurrence][]string{
			RecurrenceDay:   {"/day", "/d", "per day", "a day", "daily", "each day"},
			RecurrenceWeek:  {"/week", "/wk", "/w", "per week", "a week", "weekly", "each week"},
			RecurrenceMonth: {"/month", "/mo", "/m", "per month", "a month", "monthly", "each month"},
			RecurrenceYear:  {"/year", "/yr", "/y", "per year", "a year", "yearly", "annual", "annually"},
			RecurrenceOther: {"/hour", "/hr", "per hour", "hourly", "per project", "per client", "one-time", "one time"},
		},
	}
}

// Merge overlays non-empty lists from o onto l, returning the result.
func (l Lexicon) Merge(o Lexicon) Lexicon {
	if len(o.Tools) > 0 {
		l.Tools = o.Tools
	}
	if len(o.NichePivots) > 0 {
		l.NichePivots = o.NichePivots
	}
	if len(o.ClientCues) > 0 {
		l.ClientCues = o.ClientCues
	}
	if len(o.SuccessCues) > 0 {
		l.SuccessCues = o.SuccessCues
	}
	if len(o.DoubtCues) > 0 {
		l.DoubtCues = o.DoubtCues
	}
	if len(o.FailureCues) > 0 {
		l.FailureCues = o.FailureCues
	}
	if len(o.ApproxCues) > 0 {
		l.ApproxCues = o.ApproxCues
	}
	for period, words := range o.Recurrence {
		if len(words) > 0 {
			if l.Recurrence == nil {
				l.Recurrence = map[Recurrence][]string{}
			}
			l.Recurrence[period] = words
		}
	}
	return l
}
