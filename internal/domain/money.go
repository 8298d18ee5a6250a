package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Monetary detection patterns. Digits may carry a currency symbol or
// code, thousand separators, a decimal part and a magnitude suffix,
// either a letter ("5k") or a scale word ("$2 million"). Ranges are
// matched first so their bounds are not re-detected as standalone
// amounts.
const scaleSuffix = `thousand|millions|million|billions|billion|k|m|b`

var (
	moneyRe = regexp.MustCompile(`(?i)([$€£])\s*(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:[.,]\d+)?)(?:\s?(` + scaleSuffix + `)\b)?(?:\s?(usd|eur|gbp))?` +
		`|(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:[.,]\d+)?)(?:\s?(` + scaleSuffix + `)\b)?(?:\s?(usd|eur|gbp)\b)?`)

	rangeRe = regexp.MustCompile(`(?i)([$€£])?\s*(\d+(?:[.,]\d+)?)\s?(` + scaleSuffix + `)?\s*(?:-|–|—|to)\s*([$€£])?\s*(\d+(?:[.,]\d+)?)(?:\s?(` + scaleSuffix + `)\b)?`)

	currencyTokenRe = regexp.MustCompile(`(?i)[$€£]|\b(?:usd|eur|gbp|dollars?|euros?|pounds?|bucks)\b`)

	digitRe = regexp.MustCompile(`\d`)
)

var magnitudes = map[string]int64{
	"k":        1_000,
	"m":        1_000_000,
	"b":        1_000_000_000,
	"thousand": 1_000,
	"million":  1_000_000,
	"millions": 1_000_000,
	"billion":  1_000_000_000,
	"billions": 1_000_000_000,
}

// DetectMentions extracts all monetary mention candidates from text.
// Range patterns ("$2k-5k", "3 to 4k") normalize to the upper bound and
// carry approximate precision; the midpoint alternative was rejected to
// keep normalization deterministic and order-free.
func DetectMentions(text string) []Mention {
	var mentions []Mention
	var taken [][2]int

	for _, idx := range rangeRe.FindAllStringSubmatchIndex(text, -1) {
		m := submatches(text, idx)
		hiSuffix := m[6]
		if hiSuffix == "" {
			hiSuffix = m[3]
		}
		amount, ok := parseAmount(m[5], hiSuffix)
		if !ok {
			continue
		}
		mentions = append(mentions, Mention{
			Amount:          amount,
			CurrencyPresent: m[1] != "" || m[4] != "",
			Precision:       PrecisionApprox,
			Recurrence:      RecurrenceNone,
			Raw:             text[idx[0]:idx[1]],
			Start:           idx[0],
			End:             idx[1],
		})
		taken = append(taken, [2]int{idx[0], idx[1]})
	}

	for _, idx := range moneyRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(taken, idx[0], idx[1]) {
			continue
		}
		m := submatches(text, idx)
		sym, raw, suffix, code := m[1], m[2], m[3], m[4]
		if raw == "" {
			raw, suffix, code = m[5], m[6], m[7]
		}
		amount, ok := parseAmount(raw, suffix)
		if !ok {
			continue
		}
		mentions = append(mentions, Mention{
			Amount:          amount,
			CurrencyPresent: sym != "" || code != "",
			Precision:       PrecisionExact,
			Recurrence:      RecurrenceNone,
			Raw:             strings.TrimSpace(text[idx[0]:idx[1]]),
			Start:           idx[0],
			End:             idx[1],
		})
		taken = append(taken, [2]int{idx[0], idx[1]})
	}

	// A scale word already consumed as a digit suffix ("$2 million")
	// must not surface again as its own spelled-out mention.
	for _, m := range detectNumberWords(text) {
		if overlaps(taken, m.Start, m.End) {
			continue
		}
		mentions = append(mentions, m)
	}
	return mentions
}

// HasNumber reports whether the text carries any numeric evidence at
// all, digits or spelled-out numbers. The selector uses it for the
// number-free override path.
func HasNumber(text string) bool {
	return digitRe.MatchString(text) || len(detectNumberWords(text)) > 0
}

// HasCurrencyToken reports whether the text names a currency anywhere,
// symbol, ISO code or word.
func HasCurrencyToken(text string) bool {
	return currencyTokenRe.MatchString(text)
}

// parseAmount normalizes a digit string with optional separators and a
// magnitude suffix into a decimal value. "1,234.56" and "1.234,56"
// styles both resolve; a single comma with a non-thousands tail reads
// as a decimal mark.
func parseAmount(raw, suffix string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if isThousandGrouped(s, ',') {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if mult, ok := magnitudes[strings.ToLower(suffix)]; ok {
		amount = amount.Mul(decimal.NewFromInt(mult))
	}
	return amount, true
}

// isThousandGrouped reports whether every separator-delimited group
// after the first has exactly three digits, e.g. "1,234,567".
func isThousandGrouped(s string, sep byte) bool {
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

func submatches(text string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := range out {
		if idx[2*i] >= 0 {
			out[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return out
}

func overlaps(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}
