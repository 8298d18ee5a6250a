package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Spelled-out number grammar, case-insensitive, up to billions.
var (
	unitWords = map[string]int64{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
		"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
		"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
		"nineteen": 19,
	}
	tensWords = map[string]int64{
		"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
		"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	}
	scaleWords = map[string]int64{
		"hundred":  100,
		"thousand": 1_000,
		"million":  1_000_000,
		"billion":  1_000_000_000,
	}
	currencyWords = map[string]bool{
		"dollar": true, "dollars": true, "euro": true, "euros": true,
		"pound": true, "pounds": true, "bucks": true, "usd": true,
		"eur": true, "gbp": true,
	}
)

type wordToken struct {
	text  string
	start int
	end   int
}

// detectNumberWords finds maximal runs of number words ("seven hundred
// thousand dollars") and converts them to mentions. A run only counts
// when it carries a scale word or sits next to a currency word; lone
// small units ("one thing I tried") stay out of scope.
func detectNumberWords(text string) []Mention {
	tokens := tokenizeWords(text)
	var mentions []Mention

	for i := 0; i < len(tokens); i++ {
		if !isNumberWord(tokens[i].text) {
			continue
		}
		j := i
		for j < len(tokens) && (isNumberWord(tokens[j].text) || (tokens[j].text == "and" && j+1 < len(tokens) && isNumberWord(tokens[j+1].text))) {
			j++
		}

		value, hasScale := parseWordRun(tokens[i:j])
		if value > 0 {
			currency := (i > 0 && currencyWords[tokens[i-1].text]) ||
				(j < len(tokens) && currencyWords[tokens[j].text])
			if hasScale || currency {
				mentions = append(mentions, Mention{
					Amount:          decimal.NewFromInt(value),
					CurrencyPresent: currency,
					Precision:       PrecisionExact,
					Recurrence:      RecurrenceNone,
					Raw:             text[tokens[i].start:tokens[j-1].end],
					Start:           tokens[i].start,
					End:             tokens[j-1].end,
				})
			}
		}
		i = j
	}
	return mentions
}

// parseWordRun accumulates a run of number words using the usual
// current/total grammar: units add, "hundred" multiplies the current
// group, larger scales flush it into the total.
func parseWordRun(run []wordToken) (value int64, hasScale bool) {
	var total, current int64
	for _, tok := range run {
		w := tok.text
		switch {
		case w == "and":
			continue
		case unitWords[w] != 0:
			current += unitWords[w]
		case tensWords[w] != 0:
			current += tensWords[w]
		case w == "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
			hasScale = true
		case scaleWords[w] != 0:
			if current == 0 {
				current = 1
			}
			total += current * scaleWords[w]
			current = 0
			hasScale = true
		}
	}
	return total + current, hasScale
}

func isNumberWord(w string) bool {
	if _, ok := unitWords[w]; ok {
		return true
	}
	if _, ok := tensWords[w]; ok {
		return true
	}
	_, ok := scaleWords[w]
	return ok
}

// tokenizeWords lowercases and splits on non-letter runs, keeping byte
// offsets so mentions can anchor their context window.
func tokenizeWords(text string) []wordToken {
	var tokens []wordToken
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, wordToken{text: strings.ToLower(text[start:i]), start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, wordToken{text: strings.ToLower(text[start:]), start: start, end: len(text)})
	}
	return tokens
}
