package crawler

import (
	"strconv"
	"strings"

	"sjsage522/jobharvester/helpers"
)

// SalaryGrammar describes how a site writes salary snippets such as
// "De 2 500 € à 3 000 € par mois"
type SalaryGrammar struct {
	Currency    string
	LowerMarker string
	UpperMarker string
	Periods     map[string]SalaryFrequency
}

// FrenchSalary is the grammar of fr.indeed.com salary snippets
var FrenchSalary = SalaryGrammar{
	Currency:    "€",
	LowerMarker: "de",
	UpperMarker: "à",
	Periods: map[string]SalaryFrequency{
		"mois": FrequencyMonthly,
		"an":   FrequencyYearly,
	},
}

// Boundaries returns the lower and upper salary bounds encoded in text.
// Text is split on the currency symbol and the trailing segment dropped.
// A single segment is a fixed amount (min == max). Several segments form
// a range only when both a lower and an upper marker were seen.
func (g SalaryGrammar) Boundaries(text string) (min, max *int) {
	segments := strings.Split(text, g.Currency)
	segments = segments[:len(segments)-1]
	if len(segments) == 0 {
		return nil, nil
	}

	if len(segments) == 1 {
		amount := parseAmount(segments[0])
		return amount, amount
	}

	var lower, upper *int
	var sawLower, sawUpper bool
	for _, segment := range segments {
		folded := strings.ToLower(segment)
		switch {
		case strings.Contains(folded, g.LowerMarker):
			lower, sawLower = parseAmount(segment), true
		case strings.Contains(folded, g.UpperMarker):
			upper, sawUpper = parseAmount(segment), true
		}
	}
	if !sawLower || !sawUpper || lower == nil || upper == nil {
		return nil, nil
	}
	if *lower > *upper {
		lower, upper = upper, lower
	}
	return lower, upper
}

// Frequency maps the last word of text to a pay period
func (g SalaryGrammar) Frequency(text string) SalaryFrequency {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return FrequencyUnspecified
	}
	if freq, ok := g.Periods[fields[len(fields)-1]]; ok {
		return freq
	}
	return FrequencyUnspecified
}

func parseAmount(segment string) *int {
	digits := helpers.DigitsOnly(segment)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}
