package crawler

import (
	"strings"
	"unicode"

	"sjsage522/jobharvester/internal/taxonomy"
)

// MatchKeywords finds taxonomy keywords in text. A keyword matches only
// when its lowercased name equals a whole token of the lowercased,
// punctuation-free text, so keywords carrying punctuation never match.
// Every category is present in the result, matched or not.
func MatchKeywords(text string, tax *taxonomy.Taxonomy) map[string]KeywordMatch {
	if tax == nil {
		return nil
	}

	tokens := make(map[string]struct{})
	for _, token := range tokenize(text) {
		tokens[token] = struct{}{}
	}

	result := make(map[string]KeywordMatch, len(tax.Categories))
	for _, category := range tax.Categories {
		match := KeywordMatch{Matched: []string{}}
		for _, kw := range category.Keywords {
			name := strings.ToLower(strings.TrimSpace(kw.Name))
			if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
				continue
			}
			if _, ok := tokens[name]; !ok {
				continue
			}
			match.Matched = append(match.Matched, kw.Name)
			if kw.Mastered {
				match.MasteredCount++
			}
		}
		result[category.Name] = match
	}
	return result
}

func tokenize(text string) []string {
	return strings.Fields(normalizeText(text))
}

// normalizeText lowercases s and drops punctuation and ASCII symbols
func normalizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || (r < unicode.MaxASCII && unicode.IsSymbol(r)) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
