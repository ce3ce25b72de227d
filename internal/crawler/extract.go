package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field extractors. Each one returns the zero value when a node it
// depends on is missing.

// firstText returns the trimmed text of the first match of selector
func firstText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// extractTitle reads the title attribute of the title node, falling back to its text
func extractTitle(s *goquery.Selection, selectors Selectors) string {
	titleSel := s.Find(selectors.Title).First()
	if titleSel.Length() == 0 {
		return ""
	}
	if selectors.TitleAttr != "" {
		if title, exists := titleSel.Attr(selectors.TitleAttr); exists && strings.TrimSpace(title) != "" {
			return strings.TrimSpace(title)
		}
	}
	return strings.TrimSpace(titleSel.Text())
}

// extractID finds the first class token matching pattern on the card or one
// of its descendants and returns prefix + the token's captured suffix
func extractID(s *goquery.Selection, pattern *regexp.Regexp, prefix string) string {
	if pattern == nil {
		return ""
	}
	matchNode := func(node *goquery.Selection) string {
		class, _ := node.Attr("class")
		for _, token := range strings.Fields(class) {
			if m := pattern.FindStringSubmatch(token); len(m) > 1 {
				return prefix + m[1]
			}
		}
		return ""
	}

	id := matchNode(s)
	if id != "" {
		return id
	}
	s.Find("[class]").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		id = matchNode(node)
		return id == ""
	})
	return id
}

// extractRating parses a rating such as "4,1" and keeps it only within [0,5]
func extractRating(s *goquery.Selection, selector string) *float64 {
	text := firstText(s, selector)
	if text == "" {
		return nil
	}
	rating, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
	if err != nil || rating < 0 || rating > 5 {
		return nil
	}
	return &rating
}

// extractLink returns the href of the first link match
func extractLink(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	href, exists := s.Find(selector).First().Attr("href")
	if !exists {
		return ""
	}
	return strings.TrimSpace(href)
}

// extractContractType scans the job-type section of a detail page for a
// known contract word; the first term that appears as a whole word wins
func extractContractType(doc *goquery.Selection, selector string, terms []ContractTerm) ContractType {
	text := firstText(doc, selector)
	if text == "" {
		return ""
	}
	words := make(map[string]struct{})
	for _, word := range tokenize(text) {
		words[word] = struct{}{}
	}
	for _, term := range terms {
		if _, ok := words[normalizeText(term.Word)]; ok {
			return term.Type
		}
	}
	return ""
}
