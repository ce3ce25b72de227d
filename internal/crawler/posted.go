package crawler

import (
	"strconv"
	"strings"
	"time"

	"sjsage522/jobharvester/helpers"

	"github.com/PuerkitoBio/goquery"
)

const datePublishedMarker = "datePublished"

// ExtractPostedDate reads the publication time embedded in the detail page's
// structured-data script, e.g. `"datePublished":1718000000000,`.
// The value is taken by slicing the script text, not by parsing it as JSON:
// the text after the first marker, its second ':' segment, that segment's
// first ',' segment, trimmed of spaces and quotes, as epoch milliseconds.
func ExtractPostedDate(doc *goquery.Selection) *time.Time {
	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := s.Text(); strings.Contains(text, datePublishedMarker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil
	}
	return parsePublishedFragment(script)
}

func parsePublishedFragment(script string) *time.Time {
	afterMarker, err := helpers.GetSplitPart(script, datePublishedMarker, 1)
	if err != nil {
		return nil
	}
	value, err := helpers.GetSplitPart(afterMarker, ":", 1)
	if err != nil {
		return nil
	}
	value, _ = helpers.GetSplitPart(value, ",", 0)
	value = strings.ReplaceAll(strings.TrimSpace(value), `"`, "")

	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	posted := time.UnixMilli(millis).UTC()
	return &posted
}
