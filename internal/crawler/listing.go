package crawler

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"sjsage522/jobharvester/internal/taxonomy"
	"sjsage522/jobharvester/logger"
	"sjsage522/jobharvester/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// ListingCrawler is the source adapter binding one search to a site layout
type ListingCrawler struct {
	BaseCrawler
	Config   CrawlerConfig
	Search   SearchConfig
	Taxonomy *taxonomy.Taxonomy

	now       func() time.Time
	lastStamp time.Time
}

// NewListingCrawler creates a source adapter for search on the site described by config
func NewListingCrawler(config CrawlerConfig, search SearchConfig, tax *taxonomy.Taxonomy, cacheSvc cache.CacheService, fetch FetchFunc) *ListingCrawler {
	return &ListingCrawler{
		BaseCrawler: BaseCrawler{
			BaseURL:   config.BaseURL,
			Provider:  config.Provider,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: time.Duration(config.BlockTime) * time.Second,
			Fetch:     fetch,
			log: logger.ForSource(config.Provider).WithFields(logger.Fields{
				"keywords": strings.Join(search.Keywords, " "),
				"location": search.Location,
			}),
		},
		Config:   config,
		Search:   search,
		Taxonomy: tax,
		now:      time.Now,
	}
}

// GetName returns the crawler name
func (c *ListingCrawler) GetName() string {
	return fmt.Sprintf("%s[%s @ %s]", c.Provider, strings.Join(c.Search.Keywords, " "), c.Search.Location)
}

// Records walks result pages 0..Pages-1 and yields one record per surviving
// listing. A page that cannot be fetched, or that has no cards, ends the
// walk. The sequence can be ranged over once; later ranges yield nothing.
func (c *ListingCrawler) Records(ctx context.Context) iter.Seq[ListingRecord] {
	var consumed atomic.Bool
	return func(yield func(ListingRecord) bool) {
		if !consumed.CompareAndSwap(false, true) {
			return
		}

		for page := 0; page < c.Search.Pages; page++ {
			if ctx.Err() != nil {
				c.logger().Info().Int("page", page).Msg("Cancelled, stopping pagination")
				return
			}

			pageURL := c.pageURL(page)
			doc, ok := c.fetchDocument(ctx, pageURL)
			if !ok {
				c.logger().Info().Int("page", page).Msg("Results page unavailable, stopping pagination")
				return
			}

			cards, total := c.scanPage(doc.Selection)
			if total == 0 {
				c.logger().Info().Int("page", page).Msg("Empty results page, stopping pagination")
				return
			}
			c.logger().Debug().Int("page", page).Int("cards", total).Int("kept", len(cards)).Msg("Page scanned")

			for _, card := range cards {
				record, ok := c.processCard(ctx, card)
				if !ok {
					continue
				}
				if !yield(record) {
					return
				}
			}
		}
	}
}

// pageURL builds the search URL of a zero-based page index
func (c *ListingCrawler) pageURL(page int) string {
	params := url.Values{}
	params.Set("q", strings.Join(c.Search.Keywords, " "))
	params.Set("l", c.Search.Location)
	if offset := page * c.Config.PageSize; offset > 0 {
		params.Set("start", strconv.Itoa(offset))
	}
	return c.BaseURL + c.Config.SearchPath + "?" + params.Encode()
}

// detailURL builds the detail-page URL of a listing, from its id when
// known, else from the card's title link
func (c *ListingCrawler) detailURL(id string, card *goquery.Selection) string {
	if id != "" && c.Config.DetailPath != "" {
		suffix := strings.TrimPrefix(id, c.Config.IDPrefix)
		return c.BaseURL + fmt.Sprintf(c.Config.DetailPath, url.QueryEscape(suffix))
	}
	return c.ResolveURL(extractLink(card, c.Config.Selectors.Link))
}

// scanPage returns the cards that have a title, and the number of cards found
func (c *ListingCrawler) scanPage(doc *goquery.Selection) ([]*goquery.Selection, int) {
	all := doc.Find(c.Config.Selectors.Card)
	cards := make([]*goquery.Selection, 0, all.Length())
	all.Each(func(_ int, card *goquery.Selection) {
		if extractTitle(card, c.Config.Selectors) == "" {
			return
		}
		cards = append(cards, card)
	})
	return cards, all.Length()
}

// processCard extracts the card fields and enriches them from the detail
// page. It reports false when the listing must be dropped.
func (c *ListingCrawler) processCard(ctx context.Context, card *goquery.Selection) (ListingRecord, bool) {
	selectors := c.Config.Selectors
	record := ListingRecord{
		ID:        extractID(card, c.Config.IDPattern, c.Config.IDPrefix),
		Title:     extractTitle(card, selectors),
		City:      firstText(card, selectors.City),
		Company:   firstText(card, selectors.Company),
		Frequency: FrequencyUnspecified,
		Rating:    extractRating(card, selectors.Rating),
		Provider:  c.Provider,
	}

	if salary := firstText(card, selectors.Salary); salary != "" {
		record.SalaryMin, record.SalaryMax = c.Config.Salary.Boundaries(salary)
		record.Frequency = c.Config.Salary.Frequency(salary)
	}

	if record.ID == "" {
		c.logger().Warn().Str("title", record.Title).Msg("No listing id found, record cannot be deduplicated")
	}

	record.URL = c.detailURL(record.ID, card)
	if record.URL == "" {
		c.logger().Warn().Str("title", record.Title).Msg("No detail page, dropping listing")
		return ListingRecord{}, false
	}

	if !c.enrich(ctx, &record) {
		return ListingRecord{}, false
	}
	record.ScrapedAt = c.stamp()
	return record, true
}

// enrich fills the detail-page fields. It reports false when the detail
// page cannot be fetched, in which case the listing is dropped.
func (c *ListingCrawler) enrich(ctx context.Context, record *ListingRecord) bool {
	doc, ok := c.fetchDocument(ctx, record.URL)
	if !ok {
		c.logger().Info().Str("url", record.URL).Msg("Detail page unavailable, dropping listing")
		return false
	}

	record.PostedAt = ExtractPostedDate(doc.Selection)
	record.ContractType = extractContractType(doc.Selection, c.Config.Selectors.ContractType, c.Config.Contracts)
	record.Keywords = MatchKeywords(firstText(doc.Selection, c.Config.Selectors.Description), c.Taxonomy)
	return true
}

// stamp returns the extraction time, never earlier than the previous one
func (c *ListingCrawler) stamp() time.Time {
	now := c.now()
	if now.Before(c.lastStamp) {
		now = c.lastStamp
	}
	c.lastStamp = now
	return now
}
