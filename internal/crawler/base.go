package crawler

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"sjsage522/jobharvester/logger"
	apperrors "sjsage522/jobharvester/pkg/errors"
	"sjsage522/jobharvester/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// BaseCrawler provides fetching and parsing shared by all sources
type BaseCrawler struct {
	BaseURL   string
	Provider  string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Fetch     FetchFunc
	log       *logger.Logger
}

// fetchWithCache fetches a URL unless the source is blocked after a rate limit
func (c *BaseCrawler) fetchWithCache(ctx context.Context, url string) (io.Reader, error) {
	// Check if the source is rate limited
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, apperrors.NewRateLimit(c.Provider, fmt.Sprintf("%ds", c.BlockTime/time.Second))
		}
	}

	body, err := c.Fetch(ctx, url)
	if err != nil {
		if c.CacheSvc != nil && c.CacheKey != "" && apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
			if setErr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime); setErr != nil {
				c.logger().Warn().Err(setErr).Msg("Failed to set rate limit block")
			}
		}
		return nil, err
	}

	return body, nil
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing(c.Provider, "HTML parsing error", err)
	}
	return doc, nil
}

// fetchDocument fetches and parses url. Failures are logged and reported
// as a missing document; they never propagate further.
func (c *BaseCrawler) fetchDocument(ctx context.Context, url string) (*goquery.Document, bool) {
	body, err := c.fetchWithCache(ctx, url)
	if err != nil {
		c.logger().Warn().Err(err).Str("url", url).Msg("Fetch failed")
		return nil, false
	}

	doc, err := c.createDocument(body)
	if err != nil {
		c.logger().Warn().Err(err).Str("url", url).Msg("Parse failed")
		return nil, false
	}
	return doc, true
}

// ResolveURL resolves a relative link against the base URL
func (c *BaseCrawler) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// GetProvider returns the provider name
func (c *BaseCrawler) GetProvider() string {
	return c.Provider
}

func (c *BaseCrawler) logger() *logger.Logger {
	if c.log == nil {
		c.log = logger.ForSource(c.Provider)
	}
	return c.log
}
