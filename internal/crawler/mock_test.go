package crawler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "sjsage522/jobharvester/pkg/errors"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// fakeSite serves canned pages by URL and records every request
type fakeSite struct {
	mu       sync.Mutex
	pages    map[string]string
	errors   map[string]error
	requests []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		pages:  make(map[string]string),
		errors: make(map[string]error),
	}
}

func (f *fakeSite) fetch(ctx context.Context, url string) (io.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, url)

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewNetwork("fake", "request cancelled", err)
	}
	if err, ok := f.errors[url]; ok {
		return nil, err
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, apperrors.NewNetwork("fake", "unexpected status code: 404", nil)
	}
	return strings.NewReader(page), nil
}

func (f *fakeSite) requested(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r == url {
			n++
		}
	}
	return n
}

// testCard describes one card of a fake results page
type testCard struct {
	ID      string
	Title   string
	City    string
	Company string
	Salary  string
	Rating  string
	Link    string
}

func (c testCard) html() string {
	var b strings.Builder
	b.WriteString(`<li class="css-5lfssm eu4oa1w0"><div class="cardOutline`)
	if c.ID != "" {
		b.WriteString(" job_" + c.ID)
	}
	b.WriteString(`">`)
	if c.Title != "" {
		link := c.Link
		if link == "" {
			link = "/rc/clk?jk=" + c.ID
		}
		fmt.Fprintf(&b, `<h2 class="jobTitle"><a class="jcs-JobTitle" href="%s"><span title="%s">%s</span></a></h2>`, link, c.Title, c.Title)
	}
	if c.Company != "" || c.City != "" {
		b.WriteString(`<div class="company_location">`)
		fmt.Fprintf(&b, `<span data-testid="company-name">%s</span>`, c.Company)
		if c.Rating != "" {
			fmt.Fprintf(&b, `<span data-testid="holistic-rating">%s</span>`, c.Rating)
		}
		fmt.Fprintf(&b, `<div data-testid="text-location">%s</div>`, c.City)
		b.WriteString(`</div>`)
	}
	if c.Salary != "" {
		fmt.Fprintf(&b, `<div data-testid="attribute_snippet_testid">%s</div>`, c.Salary)
	}
	b.WriteString(`</div></li>`)
	return b.String()
}

func resultsPage(cards ...testCard) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><ul class="css-zu9cdh">`)
	for _, c := range cards {
		b.WriteString(c.html())
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func detailPage(publishedMillis int64, jobType, description string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head>`)
	b.WriteString(`<script>window._initialData = {"jobLocation": "Paris"};</script>`)
	if publishedMillis > 0 {
		fmt.Fprintf(&b, `<script>window._jobInfo = {"datePublished": %d, "validThrough": 0};</script>`, publishedMillis)
	}
	b.WriteString(`</head><body>`)
	if jobType != "" {
		fmt.Fprintf(&b, `<div id="salaryInfoAndJobType"><span>%s</span></div>`, jobType)
	}
	fmt.Fprintf(&b, `<div id="jobDescriptionText">%s</div>`, description)
	b.WriteString(`</body></html>`)
	return b.String()
}
