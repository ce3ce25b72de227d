package crawler

import (
	"context"
	"io"
	"iter"
	"regexp"
	"time"
)

// ContractType is the canonical contract vocabulary
type ContractType string

const (
	ContractPermanent      ContractType = "permanent"
	ContractFixedTerm      ContractType = "fixed-term"
	ContractInternship     ContractType = "internship"
	ContractFreelance      ContractType = "freelance"
	ContractTemp           ContractType = "temp"
	ContractApprenticeship ContractType = "apprenticeship"
)

// SalaryFrequency is the pay period of a salary range
type SalaryFrequency string

const (
	FrequencyMonthly     SalaryFrequency = "mensuel"
	FrequencyYearly      SalaryFrequency = "annuel"
	FrequencyUnspecified SalaryFrequency = "non spécifié"
)

// KeywordMatch holds the taxonomy keywords found in a description
type KeywordMatch struct {
	Matched       []string `json:"matched"`
	MasteredCount int      `json:"mastered_count"`
}

// ListingRecord represents one scraped job posting.
// Empty strings and nil pointers mean the value was absent on the page.
type ListingRecord struct {
	ID           string                  `json:"id,omitempty"`
	Title        string                  `json:"title"`
	City         string                  `json:"city,omitempty"`
	Company      string                  `json:"company,omitempty"`
	ContractType ContractType            `json:"contract_type,omitempty"`
	SalaryMin    *int                    `json:"salary_min,omitempty"`
	SalaryMax    *int                    `json:"salary_max,omitempty"`
	Frequency    SalaryFrequency         `json:"frequency"`
	Rating       *float64                `json:"rating,omitempty"`
	Keywords     map[string]KeywordMatch `json:"keywords,omitempty"`
	PostedAt     *time.Time              `json:"posted_at,omitempty"`
	ScrapedAt    time.Time               `json:"scraped_at"`
	URL          string                  `json:"url,omitempty"`
	Provider     string                  `json:"provider"`
}

// SearchConfig is the immutable query a source adapter runs
type SearchConfig struct {
	Keywords []string
	Location string
	Pages    int
}

// Source produces the listing records of one configured search
type Source interface {
	// Records returns a lazy, single-use sequence of records in page order,
	// then card order within a page
	Records(ctx context.Context) iter.Seq[ListingRecord]

	// GetName returns the source name for logging and identification
	GetName() string

	// GetProvider returns the provider name for the source
	GetProvider() string
}

// FetchFunc fetches a URL and returns its UTF-8 body
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// Selectors contains CSS selectors for the search-results and detail pages
type Selectors struct {
	// Search-results page
	Card      string
	Title     string
	TitleAttr string
	City      string
	Company   string
	Salary    string
	Rating    string
	Link      string

	// Detail page
	Description  string
	ContractType string
}

// ContractTerm maps a site-language word to the canonical contract type
type ContractTerm struct {
	Word string
	Type ContractType
}

// CrawlerConfig contains the site layout a ListingCrawler is bound to
type CrawlerConfig struct {
	BaseURL    string
	SearchPath string
	DetailPath string
	Provider   string
	CacheKey   string
	BlockTime  int
	PageSize   int

	IDPattern *regexp.Regexp
	IDPrefix  string

	Selectors Selectors
	Salary    SalaryGrammar
	Contracts []ContractTerm
}
