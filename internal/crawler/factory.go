package crawler

import (
	"regexp"
	"strings"

	"sjsage522/jobharvester/config"
	"sjsage522/jobharvester/internal/taxonomy"
	"sjsage522/jobharvester/logger"
	"sjsage522/jobharvester/services/cache"
)

// ProviderIndeed is the provider name of fr.indeed.com records
const ProviderIndeed = "Indeed"

var indeedIDPattern = regexp.MustCompile(`^job_([A-Za-z0-9]+)$`)

// frenchContracts lists contract words in the order they are tried
var frenchContracts = []ContractTerm{
	{Word: "CDI", Type: ContractPermanent},
	{Word: "CDD", Type: ContractFixedTerm},
	{Word: "Stage", Type: ContractInternship},
	{Word: "Freelance", Type: ContractFreelance},
	{Word: "Indépendant", Type: ContractFreelance},
	{Word: "Intérim", Type: ContractTemp},
	{Word: "Apprentissage", Type: ContractApprenticeship},
	{Word: "Alternance", Type: ContractApprenticeship},
}

// IndeedConfig returns the fr.indeed.com layout rooted at baseURL
func IndeedConfig(baseURL string, blockSeconds int) CrawlerConfig {
	return CrawlerConfig{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SearchPath: "/emplois",
		DetailPath: "/viewjob?jk=%s",
		Provider:   ProviderIndeed,
		CacheKey:   "indeed_rate_limited",
		BlockTime:  blockSeconds,
		PageSize:   10,
		IDPattern:  indeedIDPattern,
		IDPrefix:   "IN",
		Selectors: Selectors{
			Card:         "li.css-5lfssm",
			Title:        "h2.jobTitle span",
			TitleAttr:    "title",
			City:         "div.company_location div[data-testid='text-location']",
			Company:      "span[data-testid='company-name']",
			Salary:       "div[data-testid='attribute_snippet_testid']",
			Rating:       "span[data-testid='holistic-rating']",
			Link:         "a.jcs-JobTitle",
			Description:  "#jobDescriptionText",
			ContractType: "#salaryInfoAndJobType",
		},
		Salary:    FrenchSalary,
		Contracts: frenchContracts,
	}
}

// CreateSources creates one source adapter per configured search
func CreateSources(cfg config.Config, tax *taxonomy.Taxonomy, cacheSvc cache.CacheService, fetch FetchFunc) []Source {
	siteConfig := IndeedConfig(cfg.IndeedURL, int(cfg.RateLimitBlock.Seconds()))

	sources := make([]Source, 0, len(cfg.Searches))
	for _, search := range cfg.Searches {
		keywords := strings.Fields(search)
		if len(keywords) == 0 {
			continue
		}
		sources = append(sources, NewListingCrawler(siteConfig, SearchConfig{
			Keywords: keywords,
			Location: cfg.Location,
			Pages:    cfg.Pages,
		}, tax, cacheSvc, fetch))
	}

	for i, s := range sources {
		logger.Debug("Source %d: %s", i, s.GetName())
	}
	return sources
}
