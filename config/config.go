package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/jobharvester/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Search configuration
	Searches []string
	Location string
	Pages    int

	// Site configuration
	IndeedURL         string
	RequestsPerSecond float64

	// Dataset configuration
	OutputPath   string
	TaxonomyPath string

	// Memcache configuration
	MemcacheAddr   string
	RateLimitBlock time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Scheduling
	CrawlInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	pages, _ := strconv.Atoi(getEnv("SEARCH_PAGES", "20"))
	rps, _ := strconv.ParseFloat(getEnv("REQUESTS_PER_SECOND", "1"), 64)
	blockSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "500"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "0"))

	return Config{
		Searches:             splitList(getEnv("SEARCH_KEYWORDS", "data engineer")),
		Location:             getEnv("SEARCH_LOCATION", "paris"),
		Pages:                pages,
		IndeedURL:            strings.TrimRight(getEnv("INDEED_URL", "https://fr.indeed.com"), "/"),
		RequestsPerSecond:    rps,
		OutputPath:           getEnv("OUTPUT_PATH", "data.csv"),
		TaxonomyPath:         getEnv("TAXONOMY_PATH", ""),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		RateLimitBlock:       time.Duration(blockSeconds) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "jobs"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		Environment:          getEnv("JOBHARVEST_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration before any fetching begins
func (c Config) Validate() error {
	switch {
	case len(c.Searches) == 0:
		return apperrors.NewConfiguration("at least one search keyword is required", nil)
	case c.Pages <= 0:
		return apperrors.NewConfiguration(fmt.Sprintf("SEARCH_PAGES must be positive, got %d", c.Pages), nil)
	case c.RequestsPerSecond <= 0:
		return apperrors.NewConfiguration("REQUESTS_PER_SECOND must be positive", nil)
	case c.OutputPath == "":
		return apperrors.NewConfiguration("OUTPUT_PATH is required", nil)
	case !strings.HasPrefix(c.IndeedURL, "http://") && !strings.HasPrefix(c.IndeedURL, "https://"):
		return apperrors.NewConfiguration(fmt.Sprintf("INDEED_URL must be absolute, got %q", c.IndeedURL), nil)
	case c.RedisAddr != "" && c.RedisStreamCount <= 0:
		return apperrors.NewConfiguration("REDIS_STREAM_COUNT must be positive", nil)
	case c.CrawlInterval < 0:
		return apperrors.NewConfiguration("CRAWL_INTERVAL_SECONDS must not be negative", nil)
	}
	if c.TaxonomyPath != "" {
		if _, err := os.Stat(c.TaxonomyPath); err != nil {
			return apperrors.NewConfiguration("keyword taxonomy not readable", err)
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a ';'-separated list, dropping blank entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
