package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/jobharvester/config"
	"sjsage522/jobharvester/helpers"
	"sjsage522/jobharvester/internal/crawler"
	"sjsage522/jobharvester/internal/taxonomy"
	"sjsage522/jobharvester/logger"
	"sjsage522/jobharvester/services/cache"
	"sjsage522/jobharvester/services/dataset"
	"sjsage522/jobharvester/services/publisher"
	"sjsage522/jobharvester/services/worker"

	"github.com/joho/godotenv"
)

const fetchTimeout = 15 * time.Second

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	var tax *taxonomy.Taxonomy
	if cfg.TaxonomyPath != "" {
		var err error
		tax, err = taxonomy.Load(cfg.TaxonomyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.TaxonomyPath).Msg("Failed to load keyword taxonomy")
		}
		log.Info().Strs("categories", tax.CategoryNames()).Msg("Loaded keyword taxonomy")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Strs("searches", cfg.Searches).
		Str("location", cfg.Location).
		Int("pages", cfg.Pages).
		Str("output", cfg.OutputPath).
		Dur("crawl_interval", cfg.CrawlInterval).
		Msg("Starting application")

	// Cancel on SIGINT/SIGTERM; in-flight fetches stop and nothing is half-written
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	fetcher := helpers.NewFetcher(fetchTimeout, cfg.RequestsPerSecond)
	sources := crawler.CreateSources(cfg, tax, services.Cache, fetcher.Fetch)
	if len(sources) == 0 {
		log.Fatal().Msg("No sources were created")
	}
	log.Info().Int("source_count", len(sources)).Msg("Created sources")

	w := worker.NewWorker(
		sources,
		dataset.NewMerger(dataset.NewStore(cfg.OutputPath)),
		services.Publisher,
		cfg.CrawlInterval,
	)
	w.OnRun = func(summary worker.Summary, err error) {
		if err == nil {
			worker.RenderSummary(os.Stdout, summary)
		}
	}

	log.Info().Msg("Starting job harvest worker")
	if err := w.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Worker exited with error")
		services.Cleanup()
		os.Exit(1)
	}
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
		s.Publisher = nil
	}
}

// initializeServices initializes the optional cache and publisher
func initializeServices(ctx context.Context, cfg config.Config) *Services {
	services := &Services{Cache: cache.New(cfg.MemcacheAddr)}
	if cfg.MemcacheAddr != "" {
		logger.Info("Using Memcache at %s for rate limit blocks", cfg.MemcacheAddr)
	}

	if cfg.RedisAddr == "" {
		return services
	}

	redisPublisher := publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	if err := redisPublisher.Ping(ctx); err != nil {
		logger.LogError("main", err, "Redis unreachable at %s, publishing disabled", cfg.RedisAddr)
		redisPublisher.Close()
		return services
	}
	services.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	return services
}
