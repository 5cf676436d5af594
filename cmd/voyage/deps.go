package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/voyagegraph/voyage-core/internal/application/handlers"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
	"github.com/voyagegraph/voyage-core/internal/domain/services"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/cache/memory"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/cache/sqlitecache"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/config"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/corpus"
	"github.com/voyagegraph/voyage-core/internal/infrastructure/kb/wikidata"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and caches are internal.
type Deps struct {
	Config           *config.Config
	Logger           *log.Logger
	ExtractHandler   *handlers.ExtractHandler
	BuildHandler     *handlers.BuildHandler
	RecommendHandler *handlers.RecommendHandler
	StatsHandler     *handlers.StatsHandler
	ExportHandler    *handlers.ExportHandler
	EnrichHandler    *handlers.EnrichHandler
	ClearHandler     *handlers.ClearHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Logging.Level)

	resolver := services.NewResolver()
	extractor, err := services.NewExtractor(resolver, services.NewGazetteer(resolver), memory.NewExtractionCache(), services.ExtractorParams{
		MinConfidence: cfg.Extraction.MinConfidence,
		ContextRunes:  cfg.Extraction.ContextRunes,
		Workers:       cfg.Extraction.Workers,
	})
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}

	params := services.EngineParams{
		Extractor:   extractor,
		Builder:     services.NewGraphBuilder(),
		Recommender: services.NewRecommendationService(resolver),
	}

	if cfg.Enrichment.Enabled {
		kbClient, err := wikidata.New(cfg.Enrichment.Endpoint, cfg.Enrichment.Timeout.Std())
		if err != nil {
			return fmt.Errorf("creating knowledge base client: %w", err)
		}

		enrichmentCache, err := openEnrichmentCache(cfg, cwd, logger)
		if err != nil {
			return err
		}

		enricher, err := services.NewEnricher(kbClient, enrichmentCache, resolver, logger, services.EnricherParams{
			TTL:     cfg.Enrichment.TTL.Std(),
			Timeout: cfg.Enrichment.Timeout.Std(),
		})
		if err != nil {
			return fmt.Errorf("creating enricher: %w", err)
		}
		params.Enricher = enricher
		params.EnrichmentCache = enrichmentCache
	}

	engine, err := services.NewEngine(params)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	// Commands run in separate processes; the persisted corpus is what lets
	// recommend/stats/export see the graph a previous build produced.
	store, err := corpus.NewStore(config.CorpusPath(cwd))
	if err != nil {
		return fmt.Errorf("creating corpus store: %w", err)
	}
	docs, err := store.Load(context.Background())
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(docs) > 0 {
		engine.LoadCorpus(docs)
	}

	deps := &Deps{
		Config:           cfg,
		Logger:           logger,
		ExtractHandler:   handlers.NewExtractHandler(engine),
		BuildHandler:     handlers.NewBuildHandler(engine, store),
		RecommendHandler: handlers.NewRecommendHandler(engine),
		StatsHandler:     handlers.NewStatsHandler(engine),
		ExportHandler:    handlers.NewExportHandler(engine),
		EnrichHandler:    handlers.NewEnrichHandler(engine),
		ClearHandler:     handlers.NewClearHandler(engine),
	}

	return fn(deps)
}

// openEnrichmentCache opens the durable enrichment cache, degrading to an
// in-memory cache when the database cannot be opened.
func openEnrichmentCache(cfg *config.Config, cwd string, logger *log.Logger) (ports.EnrichmentCache, error) {
	path := cfg.EnrichmentCachePath(cwd)
	cache, err := sqlitecache.New(path)
	if err != nil {
		logger.Warn("enrichment cache unavailable, using in-memory cache", "path", path, "err", err)
		return memory.NewEnrichmentCache(), nil
	}
	if err := cache.EnsureSchema(context.Background()); err != nil {
		cache.Close()
		return nil, fmt.Errorf("ensuring cache schema: %w", err)
	}
	return cache, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "voyage",
	})
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}
