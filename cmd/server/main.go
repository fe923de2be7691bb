// Package main provides the entry point for the paper analysis service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sauham/paper-bias-detection/internal/ai"
	"github.com/Sauham/paper-bias-detection/internal/analysis"
	"github.com/Sauham/paper-bias-detection/internal/bias"
	"github.com/Sauham/paper-bias-detection/internal/config"
	"github.com/Sauham/paper-bias-detection/internal/extraction"
	"github.com/Sauham/paper-bias-detection/internal/observability"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
	"github.com/Sauham/paper-bias-detection/internal/searchsources/arxiv"
	"github.com/Sauham/paper-bias-detection/internal/searchsources/ieee"
	"github.com/Sauham/paper-bias-detection/internal/searchsources/openalex"
	"github.com/Sauham/paper-bias-detection/internal/searchsources/paperfinder"
	"github.com/Sauham/paper-bias-detection/internal/searchsources/semanticscholar"
	httpserver "github.com/Sauham/paper-bias-detection/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("paper-bias-detection server starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	// AI providers in fallback order: Gemini first, OpenRouter second.
	var providers []ai.Generator
	if cfg.AI.Gemini.APIKey != "" {
		providers = append(providers, ai.NewGeminiProvider(ai.GeminiConfig{
			APIKey:     cfg.AI.Gemini.APIKey,
			Model:      cfg.AI.Gemini.Model,
			Timeout:    cfg.AI.Gemini.Timeout,
			MaxRetries: cfg.AI.Gemini.MaxRetries,
		}))
	}
	if cfg.AI.OpenRouter.APIKey != "" {
		providers = append(providers, ai.NewOpenRouterProvider(ai.OpenRouterConfig{
			APIKey:     cfg.AI.OpenRouter.APIKey,
			Model:      cfg.AI.OpenRouter.Model,
			Timeout:    cfg.AI.OpenRouter.Timeout,
			MaxRetries: cfg.AI.OpenRouter.MaxRetries,
		}))
	}
	logger.Info().Int("ai_providers", len(providers)).Msg("AI provider chain configured")

	registry := buildRegistry(cfg)
	for _, source := range registry.EnabledSources() {
		logger.Info().Str("source", source.Name()).Msg("search source enabled")
	}

	// The generative fallback uses the primary provider when available.
	var fallback searchsources.SearchSource
	if cfg.Search.PaperFinder.Enabled && len(providers) > 0 {
		fallback = paperfinder.New(paperfinder.Config{
			Enabled:    true,
			MaxResults: cfg.Search.PaperFinder.MaxResults,
		}, providers[0])
	}

	aggregator := analysis.NewAggregator(analysis.AggregatorConfig{
		MaxResultsPerSource: cfg.Analysis.MaxResultsPerSource,
		MinUniqueCandidates: cfg.Analysis.MinUniqueCandidates,
		SearchTimeout:       cfg.Analysis.SearchTimeout,
	}, registry, fallback, metrics, logger)

	var analyzer *bias.Analyzer
	if cfg.Bias.Enabled {
		cache := bias.NewCache(cfg.Bias.CacheTTL)
		analyzer = bias.NewAnalyzer(bias.Config{
			Enabled:       true,
			MaxInputChars: cfg.Bias.MaxInputChars,
		}, providers, cache, metrics, logger)
		if !analyzer.Enabled() {
			logger.Warn().Msg("bias analysis enabled but no AI provider configured")
		}
	}

	service := analysis.NewService(aggregator, analyzer, metrics, logger)
	extractor := extraction.NewExtractor(metrics, logger)

	httpSrv := httpserver.NewServer(httpserver.Config{
		Address:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
	}, service, extractor, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("http_port", cfg.Server.HTTPPort).
		Msg("paper-bias-detection server ready")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// buildRegistry constructs the search source registry from configuration.
func buildRegistry(cfg *config.Config) *searchsources.Registry {
	registry := searchsources.NewRegistry()

	registry.Register(semanticscholar.New(semanticscholar.Config{
		Enabled:    cfg.Search.SemanticScholar.Enabled,
		APIKey:     cfg.Search.SemanticScholar.APIKey,
		BaseURL:    cfg.Search.SemanticScholar.BaseURL,
		RateLimit:  cfg.Search.SemanticScholar.RateLimit,
		Timeout:    cfg.Search.SemanticScholar.Timeout,
		MaxResults: cfg.Analysis.MaxResultsPerSource,
	}, nil))

	registry.Register(openalex.New(openalex.Config{
		Enabled:    cfg.Search.OpenAlex.Enabled,
		BaseURL:    cfg.Search.OpenAlex.BaseURL,
		Mailto:     cfg.Search.OpenAlex.Mailto,
		RateLimit:  cfg.Search.OpenAlex.RateLimit,
		Timeout:    cfg.Search.OpenAlex.Timeout,
		MaxResults: cfg.Analysis.MaxResultsPerSource,
	}, nil))

	registry.Register(ieee.New(ieee.Config{
		Enabled:    cfg.Search.IEEE.Enabled,
		APIKey:     cfg.Search.IEEE.APIKey,
		BaseURL:    cfg.Search.IEEE.BaseURL,
		RateLimit:  cfg.Search.IEEE.RateLimit,
		Timeout:    cfg.Search.IEEE.Timeout,
		MaxResults: cfg.Analysis.MaxResultsPerSource,
	}, nil))

	registry.Register(arxiv.New(arxiv.Config{
		Enabled:    cfg.Search.ArXiv.Enabled,
		BaseURL:    cfg.Search.ArXiv.BaseURL,
		RateLimit:  cfg.Search.ArXiv.RateLimit,
		Timeout:    cfg.Search.ArXiv.Timeout,
		MaxResults: cfg.Analysis.MaxResultsPerSource,
	}, nil))

	return registry
}
