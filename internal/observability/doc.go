// Package observability provides logging and metrics support for the
// paper analysis service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for analyses, searches, and AI providers
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("analysis started")
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("paper_analysis")
//
// Record metrics:
//
//	metrics.RecordAnalysisStarted()
//	metrics.RecordSearchCompleted("semantic_scholar", 12, 0.8)
//	metrics.RecordBiasCacheHit()
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: Analysis request identifier
//   - section: Paper section name (Title, Abstract, Methodology, Conclusions)
//   - source: Search source (semantic_scholar, openalex, ieee, arxiv, paper_finder)
//   - provider: AI provider (gemini, openrouter)
//   - query: Generated search query
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
