// Package analysis orchestrates the document analysis pipeline: text
// normalization, section extraction, multi-source candidate search,
// similarity scoring, and bias analysis, combined into a single report.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/observability"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
	"github.com/Sauham/paper-bias-detection/internal/textproc"
)

const (
	// DefaultMaxResultsPerSource caps how many candidates each source
	// is asked for.
	DefaultMaxResultsPerSource = 10

	// DefaultMinUniqueCandidates is the unique-candidate threshold below
	// which the generative fallback source is consulted.
	DefaultMinUniqueCandidates = 5

	// DefaultSearchTimeout bounds one round of fan-out searches.
	DefaultSearchTimeout = 15 * time.Second

	// minTitleKeyLength is the shortest title considered safe to
	// deduplicate on. Very short titles collide too easily.
	minTitleKeyLength = 10
)

// AggregatorConfig configures candidate aggregation.
type AggregatorConfig struct {
	MaxResultsPerSource int
	MinUniqueCandidates int
	SearchTimeout       time.Duration
}

// Aggregator gathers similarity candidates for a section of text. It
// builds a keyword query, fans the query out to all enabled search
// sources, deduplicates results by title, and falls back to a
// generative source when the regular sources return too few unique
// candidates.
type Aggregator struct {
	registry *searchsources.Registry
	fallback searchsources.SearchSource
	config   AggregatorConfig
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewAggregator creates an aggregator over the given registry. The
// fallback source may be nil; metrics may be nil to disable recording.
func NewAggregator(cfg AggregatorConfig, registry *searchsources.Registry, fallback searchsources.SearchSource, metrics *observability.Metrics, logger zerolog.Logger) *Aggregator {
	if cfg.MaxResultsPerSource <= 0 {
		cfg.MaxResultsPerSource = DefaultMaxResultsPerSource
	}
	if cfg.MinUniqueCandidates <= 0 {
		cfg.MinUniqueCandidates = DefaultMinUniqueCandidates
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	return &Aggregator{
		registry: registry,
		fallback: fallback,
		config:   cfg,
		metrics:  metrics,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// Collect returns deduplicated candidates for a section text. An empty
// or keyword-free text yields no candidates and no searches. Source
// failures are logged and skipped; a section with all sources failing
// simply gets an empty candidate list.
func (a *Aggregator) Collect(ctx context.Context, sectionText string) []domain.Candidate {
	query := textproc.BuildQuery(sectionText, textproc.DefaultMaxKeywords)
	if query == "" {
		return nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, a.config.SearchTimeout)
	defer cancel()

	if a.metrics != nil {
		for _, source := range a.registry.EnabledSources() {
			a.metrics.RecordSearchStarted(string(source.SourceType()))
		}
	}

	start := time.Now()
	results := a.registry.SearchAll(searchCtx, query, a.config.MaxResultsPerSource)

	var raw []domain.Candidate
	for _, result := range results {
		elapsed := time.Since(start).Seconds()
		if result.Error != nil {
			searchLogger := observability.WithSearchContext(a.logger, query, string(result.Source))
			searchLogger.Warn().
				Err(result.Error).
				Msg("search source failed")
			if a.metrics != nil {
				a.metrics.RecordSearchFailed(string(result.Source), elapsed)
			}
			continue
		}
		if a.metrics != nil {
			a.metrics.RecordSearchCompleted(string(result.Source), len(result.Candidates), elapsed)
		}
		raw = append(raw, result.Candidates...)
	}

	unique, duplicates := dedupeByTitle(raw)

	if len(unique) < a.config.MinUniqueCandidates && a.fallback != nil && a.fallback.IsEnabled() {
		a.logger.Info().
			Int("unique", len(unique)).
			Int("threshold", a.config.MinUniqueCandidates).
			Msg("too few candidates, invoking fallback source")
		if a.metrics != nil {
			a.metrics.RecordFallbackSearch()
		}
		extra, err := a.fallback.Search(ctx, query, a.config.MaxResultsPerSource)
		if err != nil {
			a.logger.Warn().Err(err).Msg("fallback source failed")
		} else {
			merged, moreDups := dedupeByTitle(append(unique, extra...))
			unique = merged
			duplicates += moreDups
		}
	}

	if a.metrics != nil {
		a.metrics.RecordCandidatesKept(len(unique))
		a.metrics.RecordCandidatesDuplicate(duplicates)
	}

	a.logger.Debug().
		Str("query", query).
		Int("candidates", len(unique)).
		Int("duplicates", duplicates).
		Msg("candidate collection complete")
	return unique
}

// dedupeByTitle drops candidates whose normalized title was already
// seen, keeping first occurrences. Titles too short to be distinctive
// are kept unconditionally. Returns the survivors and the drop count.
func dedupeByTitle(candidates []domain.Candidate) ([]domain.Candidate, int) {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]domain.Candidate, 0, len(candidates))
	duplicates := 0

	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Title))
		if len(key) < minTitleKeyLength {
			unique = append(unique, c)
			continue
		}
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	return unique, duplicates
}
