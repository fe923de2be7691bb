package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sauham/paper-bias-detection/internal/bias"
	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/observability"
	"github.com/Sauham/paper-bias-detection/internal/textproc"
)

// Service runs the full analysis pipeline over a document's raw text.
type Service struct {
	aggregator *Aggregator
	analyzer   *bias.Analyzer
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewService creates the analysis service. The bias analyzer may be nil
// when bias analysis is disabled entirely; metrics may be nil.
func NewService(aggregator *Aggregator, analyzer *bias.Analyzer, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		aggregator: aggregator,
		analyzer:   analyzer,
		metrics:    metrics,
		logger:     logger.With().Str("component", "analysis_service").Logger(),
	}
}

// AnalyzeText runs normalization, section extraction, the similarity
// pipeline, and bias analysis over raw document text. Individual source
// and provider failures degrade the corresponding parts of the report.
// Empty text is not an error: it produces a zero report with all four
// sections empty, overall percent 0, and category Low.
func (s *Service) AnalyzeText(ctx context.Context, rawText string) (*domain.AnalysisReport, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordAnalysisStarted()
	}

	text := textproc.Normalize(rawText)
	sections := textproc.ExtractSections(text)
	metadata := textproc.ExtractMetadata(text)

	logger := observability.WithAnalysisContext(s.logger, "", metadata.Title)
	logger.Info().Int("chars", len(text)).Msg("starting document analysis")

	sectionReports := make(map[domain.SectionName]domain.SectionReport, len(domain.SectionOrder))
	for _, name := range domain.SectionOrder {
		sectionText := sections[name]
		if len(strings.TrimSpace(sectionText)) < minSectionLength {
			sectionReports[name] = buildSectionReport(sectionText, nil)
			continue
		}
		candidates := s.aggregator.Collect(ctx, sectionText)
		sectionReports[name] = buildSectionReport(sectionText, candidates)
		sectionLogger := observability.WithSectionContext(logger, string(name))
		sectionLogger.Debug().
			Int("candidates", len(candidates)).
			Float64("best_percent", sectionReports[name].BestSimilarityPercent).
			Msg("section scored")
	}

	report := &domain.AnalysisReport{
		Metadata:   metadata,
		Plagiarism: buildPlagiarismReport(sectionReports),
	}

	if s.analyzer != nil && s.analyzer.Enabled() {
		biasResult := s.analyzer.AnalyzeSections(ctx, sections)
		report.Bias = &biasResult
		if s.metrics != nil {
			status := "success"
			if biasResult.Error != "" {
				status = "failed"
			}
			s.metrics.RecordBiasAnalysis(biasResult.Provider, status)
		}
	}

	elapsed := time.Since(start).Seconds()
	if s.metrics != nil {
		s.metrics.RecordAnalysisCompleted(elapsed)
	}
	logger.Info().
		Float64("overall_percent", report.Plagiarism.OverallPercent).
		Float64("duration_seconds", elapsed).
		Msg("document analysis complete")
	return report, nil
}
