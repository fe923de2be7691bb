package bias

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sauham/paper-bias-detection/internal/ai"
	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/observability"
)

const (
	// DefaultMaxInputChars is the character budget for text sent to a
	// provider. Longer inputs are truncated with a trailing marker; this
	// is a deliberate lossy policy to stay within context limits.
	DefaultMaxInputChars = 30000

	// truncationMarker is appended to truncated input text.
	truncationMarker = "\n\n[Text truncated for analysis]"

	// combinedSectionName labels a whole-paper analysis built from
	// multiple sections.
	combinedSectionName = "Full Paper"
)

// defaultGenerationConfig keeps analysis output consistent across calls.
var defaultGenerationConfig = ai.GenerationConfig{
	Temperature:     0.3,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 8192,
}

// Config configures an Analyzer.
type Config struct {
	// Enabled switches bias analysis on. When false every call returns
	// a zero-score result marked disabled.
	Enabled bool

	// MaxInputChars overrides the input truncation budget.
	// Defaults to DefaultMaxInputChars.
	MaxInputChars int
}

// Analyzer runs bias analysis through an ordered chain of generative-AI
// providers. Providers are tried in order until one returns a response;
// later providers only see traffic when earlier ones fail.
type Analyzer struct {
	providers []ai.Generator
	cache     *Cache
	config    Config
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewAnalyzer creates an analyzer over the given provider chain. The
// cache may be shared between analyzers; if nil a private one with the
// default TTL is created. Metrics may be nil to disable recording. An
// empty provider chain disables analysis.
func NewAnalyzer(cfg Config, providers []ai.Generator, cache *Cache, metrics *observability.Metrics, logger zerolog.Logger) *Analyzer {
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = DefaultMaxInputChars
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	if len(providers) == 0 {
		cfg.Enabled = false
	}
	return &Analyzer{
		providers: providers,
		cache:     cache,
		config:    cfg,
		metrics:   metrics,
		logger:    logger.With().Str("component", "bias_analyzer").Logger(),
	}
}

// Enabled reports whether the analyzer will perform analysis.
func (a *Analyzer) Enabled() bool {
	return a.config.Enabled
}

// AnalyzeText analyzes a piece of academic text for biases. The section
// name, when known, is attached to every finding. Results are cached by
// content hash; provider and parse failures degrade to a neutral result
// that is never cached.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, sectionName string) domain.BiasAnalysisResult {
	if !a.config.Enabled {
		return disabledResult()
	}

	if cached, ok := a.cache.Get(text); ok {
		a.logger.Debug().Str("section", sectionName).Msg("bias cache hit")
		if a.metrics != nil {
			a.metrics.RecordBiasCacheHit()
		}
		return cached
	}
	if a.metrics != nil {
		a.metrics.RecordBiasCacheMiss()
	}

	prompt := BuildPrompt(a.truncate(text), sectionName)

	responseText, providerName, chainErr := a.callChain(ctx, prompt)
	if chainErr != "" {
		a.logger.Warn().Str("error", chainErr).Msg("all bias providers failed")
		return domain.BiasAnalysisResult{
			OverallScore: neutralScore,
			Severity:     domain.SeverityModerate,
			Summary:      fmt.Sprintf("Analysis failed: %s", chainErr),
			Biases:       []domain.BiasInstance{},
			Strengths:    []string{},
			Error:        chainErr,
		}
	}

	parsed, failure := ParseResponse(responseText)
	if failure != nil {
		a.logger.Error().
			Str("provider", providerName).
			Str("reason", failure.Reason).
			Msg("failed to parse bias analysis response")
		return domain.BiasAnalysisResult{
			OverallScore: neutralScore,
			Severity:     domain.SeverityModerate,
			Summary:      "Failed to parse bias analysis response.",
			Biases:       []domain.BiasInstance{},
			Strengths:    []string{},
			Error:        failure.Reason,
		}
	}

	result := a.toResult(parsed, sectionName, providerName)
	a.cache.Set(text, result)

	a.logger.Info().
		Str("provider", providerName).
		Int("score", result.OverallScore).
		Int("biases", len(result.Biases)).
		Msg("bias analysis complete")
	return result
}

// AnalyzeSections analyzes multiple paper sections as one combined text.
// Sections are concatenated in the fixed document order with headers so
// the model sees the paper's structure.
func (a *Analyzer) AnalyzeSections(ctx context.Context, sections map[domain.SectionName]string) domain.BiasAnalysisResult {
	if !a.config.Enabled {
		return disabledResult()
	}

	var sb strings.Builder
	for _, name := range domain.SectionOrder {
		text := strings.TrimSpace(sections[name])
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n\n=== %s ===\n%s", strings.ToUpper(string(name)), text)
	}

	combined := sb.String()
	if strings.TrimSpace(combined) == "" {
		return domain.BiasAnalysisResult{
			OverallScore: 0,
			Severity:     domain.SeverityLow,
			Summary:      "No text provided for analysis.",
			Biases:       []domain.BiasInstance{},
			Strengths:    []string{},
			Error:        "empty input",
		}
	}

	return a.AnalyzeText(ctx, combined, combinedSectionName)
}

// callChain tries each provider in order and returns the first
// successful response together with the provider's name. When every
// provider fails the combined error description is returned instead.
func (a *Analyzer) callChain(ctx context.Context, prompt string) (responseText, providerName, chainErr string) {
	var failures []string
	for _, provider := range a.providers {
		start := time.Now()
		text, err := provider.Generate(ctx, prompt, defaultGenerationConfig)
		if a.metrics != nil {
			a.metrics.RecordAIRequest(provider.Provider(), provider.Model(), time.Since(start).Seconds())
		}
		if err == nil && text != "" {
			return text, provider.Provider(), ""
		}
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		providerLogger := observability.WithProviderContext(a.logger, provider.Provider(), provider.Model())
		providerLogger.Warn().
			Err(err).
			Msg("bias provider failed, trying next")
		failures = append(failures, fmt.Sprintf("%s: %v", provider.Provider(), err))
	}
	return "", "", strings.Join(failures, "; ")
}

// truncate enforces the input character budget.
func (a *Analyzer) truncate(text string) string {
	if len(text) <= a.config.MaxInputChars {
		return text
	}
	a.logger.Warn().
		Int("original_chars", len(text)).
		Int("max_chars", a.config.MaxInputChars).
		Msg("truncating input text")
	return text[:a.config.MaxInputChars] + truncationMarker
}

// toResult converts a parsed response into the domain result shape.
func (a *Analyzer) toResult(parsed *ParsedResponse, sectionName, providerName string) domain.BiasAnalysisResult {
	biases := make([]domain.BiasInstance, 0, len(parsed.Biases))
	for _, b := range parsed.Biases {
		severity := domain.BiasSeverity(b.Severity)
		if severity == "" {
			severity = domain.SeverityModerate
		}
		biases = append(biases, domain.BiasInstance{
			Type:        domain.BiasType(b.Type),
			Severity:    severity,
			Excerpt:     b.Excerpt,
			Explanation: b.Explanation,
			Suggestion:  b.Suggestion,
			Section:     sectionName,
		})
	}

	strengths := parsed.Strengths
	if strengths == nil {
		strengths = []string{}
	}

	return domain.BiasAnalysisResult{
		OverallScore: parsed.OverallScore,
		Severity:     domain.SeverityForScore(parsed.OverallScore),
		Summary:      parsed.Summary,
		Biases:       biases,
		Strengths:    strengths,
		Provider:     providerName,
	}
}

// disabledResult is returned when analysis is switched off.
func disabledResult() domain.BiasAnalysisResult {
	return domain.BiasAnalysisResult{
		OverallScore: 0,
		Severity:     domain.SeverityLow,
		Summary:      "Bias analysis is disabled.",
		Biases:       []domain.BiasInstance{},
		Strengths:    []string{},
		Error:        "bias analysis disabled",
	}
}
