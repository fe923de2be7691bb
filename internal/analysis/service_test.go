package analysis

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sauham/paper-bias-detection/internal/ai"
	"github.com/Sauham/paper-bias-detection/internal/bias"
	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
)

const sampleDocument = `Deep Learning for Molecular Property Prediction

Abstract
We propose a novel graph neural network architecture for molecular property prediction using learned message passing layers across thousands of compounds.

Methods
We trained the network on public molecular datasets with stratified splits and evaluated regression error against established baselines. DOI: 10.1234/example.5678

Conclusion
Graph neural networks outperform fingerprint baselines on molecular property prediction benchmarks, published in 2024.`

type stubGenerator struct {
	name     string
	response string
	err      error
	calls    int
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ ai.GenerationConfig) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubGenerator) Provider() string { return s.name }
func (s *stubGenerator) Model() string    { return "stub-model" }

const stubBiasResponse = `{
	"biases": [
		{
			"type": "selection",
			"severity": "moderate",
			"excerpt": "public molecular datasets",
			"explanation": "Public datasets may not represent the full chemical space.",
			"suggestion": "Include proprietary or newly collected compounds."
		}
	],
	"overall_score": 35,
	"summary": "Moderate dataset selection concerns.",
	"strengths": ["Clear baseline comparison"]
}`

func newTestService(analyzer *bias.Analyzer, sources ...searchsources.SearchSource) *Service {
	registry := searchsources.NewRegistry()
	for _, s := range sources {
		registry.Register(s)
	}
	agg := NewAggregator(AggregatorConfig{}, registry, nil, nil, zerolog.Nop())
	return NewService(agg, analyzer, nil, zerolog.Nop())
}

func TestAnalyzeText(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		source := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{
				{
					Title:    "Graph neural networks for molecular property prediction",
					Abstract: "A graph neural network architecture for molecular property prediction with message passing layers.",
					URL:      "https://example.org/gnn",
					Source:   domain.SourceTypeSemanticScholar,
				},
			},
		}
		generator := &stubGenerator{name: "gemini", response: stubBiasResponse}
		analyzer := bias.NewAnalyzer(bias.Config{Enabled: true}, []ai.Generator{generator}, nil, nil, zerolog.Nop())
		svc := newTestService(analyzer, source)

		report, err := svc.AnalyzeText(context.Background(), sampleDocument)
		require.NoError(t, err)
		require.NotNil(t, report)

		assert.Equal(t, "Deep Learning for Molecular Property Prediction", report.Metadata.Title)
		assert.Equal(t, "2024", report.Metadata.Year)
		assert.Equal(t, "10.1234/example.5678", report.Metadata.DOI)

		require.NotNil(t, report.Plagiarism)
		assert.Len(t, report.Plagiarism.Sections, 4)

		abstract := report.Plagiarism.Sections[domain.SectionAbstract]
		require.NotEmpty(t, abstract.Matches)
		assert.Greater(t, abstract.BestSimilarityPercent, 0.0)
		assert.Contains(t, abstract.Text, "graph neural network architecture")

		require.NotNil(t, report.Bias)
		assert.Equal(t, 35, report.Bias.OverallScore)
		assert.Equal(t, domain.SeverityModerate, report.Bias.Severity)
		assert.Equal(t, "gemini", report.Bias.Provider)
	})

	t.Run("empty input yields zero report", func(t *testing.T) {
		source := &fakeSource{name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true}
		svc := newTestService(nil, source)

		report, err := svc.AnalyzeText(context.Background(), "   \n\t  ")
		require.NoError(t, err)
		require.NotNil(t, report)

		require.NotNil(t, report.Plagiarism)
		assert.Equal(t, 0.0, report.Plagiarism.OverallPercent)
		assert.Equal(t, domain.SimilarityLow, report.Plagiarism.OverallCategory)
		require.Len(t, report.Plagiarism.Sections, 4)
		for _, name := range domain.SectionOrder {
			section := report.Plagiarism.Sections[name]
			assert.Equal(t, 0.0, section.BestSimilarityPercent)
			assert.Empty(t, section.Matches)
		}
		assert.Equal(t, 0, source.calls)
	})

	t.Run("no analyzer skips bias analysis", func(t *testing.T) {
		source := &fakeSource{name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true}
		svc := newTestService(nil, source)

		report, err := svc.AnalyzeText(context.Background(), sampleDocument)
		require.NoError(t, err)

		assert.Nil(t, report.Bias)
		require.NotNil(t, report.Plagiarism)
	})

	t.Run("all sources failing still yields a report", func(t *testing.T) {
		source := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			err: domain.NewExternalAPIError("semantic_scholar", 503, "unavailable", nil),
		}
		svc := newTestService(nil, source)

		report, err := svc.AnalyzeText(context.Background(), sampleDocument)
		require.NoError(t, err)

		require.NotNil(t, report.Plagiarism)
		assert.Zero(t, report.Plagiarism.OverallPercent)
		assert.Equal(t, domain.SimilarityLow, report.Plagiarism.OverallCategory)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		source := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{
				{Title: "Graph neural networks for molecular property prediction", Abstract: "message passing layers for molecular property prediction", URL: "https://example.org/gnn"},
				{Title: "Molecular fingerprint baselines reconsidered", Abstract: "fingerprint baselines for property prediction", URL: "https://example.org/fp"},
			},
		}
		svc := newTestService(nil, source)

		first, err := svc.AnalyzeText(context.Background(), sampleDocument)
		require.NoError(t, err)
		second, err := svc.AnalyzeText(context.Background(), sampleDocument)
		require.NoError(t, err)

		assert.Equal(t, first.Plagiarism, second.Plagiarism)
	})
}
