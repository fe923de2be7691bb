package analysis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/observability"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
)

type fakeSource struct {
	name       string
	sourceType domain.SourceType
	candidates []domain.Candidate
	err        error
	enabled    bool
	calls      int
	queries    []string
}

func (f *fakeSource) Search(_ context.Context, query string, _ int) ([]domain.Candidate, error) {
	f.calls++
	f.queries = append(f.queries, query)
	return f.candidates, f.err
}

func (f *fakeSource) SourceType() domain.SourceType { return f.sourceType }
func (f *fakeSource) Name() string                  { return f.name }
func (f *fakeSource) IsEnabled() bool               { return f.enabled }

const sampleSection = "We propose a novel graph neural network approach for molecular property prediction using learned message passing."

func candidate(title string) domain.Candidate {
	return domain.Candidate{
		Title:    title,
		Abstract: "An abstract about " + title,
		URL:      "https://example.org/" + title,
		Source:   domain.SourceTypeSemanticScholar,
	}
}

func newTestAggregator(fallback searchsources.SearchSource, sources ...searchsources.SearchSource) *Aggregator {
	registry := searchsources.NewRegistry()
	for _, s := range sources {
		registry.Register(s)
	}
	return NewAggregator(AggregatorConfig{}, registry, fallback, nil, zerolog.Nop())
}

func TestCollect(t *testing.T) {
	t.Run("merges candidates from all sources", func(t *testing.T) {
		s1 := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{candidate("graph networks for molecules"), candidate("message passing revisited")},
		}
		s2 := &fakeSource{
			name: "openalex", sourceType: domain.SourceTypeOpenAlex, enabled: true,
			candidates: []domain.Candidate{
				candidate("property prediction benchmarks"),
				candidate("molecular representation learning"),
				candidate("neural molecular fingerprints"),
			},
		}
		agg := newTestAggregator(nil, s1, s2)

		got := agg.Collect(context.Background(), sampleSection)

		assert.Len(t, got, 5)
		assert.Equal(t, 1, s1.calls)
		assert.Equal(t, 1, s2.calls)
	})

	t.Run("deduplicates by title across sources", func(t *testing.T) {
		shared := candidate("molecular representation learning")
		s1 := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{shared, candidate("message passing revisited"), candidate("graph networks for molecules"), candidate("property prediction benchmarks"), candidate("neural molecular fingerprints")},
		}
		dupe := shared
		dupe.Title = "  Molecular Representation LEARNING "
		dupe.Source = domain.SourceTypeOpenAlex
		s2 := &fakeSource{
			name: "openalex", sourceType: domain.SourceTypeOpenAlex, enabled: true,
			candidates: []domain.Candidate{dupe},
		}
		agg := newTestAggregator(nil, s1, s2)

		got := agg.Collect(context.Background(), sampleSection)

		assert.Len(t, got, 5)
		titles := make(map[string]int)
		for _, c := range got {
			titles[c.Title]++
		}
		for title, n := range titles {
			assert.Equal(t, 1, n, "title %q appears more than once", title)
		}
	})

	t.Run("short titles are never deduplicated", func(t *testing.T) {
		unique, dropped := dedupeByTitle([]domain.Candidate{
			candidate("GNN"),
			candidate("GNN"),
			candidate("a much longer distinctive title"),
			candidate("a much longer distinctive title"),
		})

		assert.Len(t, unique, 3)
		assert.Equal(t, 1, dropped)
	})

	t.Run("empty text searches nothing", func(t *testing.T) {
		s1 := &fakeSource{name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true}
		agg := newTestAggregator(nil, s1)

		got := agg.Collect(context.Background(), "   ")

		assert.Nil(t, got)
		assert.Equal(t, 0, s1.calls)
	})

	t.Run("source failures are skipped", func(t *testing.T) {
		good := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{candidate("graph networks for molecules")},
		}
		bad := &fakeSource{
			name: "ieee", sourceType: domain.SourceTypeIEEE, enabled: true,
			err: domain.NewExternalAPIError("ieee", 403, "forbidden", nil),
		}
		agg := newTestAggregator(nil, good, bad)

		got := agg.Collect(context.Background(), sampleSection)

		require.Len(t, got, 1)
		assert.Equal(t, "graph networks for molecules", got[0].Title)
	})
}

func TestCollectFallback(t *testing.T) {
	t.Run("invoked when too few unique candidates", func(t *testing.T) {
		s1 := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{candidate("graph networks for molecules")},
		}
		fallback := &fakeSource{
			name: "paper_finder", sourceType: domain.SourceTypePaperFinder, enabled: true,
			candidates: []domain.Candidate{candidate("suggested related work"), candidate("another suggestion entirely")},
		}
		agg := newTestAggregator(fallback, s1)

		got := agg.Collect(context.Background(), sampleSection)

		assert.Equal(t, 1, fallback.calls)
		assert.Len(t, got, 3)
	})

	t.Run("fallback results are deduplicated against existing", func(t *testing.T) {
		s1 := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{candidate("graph networks for molecules")},
		}
		fallback := &fakeSource{
			name: "paper_finder", sourceType: domain.SourceTypePaperFinder, enabled: true,
			candidates: []domain.Candidate{candidate("graph networks for molecules"), candidate("another suggestion entirely")},
		}
		agg := newTestAggregator(fallback, s1)

		got := agg.Collect(context.Background(), sampleSection)

		assert.Len(t, got, 2)
	})

	t.Run("not invoked when enough candidates", func(t *testing.T) {
		s1 := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{
				candidate("graph networks for molecules"),
				candidate("message passing revisited"),
				candidate("property prediction benchmarks"),
				candidate("molecular representation learning"),
				candidate("neural molecular fingerprints"),
			},
		}
		fallback := &fakeSource{name: "paper_finder", sourceType: domain.SourceTypePaperFinder, enabled: true}
		agg := newTestAggregator(fallback, s1)

		agg.Collect(context.Background(), sampleSection)

		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("not invoked when disabled", func(t *testing.T) {
		s1 := &fakeSource{name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true}
		fallback := &fakeSource{name: "paper_finder", sourceType: domain.SourceTypePaperFinder, enabled: false}
		agg := newTestAggregator(fallback, s1)

		agg.Collect(context.Background(), sampleSection)

		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("fallback failure keeps existing candidates", func(t *testing.T) {
		s1 := &fakeSource{
			name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
			candidates: []domain.Candidate{candidate("graph networks for molecules")},
		}
		fallback := &fakeSource{
			name: "paper_finder", sourceType: domain.SourceTypePaperFinder, enabled: true,
			err: domain.NewExternalAPIError("paper_finder", 500, "upstream error", nil),
		}
		agg := newTestAggregator(fallback, s1)

		got := agg.Collect(context.Background(), sampleSection)

		require.Len(t, got, 1)
	})
}

func TestCollectMetrics(t *testing.T) {
	metrics := observability.NewMetrics("test_aggregator_metrics")
	source := &fakeSource{
		name: "semantic_scholar", sourceType: domain.SourceTypeSemanticScholar, enabled: true,
		candidates: []domain.Candidate{candidate("graph networks for molecules")},
	}
	registry := searchsources.NewRegistry()
	registry.Register(source)
	agg := NewAggregator(AggregatorConfig{}, registry, nil, metrics, zerolog.Nop())

	agg.Collect(context.Background(), sampleSection)

	started := metrics.SearchesStarted.WithLabelValues(string(domain.SourceTypeSemanticScholar))
	completed := metrics.SearchesCompleted.WithLabelValues(string(domain.SourceTypeSemanticScholar))
	assert.Equal(t, float64(1), testutil.ToFloat64(started))
	assert.Equal(t, float64(1), testutil.ToFloat64(completed))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CandidatesDiscovered))
}
