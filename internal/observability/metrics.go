package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the paper analysis service.
// Metrics are organized by subsystem: analyses, searches, candidates, AI
// providers, and extraction. All counters and histograms are registered via
// promauto for automatic registration with the default Prometheus registry.
type Metrics struct {
	// AnalysesStarted counts the total number of document analyses initiated.
	AnalysesStarted prometheus.Counter

	// AnalysesCompleted counts the total number of analyses that finished successfully.
	AnalysesCompleted prometheus.Counter

	// AnalysesFailed counts the total number of analyses that ended in failure.
	AnalysesFailed prometheus.Counter

	// AnalysisDuration observes the end-to-end duration of analyses in seconds.
	AnalysisDuration prometheus.Histogram

	// SearchesStarted counts searches initiated, labeled by search source.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful searches, labeled by search source.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed searches, labeled by search source.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes search duration in seconds, labeled by search source.
	SearchDuration *prometheus.HistogramVec

	// CandidatesPerSearch observes candidates returned per search, labeled by source.
	CandidatesPerSearch *prometheus.HistogramVec

	// CandidatesDiscovered counts the total number of unique candidates kept.
	CandidatesDiscovered prometheus.Counter

	// CandidatesDuplicate counts candidates dropped by title deduplication.
	CandidatesDuplicate prometheus.Counter

	// FallbackSearches counts invocations of the generative fallback source.
	FallbackSearches prometheus.Counter

	// BiasAnalyses counts bias analyses, labeled by provider and status.
	BiasAnalyses *prometheus.CounterVec

	// BiasCacheHits counts bias analysis results served from cache.
	BiasCacheHits prometheus.Counter

	// BiasCacheMisses counts bias analysis cache lookups that missed.
	BiasCacheMisses prometheus.Counter

	// AIRequestDuration observes AI provider request duration in seconds,
	// labeled by provider and model.
	AIRequestDuration *prometheus.HistogramVec

	// ExtractionsTotal counts PDF text extractions, labeled by outcome.
	ExtractionsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AnalysesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_started_total",
			Help:      "Total number of document analyses started",
		}),
		AnalysesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_completed_total",
			Help:      "Total number of document analyses completed successfully",
		}),
		AnalysesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_failed_total",
			Help:      "Total number of document analyses that failed",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of document analyses in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		}),

		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of candidate searches started by source",
		}, []string{"source"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of candidate searches completed by source",
		}, []string{"source"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of candidate searches that failed by source",
		}, []string{"source"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of candidate searches in seconds by source",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		CandidatesPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_per_search",
			Help:      "Number of candidates returned per search by source",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		}, []string{"source"}),

		CandidatesDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_discovered_total",
			Help:      "Total number of unique candidates kept after deduplication",
		}),
		CandidatesDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_duplicate_total",
			Help:      "Total number of candidates dropped as duplicates",
		}),
		FallbackSearches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_searches_total",
			Help:      "Total number of generative fallback searches invoked",
		}),

		BiasAnalyses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bias_analyses_total",
			Help:      "Total number of bias analyses by provider and status",
		}, []string{"provider", "status"}),
		BiasCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bias_cache_hits_total",
			Help:      "Total number of bias analyses served from cache",
		}),
		BiasCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bias_cache_misses_total",
			Help:      "Total number of bias analysis cache misses",
		}),
		AIRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "Duration of AI provider requests in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider", "model"}),

		ExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of PDF text extractions by outcome",
		}, []string{"outcome"}),
	}
}

// RecordAnalysisStarted records that a document analysis has started.
func (m *Metrics) RecordAnalysisStarted() {
	m.AnalysesStarted.Inc()
}

// RecordAnalysisCompleted records that a document analysis has completed.
func (m *Metrics) RecordAnalysisCompleted(durationSeconds float64) {
	m.AnalysesCompleted.Inc()
	m.AnalysisDuration.Observe(durationSeconds)
}

// RecordAnalysisFailed records that a document analysis has failed.
func (m *Metrics) RecordAnalysisFailed(durationSeconds float64) {
	m.AnalysesFailed.Inc()
	m.AnalysisDuration.Observe(durationSeconds)
}

// RecordSearchStarted records that a search has started.
func (m *Metrics) RecordSearchStarted(source string) {
	m.SearchesStarted.WithLabelValues(source).Inc()
}

// RecordSearchCompleted records that a search has completed.
func (m *Metrics) RecordSearchCompleted(source string, candidateCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
	m.CandidatesPerSearch.WithLabelValues(source).Observe(float64(candidateCount))
}

// RecordSearchFailed records that a search has failed.
func (m *Metrics) RecordSearchFailed(source string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordCandidatesKept records unique candidates kept after deduplication.
func (m *Metrics) RecordCandidatesKept(count int) {
	m.CandidatesDiscovered.Add(float64(count))
}

// RecordCandidatesDuplicate records candidates dropped as duplicates.
func (m *Metrics) RecordCandidatesDuplicate(count int) {
	m.CandidatesDuplicate.Add(float64(count))
}

// RecordFallbackSearch records an invocation of the generative fallback source.
func (m *Metrics) RecordFallbackSearch() {
	m.FallbackSearches.Inc()
}

// RecordBiasAnalysis records a bias analysis outcome. Status is one of
// "success", "failed", or "parse_error".
func (m *Metrics) RecordBiasAnalysis(provider, status string) {
	m.BiasAnalyses.WithLabelValues(provider, status).Inc()
}

// RecordBiasCacheHit records a bias analysis served from cache.
func (m *Metrics) RecordBiasCacheHit() {
	m.BiasCacheHits.Inc()
}

// RecordBiasCacheMiss records a bias analysis cache miss.
func (m *Metrics) RecordBiasCacheMiss() {
	m.BiasCacheMisses.Inc()
}

// RecordAIRequest records an AI provider request duration.
func (m *Metrics) RecordAIRequest(provider, model string, durationSeconds float64) {
	m.AIRequestDuration.WithLabelValues(provider, model).Observe(durationSeconds)
}

// RecordExtraction records a PDF text extraction outcome. Outcome is one
// of "ok", "weak", or "failed".
func (m *Metrics) RecordExtraction(outcome string) {
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
}
