package searchsources

import (
	"context"
	"sync"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

// SourceResult holds the outcome of a search against one source.
type SourceResult struct {
	// Source identifies which search source produced the result.
	Source domain.SourceType

	// Candidates contains the candidates found. Empty on failure.
	Candidates []domain.Candidate

	// Error contains the error if the search failed, nil otherwise.
	Error error
}

// Registry manages search sources and coordinates concurrent searches.
// Registration and retrieval are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	sources map[domain.SourceType]SearchSource
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[domain.SourceType]SearchSource),
	}
}

// Register adds a source to the registry, replacing any existing source
// of the same type.
func (r *Registry) Register(source SearchSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.SourceType()] = source
}

// Get returns a source by type, or nil if not registered.
func (r *Registry) Get(sourceType domain.SourceType) SearchSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[sourceType]
}

// EnabledSources returns a snapshot of all sources whose IsEnabled
// reports true.
func (r *Registry) EnabledSources() []SearchSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]SearchSource, 0, len(r.sources))
	for _, source := range r.sources {
		if source.IsEnabled() {
			sources = append(sources, source)
		}
	}
	return sources
}

// SearchAll queries every enabled source concurrently and collects
// whatever completes before the context deadline. Sources still running
// when the deadline elapses are abandoned: their goroutines drain into a
// buffered channel and their eventual results are discarded. Errors are
// reported per source, not filtered; the caller decides how to handle
// them.
//
// Result ordering is not guaranteed and must not be relied upon.
func (r *Registry) SearchAll(ctx context.Context, query string, maxResults int) []SourceResult {
	sources := r.EnabledSources()
	if len(sources) == 0 {
		return nil
	}

	// Buffered to capacity so abandoned goroutines never block on send.
	resultChan := make(chan SourceResult, len(sources))
	for _, source := range sources {
		go func(s SearchSource) {
			candidates, err := s.Search(ctx, query, maxResults)
			resultChan <- SourceResult{
				Source:     s.SourceType(),
				Candidates: candidates,
				Error:      err,
			}
		}(source)
	}

	results := make([]SourceResult, 0, len(sources))
	for range sources {
		select {
		case result := <-resultChan:
			results = append(results, result)
		case <-ctx.Done():
			return results
		}
	}
	return results
}
