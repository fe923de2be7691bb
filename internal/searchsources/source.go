// Package searchsources provides clients for external scholarly search
// services.
//
// Each service (Semantic Scholar, OpenAlex, IEEE Xplore, arXiv, plus an
// optional generative paper finder) implements the SearchSource
// interface, allowing the analysis pipeline to search every source
// concurrently through a unified API. Shared plumbing for rate limiting
// and retrying HTTP requests lives here as well.
//
// Example usage:
//
//	source := semanticscholar.New(cfg, nil)
//	candidates, err := source.Search(ctx, "quantum error correction", 10)
package searchsources

import (
	"context"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

// SearchSource is the interface implemented by every scholarly search
// client.
type SearchSource interface {
	// Search queries the source for papers matching the keyword query
	// and returns at most maxResults candidates. The context carries
	// cancellation and deadline; implementations must respect it.
	//
	// Implementations should:
	//   - Apply their own rate limiting and timeout
	//   - Map source-specific response shapes to domain.Candidate
	//   - Wrap errors with source context
	Search(ctx context.Context, query string, maxResults int) ([]domain.Candidate, error)

	// SourceType returns the type identifier for this source.
	// Used for attribution and metrics.
	SourceType() domain.SourceType

	// Name returns a human-readable name for this source.
	Name() string

	// IsEnabled reports whether this source is available for searches.
	// A source may be disabled by configuration or a missing API key.
	IsEnabled() bool
}
