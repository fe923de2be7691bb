// Package paperfinder implements a generative fallback search source.
//
// When the scholarly APIs return too few candidates, this source asks a
// language model to enumerate plausibly-real related papers. The model
// must answer with a strict JSON array; anything else discards the call
// entirely. Results are best-effort leads, not verified records.
package paperfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sauham/paper-bias-detection/internal/ai"
	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
)

const (
	// DefaultMaxResults is the default number of papers to request.
	DefaultMaxResults = 5

	// maxExcerptLength caps the excerpt included in the prompt.
	maxExcerptLength = 2000

	// sourceName is the human-readable name for this source.
	sourceName = "Paper Finder"
)

// generationConfig keeps the model deterministic and the answer short.
var generationConfig = ai.GenerationConfig{
	Temperature:     0.2,
	MaxOutputTokens: 2048,
}

// Config contains configuration options for the paper finder.
type Config struct {
	// MaxResults is the number of papers to request from the model.
	// Defaults to DefaultMaxResults.
	MaxResults int

	// Enabled indicates whether this source is enabled.
	Enabled bool
}

// Client implements the searchsources.SearchSource interface backed by a
// text-generation provider.
type Client struct {
	generator ai.Generator
	config    Config
}

// Compile-time check that Client implements searchsources.SearchSource.
var _ searchsources.SearchSource = (*Client)(nil)

// finderEntry is the JSON shape the model is instructed to return.
type finderEntry struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
}

// New creates a new generative paper finder using the given generator.
func New(cfg Config, generator ai.Generator) *Client {
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	return &Client{
		generator: generator,
		config:    cfg,
	}
}

// Search asks the language model for papers related to the query text.
// Any network or parse failure discards the call.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.Candidate, error) {
	if c.generator == nil {
		return nil, domain.ErrMissingCredentials
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	limit := maxResults
	if limit <= 0 || limit > c.config.MaxResults {
		limit = c.config.MaxResults
	}

	response, err := c.generator.Generate(ctx, buildPrompt(query, limit), generationConfig)
	if err != nil {
		return nil, fmt.Errorf("generating paper list: %w", err)
	}

	entries, err := parsePaperArray(response)
	if err != nil {
		return nil, fmt.Errorf("parsing paper list: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Title:    e.Title,
			Abstract: e.Abstract,
			URL:      e.URL,
			Source:   domain.SourceTypePaperFinder,
		})
		if len(candidates) >= limit {
			break
		}
	}
	return candidates, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypePaperFinder
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled and has a generator.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled && c.generator != nil
}

// buildPrompt constructs the instruction sent to the model.
func buildPrompt(excerpt string, limit int) string {
	if len(excerpt) > maxExcerptLength {
		excerpt = excerpt[:maxExcerptLength]
	}

	var sb strings.Builder
	sb.WriteString("You are an academic search assistant. Given an excerpt from a ")
	sb.WriteString("research paper, list real published papers that cover closely ")
	sb.WriteString("related work.\n\n")
	fmt.Fprintf(&sb, "List up to %d papers.\n", limit)
	sb.WriteString("Respond ONLY with a JSON array in exactly this format, with no other text:\n")
	sb.WriteString(`[{"title": "paper title", "abstract": "one-sentence summary", "url": "link or empty string"}]`)
	sb.WriteString("\n\nExcerpt:\n\"\"\"\n")
	sb.WriteString(excerpt)
	sb.WriteString("\n\"\"\"")
	return sb.String()
}

// parsePaperArray extracts a strict JSON array from the model response,
// tolerating surrounding prose and markdown fences but nothing else.
func parsePaperArray(response string) ([]finderEntry, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var entries []finderEntry
	if err := json.Unmarshal([]byte(response[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}
	return entries, nil
}
