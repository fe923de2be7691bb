// Package openalex implements a search client for the OpenAlex works API.
//
// OpenAlex does not return abstracts as plain text; it stores them as an
// inverted index mapping each word to its positions. The client
// reconstructs the abstract by sorting words back into position order.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
)

const (
	// DefaultBaseURL is the default base URL for the OpenAlex API.
	DefaultBaseURL = "https://api.openalex.org"

	// DefaultRateLimit is the default rate limit. OpenAlex allows up to
	// 10 requests per second for polite-pool users.
	DefaultRateLimit = 5.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 5

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 8 * time.Second

	// DefaultMaxResults is the default maximum number of results per search.
	DefaultMaxResults = 10

	// DefaultMailto joins the OpenAlex polite pool for better rate limits.
	DefaultMailto = "research@example.com"

	// sourceName is the human-readable name for this source.
	sourceName = "OpenAlex"
)

// Config contains configuration options for the OpenAlex client.
type Config struct {
	// BaseURL is the base URL for the API. Defaults to DefaultBaseURL.
	BaseURL string

	// Mailto is the contact email for the polite pool. Defaults to DefaultMailto.
	Mailto string

	// Timeout is the HTTP request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. Defaults to DefaultRateLimit.
	RateLimit float64

	// BurstSize is the maximum burst of requests. Defaults to DefaultBurstSize.
	BurstSize int

	// MaxResults caps results per search. Defaults to DefaultMaxResults.
	MaxResults int

	// Enabled indicates whether this source is enabled.
	Enabled bool
}

// Client implements the searchsources.SearchSource interface for OpenAlex.
type Client struct {
	httpClient *searchsources.HTTPClient
	config     Config
}

// Compile-time check that Client implements searchsources.SearchSource.
var _ searchsources.SearchSource = (*Client)(nil)

// New creates a new OpenAlex client. If httpClient is nil, one is
// created from the configuration settings.
func New(cfg Config, httpClient *searchsources.HTTPClient) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Mailto == "" {
		cfg.Mailto = DefaultMailto
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultMaxResults
	}

	if httpClient == nil {
		httpClient = searchsources.NewHTTPClient(searchsources.HTTPClientConfig{
			SourceName: sourceName,
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
			BurstSize:  cfg.BurstSize,
		})
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
	}
}

// Search queries OpenAlex for works matching the keyword query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.Candidate, error) {
	searchURL, err := c.buildSearchURL(query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, "search request failed", nil)
	}

	// Limit body to 10MB to prevent resource exhaustion.
	var searchResp searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toCandidates(searchResp.Results), nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeOpenAlex
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is currently enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// buildSearchURL constructs the works search URL with query parameters.
func (c *Client) buildSearchURL(query string, maxResults int) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	searchURL := baseURL.JoinPath("works")

	perPage := maxResults
	if perPage <= 0 || perPage > c.config.MaxResults {
		perPage = c.config.MaxResults
	}

	q := searchURL.Query()
	q.Set("search", query)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("mailto", c.config.Mailto)
	searchURL.RawQuery = q.Encode()

	return searchURL.String(), nil
}

// toCandidates maps API work entries to domain candidates.
func (c *Client) toCandidates(works []workEntry) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(works))
	for _, w := range works {
		title := w.Title
		if title == "" {
			title = w.DisplayName
		}
		candidates = append(candidates, domain.Candidate{
			Title:    title,
			Abstract: reconstructAbstract(w.AbstractInvertedIndex),
			URL:      w.ID,
			Source:   domain.SourceTypeOpenAlex,
		})
	}
	return candidates
}

// reconstructAbstract rebuilds abstract text from an OpenAlex inverted
// index, which maps each word to the list of positions it occupies.
func reconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}

	type positioned struct {
		pos  int
		word string
	}
	var words []positioned
	for word, positions := range index {
		for _, pos := range positions {
			words = append(words, positioned{pos: pos, word: word})
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].pos != words[j].pos {
			return words[i].pos < words[j].pos
		}
		return words[i].word < words[j].word
	})

	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.word
	}
	return strings.Join(parts, " ")
}
