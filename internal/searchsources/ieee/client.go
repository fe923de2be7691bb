// Package ieee implements a search client for the IEEE Xplore metadata API.
//
// IEEE Xplore requires an API key. When no key is configured the client
// reports itself disabled and Search returns empty immediately without
// making a network call.
package ieee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/searchsources"
)

const (
	// DefaultBaseURL is the default base URL for the IEEE Xplore metadata API.
	DefaultBaseURL = "https://ieeexploreapi.ieee.org/api/v1"

	// DefaultRateLimit is the default rate limit. IEEE allows 10 calls
	// per second on the free tier.
	DefaultRateLimit = 2.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 2

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 8 * time.Second

	// DefaultMaxResults is the default maximum number of records per search.
	// Kept small for speed.
	DefaultMaxResults = 10

	// documentBaseURL is used to build a paper URL when the API omits one.
	documentBaseURL = "https://ieeexplore.ieee.org/document/"

	// sourceName is the human-readable name for this source.
	sourceName = "IEEE Xplore"
)

// Config contains configuration options for the IEEE Xplore client.
type Config struct {
	// BaseURL is the base URL for the API. Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is the required API key. Without it the source is disabled.
	APIKey string

	// Timeout is the HTTP request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. Defaults to DefaultRateLimit.
	RateLimit float64

	// BurstSize is the maximum burst of requests. Defaults to DefaultBurstSize.
	BurstSize int

	// MaxResults caps records per search. Defaults to DefaultMaxResults.
	MaxResults int

	// Enabled indicates whether this source is enabled. Even when true,
	// a missing APIKey keeps the source disabled.
	Enabled bool
}

// Client implements the searchsources.SearchSource interface for IEEE Xplore.
type Client struct {
	httpClient *searchsources.HTTPClient
	config     Config
}

// Compile-time check that Client implements searchsources.SearchSource.
var _ searchsources.SearchSource = (*Client)(nil)

// New creates a new IEEE Xplore client. If httpClient is nil, one is
// created from the configuration settings.
func New(cfg Config, httpClient *searchsources.HTTPClient) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
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

// Search queries IEEE Xplore for articles matching the keyword query.
// Returns empty without a network call when no API key is configured.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.Candidate, error) {
	if c.config.APIKey == "" {
		return nil, nil
	}

	searchURL, err := c.buildSearchURL(query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

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

	return c.toCandidates(searchResp.Articles), nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeIEEE
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled and has credentials.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled && c.config.APIKey != ""
}

// buildSearchURL constructs the articles search URL with query parameters.
func (c *Client) buildSearchURL(query string, maxResults int) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	searchURL := baseURL.JoinPath("search", "articles")

	maxRecords := maxResults
	if maxRecords <= 0 || maxRecords > c.config.MaxResults {
		maxRecords = c.config.MaxResults
	}

	q := searchURL.Query()
	q.Set("apikey", c.config.APIKey)
	q.Set("format", "json")
	q.Set("querytext", query)
	q.Set("max_records", strconv.Itoa(maxRecords))
	q.Set("start_record", "1")
	searchURL.RawQuery = q.Encode()

	return searchURL.String(), nil
}

// toCandidates maps API article entries to domain candidates.
func (c *Client) toCandidates(articles []articleEntry) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(articles))
	for _, a := range articles {
		candidates = append(candidates, domain.Candidate{
			Title:    a.Title,
			Abstract: a.Abstract,
			URL:      a.documentURL(),
			Source:   domain.SourceTypeIEEE,
		})
	}
	return candidates
}
