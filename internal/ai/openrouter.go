package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default values for the OpenRouter provider.
const (
	defaultOpenRouterBaseURL    = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel      = "openai/gpt-oss-120b:free"
	defaultOpenRouterRetryDelay = 2 * time.Second

	// openRouterReferer attributes the traffic per OpenRouter's API policy.
	openRouterReferer = "https://github.com/Sauham/paper-bias-detection"
	openRouterTitle   = "Paper Bias Detection"
)

// chatRequest represents the OpenRouter Chat Completions API request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p,omitempty"`
	TopK        int           `json:"top_k,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage represents a single message in the chat conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse represents the Chat Completions API response body.
type chatResponse struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
}

// chatChoice represents a single completion choice.
type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// openRouterErrorResponse represents an error response from the API.
type openRouterErrorResponse struct {
	Error openRouterErrorDetail `json:"error"`
}

// openRouterErrorDetail contains error details from the API.
type openRouterErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// OpenRouterProvider implements Generator using the OpenRouter Chat
// Completions API.
type OpenRouterProvider struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

// Compile-time check that OpenRouterProvider implements Generator.
var _ Generator = (*OpenRouterProvider)(nil)

// OpenRouterConfig holds the parameters needed to create an OpenRouter
// provider.
type OpenRouterConfig struct {
	// APIKey is the OpenRouter API key.
	APIKey string
	// Model is the model identifier (e.g., "openai/gpt-oss-120b:free").
	Model string
	// BaseURL is the API base URL (empty means default).
	BaseURL string
	// Timeout is the HTTP request timeout.
	Timeout time.Duration
	// MaxRetries is the number of retries for transient errors.
	MaxRetries int
}

// NewOpenRouterProvider creates a new OpenRouter text-generation provider.
// Transient API errors are retried with a linearly growing backoff.
func NewOpenRouterProvider(cfg OpenRouterConfig) *OpenRouterProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenRouterModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &OpenRouterProvider{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		retryDelay: defaultOpenRouterRetryDelay,
	}
}

// Generate produces text for the given prompt using the OpenRouter API.
func (p *OpenRouterProvider) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
		MaxTokens:   cfg.MaxOutputTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("openrouter: context cancelled during retry wait: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		text, err := p.doRequest(ctx, req)
		if err == nil {
			return text, nil
		}

		if !IsTransientError(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("openrouter: exhausted %d retries: %w", p.maxRetries, lastErr)
}

// Provider returns the name of the provider.
func (p *OpenRouterProvider) Provider() string {
	return "openrouter"
}

// Model returns the model identifier being used.
func (p *OpenRouterProvider) Model() string {
	return p.model
}

// doRequest performs a single API request to the chat completions endpoint.
func (p *OpenRouterProvider) doRequest(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: failed to marshal request: %w", err)
	}

	endpoint := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("HTTP-Referer", openRouterReferer)
	httpReq.Header.Set("X-Title", openRouterTitle)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openrouter: request failed: %w", err)
		}
		// StatusCode 0 marks a network failure; transient, so retried.
		return "", &APIError{Provider: "openrouter", StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("openrouter: failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseOpenRouterAPIError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("openrouter: failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: empty choices in response")
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("openrouter: empty response content")
	}
	return content, nil
}

// parseOpenRouterAPIError parses an OpenRouter API error from the response.
func parseOpenRouterAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Provider:   "openrouter",
		StatusCode: statusCode,
		Message:    string(body),
	}

	var errResp openRouterErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Message = errResp.Error.Message
		apiErr.Type = errResp.Error.Type
	}

	return apiErr
}
