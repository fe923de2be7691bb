// Package ai provides clients for generative-AI providers.
//
// This package defines the abstraction used by the bias analyzer and the
// generative paper finder: a Generator turns a prompt into text using a
// hosted large-language model (Gemini, OpenRouter). Providers conform to
// a unified interface so callers can chain them for fallback without
// knowing which API sits behind each one.
//
// Example usage:
//
//	gen := ai.NewGeminiProvider(ai.GeminiConfig{APIKey: key})
//	text, err := gen.Generate(ctx, prompt, ai.GenerationConfig{
//		Temperature:     0.3,
//		MaxOutputTokens: 8192,
//	})
package ai

import "context"

// GenerationConfig holds the sampling options recognized by providers.
// Providers ignore options their API does not support.
type GenerationConfig struct {
	// Temperature controls sampling randomness. Low values (0.1-0.3)
	// are expected for deterministic analysis tasks.
	Temperature float64

	// TopP narrows nucleus sampling where supported.
	TopP float64

	// TopK narrows top-k sampling where supported.
	TopK int

	// MaxOutputTokens caps the response length to bound cost and latency.
	MaxOutputTokens int
}

// Generator defines the interface for text-generation providers.
//
// Implementations handle provider-specific API calls and error handling
// while conforming to this unified interface.
type Generator interface {
	// Generate produces text for the given prompt.
	// The context should be used for cancellation and deadline propagation.
	//
	// Implementations should:
	//   - Respect context cancellation
	//   - Return the raw response text without post-processing
	//   - Return wrapped errors with provider context
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)

	// Provider returns the name of the provider (e.g., "gemini", "openrouter").
	Provider() string

	// Model returns the model identifier being used.
	Model() string
}
