// Package llm holds the pluggable model providers behind the completeness
// checker's second extraction pass. Providers only spot person names the
// first pass missed; they never produce facts on their own, and everything
// they return is re-grounded against the passage before it reaches a report.
package llm

import (
	"context"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

// Provider is one model backend capable of the missing-person pass.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// SpotMissing asks the model for person names present in the passage
	// but absent from the known-names list.
	SpotMissing(ctx context.Context, req SpotRequest) (*SpotResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// SpotRequest is the input for one missing-person pass.
type SpotRequest struct {
	// PassageText is the raw passage buffer.
	PassageText string

	// KnownNames are names the first extraction pass already produced; the
	// model must only return names outside this list.
	KnownNames []string

	// Model overrides the configured model for this call.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SpotResponse is the model's answer.
type SpotResponse struct {
	// MissingNames are person names the model claims were missed. Callers
	// must re-ground each against the passage before trusting it.
	MissingNames []string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI/Anthropic.
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama).
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns provider defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}
