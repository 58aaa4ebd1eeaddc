package llm

import (
	"context"

	"github.com/trustlens/trustlens/internal/model"
)

// Provider is a single generative text endpoint. All pipeline stages speak
// this interface; which concrete provider backs which stage is wiring, not
// stage logic.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete sends a prompt and returns the single text completion.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is the input for one completion call.
type CompletionRequest struct {
	// System is the optional system instruction.
	System string

	// Prompt is the user message.
	Prompt string

	// Model overrides the configured model when set.
	Model string

	// MaxTokens limits the response length (0 = provider default).
	MaxTokens int

	// Temperature overrides the configured temperature when > 0.
	Temperature float64
}

// CompletionResponse is the completion output.
type CompletionResponse struct {
	// Text is the completion body.
	Text string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption when the provider reports it.
	TokensUsed int
}

// Config holds a provider's configuration. It mirrors model.LLMConfig so the
// llm package has no opinion about how configuration is loaded.
type Config struct {
	// Provider name: "openai", "perplexity", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom or OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens default for response generation
	MaxTokens int

	// Temperature default for sampling
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     mc.Timeout,
		MaxTokens:   mc.MaxTokens,
		Temperature: mc.Temperature,
		HTTPProxy:   mc.HTTPProxy,
		HTTPSProxy:  mc.HTTPSProxy,
		NoProxy:     mc.NoProxy,
	}
}
