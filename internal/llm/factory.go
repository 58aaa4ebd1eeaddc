package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a provider from configuration. An empty provider name
// yields (nil, nil), meaning the role is disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider("openai", config)

	case "perplexity":
		// Perplexity exposes an OpenAI-compatible chat-completions API.
		if config.BaseURL == "" {
			config.BaseURL = "https://api.perplexity.ai"
		}
		return NewOpenAIProvider("perplexity", config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, perplexity, anthropic, ollama)", config.Provider)
	}
}
