package llm

import (
	"context"
	"fmt"

	"accomapi/internal/config"
)

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	hc := NewHTTPClient(cfg.Timeout())

	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		return NewAnthropicClient(AnthropicConfig{
			APIKey:     cfg.AnthropicAPIKey,
			BaseURL:    cfg.AnthropicBaseURL,
			Version:    cfg.AnthropicVersion,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: hc,
		}), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: hc,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
