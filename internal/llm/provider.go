package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// ProviderConfig selects and configures a Completer.
type ProviderConfig struct {
	Provider        string
	Model           string
	GeminiAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
}

// NewCompleter builds the Completer named by cfg.Provider.
func NewCompleter(ctx context.Context, cfg ProviderConfig, logger *slog.Logger) (Completer, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiCompleter(cfg.GeminiAPIKey, cfg.Model)
	case ProviderGeminiSDK:
		return newGoframeGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case ProviderAnthropic:
		return NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.Model)
	case ProviderOllama:
		return newGoframeOllama(cfg.OllamaHost, cfg.Model, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
