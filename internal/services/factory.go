package services

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/science-santa/internal/config"
)

// NewLLMService returns the provider selected by cfg.LLMProvider.
func NewLLMService(cfg *config.Config, logger *slog.Logger) (LLMService, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		return NewOpenRouterService(OpenRouterConfig{
			APIKey:    cfg.OpenRouterAPIKey,
			BaseURL:   cfg.OpenRouterBaseURL,
			ModelName: cfg.ModelName,
			Referer:   cfg.OpenRouterReferer,
			Title:     cfg.OpenRouterTitle,
			Timeout:   cfg.RequestTimeout,
		}, logger), nil
	case config.ProviderAnthropic:
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, cfg.RequestTimeout, logger), nil
	case config.ProviderGemini:
		return NewGeminiService(cfg.GeminiAPIKey, cfg.ModelName, logger).WithTimeout(cfg.RequestTimeout), nil
	case config.ProviderOllama:
		return NewOllamaService(cfg.OllamaURL, cfg.ModelName, cfg.RequestTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
