package service

import (
	"fmt"

	"foodsnap-api/internal/core/ai/gemini"
	"foodsnap-api/internal/core/ai/openrouter"
	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"
)

// NewProvider 依設定選擇遠端模型提供者
func NewProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		return gemini.NewClient(provider.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		}), nil
	case config.ProviderOpenRouter:
		return openrouter.NewClient(provider.Config{
			APIKey:    cfg.OpenRouter.APIKey,
			Model:     cfg.OpenRouter.Model,
			BaseURL:   cfg.OpenRouter.BaseURL,
			Timeout:   cfg.OpenRouter.Timeout,
			MaxTokens: cfg.OpenRouter.MaxTokens,
		}), nil
	}
	return nil, &common.ConfigurationError{Field: "ai.provider", Reason: fmt.Sprintf("unsupported provider %q", cfg.AI.Provider)}
}
