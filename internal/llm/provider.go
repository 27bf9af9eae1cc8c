package llm

import (
	"context"
	"fmt"

	"github.com/smartjournal/internal/analysis"
	"github.com/smartjournal/internal/config"
)

// FromConfig 根据 AI_PROVIDER 构建分析服务。
func FromConfig(ctx context.Context, cfg config.AppConfig) (analysis.Provider, error) {
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.ProviderDeepSeek:
		return NewDeepSeekClient(cfg.DeepSeekAPIKey, cfg.DeepSeekModel), nil
	case config.ProviderLangChain:
		return NewLangChainOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderMock, "":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", analysis.ErrProviderUnavailable, cfg.AIProvider)
	}
}
