package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainProvider 通过 langchaingo 调用任意 OpenAI 兼容模型。
type LangChainProvider struct {
	model llms.Model
}

// NewLangChainProvider 包装一个已构建的 langchaingo 模型。
func NewLangChainProvider(model llms.Model) *LangChainProvider {
	return &LangChainProvider{model: model}
}

// NewLangChainOpenAI 使用 langchaingo 的 openai 后端创建 Provider。
func NewLangChainOpenAI(apiKey, baseURL, model string) (*LangChainProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyMissing
	}
	opts := []openai.Option{
		openai.WithToken(strings.TrimSpace(apiKey)),
		openai.WithModel(strings.TrimSpace(model)),
	}
	if base := strings.TrimSpace(baseURL); base != "" {
		opts = append(opts, openai.WithBaseURL(base))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain openai client: %w", err)
	}
	return NewLangChainProvider(client), nil
}

// Complete implements analysis.Provider.
func (p *LangChainProvider) Complete(ctx context.Context, prompt string, forceJSON bool) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(0.2)}
	if forceJSON {
		opts = append(opts, llms.WithJSONMode())
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("langchain generate: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
