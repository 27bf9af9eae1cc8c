package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smartjournal/internal/logging"
)

const (
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	systemPrompt           = "You analyze journal entries and always answer with the JSON structure you are asked for."
)

// ErrAPIKeyMissing 表示调用方未配置分析服务的 API Key。
var ErrAPIKeyMissing = errors.New("analysis provider API key is not configured")

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatClient 通过 OpenAI 兼容的 chat/completions 接口调用 OpenAI 或 DeepSeek。
type ChatClient struct {
	http    httpDoer
	label   string
	apiKey  string
	baseURL string
	model   string
}

// NewOpenAIClient 创建 OpenAI 客户端，baseURL 为空时使用官方地址。
func NewOpenAIClient(apiKey, baseURL, model string) *ChatClient {
	return newChatClient("OpenAI", apiKey, baseURL, defaultOpenAIBaseURL, model)
}

// NewDeepSeekClient 创建 DeepSeek 客户端。
func NewDeepSeekClient(apiKey, model string) *ChatClient {
	return newChatClient("DeepSeek", apiKey, "", defaultDeepSeekBaseURL, model)
}

func newChatClient(label, apiKey, baseURL, fallbackBase, model string) *ChatClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = fallbackBase
	}
	return &ChatClient{
		http:    &http.Client{Timeout: 180 * time.Second},
		label:   label,
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: base,
		model:   strings.TrimSpace(model),
	}
}

// SetHTTPClient 替换底层 HTTP 客户端，传入 nil 时恢复默认值。
func (c *ChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 180 * time.Second}
		return
	}
	c.http = client
}

// Complete 发送提示词并返回模型回复。forceJSON 为 true 时请求 json_object 格式。
func (c *ChatClient) Complete(ctx context.Context, prompt string, forceJSON bool) (string, error) {
	if c.apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}
	if forceJSON {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("构造请求失败: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("创建 %s 请求失败: %w", c.label, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "smartjournal/1.0")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("请求 %s 接口失败: %w", c.label, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("读取 %s 响应失败: %w", c.label, err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("解析 %s 响应失败: %w", c.label, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = resp.Status
		}
		return "", fmt.Errorf("%s 接口返回错误：%s", c.label, errMsg)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s 接口未返回结果", c.label)
	}

	logging.L().Debugw("ai usage",
		"provider", c.label,
		"model", c.model,
		"promptTokens", completion.Usage.PromptTokens,
		"completionTokens", completion.Usage.CompletionTokens,
	)
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
