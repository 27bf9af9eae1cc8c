package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound 在按名称请求未注册的模板时返回，属于调用方错误。
	ErrTemplateNotFound = errors.New("analysis template not found")
	// ErrInvalidTemplate 表示模板名称、问题或 Schema 不合法。
	ErrInvalidTemplate = errors.New("invalid analysis template")
	// ErrMalformedReply 表示模型回复中无法解析出 JSON 对象。
	ErrMalformedReply = errors.New("malformed analysis reply")
	// ErrProviderUnavailable 表示没有配置可用的分析服务。
	ErrProviderUnavailable = errors.New("analysis provider unavailable")
)

// ProviderError wraps a failed provider call or unparseable reply for one template.
type ProviderError struct {
	Template string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("analysis failed: %v", e.Err)
	}
	return fmt.Sprintf("analysis template %s failed: %v", e.Template, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// errorEntry 将失败转换为 {error, details} 结构。
func errorEntry(err error) map[string]any {
	label := "Analysis request failed"
	if errors.Is(err, ErrMalformedReply) {
		label = "Failed to parse analysis response"
	}
	return map[string]any{
		"error":   label,
		"details": err.Error(),
	}
}

// IsErrorEntry reports whether a result carries the {error, details} failure shape.
func IsErrorEntry(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, hasError := m["error"]
	_, hasDetails := m["details"]
	return hasError && hasDetails
}
