package logging

import (
	"strings"
	"unicode/utf8"
)

const maxAILogSnippetRunes = 1024

// AIExchange 输出分析服务请求与响应的关键信息，方便排查模型行为。
func AIExchange(kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		L().Debugw("ai exchange", "kind", kind, "phase", phase, "content", "<empty>")
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	L().Debugw("ai exchange",
		"kind", kind,
		"phase", phase,
		"runes", runeCount,
		"content", Truncate(trimmed, maxAILogSnippetRunes),
	)
}

// Truncate 按 rune 截断文本，超出部分以提示结尾。
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…(truncated)"
}
