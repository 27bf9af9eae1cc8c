package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

var fencePrefixes = []string{"```json", "```JSON", "```"}

// ParseReply 从模型回复中解析 JSON 对象。依次尝试：直接解析、代码块、标记区间、
// 最后从每个 '{' 处尝试解码第一个完整对象（忽略其后的文字）。
func ParseReply(reply string) (map[string]any, error) {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}

	candidates := []string{trimmed}
	if fenced, ok := extractFenced(trimmed); ok {
		candidates = append(candidates, fenced)
	}
	if marked, ok := extractBetween(trimmed, "[[JSON_START]]", "[[JSON_END]]"); ok {
		candidates = append(candidates, marked)
	}

	for _, candidate := range candidates {
		if out, ok := decodeObject(candidate); ok {
			return out, nil
		}
	}
	if out, ok := scanObject(trimmed); ok {
		return out, nil
	}
	return nil, fmt.Errorf("%w: no JSON object found in reply", ErrMalformedReply)
}

func decodeObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(s))))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil || out == nil {
		return nil, false
	}
	// 拒绝对象之后仍有内容的回复，交给后续提取策略处理
	if dec.More() {
		return nil, false
	}
	return out, true
}

func extractFenced(s string) (string, bool) {
	for _, prefix := range fencePrefixes {
		start := strings.Index(s, prefix)
		if start < 0 {
			continue
		}
		body := s[start+len(prefix):]
		end := strings.Index(body, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(body[:end]), true
	}
	return "", false
}

func extractBetween(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	body := s[start+len(open):]
	end := strings.Index(body, close)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// scanObject 依次从每个 '{' 偏移处解码，返回第一个成功的对象，对象之后的内容不再检查。
func scanObject(s string) (map[string]any, bool) {
	for offset := 0; offset < len(s); {
		idx := strings.IndexByte(s[offset:], '{')
		if idx < 0 {
			return nil, false
		}
		start := offset + idx
		dec := json.NewDecoder(strings.NewReader(s[start:]))
		dec.UseNumber()
		var out map[string]any
		if err := dec.Decode(&out); err == nil && out != nil {
			return out, true
		}
		offset = start + 1
	}
	return nil, false
}
