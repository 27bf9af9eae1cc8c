package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	entryDelimiter  = `"""`
	jsonOnlyWarning = "Respond with a single valid JSON object only. Do not wrap it in markdown, do not add any explanation before or after it, and use exactly the field names shown above."
)

// BuildPrompt 组装发送给分析服务的提示词：问题列表、字段说明、示例、日记原文与纯 JSON 约束。
func BuildPrompt(questions []string, schema Schema, text string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that analyzes personal journal entries.\n\n")

	if len(questions) > 0 {
		b.WriteString("Answer the following questions about the journal entry:\n")
		for i, q := range questions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(q))
		}
		b.WriteString("\n")
	}

	b.WriteString("Return your answer as JSON with these fields:\n")
	writeFieldSpec(&b, schema.Fields, 0)
	b.WriteString("\nExample response:\n")
	b.WriteString(schema.ExampleJSON())
	b.WriteString("\n\nJournal entry:\n")
	b.WriteString(entryDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n")
	b.WriteString(entryDelimiter)
	b.WriteString("\n\n")
	b.WriteString(jsonOnlyWarning)
	return b.String()
}

func writeFieldSpec(b *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		fmt.Fprintf(b, "%s- %q: %s", indent, f.Name, f.typeLabel())
		if f.Description != "" {
			fmt.Fprintf(b, ", %s", f.Description)
		}
		b.WriteString("\n")
		if f.Kind == KindObject || f.Kind == KindObjectList {
			writeFieldSpec(b, f.Fields, depth+1)
		}
	}
}

// EntryFromPrompt 取出 BuildPrompt 嵌入的日记原文，找不到时返回空串。
func EntryFromPrompt(prompt string) string {
	start := strings.Index(prompt, entryDelimiter+"\n")
	if start < 0 {
		return ""
	}
	rest := prompt[start+len(entryDelimiter)+1:]
	end := strings.LastIndex(rest, "\n"+entryDelimiter)
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// ExampleFromPrompt 取出 BuildPrompt 嵌入的示例回复。
func ExampleFromPrompt(prompt string) (map[string]any, bool) {
	const marker = "Example response:\n"
	start := strings.Index(prompt, marker)
	if start < 0 {
		return nil, false
	}
	rest := prompt[start+len(marker):]
	end := strings.Index(rest, "\n\nJournal entry:")
	if end < 0 {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(rest[:end]), &out); err != nil {
		return nil, false
	}
	return out, true
}
