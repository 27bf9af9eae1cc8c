package service

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	renderhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(renderhtml.WithHardWraps(), renderhtml.WithUnsafe()),
	)
	plainTextPolicy = bluemonday.StrictPolicy()
	blockBoundary   = regexp.MustCompile(`(?i)</(p|h[1-6]|li|blockquote|pre|tr)>`)
	extraNewlines   = regexp.MustCompile(`\n{3,}`)
	inlineSpaces    = regexp.MustCompile(`[ \t]+`)
)

// NormalizeEntryText 将日记正文中的 Markdown 与 HTML 转为纯文本，保留段落换行。
func NormalizeEntryText(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	var buf bytes.Buffer
	rendered := trimmed
	if err := markdownEngine.Convert([]byte(trimmed), &buf); err == nil {
		rendered = buf.String()
	}

	rendered = blockBoundary.ReplaceAllStringFunc(rendered, func(tag string) string {
		return tag + "\n"
	})
	plain := html.UnescapeString(plainTextPolicy.Sanitize(rendered))

	lines := strings.Split(plain, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaces.ReplaceAllString(line, " "))
	}
	plain = strings.Join(lines, "\n")
	plain = extraNewlines.ReplaceAllString(plain, "\n\n")
	return strings.TrimSpace(plain)
}
