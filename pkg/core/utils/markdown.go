package utils

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// StripCodeFence removes a single outer ``` fence (with or without a language tag).
func StripCodeFence(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		return cleaned
	}
	cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "```"), "```")
	// drop the language tag line
	if i := strings.IndexByte(cleaned, '\n'); i >= 0 && !strings.ContainsAny(cleaned[:i], "{[") {
		cleaned = cleaned[i+1:]
	}
	return strings.TrimSpace(cleaned)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts GitHub-flavoured Markdown (tables included) to an HTML fragment.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ValidateMarkdown reports whether md parses to a document with at least one block.
func ValidateMarkdown(md string) bool {
	doc := markdown.Parser().Parse(text.NewReader([]byte(md)))
	return doc != nil && doc.HasChildren()
}
