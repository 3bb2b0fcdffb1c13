package llm

import (
	"regexp"
	"strings"
)

// Algunos modelos de razonamiento servidos por APIs compatibles anteponen un bloque <think>.
var reThinkBlock = regexp.MustCompile(`(?is)^\s*<think>.*?</think>\s*`)

// cleanAnswer quita BOM, el bloque <think> inicial y espacios sobrantes.
func cleanAnswer(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = reThinkBlock.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
