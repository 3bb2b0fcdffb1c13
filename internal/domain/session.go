package domain

import (
	"strings"
	"time"
)

// TitleMaxRunes es el largo del titulo derivado del primer prompt.
const TitleMaxRunes = 30

type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// SessionSummary es la vista usada en el listado de conversaciones.
type SessionSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TitleFromPrompt recorta el prompt a TitleMaxRunes runas, sin partir caracteres multibyte.
func TitleFromPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	runes := []rune(prompt)
	if len(runes) <= TitleMaxRunes {
		return prompt
	}
	return strings.TrimSpace(string(runes[:TitleMaxRunes]))
}
