package llm

import (
	"net/http"

	"genchat/internal/config"
)

// NewProviderChains arma las cadenas por modalidad: OpenAI primero (si hay API key) y Pollinations como fallback.
func NewProviderChains(cfg *config.Config, httpClient *http.Client) ([]TextProvider, []ImageProvider) {
	var (
		text  []TextProvider
		image []ImageProvider
	)
	if cfg.OpenAIEnabled() {
		text = append(text, NewOpenAITextProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAITextModel, httpClient))
		image = append(image, NewOpenAIImageProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIImageModel, httpClient))
	}
	text = append(text, NewPollinationsTextProvider(cfg.PollinationsTextURL, httpClient))
	image = append(image, NewPollinationsImageProvider(cfg.PollinationsImageURL))
	return text, image
}
