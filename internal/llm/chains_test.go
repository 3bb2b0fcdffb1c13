package llm

import (
	"testing"

	"genchat/internal/config"
)

func TestNewProviderChains(t *testing.T) {
	t.Run("sin api key solo fallback", func(t *testing.T) {
		text, image := NewProviderChains(&config.Config{}, nil)
		if len(text) != 1 || text[0].Name() != "pollinations-text" {
			t.Fatalf("unexpected text chain %v", names(text))
		}
		if len(image) != 1 || image[0].Name() != "pollinations-image" {
			t.Fatalf("unexpected image chain")
		}
	})

	t.Run("con api key openai primero", func(t *testing.T) {
		text, image := NewProviderChains(&config.Config{OpenAIAPIKey: "k"}, nil)
		if got := names(text); len(got) != 2 || got[0] != "openai-text" || got[1] != "pollinations-text" {
			t.Fatalf("unexpected text chain %v", got)
		}
		if len(image) != 2 || image[0].Name() != "openai-image" {
			t.Fatalf("unexpected image chain")
		}
	})
}

func names(chain []TextProvider) []string {
	out := make([]string, 0, len(chain))
	for _, p := range chain {
		out = append(out, p.Name())
	}
	return out
}
