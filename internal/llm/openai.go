package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"genchat/internal/domain"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

func newOpenAIClient(baseURL, apiKey string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// OpenAITextProvider usa chat completions de cualquier API compatible con OpenAI.
type OpenAITextProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAITextProvider(baseURL, apiKey, model string, httpClient *http.Client) *OpenAITextProvider {
	return &OpenAITextProvider{
		client: newOpenAIClient(baseURL, apiKey, httpClient),
		model:  model,
	}
}

func (p *OpenAITextProvider) Name() string { return "openai-text" }

func (p *OpenAITextProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", providerError(p.Name(), "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", providerError(p.Name(), "chat completion", errors.New("empty response"))
	}
	answer := cleanAnswer(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", providerError(p.Name(), "chat completion", errors.New("empty response"))
	}
	return answer, nil
}

// OpenAIImageProvider pide la imagen en b64_json y la devuelve inline.
type OpenAIImageProvider struct {
	client *openai.Client
	model  string
	size   string
}

func NewOpenAIImageProvider(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIImageProvider {
	return &OpenAIImageProvider{
		client: newOpenAIClient(baseURL, apiKey, httpClient),
		model:  model,
		size:   openai.CreateImageSize1024x1024,
	}
}

func (p *OpenAIImageProvider) Name() string { return "openai-image" }

// Synthesize ignora el seed: la API de imagenes de OpenAI no lo acepta.
func (p *OpenAIImageProvider) Synthesize(ctx context.Context, req ImageRequest) (domain.Image, error) {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.model,
		N:              1,
		Size:           p.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return domain.Image{}, providerError(p.Name(), "create image", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return domain.Image{}, providerError(p.Name(), "create image", errors.New("empty response"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return domain.Image{}, providerError(p.Name(), "decode image", err)
	}
	return domain.Image{Data: data, MIMEType: http.DetectContentType(data)}, nil
}
