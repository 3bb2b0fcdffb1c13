package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"genchat/internal/domain"
)

const (
	defaultPollinationsTextURL  = "https://text.pollinations.ai"
	defaultPollinationsImageURL = "https://image.pollinations.ai"
	maxTextResponseBytes        = 1 << 20
)

// PollinationsTextProvider consulta GET {base}/{prompt} y devuelve el cuerpo como respuesta.
type PollinationsTextProvider struct {
	baseURL string
	client  *http.Client
}

func NewPollinationsTextProvider(baseURL string, httpClient *http.Client) *PollinationsTextProvider {
	if baseURL == "" {
		baseURL = defaultPollinationsTextURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PollinationsTextProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (p *PollinationsTextProvider) Name() string { return "pollinations-text" }

func (p *PollinationsTextProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+url.PathEscape(prompt), nil)
	if err != nil {
		return "", providerError(p.Name(), "create request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", providerError(p.Name(), "do request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextResponseBytes))
	if err != nil {
		return "", providerError(p.Name(), "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", providerError(p.Name(), "do request", fmt.Errorf("status=%d", resp.StatusCode))
	}

	answer := cleanAnswer(string(body))
	if answer == "" {
		return "", providerError(p.Name(), "read response", errors.New("empty response"))
	}
	return answer, nil
}

// PollinationsImageProvider arma la URL de la imagen sin descargarla; el cliente la resuelve.
type PollinationsImageProvider struct {
	baseURL string
}

func NewPollinationsImageProvider(baseURL string) *PollinationsImageProvider {
	if baseURL == "" {
		baseURL = defaultPollinationsImageURL
	}
	return &PollinationsImageProvider{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *PollinationsImageProvider) Name() string { return "pollinations-image" }

func (p *PollinationsImageProvider) Synthesize(ctx context.Context, req ImageRequest) (domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return domain.Image{}, providerError(p.Name(), "build url", err)
	}
	query := url.Values{}
	query.Set("seed", strconv.FormatInt(req.Seed, 10))
	query.Set("nologo", "true")

	ref := fmt.Sprintf("%s/prompt/%s?%s", p.baseURL, url.PathEscape(req.Prompt), query.Encode())
	return domain.Image{URL: ref}, nil
}
