package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"genchat/internal/domain"
)

// ErrProviderFailure agrupa cualquier falla de un backend: red, status no exitoso, timeout o respuesta vacia.
var ErrProviderFailure = errors.New("provider failure")

// TextProvider es un backend capaz de completar texto a partir de un prompt.
type TextProvider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageProvider es un backend capaz de sintetizar una imagen (bytes o URL).
type ImageProvider interface {
	Name() string
	Synthesize(ctx context.Context, req ImageRequest) (domain.Image, error)
}

type ImageRequest struct {
	Prompt string
	Seed   int64
}

// NewSeed devuelve un seed uniforme en [1, 2^31-1].
func NewSeed() int64 {
	return rand.Int64N(math.MaxInt32) + 1
}

func providerError(provider, op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrProviderFailure, provider, op, err)
}
