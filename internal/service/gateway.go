package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"genchat/internal/domain"
	"genchat/internal/llm"
	"genchat/internal/metrics"
)

const (
	defaultTextTimeout  = 30 * time.Second
	defaultImageTimeout = 120 * time.Second
)

var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInvalidInput       = errors.New("invalid input")

	errEmptyResult = errors.New("empty result")
)

// GatewayConfig define la cadena de proveedores por modalidad, en orden de prioridad.
type GatewayConfig struct {
	Text         []llm.TextProvider
	Image        []llm.ImageProvider
	TextTimeout  time.Duration
	ImageTimeout time.Duration
}

// FallbackGateway prueba cada proveedor una sola vez, en orden fijo, y devuelve el primer exito.
// Los errores de los backends se loguean y nunca llegan al caller.
type FallbackGateway struct {
	logger       *zap.Logger
	metrics      *metrics.Metrics
	text         []llm.TextProvider
	image        []llm.ImageProvider
	textTimeout  time.Duration
	imageTimeout time.Duration
	newSeed      func() int64
}

func NewFallbackGateway(logger *zap.Logger, cfg GatewayConfig, m *metrics.Metrics) *FallbackGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TextTimeout <= 0 {
		cfg.TextTimeout = defaultTextTimeout
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = defaultImageTimeout
	}
	return &FallbackGateway{
		logger:       logger,
		metrics:      m,
		text:         append([]llm.TextProvider(nil), cfg.Text...),
		image:        append([]llm.ImageProvider(nil), cfg.Image...),
		textTimeout:  cfg.TextTimeout,
		imageTimeout: cfg.ImageTimeout,
		newSeed:      llm.NewSeed,
	}
}

// GenerateText devuelve ErrInvalidInput con prompt vacio, el error del contexto si el caller
// cancelo, o ErrServiceUnavailable si fallaron todos los proveedores.
func (g *FallbackGateway) GenerateText(ctx context.Context, prompt string) (domain.TextResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.TextResult{}, ErrInvalidInput
	}

	answer, tier, err := runChain(ctx, g, domain.KindText, g.textTimeout, g.text,
		func(ctx context.Context, p llm.TextProvider) (string, error) {
			answer, err := p.Complete(ctx, prompt)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(answer) == "" {
				return "", errEmptyResult
			}
			return answer, nil
		})
	if err != nil {
		return domain.TextResult{}, err
	}
	return domain.TextResult{Answer: answer, Tier: tier}, nil
}

// GenerateImage usa el mismo seed en todos los niveles de la cadena.
func (g *FallbackGateway) GenerateImage(ctx context.Context, prompt string) (domain.ImageResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.ImageResult{}, ErrInvalidInput
	}

	req := llm.ImageRequest{Prompt: prompt, Seed: g.newSeed()}
	img, tier, err := runChain(ctx, g, domain.KindImage, g.imageTimeout, g.image,
		func(ctx context.Context, p llm.ImageProvider) (domain.Image, error) {
			img, err := p.Synthesize(ctx, req)
			if err != nil {
				return domain.Image{}, err
			}
			if len(img.Data) == 0 && img.URL == "" {
				return domain.Image{}, errEmptyResult
			}
			return img, nil
		})
	if err != nil {
		return domain.ImageResult{}, err
	}
	return domain.ImageResult{
		Image:    img,
		Prompt:   req.Prompt,
		Seed:     req.Seed,
		Tier:     tier,
		Fallback: tier == domain.TierFallback,
	}, nil
}

type namedProvider interface {
	Name() string
}

func runChain[P namedProvider, R any](
	ctx context.Context,
	g *FallbackGateway,
	kind domain.Kind,
	timeout time.Duration,
	chain []P,
	call func(context.Context, P) (R, error),
) (R, domain.Tier, error) {
	var zero R
	for i, p := range chain {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		res, err := call(attemptCtx, p)
		cancel()
		elapsed := time.Since(start)

		if err == nil {
			g.metrics.RecordProviderAttempt(string(kind), p.Name(), metrics.OutcomeSuccess, elapsed)
			tier := domain.TierPrimary
			if i > 0 {
				tier = domain.TierFallback
				g.metrics.RecordFallback(string(kind))
			}
			return res, tier, nil
		}

		g.metrics.RecordProviderAttempt(string(kind), p.Name(), metrics.OutcomeFailure, elapsed)
		// El caller se fue: no tiene sentido seguir con la cadena.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, "", ctxErr
		}
		g.logger.Warn("provider failed",
			zap.String("kind", string(kind)),
			zap.String("provider", p.Name()),
			zap.Int("position", i),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	}

	g.metrics.RecordUnavailable(string(kind))
	g.logger.Error("all providers failed", zap.String("kind", string(kind)), zap.Int("providers", len(chain)))
	return zero, "", ErrServiceUnavailable
}
