package llm

import (
	"context"
	"sync/atomic"

	"genchat/internal/domain"
)

// MockTextProvider permite tests sin llamar a un backend real.
type MockTextProvider struct {
	ProviderName string
	Response     string
	Err          error
	calls        atomic.Int32
}

func (m *MockTextProvider) Name() string {
	if m.ProviderName == "" {
		return "mock-text"
	}
	return m.ProviderName
}

func (m *MockTextProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Calls devuelve cuantas veces se invoco Complete.
func (m *MockTextProvider) Calls() int { return int(m.calls.Load()) }

type MockImageProvider struct {
	ProviderName string
	Image        domain.Image
	Err          error
	LastRequest  ImageRequest
	calls        atomic.Int32
}

func (m *MockImageProvider) Name() string {
	if m.ProviderName == "" {
		return "mock-image"
	}
	return m.ProviderName
}

func (m *MockImageProvider) Synthesize(ctx context.Context, req ImageRequest) (domain.Image, error) {
	m.calls.Add(1)
	m.LastRequest = req
	if m.Err != nil {
		return domain.Image{}, m.Err
	}
	return m.Image, nil
}

func (m *MockImageProvider) Calls() int { return int(m.calls.Load()) }
