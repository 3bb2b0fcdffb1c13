package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newOpenAITestServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
			return
		}
		switch r.URL.Path {
		case "/v1/chat/completions":
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["model"] != "test-model" {
				t.Errorf("unexpected model %v", req["model"])
			}
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}]}`))
		case "/v1/images/generations":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"created": 1,
				"data":    []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(pngHeader)}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAITextProvider_Complete(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK)
	p := NewOpenAITextProvider(srv.URL+"/v1", "test-key", "test-model", srv.Client())

	answer, err := p.Complete(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if answer != "Hi there" {
		t.Fatalf("expected %q, got %q", "Hi there", answer)
	}
}

func TestOpenAITextProvider_ErrorStatus(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusTooManyRequests)
	p := NewOpenAITextProvider(srv.URL+"/v1", "test-key", "test-model", srv.Client())

	if _, err := p.Complete(context.Background(), "Hello"); !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestOpenAIImageProvider_Synthesize(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK)
	p := NewOpenAIImageProvider(srv.URL+"/v1", "test-key", "dall-e-3", srv.Client())

	img, err := p.Synthesize(context.Background(), ImageRequest{Prompt: "a cat", Seed: 7})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if img.IsReference() || len(img.Data) != len(pngHeader) {
		t.Fatalf("expected inline bytes, got %+v", img)
	}
	if img.MIMEType != "image/png" {
		t.Fatalf("expected image/png, got %q", img.MIMEType)
	}
}

func TestOpenAIImageProvider_ErrorStatus(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusInternalServerError)
	p := NewOpenAIImageProvider(srv.URL+"/v1", "test-key", "dall-e-3", srv.Client())

	if _, err := p.Synthesize(context.Background(), ImageRequest{Prompt: "a cat"}); !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}
