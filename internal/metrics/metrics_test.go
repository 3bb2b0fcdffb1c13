package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := New()
	m.RecordProviderAttempt("text", "openai-text", OutcomeFailure, 10*time.Millisecond)
	m.RecordProviderAttempt("text", "pollinations-text", OutcomeSuccess, 20*time.Millisecond)
	m.RecordFallback("text")
	m.RecordUnavailable("image")

	if got := testutil.ToFloat64(m.providerAttempts.WithLabelValues("text", "openai-text", OutcomeFailure)); got != 1 {
		t.Fatalf("expected 1 failed attempt, got %v", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("text")); got != 1 {
		t.Fatalf("expected 1 fallback, got %v", got)
	}
	if got := testutil.ToFloat64(m.unavailable.WithLabelValues("image")); got != 1 {
		t.Fatalf("expected 1 unavailable, got %v", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordProviderAttempt("text", "p", OutcomeSuccess, time.Second)
	m.RecordFallback("text")
	m.RecordUnavailable("text")
	m.RecordHTTPRequest("GET", "/", 200, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for nil metrics, got %d", rec.Code)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("POST", "/text-to-text", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `genchat_http_requests_total{method="POST",path="/text-to-text",status="200"} 1`) {
		t.Fatalf("expected http counter in scrape output")
	}
}
