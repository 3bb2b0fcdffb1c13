package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes de un intento contra un proveedor.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics agrupa los collectors del gateway y de la capa HTTP. Los metodos aceptan receptor nil.
type Metrics struct {
	registry *prometheus.Registry

	providerAttempts *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	unavailable      *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registra los collectors en un registry propio.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		providerAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genchat_provider_attempts_total",
				Help: "Total number of generation attempts per provider",
			},
			[]string{"kind", "provider", "outcome"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "genchat_provider_duration_seconds",
				Help:    "Provider call duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"kind", "provider"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genchat_fallbacks_total",
				Help: "Requests served by a fallback tier",
			},
			[]string{"kind"},
		),
		unavailable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genchat_unavailable_total",
				Help: "Requests where every provider failed",
			},
			[]string{"kind"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genchat_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "genchat_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		m.providerAttempts,
		m.providerDuration,
		m.fallbacks,
		m.unavailable,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) RecordProviderAttempt(kind, provider, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.providerAttempts.WithLabelValues(kind, provider, outcome).Inc()
	m.providerDuration.WithLabelValues(kind, provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordFallback(kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordUnavailable(kind string) {
	if m == nil {
		return
	}
	m.unavailable.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler expone el registry para scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry permite registrar collectors adicionales o inspeccionarlos en tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
