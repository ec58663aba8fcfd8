// Package metrics exposes Prometheus counters for provider traffic and the chapter cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Cache lookup outcomes.
const (
	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheCorrupt    = "corrupt"
	CacheWriteError = "write_error"
)

// Recorder owns a registry and the collectors registered on it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	providerAttempts *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	substitutions    prometheus.Counter
}

// New creates a recorder with a fresh registry that also carries the Go and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		providerAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pregacao_provider_attempts_total",
				Help: "Chapter fetch attempts per provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pregacao_provider_attempt_duration_seconds",
				Help:    "Duration of chapter fetch attempts in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"provider"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pregacao_cache_operations_total",
				Help: "Chapter cache lookups and write failures by outcome",
			},
			[]string{"outcome"},
		),
		substitutions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pregacao_translation_substitutions_total",
				Help: "Passages served in a translation other than the one requested",
			},
		),
	}
}

// ProviderAttempt records one fetch attempt.
func (r *Recorder) ProviderAttempt(provider, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.providerAttempts.WithLabelValues(provider, outcome).Inc()
	r.providerDuration.WithLabelValues(provider).Observe(seconds)
}

// Cache records a cache outcome.
func (r *Recorder) Cache(outcome string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}

// Substitution records a passage answered by a fallback translation.
func (r *Recorder) Substitution() {
	if r == nil {
		return
	}
	r.substitutions.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
