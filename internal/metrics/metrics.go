// Package metrics exposes prometheus counters for upstream traffic.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeCached      = "cached"
	OutcomeNoContent   = "no_content"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
	OutcomeSkipped     = "skipped"
)

type Metrics struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	tokenRefreshes   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests made to third-party APIs by provider and outcome.",
		}, []string{"provider", "outcome"}),
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Spotify token refresh attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.upstreamRequests,
		m.tokenRefreshes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Upstream(provider, outcome string) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) TokenRefresh(outcome string) {
	if m == nil {
		return
	}
	m.tokenRefreshes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
