// Package metrics expone contadores Prometheus del handshake.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implementa handshake.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	started         *prometheus.CounterVec
	completed       *prometheus.CounterVec
	aborted         *prometheus.CounterVec
	accountsCreated *prometheus.CounterVec
}

// New crea el registry y los contadores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		started: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shakehands_handshakes_started_total",
			Help: "Handshakes iniciados, por proveedor.",
		}, []string{"provider"}),
		completed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shakehands_handshakes_completed_total",
			Help: "Handshakes completados con login, por proveedor.",
		}, []string{"provider"}),
		aborted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shakehands_handshakes_aborted_total",
			Help: "Handshakes abortados, por proveedor y motivo.",
		}, []string{"provider", "reason"}),
		accountsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shakehands_accounts_created_total",
			Help: "Cuentas locales creadas por primer login OAuth.",
		}, []string{"provider"}),
	}
}

func (m *Metrics) HandshakeStarted(provider string) {
	m.started.WithLabelValues(provider).Inc()
}

func (m *Metrics) HandshakeCompleted(provider string, created bool) {
	m.completed.WithLabelValues(provider).Inc()
	if created {
		m.accountsCreated.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) HandshakeAborted(provider, reason string) {
	m.aborted.WithLabelValues(provider, reason).Inc()
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
