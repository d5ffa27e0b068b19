// Package metrics defines the Prometheus instrumentation for the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lucentbi/ui-gateway/internal/backend"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	GateDecisions   *prometheus.CounterVec
	RefreshTotal    *prometheus.CounterVec
	BackendCalls    *prometheus.HistogramVec
	BackendTimeouts *prometheus.CounterVec
}

// New creates and registers all gateway metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates and registers all gateway metrics on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ui_gateway_gate_decisions_total",
			Help: "Edge gatekeeper terminal outcomes per intercepted request",
		}, []string{"action"}),
		RefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ui_gateway_token_refresh_total",
			Help: "Token refresh attempts by result",
		}, []string{"result"}),
		BackendCalls: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ui_gateway_backend_call_seconds",
			Help:    "Bounded backend call durations by outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		BackendTimeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ui_gateway_backend_timeouts_total",
			Help: "Backend calls aborted at their deadline, per backend path",
		}, []string{"path"}),
	}
}

// ObserveCall implements backend.CallObserver.
func (m *Metrics) ObserveCall(path string, outcome backend.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BackendCalls.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	if outcome == backend.OutcomeTimeout {
		m.BackendTimeouts.WithLabelValues(path).Inc()
	}
}

// IncGateDecision records one gatekeeper outcome.
func (m *Metrics) IncGateDecision(action string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(action).Inc()
}

// IncRefresh records one refresh attempt result ("success" or "failure").
func (m *Metrics) IncRefresh(result string) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
}
