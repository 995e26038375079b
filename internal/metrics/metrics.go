package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clearscrub-admin/internal/auth"
)

// Metrics agrupa los contadores Prometheus del dashboard.
type Metrics struct {
	registry       *prometheus.Registry
	SignIns        *prometheus.CounterVec
	SignOuts       prometheus.Counter
	Restores       *prometheus.CounterVec
	GuardDecisions *prometheus.CounterVec
}

// New registra las metricas en un registry propio, no en el global.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		SignIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearscrub_sign_ins_total",
			Help: "Sign-in attempts by outcome",
		}, []string{"outcome"}),
		SignOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "clearscrub_sign_outs_total",
			Help: "Sign-outs processed",
		}),
		Restores: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearscrub_session_restores_total",
			Help: "Session restores from the durable slot by outcome",
		}, []string{"outcome"}),
		GuardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearscrub_route_guard_decisions_total",
			Help: "Route guard decisions by result",
		}, []string{"decision"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRestore(outcome string) {
	m.Restores.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSignIn(err error) {
	m.SignIns.WithLabelValues(signInOutcome(err)).Inc()
}

func (m *Metrics) ObserveSignOut() {
	m.SignOuts.Inc()
}

func (m *Metrics) ObserveGuard(decision string) {
	m.GuardDecisions.WithLabelValues(decision).Inc()
}

func signInOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, auth.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, auth.ErrUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}
