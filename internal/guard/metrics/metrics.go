package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the guard.
type Metrics struct {
	// Decisions by outcome, reason and pass
	Decisions *prometheus.CounterVec
}

// New creates guard metrics registered on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lcm_guard_decisions_total",
			Help: "Guard decisions by outcome, reason code and evaluation pass",
		}, []string{"outcome", "reason", "pass"}), // outcome: "blocked", "allowed"; pass: "user", "draft"
	}
}

// IncrementDecision records one guard decision.
func (m *Metrics) IncrementDecision(blocked bool, reason, pass string) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if blocked {
		outcome = "blocked"
	}
	if reason == "" {
		reason = "none"
	}
	m.Decisions.WithLabelValues(outcome, reason, pass).Inc()
}
