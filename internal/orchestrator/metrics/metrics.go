package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of one first-response request.
const (
	OutcomeDelivered    = "delivered"
	OutcomeBlockedUser  = "blocked_user"
	OutcomeBlockedDraft = "blocked_draft"
	OutcomeError        = "error"
)

// Metrics provides observability for the first-response pipeline.
type Metrics struct {
	// Requests by outcome
	Responses *prometheus.CounterVec
	// End-to-end latency of ProduceFirstResponse
	Duration prometheus.Histogram
}

// New creates orchestrator metrics registered on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Responses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lcm_first_responses_total",
			Help: "First-response requests by outcome",
		}, []string{"outcome"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lcm_first_response_duration_seconds",
			Help:    "Time to guard, render and re-check one first response",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}

// Observe records the outcome and duration of one request.
func (m *Metrics) Observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Responses.WithLabelValues(outcome).Inc()
	m.Duration.Observe(d.Seconds())
}
