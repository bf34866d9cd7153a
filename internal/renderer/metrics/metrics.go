package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the renderer.
type Metrics struct {
	// Renders by state, language and result
	Renders *prometheus.CounterVec
	// Render latency
	RenderDuration prometheus.Histogram
}

// New creates renderer metrics registered on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lcm_render_total",
			Help: "Rendered responses by state, language and result",
		}, []string{"state", "language", "result"}), // result: "ok" or the error code
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lcm_render_duration_seconds",
			Help:    "Time spent assembling one response",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
	}
}

// IncrementRender records one render attempt.
func (m *Metrics) IncrementRender(state, language, result string) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(state, language, result).Inc()
}

// ObserveRenderDuration records how long a render took.
func (m *Metrics) ObserveRenderDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(d.Seconds())
}
