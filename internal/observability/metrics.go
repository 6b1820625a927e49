// Package observability holds the Prometheus instrumentation for the
// viewer data pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters for month selection and distribution fetches.
type Metrics struct {
	MonthSelections prometheus.Counter
	FetchRequests   *prometheus.CounterVec // label outcome: success|error
	StaleResponses  prometheus.Counter
	DemoFallbacks   prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MonthSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomgrid",
			Name:      "month_selections_total",
			Help:      "Total month selection requests handled by the view controller.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloomgrid",
			Name:      "fetch_requests_total",
			Help:      "Distribution fetches by outcome.",
		}, []string{"outcome"}),
		StaleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomgrid",
			Name:      "stale_responses_discarded_total",
			Help:      "Fetch completions discarded because a newer month was already requested.",
		}),
		DemoFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomgrid",
			Name:      "demo_fallbacks_total",
			Help:      "Times the built-in demonstration collection was substituted after a fetch failure.",
		}),
	}

	prometheus.MustRegister(
		m.MonthSelections,
		m.FetchRequests,
		m.StaleResponses,
		m.DemoFallbacks,
	)

	return m
}
