package adaptive

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_fallbacks_total",
			Help: "Number of times a recommendation component was replaced by its fallback value",
		},
		[]string{"component"},
	)

	forecastRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_forecast_requests_total",
			Help: "Struggle forecast requests to the text-generation service by outcome",
		},
		[]string{"outcome"},
	)

	recommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adaptive_recommendation_duration_seconds",
			Help:    "Time spent building a recommendation bundle",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

// Forecast outcomes.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeMalformed = "malformed"
	outcomeCached    = "cached"
)

// RegisterMetrics registers the engine's collectors. Registering twice on the
// same registerer is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{fallbacksTotal, forecastRequestsTotal, recommendationDuration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
