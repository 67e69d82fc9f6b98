package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serpops/backend/internal/domain"
)

var (
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serpops_provider_requests_total",
			Help: "Total number of external provider calls",
		},
		[]string{"provider", "operation", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "serpops_provider_request_duration_seconds",
			Help:    "Duration of external provider calls in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serpops_pipeline_fallbacks_total",
			Help: "Total number of degraded responses served by a pipeline",
		},
		[]string{"pipeline", "reason"},
	)
)

// ObserveProvider records the outcome and latency of one provider call started at start.
func ObserveProvider(provider, operation string, start time.Time, err error) {
	ProviderRequestsTotal.WithLabelValues(provider, operation, outcome(err)).Inc()
	ProviderDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}

// RecordFallback counts a degraded pipeline response.
func RecordFallback(pipeline, reason string) {
	FallbacksTotal.WithLabelValues(pipeline, reason).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, domain.ErrParseFailure):
		return "parse_failure"
	default:
		return "error"
	}
}
