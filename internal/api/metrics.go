package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes used as the "outcome" label.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeTimeout  = "timeout"
	outcomeCanceled = "canceled"
	outcomeError    = "error"
)

// Prometheus metrics
var (
	enhanceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquavision_enhance_requests_total",
			Help: "Enhancement requests by outcome",
		},
		[]string{"outcome"},
	)
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aquavision_result_cache_hits_total",
			Help: "Enhancement requests answered from the result cache",
		},
	)
	engineSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aquavision_engine_duration_seconds",
			Help:    "Time spent inside the enhancement engine",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
)
