package target

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Target resolution metrics
	cpuResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stackinit_target_cpu_resolve_duration_seconds",
			Help:    "Duration of CPU target resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	cpuResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackinit_target_cpu_resolve_total",
			Help: "Total number of CPU target resolutions",
		},
		[]string{"outcome"}, // matched, override, no_match or invalid
	)

	accelResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackinit_target_accel_resolve_total",
			Help: "Total number of accelerator target resolutions",
		},
		[]string{"outcome"}, // resolved, fallback, override, unavailable or invalid
	)
)
