package detect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Detection metrics
	detectDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stackinit_detect_duration_seconds",
			Help:    "Time taken to probe the host and resolve its targets",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
	)

	detectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackinit_detect_total",
			Help: "Total number of detection attempts",
		},
		[]string{"status"}, // success or error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stackinit_detect_probe_duration_seconds",
			Help:    "Time taken by individual host probes",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"probe"}, // cpu or gpu
	)
)
