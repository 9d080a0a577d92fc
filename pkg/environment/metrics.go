package environment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Environment metrics
var (
	composeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stackinit_environment_compose_duration_seconds",
		Help:    "Time to compose the session environment",
		Buckets: prometheus.DefBuckets,
	})

	// mode: cvmfs, site, project, user, none, conflict
	composeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackinit_environment_compose_total",
		Help: "Environment compositions by install mode",
	}, []string{"mode"})
)
