package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	computationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mintel",
		Subsystem: "chart",
		Name:      "computations_total",
		Help:      "Number of chart computations executed, by view mode and data type.",
	}, []string{"view_mode", "data_type"})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mintel",
		Subsystem: "chart",
		Name:      "cache_hits_total",
		Help:      "Number of chart requests served from the memoization cache.",
	})
)
