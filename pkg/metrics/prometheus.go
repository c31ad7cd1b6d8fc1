package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "utpad_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "utpad_authz_decisions_total",
			Help: "Object-level authorization decisions by operation and outcome",
		},
		[]string{"operation", "decision"},
	)

	CapacityReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "utpad_capacity_report_duration_seconds",
			Help:    "Capacity report computation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"kind"},
	)

	CapacityCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "utpad_capacity_cache_lookups_total",
			Help: "Capacity report cache lookups by result",
		},
		[]string{"result"},
	)
)
