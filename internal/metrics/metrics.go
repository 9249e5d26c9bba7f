package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edusphere_mutations_total",
			Help: "Total number of document mutations",
		},
		[]string{"collection", "op"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edusphere_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	GradeValueHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edusphere_grade_value",
			Help:    "Distribution of recorded grade values on the 0-20 scale",
			Buckets: prometheus.LinearBuckets(0, 2, 11),
		},
		[]string{"course"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
