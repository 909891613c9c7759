package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "usr",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of API requests broken down by route and result.",
	}, []string{"route", "result"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "usr",
		Subsystem: "api",
		Name:      "latency_seconds",
		Help:      "Latency distribution for API requests.",
		Buckets: []float64{
			0.001, 0.002, 0.005,
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
			1, 2, 5, 10,
		},
	}, []string{"route", "result"})

	assignmentActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "usr",
		Subsystem: "assignment",
		Name:      "actions_total",
		Help:      "Assignment coordinator actions broken down by action and outcome.",
	}, []string{"action", "outcome"})

	cascadeDeletedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "usr",
		Subsystem: "content",
		Name:      "cascade_deleted_rows_total",
		Help:      "Rows removed by cascading content deletes, by kind.",
	}, []string{"kind"})
)

// ResultClass buckets an HTTP status for metric labels.
func ResultClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

func ObserveAPIRequest(route string, status int, seconds float64) {
	result := ResultClass(status)
	apiRequests.WithLabelValues(route, result).Inc()
	apiLatency.WithLabelValues(route, result).Observe(seconds)
}

func ObserveAssignmentAction(action, outcome string) {
	assignmentActions.WithLabelValues(action, outcome).Inc()
}

func ObserveCascadeDelete(kind string, rows int64) {
	if rows <= 0 {
		return
	}
	cascadeDeletedRows.WithLabelValues(kind).Add(float64(rows))
}
