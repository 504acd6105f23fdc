package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream search-service Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foliant",
			Name:      "upstream_requests_total",
			Help:      "Total number of search-service commands issued",
		},
		[]string{"command", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foliant",
			Name:      "upstream_request_duration_seconds",
			Help:      "Search-service command duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"command"},
	)

	UpstreamParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foliant",
			Name:      "upstream_parse_failures_total",
			Help:      "Total queries rejected by the search service parser",
		},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers Prometheus upstream metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamParseFailuresTotal)
	upstreamMetricsRegistered = true
}
