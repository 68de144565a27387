package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	GroupingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grouping_duration_seconds",
			Help:    "Time spent partitioning a client snapshot into groups.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)
	GroupsProduced = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "groups_produced_total", Help: "Groups produced by grouping passes."},
	)
	ClientsExcluded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "clients_excluded_total", Help: "Clients left out of grouping or routing for lack of a valid position."},
	)
	RouteStops = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_stops",
			Help:    "Number of stops in composed routes.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// GeocodeRequests counts address lookups by outcome (cache_hit, fetched, not_found, error).
	GeocodeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_requests_total", Help: "Address lookups by outcome."},
		[]string{"outcome"},
	)
)

var regOnce sync.Once

// Register registers all collectors on Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			GroupingDuration,
			GroupsProduced,
			ClientsExcluded,
			RouteStops,
			GeocodeRequests,
		)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
