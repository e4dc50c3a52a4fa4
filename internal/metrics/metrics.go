package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "events_api"

// Registry is the Prometheus registry for every metric the service exports.
var Registry = prometheus.NewRegistry()

// GraphQLOperations counts resolved root operations by outcome.
// outcome: ok|error
var GraphQLOperations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_operations_total",
		Help:      "Total number of GraphQL root operations",
	},
	[]string{"operation", "outcome"},
)

// StoreOperationDuration tracks record store latency.
var StoreOperationDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of record store operations in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	},
	[]string{"backend", "operation"},
)

// StoreErrors counts failed record store operations.
var StoreErrors = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed record store operations",
	},
	[]string{"backend", "operation"},
)

// BackReferenceRepairs counts createdEvents entries restored by the reconciler.
var BackReferenceRepairs = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backreference_repairs_total",
		Help:      "Total number of user createdEvents entries restored by the reconciler",
	},
)

// LiveFeedClients is the number of connected websocket clients.
var LiveFeedClients = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_feed_clients",
		Help:      "Number of connected live feed websocket clients",
	},
)

// Init registers the Go runtime and process collectors.
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
