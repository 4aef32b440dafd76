// Package metrics carries ambient observability for the indexer: queue
// depth, worker pool sizing, RPC retry counts and node-probe outcomes,
// all registered on a package-level Prometheus registry and exposed by
// cmd/zindexer on a /metrics endpoint separate from the gRPC listener.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry is the registry cmd/zindexer hands to promhttp.Handler.
var Registry = prometheus.NewRegistry()

var (
	// QueueDepth is the current number of requests buffered in the
	// bounded queue.
	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zindexer",
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Number of requests currently buffered in the bounded queue.",
	})

	// QueueCapacity is the queue's fixed capacity.
	QueueCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zindexer",
		Subsystem: "queue",
		Name:      "capacity",
		Help:      "Configured maximum capacity of the bounded queue.",
	})

	// WorkersActive is the number of workers currently servicing a
	// request.
	WorkersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zindexer",
		Subsystem: "workers",
		Name:      "active",
		Help:      "Number of workers currently servicing a request.",
	})

	// WorkersIdle is the number of workers in standby awaiting work.
	WorkersIdle = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zindexer",
		Subsystem: "workers",
		Name:      "idle",
		Help:      "Number of workers idle and available for work.",
	})

	// RPCRetries counts retry attempts issued by the JSON-RPC client due
	// to node work-queue backpressure.
	RPCRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "zindexer",
		Subsystem: "rpc",
		Name:      "retries_total",
		Help:      "Total JSON-RPC retry attempts due to node backpressure.",
	})

	// NodeProbeOutcome counts node-reachability probe attempts by
	// outcome ("success" or "failure").
	NodeProbeOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zindexer",
		Subsystem: "node",
		Name:      "probe_outcome_total",
		Help:      "Node reachability probe attempts by outcome.",
	}, []string{"outcome"})
)

func init() {
	Registry.MustRegister(QueueDepth, QueueCapacity, WorkersActive, WorkersIdle, RPCRetries, NodeProbeOutcome)
}
