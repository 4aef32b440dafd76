// Package config defines the indexer's configuration surface. Parsing it
// from flags, environment, or a config file is an external concern (see
// the design notes) -- this package only validates an already-built
// IndexerConfig.
package config

import "errors"

// NodeCredentials is HTTP Basic auth for the upstream node. A nil
// *NodeCredentials, or one with both fields empty, means no
// authentication is configured; Validate rejects a value with exactly
// one of User and Password empty.
type NodeCredentials struct {
	User     string
	Password string
}

// IndexerConfig is immutable after construction. Validate enforces its
// cross-field invariants.
type IndexerConfig struct {
	// NodeHost/NodePort address the upstream JSON-RPC node.
	NodeHost string
	NodePort uint16
	// NodeCredentials is optional HTTP Basic auth for the node.
	NodeCredentials *NodeCredentials

	// ListenPort is the optional TCP ingress port for the wallet-facing
	// gRPC service.
	ListenPort *uint16
	// TCPActive enables the TCP ingestor.
	TCPActive bool

	// NymConfPath is the optional mix-network client configuration path.
	// A non-nil value enables the Nym ingestor.
	NymConfPath *string

	// MaxQueueSize bounds the request queue's capacity.
	MaxQueueSize int
	// IdleWorkerPoolSize and MaxWorkerPoolSize bound the worker pool.
	IdleWorkerPoolSize int
	MaxWorkerPoolSize  int

	// MetricsAddr, if non-empty, is the address the Prometheus /metrics
	// endpoint listens on.
	MetricsAddr string
}

var (
	ErrNoIngressEnabled   = errors.New("config: at least one ingress (tcp or nym) must be enabled")
	ErrPartialCredentials = errors.New("config: node credentials must be both present or both absent")
	ErrQueueSize          = errors.New("config: max_queue_size must be positive")
	ErrWorkerBounds       = errors.New("config: idle_worker_pool_size must be positive and <= max_worker_pool_size")
)

// Validate checks that at least one ingress is enabled, credentials are
// both present or both absent, and the queue/worker bounds are sane.
func (c *IndexerConfig) Validate() error {
	if !c.TCPActive && c.NymConfPath == nil {
		return ErrNoIngressEnabled
	}
	if c.NodeCredentials != nil {
		if (c.NodeCredentials.User == "") != (c.NodeCredentials.Password == "") {
			return ErrPartialCredentials
		}
	}
	if c.MaxQueueSize <= 0 {
		return ErrQueueSize
	}
	if c.IdleWorkerPoolSize <= 0 || c.IdleWorkerPoolSize > c.MaxWorkerPoolSize {
		return ErrWorkerBounds
	}
	return nil
}
