package indexer

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"zindexer/internal/cache"
	"zindexer/internal/config"
	"zindexer/internal/metrics"
	"zindexer/internal/rpcclient"
	"zindexer/internal/status"
)

// defaultBlockCacheSize bounds the in-process compact-block cache. Not
// a config knob; a future persistent cache would want its own sizing
// policy entirely.
const defaultBlockCacheSize = 4096

// supervisorTick is the cadence at which the Indexer polls the server's
// status snapshot and reports it.
const supervisorTick = 50 * time.Millisecond

// Indexer is the top-level process object: it probes the node, owns the
// Server, and holds the single process-wide online flag every component
// reads to detect termination.
type Indexer struct {
	cfg    *config.IndexerConfig
	server *Server
	rpc    *rpcclient.Client
	logger *logrus.Logger

	online atomic.Bool
	status *status.Atomic

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New validates cfg, probes the node, and constructs the Server. A
// probe failure is returned as an error for the caller (cmd/zindexer)
// to treat as fatal -- this package never calls os.Exit itself.
func New(ctx context.Context, cfg *config.IndexerConfig, mixnet MixnetClient, logger *logrus.Logger) (*Indexer, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("indexer: invalid config: %w", err)
	}

	uri, err := rpcclient.ProbeAndReturnURI(ctx, cfg.NodePort, cfg.NodeCredentials)
	if err != nil {
		return nil, fmt.Errorf("indexer: node unreachable after probe exhaustion: %w", err)
	}
	logger.WithField("node_uri", uri.String()).Info("node probe succeeded")

	rpc := rpcclient.New(uri, cfg.NodeCredentials)
	blockCache, err := cache.NewLRUCache(defaultBlockCacheSize)
	if err != nil {
		return nil, fmt.Errorf("indexer: construct block cache: %w", err)
	}

	idx := &Indexer{cfg: cfg, rpc: rpc, logger: logger, status: status.NewAtomic(status.Spawning)}
	idx.online.Store(true)

	server, err := Spawn(cfg, rpc, blockCache, mixnet, &idx.online, logger)
	if err != nil {
		return nil, fmt.Errorf("indexer: spawn server: %w", err)
	}
	idx.server = server

	return idx, nil
}

// Status returns the indexer's own status cell (not the server's nested
// snapshot; see Server.Status for that).
func (idx *Indexer) Status() status.Status { return idx.status.Load() }

// Run registers the SIGINT/SIGTERM handler, starts the supervisory loop,
// and blocks until the process is asked to shut down -- by a signal, by
// a context cancellation from the caller, or by an explicit call to
// Shutdown. It returns once every task has joined.
func (idx *Indexer) Run(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	idx.mu.Lock()
	idx.cancel = cancel
	idx.mu.Unlock()

	idx.status.Store(status.Starting)
	idx.logger.WithFields(logrus.Fields{
		"node":         idx.rpc.URI().String(),
		"max_queue":    idx.cfg.MaxQueueSize,
		"idle_workers": idx.cfg.IdleWorkerPoolSize,
		"max_workers":  idx.cfg.MaxWorkerPoolSize,
	}).Info("zindexer starting")
	idx.status.Store(status.Listening)

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		idx.superviseLoop(ctx)
	}()

	idx.server.Run(ctx)

	idx.online.Store(false)
	idx.status.Store(status.Closing)
	<-supervisorDone
	idx.status.Store(status.Offline)
	idx.logger.Info("zindexer offline")
	return nil
}

// Shutdown triggers the same cascade a SIGINT/SIGTERM would, for
// callers that want to stop the indexer programmatically (e.g. tests).
// It is a no-op if Run has not been called yet.
func (idx *Indexer) Shutdown() {
	idx.mu.Lock()
	cancel := idx.cancel
	idx.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// superviseLoop polls the server's aggregated status snapshot every
// supervisorTick, logs transitions, and mirrors queue/worker occupancy
// onto the Prometheus gauges in internal/metrics.
func (idx *Indexer) superviseLoop(ctx context.Context) {
	ticker := time.NewTicker(supervisorTick)
	defer ticker.Stop()

	var lastServer status.Status = -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap := idx.server.Status().Load()
		if snap.Server != lastServer {
			idx.logger.WithField("status", snap.Server.String()).Debug("server status changed")
			lastServer = snap.Server
		}
		metrics.WorkersActive.Set(float64(snap.Workers.Active))
		metrics.WorkersIdle.Set(float64(snap.Workers.Idle))
		metrics.QueueDepth.Set(float64(idx.server.QueueDepth()))
	}
}
