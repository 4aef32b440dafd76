// Package indexer wires together the bounded queue, the ingress
// transports, the worker pool, and the JSON-RPC client into the running
// process: the Indexer owns the Server, the Server owns the
// ingestors/queue/worker pool, and every component shares the
// process-wide online flag.
package indexer

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"zindexer/internal/cache"
	"zindexer/internal/config"
	"zindexer/internal/ingest"
	"zindexer/internal/metrics"
	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/rpcclient"
	"zindexer/internal/status"
	"zindexer/internal/worker"
)

// shutdownQuiesceWait bounds how long Shutdown waits for an ingestor to
// report Offline before closing the queue out from under it regardless;
// an ingestor that never observes the Closing tick (e.g. a wedged
// accept loop already mid-Accept) must not wedge shutdown forever.
const shutdownQuiesceWait = 2 * time.Second

// Server owns the ingress transports, the bounded request queue, and
// the worker pool.
type Server struct {
	cfg    *config.IndexerConfig
	logger *logrus.Logger

	queue *queue.BoundedQueue[request.Request]
	tcp   *ingest.TCPIngestor
	nym   *ingest.NymIngestor
	pool  *worker.Pool

	status *status.ServerStatus

	wg sync.WaitGroup
}

// Spawn constructs a Server from a validated config: the bounded queue,
// whichever ingestors the config enables, and a worker pool wired to a
// Dispatcher over rpc/blockCache. mixnet may be nil when NymConfPath is
// unset.
func Spawn(cfg *config.IndexerConfig, rpc *rpcclient.Client, blockCache cache.BlockCache, mixnet MixnetClient, online *atomic.Bool, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ss := status.NewServerStatus()
	ss.Server.Store(status.Spawning)

	q := queue.New[request.Request](cfg.MaxQueueSize)
	disp := worker.NewDispatcher(rpc, blockCache, logger)

	s := &Server{cfg: cfg, logger: logger, queue: q, status: ss}

	if cfg.TCPActive {
		if cfg.ListenPort == nil {
			return nil, fmt.Errorf("indexer: tcp_active is set but listen_port is nil")
		}
		addr := fmt.Sprintf(":%d", *cfg.ListenPort)
		tcp, err := ingest.SpawnTCP(addr, q, online, ss.TCPStatus(), logger)
		if err != nil {
			return nil, fmt.Errorf("indexer: spawn tcp ingestor: %w", err)
		}
		s.tcp = tcp
	}

	if cfg.NymConfPath != nil {
		if mixnet == nil {
			return nil, fmt.Errorf("indexer: nym_conf_path is set but no mixnet client was provided")
		}
		s.nym = ingest.SpawnNym(mixnet, q, online, ss.NymStatus(), logger)
	}

	var reply worker.NymReplySink
	if mixnet != nil {
		reply = mixnet
	}
	s.pool = worker.Spawn(q, disp, reply, cfg.IdleWorkerPoolSize, cfg.MaxWorkerPoolSize,
		75, 25, 2, 10, ss.WorkerStatus(), logger)
	ss.RegisterWorkerCounter(s.pool.Counts)

	ss.Server.Store(status.Listening)
	metrics.QueueCapacity.Set(float64(cfg.MaxQueueSize))
	return s, nil
}

// Status returns the server's aggregated status snapshot.
func (s *Server) Status() *status.ServerStatus { return s.status }

// QueueDepth reports the number of requests currently buffered, for the
// supervisory loop's metrics mirroring.
func (s *Server) QueueDepth() int { return s.queue.Len() }

// TCPAddr returns the bound TCP ingress address, or nil if TCP ingress
// is disabled.
func (s *Server) TCPAddr() net.Addr {
	if s.tcp == nil {
		return nil
	}
	return s.tcp.Addr()
}

// Run starts every enabled ingestor's accept/poll loop and blocks until
// ctx is cancelled, at which point it drives Shutdown before returning.
func (s *Server) Run(ctx context.Context) {
	if s.tcp != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.tcp.Serve(ctx); err != nil {
				s.logger.WithError(err).Debug("tcp ingestor serve loop exited")
			}
		}()
	}
	if s.nym != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.nym.Serve(ctx); err != nil {
				s.logger.WithError(err).Debug("nym ingestor serve loop exited")
			}
		}()
	}

	<-ctx.Done()
	s.Shutdown()
}

// Shutdown drives the server's half of the shutdown cascade: mark
// Closing, signal every ingestor to stop accepting, wait for them to
// quiesce, close the queue, then drain the worker pool.
func (s *Server) Shutdown() {
	s.status.Server.Store(status.Closing)

	if s.tcp != nil {
		s.tcp.Shutdown()
	}
	if s.nym != nil {
		s.nym.Shutdown()
	}
	s.waitForIngestorsOffline()
	s.wg.Wait()

	s.queue.Close()
	s.pool.Shutdown()

	s.status.Server.Store(status.Offline)
}

func (s *Server) waitForIngestorsOffline() {
	deadline := time.Now().Add(shutdownQuiesceWait)
	for time.Now().Before(deadline) {
		tcpDone := s.tcp == nil || s.status.TCPStatus().Load() == status.Offline
		nymDone := s.nym == nil || s.status.NymStatus().Load() == status.Offline
		if tcpDone && nymDone {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.logger.Warn("indexer: ingestors did not quiesce within the shutdown grace period, closing queue anyway")
}
