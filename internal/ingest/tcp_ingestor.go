// Package ingest holds the two request-intake front ends: TCPIngestor
// for wallet gRPC connections, NymIngestor for mix-net delivered
// requests. Both share a small Starting/Listening/Closing/Offline state
// machine and a 50ms housekeeping tick.
package ingest

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/status"
)

const housekeepingTick = 50 * time.Millisecond

// TCPIngestor accepts incoming TCP connections for the wallet-facing
// gRPC service and hands each one to the shared request queue.
type TCPIngestor struct {
	listener net.Listener
	queue    *queue.BoundedQueue[request.Request]
	online   *atomic.Bool
	status   *status.Atomic
	logger   *logrus.Logger
}

// SpawnTCP binds addr and returns a TCPIngestor in the Starting state.
// Serve must be called to begin accepting connections.
func SpawnTCP(addr string, q *queue.BoundedQueue[request.Request], online *atomic.Bool, st *status.Atomic, logger *logrus.Logger) (*TCPIngestor, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	st.Store(status.Starting)
	return &TCPIngestor{listener: lis, queue: q, online: online, status: st, logger: logger}, nil
}

// Addr returns the bound listen address.
func (t *TCPIngestor) Addr() net.Addr {
	return t.listener.Addr()
}

// Serve runs the accept loop until ctx is cancelled, the ingestor is
// shut down, or the shared online flag is cleared.
func (t *TCPIngestor) Serve(ctx context.Context) error {
	t.status.Store(status.Listening)
	t.logger.WithField("addr", t.listener.Addr()).Info("tcp ingestor listening")

	conns := make(chan net.Conn)
	acceptErrs := make(chan error, 1)
	go t.acceptLoop(conns, acceptErrs)

	ticker := time.NewTicker(housekeepingTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return t.closeDown(ctx.Err())
		case <-ticker.C:
			if t.shouldShutdown() {
				return t.closeDown(nil)
			}
		case conn := <-conns:
			if t.shouldShutdown() {
				conn.Close()
				return t.closeDown(nil)
			}
			t.handleConn(conn)
		case err := <-acceptErrs:
			t.logger.WithError(err).Warn("tcp ingestor accept failed")
			return t.closeDown(err)
		}
	}
}

func (t *TCPIngestor) acceptLoop(conns chan<- net.Conn, errs chan<- error) {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			errs <- err
			return
		}
		conns <- conn
	}
}

func (t *TCPIngestor) handleConn(conn net.Conn) {
	req := request.NewGrpc(conn)
	switch err := t.queue.TrySend(req); err {
	case nil:
	case queue.ErrQueueFull:
		t.logger.Warn("request queue full, rejecting connection")
		writeResourceExhausted(conn)
		conn.Close()
	default:
		t.logger.WithError(err).Warn("failed to enqueue request, queue closed")
		conn.Close()
	}
}

// Shutdown marks the ingestor for graceful closure; Serve observes this
// on its next tick or next accepted connection.
func (t *TCPIngestor) Shutdown() {
	t.status.Store(status.Closing)
	t.listener.Close()
}

func (t *TCPIngestor) shouldShutdown() bool {
	if t.status.Load() == status.Closing {
		return true
	}
	return !t.online.Load()
}

func (t *TCPIngestor) closeDown(cause error) error {
	t.status.Store(status.Closing)
	t.listener.Close()
	t.status.Store(status.Offline)
	return cause
}

// writeResourceExhausted writes a best-effort ResourceExhausted status
// message over the raw connection before the caller closes it. This is
// not a conforming HTTP/2 trailer frame -- implementing an HTTP/2
// framer from scratch is out of scope here -- but it gives a wallet
// client bytes that make the rejection reason legible on the wire.
func writeResourceExhausted(conn net.Conn) {
	st := grpcstatus.New(grpccodes.ResourceExhausted, "work queue depth exceeded")
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = conn.Write([]byte(st.Err().Error()))
}
