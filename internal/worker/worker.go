package worker

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"

	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/status"
)

// Worker pulls requests off the shared queue and services them against
// the Dispatcher, one at a time. Its status cell moves through
// Spawning -> StandBy -> Working -> (StandBy|Closing) -> Offline; StandBy
// is reported as status.Listening since the status package reserves no
// separate idle ordinal for a pool member waiting on work.
type Worker struct {
	id      int
	queue   *queue.BoundedQueue[request.Request]
	bridge  chan<- net.Conn
	disp    *Dispatcher
	reply   NymReplySink
	st      *status.Atomic
	logger  *logrus.Logger
	retire  chan struct{}
	stopped chan struct{}
}

func newWorker(id int, q *queue.BoundedQueue[request.Request], bridge chan<- net.Conn, disp *Dispatcher, reply NymReplySink, logger *logrus.Logger) *Worker {
	w := &Worker{
		id:      id,
		queue:   q,
		bridge:  bridge,
		disp:    disp,
		reply:   reply,
		st:      status.NewAtomic(status.Spawning),
		logger:  logger,
		retire:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	return w
}

// Status returns the worker's current status cell.
func (w *Worker) Status() status.Status { return w.st.Load() }

// run is the worker's main loop: it blocks on the queue, services each
// request it receives, and exits once parent is cancelled or Retire is
// called. Retirement is cooperative: a request
// already being serviced always runs to completion on parent, which
// Retire never cancels; only the wait for the *next* request is
// interruptible, so an idle worker retires immediately instead of
// lingering until one more request happens to arrive.
func (w *Worker) run(parent context.Context) {
	defer close(w.stopped)
	w.st.Store(status.Listening)

	waitCtx, cancelWait := context.WithCancel(parent)
	defer cancelWait()
	go func() {
		select {
		case <-w.retire:
			cancelWait()
		case <-waitCtx.Done():
		}
	}()

	for {
		req, err := w.queue.Recv(waitCtx)
		if err != nil {
			w.st.Store(status.Closing)
			w.st.Store(status.Offline)
			return
		}

		w.st.Store(status.Working)
		w.serviceOnce(parent, req)
		w.st.Store(status.Listening)

		select {
		case <-w.retire:
			w.st.Store(status.Closing)
			w.st.Store(status.Offline)
			return
		default:
		}
	}
}

// Retire asks the worker to finish its current request (if any) and
// then exit. It does not block; callers wait on Done.
func (w *Worker) Retire() {
	select {
	case <-w.retire:
	default:
		close(w.retire)
	}
}

// Done returns a channel closed once the worker's loop has returned.
func (w *Worker) Done() <-chan struct{} { return w.stopped }

// serviceOnce dispatches a single request to its transport-appropriate
// handler. Errors are logged; the worker always returns to idle
// regardless of the outcome of one request.
func (w *Worker) serviceOnce(ctx context.Context, req request.Request) {
	switch req.Kind {
	case request.Grpc:
		w.serviceGrpc(ctx, req)
	case request.Nym:
		w.serviceNym(ctx, req)
	default:
		w.logger.WithField("kind", req.Kind).Warn("worker: request of unknown kind dropped")
	}
}

// serviceGrpc hands the accepted connection to the shared grpc.Server
// via the bridging listener; grpc-go owns framing and method dispatch
// for the lifetime of the connection from this point on.
func (w *Worker) serviceGrpc(ctx context.Context, req request.Request) {
	if req.Conn == nil {
		w.logger.Warn("worker: grpc request with nil connection dropped")
		return
	}
	select {
	case w.bridge <- req.Conn:
	case <-ctx.Done():
		_ = req.Conn.Close()
	}
}
