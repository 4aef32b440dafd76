package worker

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/status"
	"zindexer/internal/walletrpc"
)

const scalerTick = 50 * time.Millisecond

// gracefulStopWait bounds how long Shutdown lets the bridged gRPC
// server drain before hard-stopping it, and is also the bridged
// server's HTTP/2 handshake timeout: grpc-go's Stop and GracefulStop
// both wait for connections still mid-handshake, so a wallet connection
// that never completes its handshake must be cut off by that deadline
// to keep it from wedging shutdown.
const gracefulStopWait = 2 * time.Second

// Pool owns a dynamically-sized set of Workers draining the shared
// request queue. It never shrinks below idle nor grows past max; the
// scaler goroutine samples queue occupancy every scalerTick and grows
// or shrinks by one worker once growSampleCount/shrinkSampleCount
// consecutive samples have crossed growThresholdPct/shrinkThresholdPct.
//
// Grpc-kind requests are serviced by handing the accepted connection to
// a single shared *grpc.Server through a bridging net.Listener; grpc-go
// owns HTTP/2 framing and per-connection RPC dispatch from that point,
// so a worker services a Grpc request by the single act of delivering
// the connection. Request-level cancellation is not implemented once a
// request has been handed off this way, nor once a Nym request's RPC
// call is in flight: a hung upstream node call or a wallet connection
// that never completes its exchange leaks the worker/goroutine
// servicing it until that call itself returns. This is a known,
// accepted resource-leak vector, not an oversight.
type Pool struct {
	q      *queue.BoundedQueue[request.Request]
	disp   *Dispatcher
	reply  NymReplySink
	logger *logrus.Logger

	idle, max int

	growThresholdPct   int
	shrinkThresholdPct int
	growSampleCount    int
	shrinkSampleCount  int

	mu      sync.Mutex
	workers map[int]*Worker
	nextID  int

	bridge     chan net.Conn
	bridgeLst  *bridgeListener
	grpcServer *grpc.Server

	poolStatus *status.Atomic

	stopScaler chan struct{}
	scalerDone chan struct{}
}

// Spawn constructs a Pool with idle workers running immediately, wires
// a shared *grpc.Server onto a bridging listener for Grpc-kind
// requests, and starts the scaler goroutine. max must be >= idle.
func Spawn(q *queue.BoundedQueue[request.Request], disp *Dispatcher, reply NymReplySink, idle, max int, growThresholdPct, shrinkThresholdPct, growSampleCount, shrinkSampleCount int, poolStatus *status.Atomic, logger *logrus.Logger) *Pool {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if max < idle {
		max = idle
	}

	p := &Pool{
		q:                  q,
		disp:               disp,
		reply:              reply,
		logger:             logger,
		idle:               idle,
		max:                max,
		growThresholdPct:   growThresholdPct,
		shrinkThresholdPct: shrinkThresholdPct,
		growSampleCount:    growSampleCount,
		shrinkSampleCount:  shrinkSampleCount,
		workers:            make(map[int]*Worker),
		bridge:             make(chan net.Conn),
		poolStatus:         poolStatus,
		stopScaler:         make(chan struct{}),
		scalerDone:         make(chan struct{}),
	}

	p.bridgeLst = newBridgeListener(p.bridge)
	p.grpcServer = grpc.NewServer(grpc.ConnectionTimeout(gracefulStopWait))
	walletrpc.RegisterCompactTxStreamerServer(p.grpcServer, disp)
	go func() {
		if err := p.grpcServer.Serve(p.bridgeLst); err != nil {
			p.logger.WithError(err).Debug("bridged grpc server stopped")
		}
	}()

	for i := 0; i < idle; i++ {
		p.spawnWorker()
	}

	p.poolStatus.Store(status.Listening)
	go p.scaler()
	return p
}

func (p *Pool) spawnWorker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	w := newWorker(id, p.q, p.bridge, p.disp, p.reply, p.logger)
	p.workers[id] = w
	go func() {
		w.run(context.Background())
		p.mu.Lock()
		delete(p.workers, id)
		p.mu.Unlock()
	}()
}

func (p *Pool) retireOne() {
	p.mu.Lock()
	var victim *Worker
	for _, w := range p.workers {
		victim = w
		break
	}
	p.mu.Unlock()
	if victim != nil {
		victim.Retire()
	}
}

// Counts reports the number of workers currently Working versus idle
// (Listening/Spawning), for status.ServerStatus.RegisterWorkerCounter.
func (p *Pool) Counts() (active, idle int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		if w.Status() == status.Working {
			active++
		} else {
			idle++
		}
	}
	return active, idle
}

func (p *Pool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// scaler samples queue occupancy every scalerTick, growing the pool
// after growSampleCount consecutive samples at or above
// growThresholdPct of capacity, and shrinking after shrinkSampleCount
// consecutive samples at or below shrinkThresholdPct, always staying
// within [idle, max].
func (p *Pool) scaler() {
	defer close(p.scalerDone)
	ticker := time.NewTicker(scalerTick)
	defer ticker.Stop()

	var aboveStreak, belowStreak int
	for {
		select {
		case <-p.stopScaler:
			return
		case <-ticker.C:
		}

		capacity := p.q.Cap()
		if capacity == 0 {
			continue
		}
		occupiedPct := p.q.Len() * 100 / capacity

		if occupiedPct >= p.growThresholdPct {
			aboveStreak++
			belowStreak = 0
		} else if occupiedPct <= p.shrinkThresholdPct {
			belowStreak++
			aboveStreak = 0
		} else {
			aboveStreak, belowStreak = 0, 0
		}

		if aboveStreak >= p.growSampleCount && p.size() < p.max {
			p.spawnWorker()
			aboveStreak = 0
			p.logger.WithField("size", p.size()).Debug("worker pool grew")
		}
		if belowStreak >= p.shrinkSampleCount && p.size() > p.idle {
			p.retireOne()
			belowStreak = 0
			p.logger.WithField("size", p.size()).Debug("worker pool shrank")
		}
	}
}

// Shutdown retires every worker cooperatively, stops the scaler, and
// closes the bridged gRPC server. It blocks until every worker has
// finished its in-flight request (if any) and exited.
func (p *Pool) Shutdown() {
	close(p.stopScaler)
	<-p.scalerDone

	p.mu.Lock()
	workers := make([]*Worker, 0, len(p.workers))
	for _, w := range p.workers {
		workers = append(workers, w)
	}
	p.mu.Unlock()

	for _, w := range workers {
		w.Retire()
	}
	for _, w := range workers {
		<-w.Done()
	}

	stopped := make(chan struct{})
	go func() {
		p.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(gracefulStopWait):
		p.grpcServer.Stop()
		<-stopped
	}
	p.poolStatus.Store(status.Offline)
}

// bridgeListener is a net.Listener whose Accept pulls pre-accepted
// connections off a channel instead of dialing a socket itself,
// letting a single *grpc.Server service connections the indexer's own
// TCPIngestor/worker pool already own the acceptance of.
type bridgeListener struct {
	conns  chan net.Conn
	closed chan struct{}
	once   sync.Once
}

func newBridgeListener(conns chan net.Conn) *bridgeListener {
	return &bridgeListener{conns: conns, closed: make(chan struct{})}
}

func (b *bridgeListener) Accept() (net.Conn, error) {
	select {
	case c := <-b.conns:
		return c, nil
	case <-b.closed:
		return nil, net.ErrClosed
	}
}

func (b *bridgeListener) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

func (b *bridgeListener) Addr() net.Addr { return bridgeAddr{} }

type bridgeAddr struct{}

func (bridgeAddr) Network() string { return "bridge" }
func (bridgeAddr) String() string  { return "bridge" }
