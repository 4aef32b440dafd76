package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/status"
)

// MixnetClient is the narrow interface NymIngestor needs from a mix-net
// SDK client. The SDK itself lives outside this module; only its
// polling contract matters here.
type MixnetClient interface {
	// Poll blocks until one message is available or ctx is cancelled. A
	// nil error with an empty replyTag or payload is a malformed
	// message, not a transport failure.
	Poll(ctx context.Context) (replyTag string, payload []byte, err error)
}

type nymMessage struct {
	replyTag string
	payload  []byte
}

// NymIngestor polls a MixnetClient for incoming requests and hands
// decoded ones to the shared request queue.
type NymIngestor struct {
	client MixnetClient
	queue  *queue.BoundedQueue[request.Request]
	online *atomic.Bool
	status *status.Atomic
	logger *logrus.Logger
}

// SpawnNym returns a NymIngestor in the Starting state wrapping client.
func SpawnNym(client MixnetClient, q *queue.BoundedQueue[request.Request], online *atomic.Bool, st *status.Atomic, logger *logrus.Logger) *NymIngestor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	st.Store(status.Starting)
	return &NymIngestor{client: client, queue: q, online: online, status: st, logger: logger}
}

// Serve runs the poll loop until ctx is cancelled, the ingestor is shut
// down, or the shared online flag is cleared.
func (n *NymIngestor) Serve(ctx context.Context) error {
	n.status.Store(status.Listening)
	n.logger.Info("nym ingestor listening")

	msgs := make(chan nymMessage)
	pollErrs := make(chan error, 1)
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go n.pollLoop(pollCtx, msgs, pollErrs)

	ticker := time.NewTicker(housekeepingTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return n.closeDown(ctx.Err())
		case <-ticker.C:
			if n.shouldShutdown() {
				return n.closeDown(nil)
			}
		case msg := <-msgs:
			if n.shouldShutdown() {
				return n.closeDown(nil)
			}
			n.handleMessage(msg)
		case err := <-pollErrs:
			n.logger.WithError(err).Warn("nym ingestor poll failed")
			return n.closeDown(err)
		}
	}
}

func (n *NymIngestor) pollLoop(ctx context.Context, msgs chan<- nymMessage, errs chan<- error) {
	for {
		tag, payload, err := n.client.Poll(ctx)
		if err != nil {
			errs <- err
			return
		}
		select {
		case msgs <- nymMessage{replyTag: tag, payload: payload}:
		case <-ctx.Done():
			return
		}
	}
}

func (n *NymIngestor) handleMessage(msg nymMessage) {
	if len(msg.payload) == 0 {
		n.logger.WithError(ErrEmptyMessage).Warn("dropping malformed mixnet message")
		return
	}
	if msg.replyTag == "" {
		n.logger.WithError(ErrEmptyReplyTag).Warn("dropping malformed mixnet message")
		return
	}

	req := request.NewNym(msg.replyTag, msg.payload)
	switch err := n.queue.TrySend(req); err {
	case nil:
	case queue.ErrQueueFull:
		n.logger.Warn("request queue full, dropping mixnet message")
	default:
		n.logger.WithError(err).Warn("failed to enqueue request, queue closed")
	}
}

// Shutdown marks the ingestor for graceful closure.
func (n *NymIngestor) Shutdown() {
	n.status.Store(status.Closing)
}

func (n *NymIngestor) shouldShutdown() bool {
	if n.status.Load() == status.Closing {
		return true
	}
	return !n.online.Load()
}

func (n *NymIngestor) closeDown(cause error) error {
	n.status.Store(status.Closing)
	n.status.Store(status.Offline)
	return cause
}
