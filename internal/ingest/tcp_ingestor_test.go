package ingest

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/status"
)

func newOnlineFlag(v bool) *atomic.Bool {
	b := &atomic.Bool{}
	b.Store(v)
	return b
}

func TestTCPIngestor_EnqueuesAcceptedConnections(t *testing.T) {
	q := queue.New[request.Request](1)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing, err := SpawnTCP("127.0.0.1:0", q, online, st, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ing.Serve(ctx) }()

	conn, err := net.Dial("tcp", ing.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return q.Len() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	require.Equal(t, status.Offline, st.Load())
}

func TestTCPIngestor_RejectsWhenQueueFull(t *testing.T) {
	q := queue.New[request.Request](1)
	require.NoError(t, q.TrySend(request.NewNym("t", []byte("x"))))
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing, err := SpawnTCP("127.0.0.1:0", q, online, st, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Serve(ctx)

	conn, err := net.Dial("tcp", ing.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 256)
	n, _ := conn.Read(buf)
	require.Greater(t, n, 0)
}

func TestTCPIngestor_StopsWhenOfflineFlagCleared(t *testing.T) {
	q := queue.New[request.Request](1)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing, err := SpawnTCP("127.0.0.1:0", q, online, st, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ing.Serve(context.Background()) }()

	online.Store(false)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ingestor did not stop after online flag cleared")
	}
	require.Equal(t, status.Offline, st.Load())
}

func TestTCPIngestor_Shutdown(t *testing.T) {
	q := queue.New[request.Request](1)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing, err := SpawnTCP("127.0.0.1:0", q, online, st, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ing.Serve(context.Background()) }()

	require.Eventually(t, func() bool { return st.Load() == status.Listening }, time.Second, 5*time.Millisecond)
	ing.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ingestor did not stop after Shutdown")
	}
	require.Equal(t, status.Offline, st.Load())
}
