package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrySendRecvFIFO(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 4; i++ {
		require.NoError(t, q.TrySend(i))
	}
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		v, err := q.Recv(ctx)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}

func TestTrySendFullLeavesQueueUnchanged(t *testing.T) {
	q := New[string](2)
	require.NoError(t, q.TrySend("a"))
	require.NoError(t, q.TrySend("b"))

	err := q.TrySend("c")
	require.ErrorIs(t, err, ErrQueueFull)
	require.Equal(t, 2, q.Len())

	ctx := context.Background()
	v, err := q.Recv(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", v)
}

func TestCloseUnblocksWaiters(t *testing.T) {
	q := New[int](1)
	done := make(chan error, 1)
	go func() {
		_, err := q.Recv(context.Background())
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Close")
	}
}

func TestTrySendAfterCloseFails(t *testing.T) {
	q := New[int](1)
	q.Close()
	err := q.TrySend(1)
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	q := New[int](1)
	q.Close()
	require.NotPanics(t, func() { q.Close() })
}

func TestRecvDrainsBeforeClosedSignal(t *testing.T) {
	q := New[int](2)
	require.NoError(t, q.TrySend(1))
	q.Close()

	v, err := q.Recv(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = q.Recv(context.Background())
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestRecvContextCancellation(t *testing.T) {
	q := New[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Recv(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
