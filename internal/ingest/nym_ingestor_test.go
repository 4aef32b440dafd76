package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/status"
)

type fakeMixnetClient struct {
	mu       sync.Mutex
	messages []nymMessage
}

func (f *fakeMixnetClient) Poll(ctx context.Context) (string, []byte, error) {
	f.mu.Lock()
	if len(f.messages) > 0 {
		m := f.messages[0]
		f.messages = f.messages[1:]
		f.mu.Unlock()
		return m.replyTag, m.payload, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return "", nil, ctx.Err()
}

func TestNymIngestor_EnqueuesValidMessages(t *testing.T) {
	client := &fakeMixnetClient{messages: []nymMessage{{replyTag: "tag-1", payload: []byte("hello")}}}
	q := queue.New[request.Request](4)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing := SpawnNym(client, q, online, st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Serve(ctx)

	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNymIngestor_DropsEmptyPayload(t *testing.T) {
	client := &fakeMixnetClient{messages: []nymMessage{{replyTag: "tag-1", payload: nil}}}
	q := queue.New[request.Request](4)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing := SpawnNym(client, q, online, st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Serve(ctx)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, q.Len())
}

func TestNymIngestor_DropsEmptyReplyTag(t *testing.T) {
	client := &fakeMixnetClient{messages: []nymMessage{{replyTag: "", payload: []byte("hi")}}}
	q := queue.New[request.Request](4)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing := SpawnNym(client, q, online, st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Serve(ctx)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, q.Len())
}

func TestNymIngestor_StopsOnShutdown(t *testing.T) {
	client := &fakeMixnetClient{}
	q := queue.New[request.Request](4)
	online := newOnlineFlag(true)
	st := status.NewAtomic(status.Starting)

	ing := SpawnNym(client, q, online, st, nil)
	done := make(chan error, 1)
	go func() { done <- ing.Serve(context.Background()) }()

	require.Eventually(t, func() bool { return st.Load() == status.Listening }, time.Second, 5*time.Millisecond)
	ing.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nym ingestor did not stop after Shutdown")
	}
	require.Equal(t, status.Offline, st.Load())
}
