package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zindexer/internal/cache"
	"zindexer/internal/queue"
	"zindexer/internal/request"
	"zindexer/internal/rpcclient"
	"zindexer/internal/status"
)

type fakeReplySink struct {
	mu       sync.Mutex
	replies  []string
	payloads [][]byte
}

func (f *fakeReplySink) Reply(_ context.Context, replyTag string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replyTag)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeReplySink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replies)
}

func slowDispatcher(t *testing.T, delay time.Duration) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		var req struct {
			ID int32 `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := map[string]any{
			"id": req.ID, "jsonrpc": "2.0",
			"result": map[string]any{"chain": "main", "blocks": 1, "bestblockhash": "aa"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	rpc := rpcclient.New(u, nil)
	blockCache, err := cache.NewLRUCache(4)
	require.NoError(t, err)
	return NewDispatcher(rpc, blockCache, nil)
}

func TestPool_GrowsAndShrinksWithLoad(t *testing.T) {
	disp := slowDispatcher(t, 60*time.Millisecond)
	reply := &fakeReplySink{}
	q := queue.New[request.Request](10)
	poolStatus := status.NewAtomic(status.Spawning)

	pool := Spawn(q, disp, reply, 1, 4, 75, 25, 2, 2, poolStatus, nil)
	t.Cleanup(pool.Shutdown)

	envelope, err := json.Marshal(map[string]any{"method": "getlatestblock"})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		req := request.NewNym("tag", envelope)
		require.NoError(t, q.TrySend(req))
	}

	require.Eventually(t, func() bool {
		active, idle := pool.Counts()
		return active+idle > 1
	}, 2*time.Second, 20*time.Millisecond, "pool should grow under sustained queue backlog")

	require.Eventually(t, func() bool {
		return reply.count() >= 10
	}, 3*time.Second, 20*time.Millisecond, "all queued requests should eventually be serviced")

	require.Eventually(t, func() bool {
		active, idle := pool.Counts()
		return active+idle == 1
	}, 3*time.Second, 20*time.Millisecond, "pool should shrink back to idle once backlog drains")
}

func TestPool_RetirementWaitsForInFlightRequest(t *testing.T) {
	disp := slowDispatcher(t, 100*time.Millisecond)
	reply := &fakeReplySink{}
	q := queue.New[request.Request](4)
	poolStatus := status.NewAtomic(status.Spawning)

	pool := Spawn(q, disp, reply, 1, 1, 75, 25, 2, 2, poolStatus, nil)

	envelope, err := json.Marshal(map[string]any{"method": "getlatestblock"})
	require.NoError(t, err)
	require.NoError(t, q.TrySend(request.NewNym("tag", envelope)))

	require.Eventually(t, func() bool {
		active, _ := pool.Counts()
		return active == 1
	}, time.Second, 10*time.Millisecond)

	pool.Shutdown()
	require.Equal(t, 1, reply.count(), "in-flight request must complete before shutdown returns")
}
