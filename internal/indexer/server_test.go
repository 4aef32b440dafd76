package indexer

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zindexer/internal/cache"
	"zindexer/internal/config"
	"zindexer/internal/rpcclient"
	"zindexer/internal/status"
)

func fakeNodeClient(t *testing.T) *rpcclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int32 `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": req.ID, "jsonrpc": "2.0",
			"result": map[string]any{"chain": "main", "blocks": 7, "bestblockhash": "ab"},
		})
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return rpcclient.New(u, nil)
}

func tcpOnlyConfig(port uint16) *config.IndexerConfig {
	return &config.IndexerConfig{
		NodeHost:           "127.0.0.1",
		NodePort:           18232,
		ListenPort:         &port,
		TCPActive:          true,
		MaxQueueSize:       2,
		IdleWorkerPoolSize: 1,
		MaxWorkerPoolSize:  2,
	}
}

func TestServer_SpawnAndServiceGrpcRequest(t *testing.T) {
	rpc := fakeNodeClient(t)
	blockCache, err := cache.NewLRUCache(4)
	require.NoError(t, err)

	var online atomic.Bool
	online.Store(true)

	port := uint16(0)
	srv, err := Spawn(tcpOnlyConfig(port), rpc, blockCache, nil, &online, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		return srv.TCPAddr() != nil
	}, time.Second, 5*time.Millisecond)

	conn, err := net.Dial("tcp", srv.TCPAddr().String())
	require.NoError(t, err)
	defer conn.Close()

	snap := srv.Status()
	require.Eventually(t, func() bool {
		active, idle := 0, 0
		s := snap.Load()
		active, idle = s.Workers.Active, s.Workers.Idle
		return active+idle >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.Equal(t, status.Offline, srv.Status().Load().Server)
}

func TestServer_SpawnRequiresListenPortWhenTCPActive(t *testing.T) {
	rpc := fakeNodeClient(t)
	blockCache, err := cache.NewLRUCache(4)
	require.NoError(t, err)

	var online atomic.Bool
	online.Store(true)

	cfg := tcpOnlyConfig(0)
	cfg.ListenPort = nil
	_, err = Spawn(cfg, rpc, blockCache, nil, &online, nil)
	require.Error(t, err)
}

func TestServer_NymActiveWithoutClientFails(t *testing.T) {
	rpc := fakeNodeClient(t)
	blockCache, err := cache.NewLRUCache(4)
	require.NoError(t, err)

	var online atomic.Bool
	online.Store(true)

	cfg := tcpOnlyConfig(0)
	cfg.TCPActive = false
	path := "/etc/nym"
	cfg.NymConfPath = &path
	_, err = Spawn(cfg, rpc, blockCache, nil, &online, nil)
	require.Error(t, err)
}
