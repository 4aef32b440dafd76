package rpcclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startNodeStub starts an httptest-style JSON-RPC stub bound to exactly
// 127.0.0.1 on a fixed port so ProbeAndReturnURI's IPv4 guess matches it.
func startNodeStub(t *testing.T, port uint16) *httptest.Server {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(int(port)))
	require.NoError(t, err)
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"jsonrpc":"2.0","result":{"version":1}}`))
	}))
	srv.Listener.Close()
	srv.Listener = lis
	srv.Start()
	return srv
}

func freePort(t *testing.T) uint16 {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	return uint16(lis.Addr().(*net.TCPAddr).Port)
}

func TestProbeAndReturnURI_FindsIPv4Node(t *testing.T) {
	port := freePort(t)
	srv := startNodeStub(t, port)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u, err := ProbeAndReturnURI(ctx, port, nil)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:"+strconv.Itoa(int(port)), u.Host)
}

func TestProbeAndReturnURI_UnreachableReturnsSentinel(t *testing.T) {
	port := freePort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := ProbeAndReturnURI(ctx, port, nil)
	require.ErrorIs(t, err, ErrNodeUnreachable)
}

func TestProbeOnce_FalseOnConnectionRefused(t *testing.T) {
	port := freePort(t)
	ok := probeOnce(context.Background(), &url.URL{Scheme: "http", Host: "127.0.0.1:" + strconv.Itoa(int(port))}, nil)
	require.False(t, ok)
}
