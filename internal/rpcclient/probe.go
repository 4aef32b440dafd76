package rpcclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"zindexer/internal/config"
	"zindexer/internal/metrics"
)

const (
	probeRounds      = 3
	probeDialTimeout = 3 * time.Second
	probeRoundWait   = 3 * time.Second
)

// ProbeAndReturnURI tries to reach a node listening on port at both the
// IPv4 and IPv6 loopback addresses, preferring IPv4, across probeRounds
// rounds with a probeDialTimeout per attempt and a probeRoundWait
// between rounds. It returns the first URI that answers a getinfo call
// successfully, or ErrNodeUnreachable once every round has failed both
// addresses.
func ProbeAndReturnURI(ctx context.Context, port uint16, creds *config.NodeCredentials) (*url.URL, error) {
	ipv4 := &url.URL{Scheme: "http", Host: fmt.Sprintf("127.0.0.1:%d", port)}
	ipv6 := &url.URL{Scheme: "http", Host: fmt.Sprintf("[::1]:%d", port)}

	for round := 0; round < probeRounds; round++ {
		if ok := probeOnce(ctx, ipv4, creds); ok {
			return ipv4, nil
		}
		if ok := probeOnce(ctx, ipv6, creds); ok {
			return ipv6, nil
		}
		if round < probeRounds-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(probeRoundWait):
			}
		}
	}
	return nil, ErrNodeUnreachable
}

func probeOnce(ctx context.Context, target *url.URL, creds *config.NodeCredentials) bool {
	dialCtx, cancel := context.WithTimeout(ctx, probeDialTimeout)
	defer cancel()

	client := New(target, creds)
	_, err := client.GetInfo(dialCtx)
	if err != nil {
		metrics.NodeProbeOutcome.WithLabelValues("failure").Inc()
		return false
	}
	metrics.NodeProbeOutcome.WithLabelValues("success").Inc()
	return true
}
