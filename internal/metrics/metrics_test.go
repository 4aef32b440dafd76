package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersStartAtZero(t *testing.T) {
	require.Equal(t, float64(0), testutil.ToFloat64(RPCRetries))
}

func TestQueueDepthSettable(t *testing.T) {
	QueueDepth.Set(4)
	require.Equal(t, float64(4), testutil.ToFloat64(QueueDepth))
	QueueDepth.Set(0)
}

func TestNodeProbeOutcomeLabelled(t *testing.T) {
	NodeProbeOutcome.WithLabelValues("success").Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(NodeProbeOutcome.WithLabelValues("success")))
}
