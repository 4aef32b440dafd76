package rpcclient

import (
	"errors"
	"strconv"
)

// ErrBackpressureExhausted is returned by Do when the node has reported
// "Work queue depth exceeded" on every one of the retry attempts.
var ErrBackpressureExhausted = errors.New("rpcclient: node work queue depth exceeded after max attempts")

// ErrNodeUnreachable is returned by ProbeAndReturnURI when neither the
// IPv4 nor the IPv6 loopback address accepted a connection across every
// probe round.
var ErrNodeUnreachable = errors.New("rpcclient: could not establish connection with node")

// RPCError wraps an error object returned in a JSON-RPC envelope's
// "error" field.
type RPCError struct {
	Code    int32
	Message string
}

func (e *RPCError) Error() string {
	return "rpcclient: rpc error " + strconv.Itoa(int(e.Code)) + ": " + e.Message
}

// ClientError reports whether the node's error code blames the request
// rather than the node itself: the JSON-RPC 2.0 reserved range plus
// zcashd's RPC_INVALID_ADDRESS_OR_KEY and RPC_INVALID_PARAMETER.
func (e *RPCError) ClientError() bool {
	switch e.Code {
	case -5, -8, -32600, -32601, -32602, -32700:
		return true
	}
	return false
}
