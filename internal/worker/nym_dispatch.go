package worker

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"zindexer/internal/request"
	"zindexer/internal/walletrpc"
)

// NymReplySink is the narrow interface a worker needs to answer a
// mix-network request. Like ingest.MixnetClient's Poll method, this
// models only the contract this repo requires from the mix-net SDK;
// the SDK's own addressing/encryption is an out-of-scope collaborator.
type NymReplySink interface {
	Reply(ctx context.Context, replyTag string, payload []byte) error
}

// nymEnvelope is the minimal self-defined JSON framing carried inside a
// mix-network message's opaque payload: a method name plus its
// parameters, mirroring the method/params shape of the wallet gRPC
// surface closely enough that one Dispatcher backs both transports.
type nymEnvelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type nymResult struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// serviceNym decodes req's JSON envelope, dispatches it to the same
// Dispatcher backing the gRPC surface, and replies via the reply sink.
// Streaming methods (GetBlockRange, GetTaddressTxids, GetMempoolTx,
// GetSubtreeRoots) are not reachable over this transport: a mix-network
// message is a single request/response exchange with no notion of a
// server stream, so the envelope is limited to the eight unary methods.
func (w *Worker) serviceNym(ctx context.Context, req request.Request) {
	if w.reply == nil {
		w.logger.Warn("worker: nym request received with no reply sink configured, dropping")
		return
	}

	var env nymEnvelope
	if err := json.Unmarshal(req.Payload, &env); err != nil {
		w.replyError(ctx, req.ReplyTag, "malformed envelope: "+err.Error())
		return
	}

	result, err := w.dispatchNym(ctx, env)
	if err != nil {
		w.replyError(ctx, req.ReplyTag, statusMessage(err))
		return
	}

	payload, err := json.Marshal(nymResult{Result: result})
	if err != nil {
		w.replyError(ctx, req.ReplyTag, "failed to encode response: "+err.Error())
		return
	}
	if err := w.reply.Reply(ctx, req.ReplyTag, payload); err != nil {
		w.logger.WithError(err).Warn("worker: failed to send nym reply")
	}
}

func (w *Worker) replyError(ctx context.Context, replyTag, message string) {
	payload, err := json.Marshal(nymResult{Error: message})
	if err != nil {
		w.logger.WithError(err).Warn("worker: failed to encode nym error reply")
		return
	}
	if err := w.reply.Reply(ctx, replyTag, payload); err != nil {
		w.logger.WithError(err).Warn("worker: failed to send nym error reply")
	}
}

func statusMessage(err error) string {
	if s, ok := status.FromError(err); ok {
		return s.Message()
	}
	return err.Error()
}

func (w *Worker) dispatchNym(ctx context.Context, env nymEnvelope) (any, error) {
	switch env.Method {
	case "getlatestblock":
		return w.disp.GetLatestBlock(ctx, &walletrpc.Empty{})
	case "getblock":
		var in walletrpc.BlockID
		if err := json.Unmarshal(env.Params, &in); err != nil {
			return nil, err
		}
		return w.disp.GetBlock(ctx, &in)
	case "gettransaction":
		var in walletrpc.TxFilter
		if err := json.Unmarshal(env.Params, &in); err != nil {
			return nil, err
		}
		return w.disp.GetTransaction(ctx, &in)
	case "sendtransaction":
		var in walletrpc.RawTransaction
		if err := json.Unmarshal(env.Params, &in); err != nil {
			return nil, err
		}
		return w.disp.SendTransaction(ctx, &in)
	case "gettaddressbalance":
		var in walletrpc.TransparentAddressBlockFilter
		if err := json.Unmarshal(env.Params, &in); err != nil {
			return nil, err
		}
		return w.disp.GetTaddressBalance(ctx, &in)
	case "gettreestate":
		var in walletrpc.BlockID
		if err := json.Unmarshal(env.Params, &in); err != nil {
			return nil, err
		}
		return w.disp.GetTreeState(ctx, &in)
	case "getaddressutxos":
		var in walletrpc.GetAddressUtxosArg
		if err := json.Unmarshal(env.Params, &in); err != nil {
			return nil, err
		}
		return w.disp.GetAddressUtxos(ctx, &in)
	case "getlightdinfo":
		return w.disp.GetLightdInfo(ctx, &walletrpc.Empty{})
	default:
		return nil, status.Errorf(codes.Unimplemented, "unknown method %q", env.Method)
	}
}
