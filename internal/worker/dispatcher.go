// Package worker holds the dynamically-sized pool that services queued
// requests: it issues the JSON-RPC calls a wallet method needs, runs
// the binary parser and block cache for block-shaped responses, and
// writes the result back through the request's transport.
package worker

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"zindexer/internal/cache"
	"zindexer/internal/parser"
	"zindexer/internal/rpcclient"
	"zindexer/internal/walletrpc"
)

// Dispatcher implements walletrpc.CompactTxStreamerServer by issuing
// JSON-RPC calls against the upstream node, running the binary parser
// and block cache for block-shaped responses, and adapting node
// errors to gRPC statuses -- the servicing contract every worker uses
// for both the gRPC-framed and Nym-framed ingress paths.
//
// Note: request-level cancellation once a method is dispatched to the
// node is not implemented; a slow or hung upstream RPC call leaks the
// worker servicing it until the call itself returns.
type Dispatcher struct {
	rpc    *rpcclient.Client
	cache  cache.BlockCache
	logger *logrus.Logger
}

// NewDispatcher builds a Dispatcher over an RPC client and block cache.
func NewDispatcher(rpc *rpcclient.Client, blockCache cache.BlockCache, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{rpc: rpc, cache: blockCache, logger: logger}
}

// mapError adapts an upstream failure to the wallet-visible gRPC
// status: node error envelopes become InvalidArgument when their code
// blames the request and Internal otherwise; everything else (transport
// failures, exhausted backpressure retries) is Unavailable.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *rpcclient.RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.ClientError() {
			return status.Errorf(codes.InvalidArgument, "%s", rpcErr.Message)
		}
		return status.Errorf(codes.Internal, "%s", rpcErr.Message)
	}
	return status.Errorf(codes.Unavailable, "%s", err.Error())
}

// GetLatestBlock returns the chain tip's identity.
func (d *Dispatcher) GetLatestBlock(ctx context.Context, _ *walletrpc.Empty) (*walletrpc.BlockID, error) {
	info, err := d.rpc.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	hashBytes, err := hex.DecodeString(info.BestBlockHash)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "node returned malformed block hash: %v", err)
	}
	return &walletrpc.BlockID{Height: uint64(info.Blocks), Hash: hashBytes}, nil
}

func identifierFor(in *walletrpc.BlockID) string {
	if len(in.Hash) > 0 {
		return hex.EncodeToString(in.Hash)
	}
	return strconv.FormatUint(in.Height, 10)
}

// GetBlock returns the compact form of the block identified by height
// or hash, consulting the block cache before calling the node.
func (d *Dispatcher) GetBlock(ctx context.Context, in *walletrpc.BlockID) (*walletrpc.CompactBlock, error) {
	fingerprint := identifierFor(in)
	if cached, ok := d.cache.Get(fingerprint); ok {
		return cached, nil
	}

	verbose, err := d.rpc.GetBlock(ctx, fingerprint, 1)
	if err != nil {
		return nil, mapError(err)
	}
	raw, err := d.rpc.GetBlock(ctx, fingerprint, 0)
	if err != nil {
		return nil, mapError(err)
	}
	rawBytes, err := hex.DecodeString(raw.Hex)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "node returned malformed block hex: %v", err)
	}

	txids := make([][]byte, len(verbose.Tx))
	for i, hexTxid := range verbose.Tx {
		b, err := hex.DecodeString(hexTxid)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "node returned malformed txid: %v", err)
		}
		txids[i] = b
	}

	full, err := parser.ParseFullBlock(rawBytes, txids)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to parse block: %v", err)
	}

	// The locally recomputed header hash must match the hash the node
	// reported for the same block; a mismatch means the block bytes were
	// corrupted in transit or misdecoded and must not reach the wallet.
	nodeHash, err := hex.DecodeString(verbose.Hash)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "node returned malformed block hash: %v", err)
	}
	display := full.Header.DisplayHash()
	if !bytes.Equal(nodeHash, display[:]) {
		return nil, status.Errorf(codes.Internal, "computed block hash %x does not match node-reported hash %s", display, verbose.Hash)
	}

	compact := full.ToCompact(txids)

	d.cache.Put(fingerprint, compact)
	return compact, nil
}

// GetBlockRange streams CompactBlocks for every height in [start, end].
func (d *Dispatcher) GetBlockRange(in *walletrpc.BlockRange, stream walletrpc.CompactTxStreamer_GetBlockRangeServer) error {
	if in.Start.Height > in.End.Height {
		return status.Error(codes.InvalidArgument, "range start must not exceed end")
	}
	for h := in.Start.Height; h <= in.End.Height; h++ {
		block, err := d.GetBlock(stream.Context(), &walletrpc.BlockID{Height: h})
		if err != nil {
			return err
		}
		if err := stream.Send(block); err != nil {
			return err
		}
	}
	return nil
}

// GetTransaction returns one transaction's raw bytes and mined height.
func (d *Dispatcher) GetTransaction(ctx context.Context, in *walletrpc.TxFilter) (*walletrpc.RawTransaction, error) {
	raw, err := d.rpc.GetRawTransaction(ctx, hex.EncodeToString(in.Hash), 1)
	if err != nil {
		return nil, mapError(err)
	}
	data, err := hex.DecodeString(raw.Hex)
	if err != nil && raw.Hex != "" {
		return nil, status.Errorf(codes.Internal, "node returned malformed transaction hex: %v", err)
	}
	return &walletrpc.RawTransaction{Data: data, Height: uint64(raw.Height)}, nil
}

// SendTransaction relays a signed raw transaction to the node.
func (d *Dispatcher) SendTransaction(ctx context.Context, in *walletrpc.RawTransaction) (*walletrpc.SendResponse, error) {
	_, err := d.rpc.SendRawTransaction(ctx, hex.EncodeToString(in.Data))
	if err != nil {
		var rpcErr *rpcclient.RPCError
		if errors.As(err, &rpcErr) {
			return &walletrpc.SendResponse{ErrorCode: rpcErr.Code, ErrorMessage: rpcErr.Message}, nil
		}
		return nil, mapError(err)
	}
	return &walletrpc.SendResponse{ErrorCode: 0, ErrorMessage: ""}, nil
}

// GetTaddressTxids streams txids for a transparent address over a
// block range.
func (d *Dispatcher) GetTaddressTxids(in *walletrpc.TransparentAddressBlockFilter, stream walletrpc.CompactTxStreamer_GetTaddressTxidsServer) error {
	addrs := addressesOf(in)
	txids, err := d.rpc.GetAddressTxids(stream.Context(), addrs, uint32(in.Range.Start.Height), uint32(in.Range.End.Height))
	if err != nil {
		return mapError(err)
	}
	for _, txidHex := range txids {
		data, err := hex.DecodeString(txidHex)
		if err != nil {
			return status.Errorf(codes.Internal, "node returned malformed txid: %v", err)
		}
		if err := stream.Send(&walletrpc.RawTransaction{Data: data}); err != nil {
			return err
		}
	}
	return nil
}

func addressesOf(in *walletrpc.TransparentAddressBlockFilter) []string {
	if in.Address != "" {
		return []string{in.Address}
	}
	return in.Addresses
}

// GetTaddressBalance returns the aggregate balance of the given
// transparent addresses.
func (d *Dispatcher) GetTaddressBalance(ctx context.Context, in *walletrpc.TransparentAddressBlockFilter) (*walletrpc.Balance, error) {
	resp, err := d.rpc.GetAddressBalance(ctx, addressesOf(in))
	if err != nil {
		return nil, mapError(err)
	}
	return &walletrpc.Balance{ValueZat: resp.Balance}, nil
}

// GetMempoolTx streams pending transactions not already known to the
// caller, per the Exclude set.
func (d *Dispatcher) GetMempoolTx(in *walletrpc.Exclude, stream walletrpc.CompactTxStreamer_GetMempoolTxServer) error {
	known := make(map[string]bool, len(in.Txid))
	for _, t := range in.Txid {
		known[hex.EncodeToString(t)] = true
	}
	txids, err := d.rpc.GetRawMempool(stream.Context())
	if err != nil {
		return mapError(err)
	}
	for i, txidHex := range txids {
		if known[txidHex] {
			continue
		}
		data, err := hex.DecodeString(txidHex)
		if err != nil {
			return status.Errorf(codes.Internal, "node returned malformed txid: %v", err)
		}
		if err := stream.Send(&walletrpc.CompactTx{Index: uint64(i), Hash: data}); err != nil {
			return err
		}
	}
	return nil
}

// GetTreeState returns the note commitment tree state at the given
// block.
func (d *Dispatcher) GetTreeState(ctx context.Context, in *walletrpc.BlockID) (*walletrpc.TreeState, error) {
	resp, err := d.rpc.GetTreeState(ctx, identifierFor(in))
	if err != nil {
		return nil, mapError(err)
	}
	return &walletrpc.TreeState{
		Height:      uint64(resp.Height),
		Hash:        resp.Hash,
		Time:        uint32(resp.Time),
		SaplingTree: resp.Sapling.Commitments.FinalState,
		OrchardTree: resp.Orchard.Commitments.FinalState,
	}, nil
}

// GetAddressUtxos returns only the first unspent output the node reports
// for the given addresses; StartHeight and MaxEntries are not applied.
func (d *Dispatcher) GetAddressUtxos(ctx context.Context, in *walletrpc.GetAddressUtxosArg) (*walletrpc.Utxo, error) {
	utxos, err := d.rpc.GetAddressUtxos(ctx, in.Addresses)
	if err != nil {
		return nil, mapError(err)
	}
	if len(utxos) == 0 {
		return nil, status.Error(codes.NotFound, "no utxos found for address set")
	}
	u := utxos[0]
	script, err := hex.DecodeString(u.Script)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "node returned malformed script: %v", err)
	}
	txid, err := hex.DecodeString(u.Txid)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "node returned malformed txid: %v", err)
	}
	return &walletrpc.Utxo{
		Address:  u.Address,
		Txid:     txid,
		Index:    u.OutputIndex,
		Script:   script,
		ValueZat: u.Satoshis,
		Height:   uint64(u.Height),
	}, nil
}

// GetLightdInfo reports static identity and chain-tip metadata.
func (d *Dispatcher) GetLightdInfo(ctx context.Context, _ *walletrpc.Empty) (*walletrpc.LightdInfo, error) {
	info, err := d.rpc.GetInfo(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	chainInfo, err := d.rpc.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &walletrpc.LightdInfo{
		Version:         fmt.Sprintf("%d", info.Version),
		VendorNote:      "zindexer",
		TaddrSupport:    true,
		ChainName:       chainInfo.Chain,
		BlockHeight:     uint64(chainInfo.Blocks),
		EstimatedHeight: uint64(chainInfo.EstimatedHeight),
	}, nil
}

// GetSubtreeRoots streams completed note commitment subtree roots for
// the requested shielded pool.
func (d *Dispatcher) GetSubtreeRoots(in *walletrpc.SubtreeRootsArg, stream walletrpc.CompactTxStreamer_GetSubtreeRootsServer) error {
	var limit *uint16
	if in.MaxEntries > 0 {
		v := uint16(in.MaxEntries)
		limit = &v
	}
	resp, err := d.rpc.GetSubtreesByIndex(stream.Context(), in.ShieldedProtocol, uint16(in.StartIndex), limit)
	if err != nil {
		return mapError(err)
	}
	for _, root := range resp.Subtrees {
		rootBytes, err := hex.DecodeString(root.Root)
		if err != nil {
			return status.Errorf(codes.Internal, "node returned malformed subtree root: %v", err)
		}
		if err := stream.Send(&walletrpc.SubtreeRoot{RootHash: rootBytes, CompletingBlockHeight: uint64(root.Height)}); err != nil {
			return err
		}
	}
	return nil
}

var _ walletrpc.CompactTxStreamerServer = (*Dispatcher)(nil)
