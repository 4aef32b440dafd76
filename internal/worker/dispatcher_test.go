package worker

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"zindexer/internal/cache"
	"zindexer/internal/parser"
	"zindexer/internal/rpcclient"
	"zindexer/internal/walletrpc"
)

func newTestDispatcher(t *testing.T, handler http.HandlerFunc) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	rpc := rpcclient.New(u, nil)
	blockCache, err := cache.NewLRUCache(4)
	require.NoError(t, err)
	return NewDispatcher(rpc, blockCache, nil)
}

func jsonRPCHandler(t *testing.T, results map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int32  `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		result, ok := results[req.Method]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := map[string]any{"id": req.ID, "jsonrpc": "2.0", "result": result}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestDispatcher_GetLatestBlock(t *testing.T) {
	disp := newTestDispatcher(t, jsonRPCHandler(t, map[string]any{
		"getblockchaininfo": map[string]any{"chain": "main", "blocks": 100, "bestblockhash": "ab12"},
	}))
	out, err := disp.GetLatestBlock(context.Background(), &walletrpc.Empty{})
	require.NoError(t, err)
	require.Equal(t, uint64(100), out.Height)
	require.Equal(t, []byte{0xab, 0x12}, out.Hash)
}

func TestDispatcher_GetLightdInfo(t *testing.T) {
	disp := newTestDispatcher(t, jsonRPCHandler(t, map[string]any{
		"getinfo":           map[string]any{"version": 4070000},
		"getblockchaininfo": map[string]any{"chain": "test", "blocks": 42, "estimatedheight": 50},
	}))
	out, err := disp.GetLightdInfo(context.Background(), &walletrpc.Empty{})
	require.NoError(t, err)
	require.Equal(t, "test", out.ChainName)
	require.Equal(t, uint64(42), out.BlockHeight)
	require.Equal(t, uint64(50), out.EstimatedHeight)
	require.True(t, out.TaddrSupport)
}

func TestDispatcher_GetTaddressBalance(t *testing.T) {
	disp := newTestDispatcher(t, jsonRPCHandler(t, map[string]any{
		"getaddressbalance": map[string]any{"balance": 12345},
	}))
	out, err := disp.GetTaddressBalance(context.Background(), &walletrpc.TransparentAddressBlockFilter{Address: "t1abc"})
	require.NoError(t, err)
	require.Equal(t, int64(12345), out.ValueZat)
}

// buildCoinbaseTx serializes a minimal version-1 transparent coinbase:
// one input spending the null outpoint with the given scriptSig, one
// empty output.
func buildCoinbaseTx(scriptSig []byte) []byte {
	var buf []byte
	buf = append(buf, 0x01, 0x00, 0x00, 0x00) // version 1
	buf = append(buf, 0x01)                   // tx_in count
	buf = append(buf, make([]byte, 32)...)    // prevout.hash
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // prevout.n
	buf = append(buf, byte(len(scriptSig)))
	buf = append(buf, scriptSig...)
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // sequence
	buf = append(buf, 0x01)                   // tx_out count
	buf = append(buf, make([]byte, 8)...)     // value
	buf = append(buf, 0x00)                   // empty pk_script
	buf = append(buf, 0, 0, 0, 0)             // lock_time
	return buf
}

// getBlockHandler answers getblock at verbosity 0 with blockHex and at
// verbosity 1 with a verbose object reporting nodeHash and txid.
func getBlockHandler(t *testing.T, blockHex, nodeHash, txid string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
			ID     int32  `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getblock", req.Method)
		var result any
		if req.Params[1] == float64(0) {
			result = blockHex
		} else {
			result = map[string]any{"hash": nodeHash, "height": 42, "tx": []string{txid}}
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"id": req.ID, "jsonrpc": "2.0", "result": result}))
	}
}

func TestDispatcher_GetBlock_ValidatesNodeHash(t *testing.T) {
	hdr := &parser.BlockHeaderData{Version: 4, Time: 1600000000, Solution: make([]byte, 32)}
	var blockBytes []byte
	blockBytes = append(blockBytes, hdr.MarshalBinary()...)
	blockBytes = append(blockBytes, 0x01) // tx count
	blockBytes = append(blockBytes, buildCoinbaseTx([]byte{0x01, 0x2a})...) // height 42

	blockHex := hex.EncodeToString(blockBytes)
	display := hdr.DisplayHash()
	goodHash := hex.EncodeToString(display[:])
	txid := strings.Repeat("11", 32)

	disp := newTestDispatcher(t, getBlockHandler(t, blockHex, goodHash, txid))
	out, err := disp.GetBlock(context.Background(), &walletrpc.BlockID{Height: 42})
	require.NoError(t, err)
	require.Equal(t, uint64(42), out.Height)

	disp = newTestDispatcher(t, getBlockHandler(t, blockHex, strings.Repeat("00", 32), txid))
	_, err = disp.GetBlock(context.Background(), &walletrpc.BlockID{Height: 42})
	require.Error(t, err)
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestDispatcher_GetAddressUtxos_NotFoundWhenEmpty(t *testing.T) {
	disp := newTestDispatcher(t, jsonRPCHandler(t, map[string]any{
		"getaddressutxos": []any{},
	}))
	_, err := disp.GetAddressUtxos(context.Background(), &walletrpc.GetAddressUtxosArg{Addresses: []string{"t1abc"}})
	require.Error(t, err)
}
