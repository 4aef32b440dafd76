package rpcclient

import "context"

// GetInfoResponse is zcashd's getinfo result.
type GetInfoResponse struct {
	Version         int32   `json:"version"`
	ProtocolVersion int32   `json:"protocolversion"`
	Blocks          int64   `json:"blocks"`
	Connections     int32   `json:"connections"`
	Proxy           string  `json:"proxy"`
	Difficulty      float64 `json:"difficulty"`
	Testnet         bool    `json:"testnet"`
}

// GetBlockchainInfoResponse is zcashd's getblockchaininfo result.
type GetBlockchainInfoResponse struct {
	Chain             string `json:"chain"`
	Blocks            int64  `json:"blocks"`
	BestBlockHash     string `json:"bestblockhash"`
	EstimatedHeight   int64  `json:"estimatedheight"`
	ConsensusBranchID string `json:"consensus,omitempty"`
	Upgrades          any    `json:"upgrades,omitempty"`
}

// GetAddressBalanceResponse is zcashd's getaddressbalance result.
type GetAddressBalanceResponse struct {
	Balance  int64 `json:"balance"`
	Received int64 `json:"received"`
}

// SendRawTransactionResponse is the txid string zcashd returns.
type SendRawTransactionResponse string

// GetBlockResponse is zcashd's getblock result at verbosity 1 or 2; Hex
// is populated only at verbosity 0.
type GetBlockResponse struct {
	Hash         string   `json:"hash"`
	Height       int64    `json:"height"`
	Time         int64    `json:"time"`
	Tx           []string `json:"tx"`
	PreviousHash string   `json:"previousblockhash"`
	Hex          string   `json:"-"`
}

// GetBestBlockHashResponse is the hash string zcashd returns.
type GetBestBlockHashResponse string

// GetRawMempoolResponse is the list of mempool txids.
type GetRawMempoolResponse []string

// GetTreeStateResponse is zcashd's z_gettreestate result.
type GetTreeStateResponse struct {
	Hash    string `json:"hash"`
	Height  int64  `json:"height"`
	Time    int64  `json:"time"`
	Sapling struct {
		Commitments struct {
			FinalState string `json:"finalState"`
		} `json:"commitments"`
	} `json:"sapling"`
	Orchard struct {
		Commitments struct {
			FinalState string `json:"finalState"`
		} `json:"commitments"`
	} `json:"orchard"`
}

// SubtreeRoot is one entry in GetSubtreesByIndexResponse.
type SubtreeRoot struct {
	Root   string `json:"root"`
	Height int64  `json:"height"`
}

// GetSubtreesByIndexResponse is zcashd's z_getsubtreesbyindex result.
type GetSubtreesByIndexResponse struct {
	Pool       string        `json:"pool"`
	StartIndex uint16        `json:"start_index"`
	Subtrees   []SubtreeRoot `json:"subtrees"`
}

// GetRawTransactionResponse is zcashd's getrawtransaction result at
// verbose=1; Hex is populated at verbose=0.
type GetRawTransactionResponse struct {
	Hex           string `json:"hex"`
	Txid          string `json:"txid"`
	Height        int64  `json:"height"`
	Confirmations int64  `json:"confirmations"`
}

// GetAddressTxidsResponse is the list of txids zcashd returns for a set
// of transparent addresses.
type GetAddressTxidsResponse []string

// AddressUtxo is one entry in GetAddressUtxosResponse.
type AddressUtxo struct {
	Address     string `json:"address"`
	Txid        string `json:"txid"`
	OutputIndex int32  `json:"outputIndex"`
	Script      string `json:"script"`
	Satoshis    int64  `json:"satoshis"`
	Height      int64  `json:"height"`
}

// GetAddressUtxosResponse is zcashd's getaddressutxos result.
type GetAddressUtxosResponse []AddressUtxo

// GetInfo returns software/version information from the node.
func (c *Client) GetInfo(ctx context.Context) (*GetInfoResponse, error) {
	var out GetInfoResponse
	if err := c.Do(ctx, "getinfo", []any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBlockchainInfo returns blockchain tip and consensus state.
func (c *Client) GetBlockchainInfo(ctx context.Context) (*GetBlockchainInfoResponse, error) {
	var out GetBlockchainInfoResponse
	if err := c.Do(ctx, "getblockchaininfo", []any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAddressBalance returns the aggregate balance of addresses.
func (c *Client) GetAddressBalance(ctx context.Context, addresses []string) (*GetAddressBalanceResponse, error) {
	var out GetAddressBalanceResponse
	params := []any{map[string]any{"addresses": addresses}}
	if err := c.Do(ctx, "getaddressbalance", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendRawTransaction submits a signed raw transaction to the node's
// mempool.
func (c *Client) SendRawTransaction(ctx context.Context, rawHex string) (SendRawTransactionResponse, error) {
	var out SendRawTransactionResponse
	if err := c.Do(ctx, "sendrawtransaction", []any{rawHex}, &out); err != nil {
		return "", err
	}
	return out, nil
}

// GetBlock returns the block identified by hashOrHeight. verbosity
// follows the node's convention: 0 for raw hex, 1 for a JSON object, 2
// for a JSON object including full transaction data.
func (c *Client) GetBlock(ctx context.Context, hashOrHeight string, verbosity int) (*GetBlockResponse, error) {
	if verbosity == 0 {
		var hex string
		if err := c.Do(ctx, "getblock", []any{hashOrHeight, 0}, &hex); err != nil {
			return nil, err
		}
		return &GetBlockResponse{Hex: hex}, nil
	}
	var out GetBlockResponse
	if err := c.Do(ctx, "getblock", []any{hashOrHeight, verbosity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBestBlockHash returns the hash of the chain tip.
func (c *Client) GetBestBlockHash(ctx context.Context) (GetBestBlockHashResponse, error) {
	var out GetBestBlockHashResponse
	if err := c.Do(ctx, "getbestblockhash", []any{}, &out); err != nil {
		return "", err
	}
	return out, nil
}

// GetRawMempool returns every txid currently in the node's mempool.
func (c *Client) GetRawMempool(ctx context.Context) (GetRawMempoolResponse, error) {
	var out GetRawMempoolResponse
	if err := c.Do(ctx, "getrawmempool", []any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTreeState returns the Sapling/Orchard note commitment tree state
// at hashOrHeight.
func (c *Client) GetTreeState(ctx context.Context, hashOrHeight string) (*GetTreeStateResponse, error) {
	var out GetTreeStateResponse
	if err := c.Do(ctx, "z_gettreestate", []any{hashOrHeight}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubtreesByIndex returns completed note commitment subtrees for
// pool ("sapling" or "orchard") starting at startIndex.
func (c *Client) GetSubtreesByIndex(ctx context.Context, pool string, startIndex uint16, limit *uint16) (*GetSubtreesByIndexResponse, error) {
	params := []any{pool, startIndex}
	if limit != nil {
		params = append(params, *limit)
	}
	var out GetSubtreesByIndexResponse
	if err := c.Do(ctx, "z_getsubtreesbyindex", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRawTransaction returns the transaction identified by txidHex.
func (c *Client) GetRawTransaction(ctx context.Context, txidHex string, verbose int) (*GetRawTransactionResponse, error) {
	if verbose == 0 {
		var hex string
		if err := c.Do(ctx, "getrawtransaction", []any{txidHex, 0}, &hex); err != nil {
			return nil, err
		}
		return &GetRawTransactionResponse{Hex: hex}, nil
	}
	var out GetRawTransactionResponse
	if err := c.Do(ctx, "getrawtransaction", []any{txidHex, verbose}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAddressTxids returns txids for addresses within [start, end].
func (c *Client) GetAddressTxids(ctx context.Context, addresses []string, start, end uint32) (GetAddressTxidsResponse, error) {
	params := []any{map[string]any{
		"addresses": addresses,
		"start":     start,
		"end":       end,
	}}
	var out GetAddressTxidsResponse
	if err := c.Do(ctx, "getaddresstxids", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAddressUtxos returns every unspent output for addresses.
func (c *Client) GetAddressUtxos(ctx context.Context, addresses []string) (GetAddressUtxosResponse, error) {
	params := []any{map[string]any{"addresses": addresses}}
	var out GetAddressUtxosResponse
	if err := c.Do(ctx, "getaddressutxos", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
