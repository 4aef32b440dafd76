package parser

// FullBlock is the fully parsed form of one Zcash block: its header,
// every transaction in order, and the two values derived from them that
// the compact-block conversion needs.
type FullBlock struct {
	Header       *BlockHeaderData
	Transactions []*FullTransaction
	Height       int32
	Hash         [32]byte
}

// ParseFullBlock parses a FullBlock from the raw bytes the node returns
// for a verbose=0 getblock call. txids is the ordered list of txids the
// node's verbose=1 getblock call reported for the same block; its length
// must match the transaction count encoded in data.
func ParseFullBlock(data []byte, txids [][]byte) (*FullBlock, error) {
	rest, hdr, err := ParseBlockHeader(data)
	if err != nil {
		return nil, err
	}

	c := newCursor(rest)
	txCount, err := c.readCompactSize("FullBlock.tx count")
	if err != nil {
		return nil, err
	}
	if int(txCount) != len(txids) {
		return nil, invalidDataf("block declares %d transactions but %d txids were supplied", txCount, len(txids))
	}

	txs := make([]*FullTransaction, 0, txCount)
	remainder := c.rest()
	for i := uint64(0); i < txCount; i++ {
		var tx *FullTransaction
		remainder, tx, err = ParseTransaction(remainder, txids[i])
		if err != nil {
			return nil, invalidDataf("transaction %d: %v", i, err)
		}
		txs = append(txs, tx)
	}

	height, err := coinbaseHeight(txs)
	if err != nil {
		return nil, err
	}

	return &FullBlock{
		Header:       hdr,
		Transactions: txs,
		Height:       height,
		Hash:         hdr.Hash(),
	}, nil
}

// coinbaseHeight locates the coinbase transaction (the block's first
// transaction, whose sole input spends the null outpoint) and decodes
// its BIP34 height push.
func coinbaseHeight(txs []*FullTransaction) (int32, error) {
	if len(txs) == 0 {
		return 0, invalidData("block has no transactions")
	}
	coinbase := txs[0]
	if len(coinbase.Inputs) != 1 {
		return 0, invalidData("coinbase transaction does not have exactly one input")
	}
	return GetBlockHeight(coinbase.Inputs[0].ScriptSig)
}
