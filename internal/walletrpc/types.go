// Package walletrpc hand-declares the wallet-facing wire types and
// service interface that would ordinarily come out of the
// CompactTxStreamer protobuf descriptor. Code generation from that
// descriptor is out of scope here; these are stand-ins with the same
// field shapes a generated client would see, not a reimplementation of
// the wire protocol itself.
package walletrpc

// CompactOutput is the reduced representation of one shielded output a
// light wallet needs to trial-decrypt: enough of the note commitment,
// ephemeral key and ciphertext prefix to scan without fetching the full
// transaction.
type CompactOutput struct {
	Index          uint32
	Cmu            []byte
	EphemeralKey   []byte
	CiphertextHead []byte
}

// CompactTx is a transaction reduced to its wallet-relevant shielded
// outputs, indexed within its parent block.
type CompactTx struct {
	Index   uint64
	Hash    []byte
	Fee     uint32
	Outputs []CompactOutput
}

// CompactBlock is the reduced, wallet-facing form of FullBlock: header
// identity plus every transaction's compact outputs, with none of the
// transparent or proof data a wallet doesn't need for scanning.
type CompactBlock struct {
	ProtoVersion uint32
	Height       uint64
	Hash         []byte
	PrevHash     []byte
	Time         uint32
	Transactions []CompactTx
}

// BlockID identifies a block by height, hash, or both; a zero Height
// with a non-nil Hash means "by hash", mirroring the generated
// BlockID message's oneof-by-absence convention.
type BlockID struct {
	Height uint64
	Hash   []byte
}

// BlockRange is an inclusive [Start, End] span of BlockIDs.
type BlockRange struct {
	Start BlockID
	End   BlockID
}

// LightdInfo answers GetLightdInfo: static identity and chain-tip
// metadata a wallet uses to sanity-check compatibility on connect.
type LightdInfo struct {
	Version                 string
	VendorNote              string
	TaddrSupport            bool
	ChainName               string
	SaplingActivationHeight uint64
	ConsensusBranchID       string
	BlockHeight             uint64
	EstimatedHeight         uint64
}

// TxFilter identifies a transaction by raw hash for GetTransaction.
type TxFilter struct {
	Hash []byte
}

// RawTransaction is a transaction's raw bytes plus the height it was
// mined at (0 if still in the mempool).
type RawTransaction struct {
	Data   []byte
	Height uint64
}

// SendResponse reports the node's acceptance (or rejection) of a
// SendTransaction call.
type SendResponse struct {
	ErrorCode    int32
	ErrorMessage string
}

// TransparentAddressBlockFilter scopes a taddr query to a height range.
type TransparentAddressBlockFilter struct {
	Address   string
	Addresses []string
	Range     BlockRange
}

// TxidList is an ordered list of transaction ids for a transparent
// address over a block range.
type TxidList struct {
	Txids  [][]byte
	Height []uint64
}

// Balance reports a transparent address balance in zatoshis.
type Balance struct {
	ValueZat int64
}

// Exclude lists transaction ids the caller already has, for
// GetMempoolTx's incremental-fetch contract.
type Exclude struct {
	Txid [][]byte
}

// TreeState reports the Sapling/Orchard note commitment tree state at
// a given height.
type TreeState struct {
	Network     string
	Height      uint64
	Hash        string
	Time        uint32
	SaplingTree string
	OrchardTree string
}

// GetAddressUtxosArg scopes a UTXO query to one or more addresses.
type GetAddressUtxosArg struct {
	Addresses   []string
	StartHeight uint64
	MaxEntries  uint32
}

// Utxo is a single transparent unspent output.
type Utxo struct {
	Address  string
	Txid     []byte
	Index    int32
	Script   []byte
	ValueZat int64
	Height   uint64
}

// SubtreeRootsArg scopes a GetSubtreeRoots call to a shielded pool and
// starting index.
type SubtreeRootsArg struct {
	StartIndex       uint32
	ShieldedProtocol string
	MaxEntries       uint32
}

// SubtreeRoot is one completed note commitment subtree's root.
type SubtreeRoot struct {
	RootHash              []byte
	CompletingBlockHash   []byte
	CompletingBlockHeight uint64
}

// Empty is the argument type for calls with no parameters.
type Empty struct{}
