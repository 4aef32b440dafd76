package parser

import "zindexer/internal/walletrpc"

// ToCompact converts a parsed FullBlock into the reduced wallet-facing
// CompactBlock representation: header identity plus, for every
// transaction, only the shielded outputs a light wallet needs to
// attempt trial decryption. txids supplies each transaction's id in
// block order, matching the slice ParseFullBlock was given.
func (b *FullBlock) ToCompact(txids [][]byte) *walletrpc.CompactBlock {
	cb := &walletrpc.CompactBlock{
		ProtoVersion: 1,
		Height:       uint64(b.Height),
		Hash:         reversedCopy(b.Hash[:]),
		PrevHash:     reversedCopy(b.Header.HashPrevBlock[:]),
		Time:         b.Header.Time,
	}

	for i, tx := range b.Transactions {
		if len(tx.ShieldedOutputs) == 0 {
			continue
		}
		ctx := walletrpc.CompactTx{Index: uint64(i)}
		if i < len(txids) {
			ctx.Hash = txids[i]
		}
		for outIdx, so := range tx.ShieldedOutputs {
			ctx.Outputs = append(ctx.Outputs, walletrpc.CompactOutput{
				Index:          uint32(outIdx),
				Cmu:            so.Cmu,
				EphemeralKey:   so.EphemeralKey,
				CiphertextHead: so.CiphertextHead,
			})
		}
		cb.Transactions = append(cb.Transactions, ctx)
	}
	return cb
}

// reversedCopy returns a reversed copy of b, used to convert the
// internal little-endian hash order to the big-endian order the
// wallet-facing CompactBlock fields use (matching zcashd's display
// convention).
func reversedCopy(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
