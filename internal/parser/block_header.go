package parser

import (
	"crypto/sha256"
	"encoding/binary"
)

// serHeaderMinusSolution is the serialized size of a block header
// excluding the compact-size prefix and bytes of the Equihash solution.
const serHeaderMinusSolution = 140

// BlockHeaderData is the Zcash block header. All multi-byte integers are
// little-endian on the wire.
type BlockHeaderData struct {
	Version              int32
	HashPrevBlock        [32]byte
	HashMerkleRoot       [32]byte
	HashFinalSaplingRoot [32]byte
	Time                 uint32
	NBitsBytes           [4]byte
	Nonce                [32]byte
	Solution             []byte
}

// ParseBlockHeader parses a BlockHeaderData from data in the exact field
// order specified, returning the unread remainder of data.
func ParseBlockHeader(data []byte) (rest []byte, hdr *BlockHeaderData, err error) {
	c := newCursor(data)
	h := &BlockHeaderData{}

	if h.Version, err = c.readI32("BlockHeaderData.version"); err != nil {
		return nil, nil, err
	}
	if h.HashPrevBlock, err = c.readBytes32("BlockHeaderData.hash_prev_block"); err != nil {
		return nil, nil, err
	}
	if h.HashMerkleRoot, err = c.readBytes32("BlockHeaderData.hash_merkle_root"); err != nil {
		return nil, nil, err
	}
	if h.HashFinalSaplingRoot, err = c.readBytes32("BlockHeaderData.hash_final_sapling_root"); err != nil {
		return nil, nil, err
	}
	if h.Time, err = c.readU32("BlockHeaderData.time"); err != nil {
		return nil, nil, err
	}
	nBits, err := c.readBytes(4, "BlockHeaderData.n_bits_bytes")
	if err != nil {
		return nil, nil, err
	}
	copy(h.NBitsBytes[:], nBits)
	if h.Nonce, err = c.readBytes32("BlockHeaderData.nonce"); err != nil {
		return nil, nil, err
	}
	solLen, err := c.readCompactSize("BlockHeaderData.solution length")
	if err != nil {
		return nil, nil, err
	}
	solution, err := c.readBytes(int(solLen), "BlockHeaderData.solution")
	if err != nil {
		return nil, nil, err
	}
	h.Solution = append([]byte(nil), solution...)

	return c.rest(), h, nil
}

// serializedLen returns the total serialized size of the header,
// including the compact-size prefix of the solution.
func (h *BlockHeaderData) serializedLen() int {
	return serHeaderMinusSolution + compactSizeLen(uint64(len(h.Solution))) + len(h.Solution)
}

// MarshalBinary serializes the header in wire field order. Re-parsing
// the result with ParseBlockHeader reproduces h bit-for-bit.
func (h *BlockHeaderData) MarshalBinary() []byte {
	buf := make([]byte, 0, h.serializedLen())
	var tmp4 [4]byte

	binary.LittleEndian.PutUint32(tmp4[:], uint32(h.Version))
	buf = append(buf, tmp4[:]...)
	buf = append(buf, h.HashPrevBlock[:]...)
	buf = append(buf, h.HashMerkleRoot[:]...)
	buf = append(buf, h.HashFinalSaplingRoot[:]...)
	binary.LittleEndian.PutUint32(tmp4[:], h.Time)
	buf = append(buf, tmp4[:]...)
	buf = append(buf, h.NBitsBytes[:]...)
	buf = append(buf, h.Nonce[:]...)
	buf = writeCompactSize(buf, uint64(len(h.Solution)))
	buf = append(buf, h.Solution...)
	return buf
}

// Hash returns the block hash in internal (little-endian, as produced by
// the double-SHA-256) byte order.
func (h *BlockHeaderData) Hash() [32]byte {
	serialized := h.MarshalBinary()
	first := sha256.Sum256(serialized)
	return sha256.Sum256(first[:])
}

// DisplayHash returns the block hash in the big-endian byte order zcashd
// displays and returns in its JSON-RPC responses (the reverse of the
// internal digest order).
func (h *BlockHeaderData) DisplayHash() [32]byte {
	internal := h.Hash()
	var out [32]byte
	for i := range internal {
		out[i] = internal[31-i]
	}
	return out
}
