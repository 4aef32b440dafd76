package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSaplingV4TxWithOutput(t *testing.T) []byte {
	t.Helper()
	var buf []byte
	header := uint32(4) | overwinteredMask
	buf = append(buf, byte(header), byte(header>>8), byte(header>>16), byte(header>>24))
	buf = append(buf, 0x92, 0x7c, 0x00, 0x00)
	buf = writeCompactSize(buf, 0) // tx_in
	buf = writeCompactSize(buf, 0) // tx_out
	buf = append(buf, 0, 0, 0, 0)  // lock_time
	buf = append(buf, 0, 0, 0, 0)  // expiry_height
	buf = append(buf, make([]byte, 8)...) // value_balance
	buf = writeCompactSize(buf, 0)        // n_shielded_spend
	buf = writeCompactSize(buf, 1)        // n_shielded_output
	buf = append(buf, make([]byte, saplingOutputV4Size)...)
	buf = append(buf, make([]byte, saplingSigSize)...)
	return buf
}

func TestFullBlockToCompact(t *testing.T) {
	hdr := sampleHeader()
	coinbase := buildTransparentTx(t, []byte{0x01, 0x05})
	shielded := buildSaplingV4TxWithOutput(t)

	var data []byte
	data = append(data, hdr.MarshalBinary()...)
	data = writeCompactSize(data, 2)
	data = append(data, coinbase...)
	data = append(data, shielded...)

	block, err := ParseFullBlock(data, [][]byte{[]byte("txid0"), []byte("txid1")})
	require.NoError(t, err)

	cb := block.ToCompact([][]byte{[]byte("txid0"), []byte("txid1")})
	require.Equal(t, uint64(5), cb.Height)
	require.Len(t, cb.Transactions, 1)
	require.Equal(t, []byte("txid1"), cb.Transactions[0].Hash)
	require.Len(t, cb.Transactions[0].Outputs, 1)
}
