package parser

// genesisHeightSentinel is the literal height value mined into the
// genesis block's coinbase script_sig; it does not decode to 0 under
// the normal script-number rules, so it is special-cased.
const genesisHeightSentinel = 520617983

const (
	opPushData1Max = 0x4b
	op1Negate      = 0x4f
	op1            = 0x51
	op16           = 0x60
)

// GetBlockHeight decodes the block height BIP34-encodes into the first
// push of a coinbase transaction's script_sig. The decoded number is
// clamped to -1 if it is negative or exceeds the u32 range, and the
// literal genesis-quirk sentinel maps to 0.
func GetBlockHeight(scriptSig []byte) (int32, error) {
	if len(scriptSig) == 0 {
		return 0, invalidData("coinbase script_sig is empty")
	}

	var height int64
	switch first := scriptSig[0]; {
	case first == 0x00:
		height = 0
	case first == op1Negate:
		height = -1
	case first >= op1 && first <= op16:
		height = int64(first) - (op1 - 1)
	default:
		n := int(first)
		if len(scriptSig) < 1+n {
			return 0, invalidDataf("coinbase script_sig push of %d bytes truncated", n)
		}
		height = decodeScriptNum(scriptSig[1 : 1+n])
	}

	if height < 0 {
		return -1, nil
	}
	if height > 0xffffffff {
		return -1, nil
	}
	if height == genesisHeightSentinel {
		return 0, nil
	}
	return int32(height), nil
}

// decodeScriptNum decodes the first n bytes of a coinbase push as a
// plain unsigned little-endian integer, not a Bitcoin CScriptNum
// sign-magnitude value.
func decodeScriptNum(b []byte) int64 {
	var result uint64
	for i := len(b) - 1; i >= 0; i-- {
		result = (result << 8) | uint64(b[i])
	}
	return int64(result)
}
