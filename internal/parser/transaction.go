package parser

// Sapling shielded-bundle record sizes, fixed by the Sapling protocol.
// Pre-NU5 (v4) transactions carry per-record proofs/signatures inline;
// NU5 (v5) aggregates them at the end of the bundle instead (see the
// version == 5 branch below).
const (
	saplingSpendV4Size  = 32 + 32 + 32 + 32 + 192 + 64 // cv, anchor, nullifier, rk, zkproof, spendAuthSig
	saplingOutputV4Size = 32 + 32 + 32 + 580 + 80 + 192 // cv, cmu, ephemeralKey, encCiphertext, outCiphertext, zkproof
	saplingSpendV5Size  = 32 + 32 + 32                  // cv, nullifier, rk
	saplingOutputV5Size = 32 + 32 + 580 + 80             // cmu, ephemeralKey, encCiphertext, outCiphertext
	saplingProofSize    = 192
	saplingSigSize      = 64
	orchardActionSize   = 32 + 32 + 32 + 32 + 32 + 580 + 80 // cv, nullifier, rk, cmx, ephemeralKey, encCiphertext, outCiphertext

	// compactCiphertextHead is the prefix of an output's encCiphertext a
	// compact block retains -- enough for a wallet's trial decryption
	// without shipping the full ciphertext.
	compactCiphertextHead = 52

	overwinteredMask = uint32(1) << 31
)

// ShieldedOutput is the subset of one Sapling or Orchard output a
// compact block retains: the note commitment, the ephemeral key, and
// the leading bytes of the output's encrypted ciphertext.
type ShieldedOutput struct {
	Cmu            []byte
	EphemeralKey   []byte
	CiphertextHead []byte
}

// TxIn is a transparent transaction input.
type TxIn struct {
	PrevTxID  [32]byte
	PrevIndex uint32
	ScriptSig []byte
	Sequence  uint32
}

// TxOut is a transparent transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// FullTransaction is the parsed form of a single Zcash transaction. Only
// the transparent envelope is decoded in full; shielded bundle bytes are
// consumed (so parsing of subsequent transactions in the block can
// proceed) but their field-level contents are not modeled -- the node's
// verbose getblock response, not this decoder, is authoritative for
// anything a wallet needs from shielded data.
type FullTransaction struct {
	Overwintered    bool
	Version         int32
	VersionGroupID  uint32
	Inputs          []TxIn
	Outputs         []TxOut
	LockTime        uint32
	ExpiryHeight    uint32
	ExpectedTxID    []byte

	// ShieldedOutputs collects every Sapling and Orchard output's
	// compact fields, in bundle order (Sapling first, then Orchard).
	ShieldedOutputs []ShieldedOutput
}

// ParseTransaction parses one FullTransaction from data, returning the
// unread remainder. expectedTxID is the txid the node's verbose getblock
// response reported for this transaction; it is carried through for the
// caller to verify against a re-derived hash, not re-derived here.
func ParseTransaction(data []byte, expectedTxID []byte) (rest []byte, tx *FullTransaction, err error) {
	c := newCursor(data)
	tx = &FullTransaction{ExpectedTxID: expectedTxID}

	header, err := c.readU32("FullTransaction.header")
	if err != nil {
		return nil, nil, err
	}
	tx.Overwintered = header&overwinteredMask != 0
	tx.Version = int32(header &^ overwinteredMask)

	if tx.Overwintered {
		if tx.VersionGroupID, err = c.readU32("FullTransaction.version_group_id"); err != nil {
			return nil, nil, err
		}
	}

	isV5 := tx.Overwintered && tx.Version == 5
	var consensusBranchID uint32
	if isV5 {
		if consensusBranchID, err = c.readU32("FullTransaction.consensus_branch_id"); err != nil {
			return nil, nil, err
		}
		_ = consensusBranchID
		if tx.LockTime, err = c.readU32("FullTransaction.lock_time"); err != nil {
			return nil, nil, err
		}
		if tx.ExpiryHeight, err = c.readU32("FullTransaction.expiry_height"); err != nil {
			return nil, nil, err
		}
	}

	if tx.Inputs, err = parseTxIns(c); err != nil {
		return nil, nil, err
	}
	if tx.Outputs, err = parseTxOuts(c); err != nil {
		return nil, nil, err
	}

	if !isV5 {
		if tx.LockTime, err = c.readU32("FullTransaction.lock_time"); err != nil {
			return nil, nil, err
		}
		if tx.Overwintered {
			if tx.ExpiryHeight, err = c.readU32("FullTransaction.expiry_height"); err != nil {
				return nil, nil, err
			}
		}
	}

	if tx.Overwintered && tx.Version == 4 {
		if err = skipSaplingBundleV4(c, tx); err != nil {
			return nil, nil, err
		}
	} else if isV5 {
		if err = skipSaplingBundleV5(c, tx); err != nil {
			return nil, nil, err
		}
		if err = skipOrchardBundle(c, tx); err != nil {
			return nil, nil, err
		}
	}

	return c.rest(), tx, nil
}

func parseTxIns(c *cursor) ([]TxIn, error) {
	count, err := c.readCompactSize("FullTransaction.tx_in count")
	if err != nil {
		return nil, err
	}
	ins := make([]TxIn, 0, count)
	for i := uint64(0); i < count; i++ {
		var in TxIn
		if in.PrevTxID, err = c.readBytes32("TxIn.prevout.hash"); err != nil {
			return nil, err
		}
		if in.PrevIndex, err = c.readU32("TxIn.prevout.n"); err != nil {
			return nil, err
		}
		scriptLen, err := c.readCompactSize("TxIn.script_sig length")
		if err != nil {
			return nil, err
		}
		script, err := c.readBytes(int(scriptLen), "TxIn.script_sig")
		if err != nil {
			return nil, err
		}
		in.ScriptSig = append([]byte(nil), script...)
		if in.Sequence, err = c.readU32("TxIn.sequence"); err != nil {
			return nil, err
		}
		ins = append(ins, in)
	}
	return ins, nil
}

func parseTxOuts(c *cursor) ([]TxOut, error) {
	count, err := c.readCompactSize("FullTransaction.tx_out count")
	if err != nil {
		return nil, err
	}
	outs := make([]TxOut, 0, count)
	for i := uint64(0); i < count; i++ {
		var out TxOut
		if out.Value, err = c.readI64("TxOut.value"); err != nil {
			return nil, err
		}
		scriptLen, err := c.readCompactSize("TxOut.pk_script length")
		if err != nil {
			return nil, err
		}
		script, err := c.readBytes(int(scriptLen), "TxOut.pk_script")
		if err != nil {
			return nil, err
		}
		out.PkScript = append([]byte(nil), script...)
		outs = append(outs, out)
	}
	return outs, nil
}

// readShieldedOutput reads one output record's cmu, ephemeral key, and
// compact-length ciphertext head, consuming and discarding the
// remainder of encCiphertext. skipBefore is the size of any leading
// fields before cmu (Sapling v4's cv, Orchard's cv/nullifier/rk);
// ciphertextTotal is the record's full encCiphertext size.
func readShieldedOutput(c *cursor, field string, skipBefore int, cmu32Label, ephemeralLabel, ciphertextLabel string, ciphertextTotal int) (ShieldedOutput, error) {
	if skipBefore > 0 {
		if _, err := c.readBytes(skipBefore, field+".leading"); err != nil {
			return ShieldedOutput{}, err
		}
	}
	var out ShieldedOutput
	cmu, err := c.readBytes(32, cmu32Label)
	if err != nil {
		return ShieldedOutput{}, err
	}
	out.Cmu = append([]byte(nil), cmu...)

	ephemeral, err := c.readBytes(32, ephemeralLabel)
	if err != nil {
		return ShieldedOutput{}, err
	}
	out.EphemeralKey = append([]byte(nil), ephemeral...)

	head, err := c.readBytes(compactCiphertextHead, ciphertextLabel)
	if err != nil {
		return ShieldedOutput{}, err
	}
	out.CiphertextHead = append([]byte(nil), head...)

	if _, err := c.readBytes(ciphertextTotal-compactCiphertextHead, field+".ciphertext_tail"); err != nil {
		return ShieldedOutput{}, err
	}
	return out, nil
}

// skipSaplingBundleV4 consumes a pre-NU5 Sapling shielded bundle: value
// balance, spend descriptions, output descriptions (capturing each
// output's compact fields), and (if any shielded elements are present)
// the binding signature.
func skipSaplingBundleV4(c *cursor, tx *FullTransaction) error {
	if _, err := c.readI64("FullTransaction.value_balance_sapling"); err != nil {
		return err
	}
	nSpend, err := c.readCompactSize("FullTransaction.n_shielded_spend")
	if err != nil {
		return err
	}
	if _, err := c.readBytes(int(nSpend)*saplingSpendV4Size, "FullTransaction.shielded_spends"); err != nil {
		return err
	}
	nOutput, err := c.readCompactSize("FullTransaction.n_shielded_output")
	if err != nil {
		return err
	}
	for i := uint64(0); i < nOutput; i++ {
		out, err := readShieldedOutput(c, "FullTransaction.shielded_output", 32,
			"ShieldedOutput.cmu", "ShieldedOutput.ephemeral_key", "ShieldedOutput.enc_ciphertext", 580)
		if err != nil {
			return err
		}
		if _, err := c.readBytes(80+saplingProofSize, "FullTransaction.shielded_output.out_ciphertext_and_proof"); err != nil {
			return err
		}
		tx.ShieldedOutputs = append(tx.ShieldedOutputs, out)
	}
	if nSpend+nOutput > 0 {
		if _, err := c.readBytes(saplingSigSize, "FullTransaction.binding_sig_sapling"); err != nil {
			return err
		}
	}
	return nil
}

// skipSaplingBundleV5 consumes a ZIP-225 (NU5) Sapling bundle, where
// per-record proofs and signatures are aggregated after the spend/output
// arrays rather than stored inline.
func skipSaplingBundleV5(c *cursor, tx *FullTransaction) error {
	nSpend, err := c.readCompactSize("FullTransaction.n_spends_sapling")
	if err != nil {
		return err
	}
	if _, err := c.readBytes(int(nSpend)*saplingSpendV5Size, "FullTransaction.sapling_spends"); err != nil {
		return err
	}
	nOutput, err := c.readCompactSize("FullTransaction.n_outputs_sapling")
	if err != nil {
		return err
	}
	for i := uint64(0); i < nOutput; i++ {
		out, err := readShieldedOutput(c, "FullTransaction.sapling_output", 0,
			"ShieldedOutput.cmu", "ShieldedOutput.ephemeral_key", "ShieldedOutput.enc_ciphertext", 580)
		if err != nil {
			return err
		}
		if _, err := c.readBytes(80, "FullTransaction.sapling_output.out_ciphertext"); err != nil {
			return err
		}
		tx.ShieldedOutputs = append(tx.ShieldedOutputs, out)
	}
	if nSpend > 0 {
		if _, err := c.readBytes(32, "FullTransaction.anchor_sapling"); err != nil {
			return err
		}
	}
	if nSpend > 0 {
		if _, err := c.readBytes(int(nSpend)*saplingProofSize, "FullTransaction.spend_proofs_sapling"); err != nil {
			return err
		}
		if _, err := c.readBytes(int(nSpend)*saplingSigSize, "FullTransaction.spend_auth_sigs_sapling"); err != nil {
			return err
		}
	}
	if nOutput > 0 {
		if _, err := c.readBytes(int(nOutput)*saplingProofSize, "FullTransaction.output_proofs_sapling"); err != nil {
			return err
		}
	}
	if nSpend+nOutput > 0 {
		if _, err := c.readI64("FullTransaction.value_balance_sapling"); err != nil {
			return err
		}
		if _, err := c.readBytes(saplingSigSize, "FullTransaction.binding_sig_sapling"); err != nil {
			return err
		}
	}
	return nil
}

// skipOrchardBundle consumes a ZIP-225 Orchard bundle when present,
// capturing each action's compact output fields.
func skipOrchardBundle(c *cursor, tx *FullTransaction) error {
	nActions, err := c.readCompactSize("FullTransaction.n_actions_orchard")
	if err != nil {
		return err
	}
	if nActions == 0 {
		return nil
	}
	for i := uint64(0); i < nActions; i++ {
		out, err := readShieldedOutput(c, "FullTransaction.orchard_action", 32+32+32,
			"OrchardAction.cmx", "OrchardAction.ephemeral_key", "OrchardAction.enc_ciphertext", 580)
		if err != nil {
			return err
		}
		if _, err := c.readBytes(80, "FullTransaction.orchard_action.out_ciphertext"); err != nil {
			return err
		}
		tx.ShieldedOutputs = append(tx.ShieldedOutputs, out)
	}
	if _, err := c.readByte("FullTransaction.flags_orchard"); err != nil {
		return err
	}
	if _, err := c.readI64("FullTransaction.value_balance_orchard"); err != nil {
		return err
	}
	if _, err := c.readBytes(32, "FullTransaction.anchor_orchard"); err != nil {
		return err
	}
	proofLen, err := c.readCompactSize("FullTransaction.size_proofs_orchard")
	if err != nil {
		return err
	}
	if _, err := c.readBytes(int(proofLen), "FullTransaction.proofs_orchard"); err != nil {
		return err
	}
	if _, err := c.readBytes(int(nActions)*saplingSigSize, "FullTransaction.spend_auth_sigs_orchard"); err != nil {
		return err
	}
	if _, err := c.readBytes(saplingSigSize, "FullTransaction.binding_sig_orchard"); err != nil {
		return err
	}
	return nil
}
