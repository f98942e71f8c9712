// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/txscript"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

const (
	// CoinbaseCommitmentDataLen is the length of the commitment hash
	// itself, the double SHA256 of the witness merkle root concatenated
	// with the referral merkle root.
	CoinbaseCommitmentDataLen = 32

	// CoinbaseCommitmentPkScriptLength is the length of the public key
	// script containing an OP_RETURN, the CommitmentMagicBytes, and the
	// commitment itself.  In order to be a valid candidate for the output
	// containing the commitment, a script must be at least this long.
	CoinbaseCommitmentPkScriptLength = 38
)

var (
	// CoinbaseCommitmentHeader is the 4 byte marker ("VCHC") that precedes
	// the commitment hash within the OP_RETURN data push.
	CoinbaseCommitmentHeader = []byte{0x56, 0x43, 0x48, 0x43}

	// CommitmentMagicBytes is the prefix marker within the public key
	// script of a coinbase output to indicate that this output holds the
	// coinbase commitment for a block.
	CommitmentMagicBytes = []byte{
		txscript.OP_RETURN,
		txscript.OP_DATA_36,
		0x56,
		0x43,
		0x48,
		0x43,
	}
)

// calcCoinbaseCommitment returns the commitment hash for the two merkle
// roots a block commits to.  The preimage is:
//
//	witnessMerkleRoot || referralMerkleRoot
func calcCoinbaseCommitment(witnessMerkleRoot,
	referralMerkleRoot *chainhash.Hash) []byte {

	var preimage [chainhash.HashSize * 2]byte
	copy(preimage[:chainhash.HashSize], witnessMerkleRoot[:])
	copy(preimage[chainhash.HashSize:], referralMerkleRoot[:])

	return chainhash.DoubleHashB(preimage[:])
}

// GenerateCoinbaseCommitment computes the coinbase commitment for a block
// made up of the passed transactions and referrals and appends the commitment
// output to the coinbase.  The raw commitment is returned.
//
// blockTxns must contain the coinbase transaction at index zero.  The witness
// merkle root treats the coinbase wtxid as all zeroes, so the commitment
// output can be appended to the coinbase without invalidating the roots it
// commits to.  A block with no referrals commits to the zero hash for the
// referral merkle root.
func GenerateCoinbaseCommitment(coinbaseTx *vutil.Tx, blockTxns []*vutil.Tx,
	blockRefs []*vutil.Referral) []byte {

	// Obtain the merkle root of a tree which consists of the wtxid of all
	// transactions in the block, along with the root over the block's
	// referrals.
	witnessMerkleRoot := CalcWitnessMerkleRoot(blockTxns)
	referralMerkleRoot := CalcReferralMerkleRoot(blockRefs)

	commitment := calcCoinbaseCommitment(&witnessMerkleRoot,
		&referralMerkleRoot)

	// The script for the output is:
	// OP_RETURN OP_DATA_36 {0x56434843 || commitment}.
	commitmentScript := append(CommitmentMagicBytes, commitment...)

	coinbaseTx.MsgTx().AddTxOut(&wire.TxOut{
		Value:    0,
		PkScript: commitmentScript,
	})

	return commitment
}

// locateCommitment returns the output index of the coinbase commitment within
// the passed transaction, or -1 when no output carries one.  The outputs are
// scanned in reverse so a block with multiple candidate outputs resolves to
// the last one.
func locateCommitment(msgTx *wire.MsgTx) int {
	for i := len(msgTx.TxOut) - 1; i >= 0; i-- {
		pkScript := msgTx.TxOut[i].PkScript
		if len(pkScript) >= CoinbaseCommitmentPkScriptLength &&
			bytes.HasPrefix(pkScript, CommitmentMagicBytes) {

			return i
		}
	}

	return -1
}

// ExtractCoinbaseCommitment attempts to locate, and return the coinbase
// commitment for a block.  The boolean return indicates whether a commitment
// output was found within any of the txOut's in the passed transaction.  Any
// bytes beyond the 38th byte of the matched script have no meaning.
func ExtractCoinbaseCommitment(tx *vutil.Tx) ([]byte, bool) {
	// The commitment *must* be located within one of the coinbase
	// transaction's outputs.
	if !IsCoinBase(tx) {
		return nil, false
	}

	msgTx := tx.MsgTx()
	idx := locateCommitment(msgTx)
	if idx == -1 {
		return nil, false
	}

	start := len(CommitmentMagicBytes)
	end := CoinbaseCommitmentPkScriptLength
	return msgTx.TxOut[idx].PkScript[start:end], true
}

// ValidateCoinbaseCommitment validates the coinbase commitment (if any) found
// within the coinbase transaction of the passed block.  A block that carries
// witness data or referrals must commit to both merkle roots; a block with
// neither is permitted to omit the commitment output entirely.
func ValidateCoinbaseCommitment(blk *vutil.Block) error {
	blockTxns := blk.Transactions()
	if len(blockTxns) == 0 {
		str := "cannot validate commitment of block without transactions"
		return ruleError(ErrNoTransactions, str)
	}

	coinbaseTx := blockTxns[0]
	commitment, found := ExtractCoinbaseCommitment(coinbaseTx)
	if !found {
		// A commitment output is only required once the block carries
		// data the commitment would cover.
		witnessFound := false
		for _, tx := range blockTxns {
			if tx.HasWitness() {
				witnessFound = true
				break
			}
		}

		if !witnessFound && len(blk.Referrals()) == 0 {
			return nil
		}

		str := fmt.Sprintf("block %v has witness data or referrals, "+
			"but no commitment output in its coinbase", blk.Hash())
		return ruleError(ErrMissingCoinbaseCommitment, str)
	}

	witnessMerkleRoot := CalcWitnessMerkleRoot(blockTxns)
	referralMerkleRoot := CalcReferralMerkleRoot(blk.Referrals())
	computed := calcCoinbaseCommitment(&witnessMerkleRoot,
		&referralMerkleRoot)

	if !bytes.Equal(computed, commitment) {
		str := fmt.Sprintf("coinbase commitment mismatch: computed "+
			"%x, coinbase commits to %x", computed, commitment)
		return ruleError(ErrBadCoinbaseCommitment, str)
	}

	return nil
}
