// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/vouchnet/vouchd/vutil"
)

const (
	// MaxBlockWeight defines the maximum block weight.  A block's weight
	// is calculated as the sum of the bytes in the existing transactions
	// and header, plus the weight of each byte within a transaction.  The
	// weight of a "base" byte is 4, while the weight of a witness byte is
	// 1.  As a result, for a block to be valid, the BlockWeight MUST be
	// less than, or equal to MaxBlockWeight.
	MaxBlockWeight = 4000000

	// MaxBlockBaseSize is the maximum number of bytes within a block
	// which can be allocated to non-witness data.
	MaxBlockBaseSize = 1000000

	// MaxBlockSigOpsCost is the maximum number of signature operations
	// allowed for a block.  It is calculated via a weighted algorithm
	// which weights segregated witness sig ops lower than regular sig ops.
	MaxBlockSigOpsCost = 80000

	// WitnessScaleFactor determines the level of "discount" witness data
	// receives compared to "base" data.  A scale factor of 4, denotes that
	// witness data is 1/4 as cheap as regular non-witness data.
	WitnessScaleFactor = 4

	// MaxTxSize is the maximum number of bytes a serialized transaction
	// stripped of witness data can be.
	MaxTxSize = 1000000
)

// GetBlockWeight computes the value of the weight metric for a given block.
// Currently the weight metric is simply the sum of the block's serialized size
// without any witness data scaled proportionally by the WitnessScaleFactor,
// and the block's serialized size including any witness data.
func GetBlockWeight(blk *vutil.Block) int64 {
	msgBlock := blk.MsgBlock()

	baseSize := msgBlock.SerializeSizeStripped()
	totalSize := msgBlock.SerializeSize()

	// (baseSize * 3) + totalSize
	return int64((baseSize * (WitnessScaleFactor - 1)) + totalSize)
}

// GetTransactionWeight computes the value of the weight metric for a given
// transaction.  Currently the weight metric is simply the sum of the
// transaction's serialized size without any witness data scaled proportionally
// by the WitnessScaleFactor, and the transaction's serialized size including
// any witness data.
func GetTransactionWeight(tx *vutil.Tx) int64 {
	msgTx := tx.MsgTx()

	baseSize := msgTx.SerializeSizeStripped()
	totalSize := msgTx.SerializeSize()

	// (baseSize * 3) + totalSize
	return int64((baseSize * (WitnessScaleFactor - 1)) + totalSize)
}

// GetReferralWeight computes the value of the weight metric for a given
// referral.  Referrals carry no witness data, so every serialized byte is a
// base byte.
func GetReferralWeight(ref *vutil.Referral) int64 {
	return int64(ref.MsgReferral().SerializeSize() * WitnessScaleFactor)
}
