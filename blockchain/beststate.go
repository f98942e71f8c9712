// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/vutil"
)

// BestState houses information about the current best block and other info
// related to the state of the main chain as it exists from the point of view
// of the current best block.
//
// This package does not track chain state itself, so snapshots are produced
// by whatever component owns the chain and handed to consumers such as the
// block template generator.  The snapshot must be treated as immutable since
// it is shared by all callers.
type BestState struct {
	Hash        chainhash.Hash // The hash of the block.
	Height      int32          // The height of the block.
	Bits        uint32         // The difficulty bits of the block.
	BlockSize   uint64         // The size of the block.
	BlockWeight uint64         // The weight of the block.
	NumTxns     uint64         // The number of txns in the block.
	NumRefs     uint64         // The number of referrals in the block.
	TotalTxns   uint64         // The total number of txns in the chain.
	MedianTime  time.Time      // Median time of the previous 11 blocks.
}

// NewBestState returns a snapshot describing the passed block as the current
// chain tip.  The block's height must have been set with SetHeight.  The
// median time is supplied by the caller since computing it requires headers
// this package does not track.
func NewBestState(blk *vutil.Block, totalTxns uint64,
	medianTime time.Time) *BestState {

	msgBlock := blk.MsgBlock()
	return &BestState{
		Hash:        *blk.Hash(),
		Height:      blk.Height(),
		Bits:        msgBlock.Header.Bits,
		BlockSize:   uint64(msgBlock.SerializeSize()),
		BlockWeight: uint64(GetBlockWeight(blk)),
		NumTxns:     uint64(len(msgBlock.Transactions)),
		NumRefs:     uint64(len(msgBlock.Referrals)),
		TotalTxns:   totalTxns,
		MedianTime:  medianTime,
	}
}
