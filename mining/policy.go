// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/vutil"
)

const (
	// MinBlockWeight is the smallest maximum block weight a policy may
	// configure.  It always leaves room for a coinbase transaction.
	MinBlockWeight = 4000

	// MinBlockSize is the smallest maximum block serialized size a policy
	// may configure.  It always leaves room for a coinbase transaction.
	MinBlockSize = 1000

	// DefaultBlockMaxWeight is the default maximum block weight used when
	// generating block templates.  The reserve below the consensus limit
	// leaves space for the coinbase and the commitment output appended
	// after selection.
	DefaultBlockMaxWeight = blockchain.MaxBlockWeight - 4000

	// DefaultBlockMaxSize is the default maximum block serialized size
	// used when generating block templates.
	DefaultBlockMaxSize = blockchain.MaxBlockBaseSize - 1000

	// DefaultTxMaxAggregateSize is the default maximum total serialized
	// transaction bytes allowed in a generated block template.
	DefaultTxMaxAggregateSize = DefaultBlockMaxSize

	// DefaultBlockMinTxFee is the default minimum fee rate in motes per
	// 1000 bytes a transaction package must pay to be included in a
	// generated block template.
	DefaultBlockMinTxFee = vutil.Amount(1000)
)

// Policy houses the policy (configuration parameters) which is used to
// control the generation of block templates.  See the documentation for
// NewBlockTemplate for more details on how each of these parameters are
// used.
type Policy struct {
	// BlockMaxWeight is the maximum block weight to be used when
	// generating a block template.  A value of zero selects
	// DefaultBlockMaxWeight.
	BlockMaxWeight uint32

	// BlockMaxSize is the maximum block serialized size to be used when
	// generating a block template.  A value of zero selects
	// DefaultBlockMaxSize.
	BlockMaxSize uint32

	// TxMaxAggregateSize is the maximum total serialized transaction
	// bytes allowed in a generated block template.  A value of zero
	// selects DefaultTxMaxAggregateSize.
	TxMaxAggregateSize uint32

	// BlockMinFeeRate is the minimum fee rate in motes per 1000 bytes a
	// transaction package must pay to be considered for inclusion.  A
	// value of zero includes free transactions.
	BlockMinFeeRate vutil.Amount
}

// minUint32 is a helper function to return the minimum of two uint32s.
// This avoids a math import and the need to cast to floats.
func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// maxUint32 is a helper function to return the maximum of two uint32s.
func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// NormalizePolicy returns a copy of the passed policy with zero valued limits
// replaced by their defaults and all limits clamped into sane ranges.  The
// weight limit is clamped to [MinBlockWeight, DefaultBlockMaxWeight] and the
// size limits to [MinBlockSize, DefaultBlockMaxSize].  The minimum fee rate
// is returned unmodified.
func NormalizePolicy(policy Policy) Policy {
	if policy.BlockMaxWeight == 0 {
		policy.BlockMaxWeight = DefaultBlockMaxWeight
	}
	if policy.BlockMaxSize == 0 {
		policy.BlockMaxSize = DefaultBlockMaxSize
	}
	if policy.TxMaxAggregateSize == 0 {
		policy.TxMaxAggregateSize = DefaultTxMaxAggregateSize
	}

	policy.BlockMaxWeight = minUint32(maxUint32(policy.BlockMaxWeight,
		MinBlockWeight), DefaultBlockMaxWeight)
	policy.BlockMaxSize = minUint32(maxUint32(policy.BlockMaxSize,
		MinBlockSize), DefaultBlockMaxSize)
	policy.TxMaxAggregateSize = minUint32(maxUint32(policy.TxMaxAggregateSize,
		MinBlockSize), DefaultTxMaxAggregateSize)

	return policy
}
