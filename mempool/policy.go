// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

const (
	// DefaultMinRelayTxFee is the minimum fee in motes that is required
	// for a transaction to be treated as free for relay and mining
	// purposes.  It is also used to help determine if a transaction is
	// considered dust and as a base for calculating minimum required fees
	// for larger transactions.  This value is in motes/1000 bytes.
	DefaultMinRelayTxFee = vutil.Amount(1000)

	// DefaultMaxTxVersion is the transactions version that the pool
	// accepts by default.  All transactions above this version are
	// rejected.
	DefaultMaxTxVersion = wire.TxVersion

	// DefaultMaxAncestors is the maximum number of transactions in an
	// unconfirmed ancestor package the pool accepts by default, including
	// the transaction itself.
	DefaultMaxAncestors = 25
)

// Policy houses the policy (configuration parameters) which is used to
// control the transaction pool.
type Policy struct {
	// MaxTxVersion is the transaction version that the pool should
	// accept.  All transactions above this version are rejected.
	MaxTxVersion int32

	// MinRelayTxFee defines the minimum transaction fee in motes/kB to be
	// considered a non-zero fee.
	MinRelayTxFee vutil.Amount

	// MaxAncestors is the maximum number of transactions allowed in an
	// unconfirmed ancestor package, including the transaction itself.
	MaxAncestors int
}

// normalizePolicy returns a copy of the passed policy with unset values
// replaced by their defaults.
func normalizePolicy(policy Policy) Policy {
	if policy.MaxTxVersion <= 0 {
		policy.MaxTxVersion = DefaultMaxTxVersion
	}
	if policy.MaxAncestors <= 0 {
		policy.MaxAncestors = DefaultMaxAncestors
	}
	return policy
}

// calcMinRequiredTxRelayFee returns the minimum transaction fee required for
// a transaction with the passed serialized size to be accepted into the pool.
func calcMinRequiredTxRelayFee(serializedSize int64, minRelayTxFee vutil.Amount) int64 {
	// Calculate the minimum fee for a transaction to be allowed into the
	// pool by scaling the base fee.  minRelayTxFee is in motes/kB so
	// multiply by serializedSize (which is in bytes) and divide by 1000
	// to get minimum motes.
	minFee := (serializedSize * int64(minRelayTxFee)) / 1000

	if minFee == 0 && minRelayTxFee > 0 {
		minFee = int64(minRelayTxFee)
	}

	// Set the minimum fee to the maximum possible value if the calculated
	// fee is not in the valid range for monetary amounts.
	if minFee < 0 || minFee > vutil.MaxMotes {
		minFee = vutil.MaxMotes
	}

	return minFee
}
