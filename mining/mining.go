// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// TxDesc is a descriptor about a transaction in a transaction source along
// with additional metadata.  The with-ancestor aggregates cover the
// transaction itself plus every unconfirmed ancestor still in the source
// pool, which is the unit the block assembler scores and commits.
type TxDesc struct {
	// Tx is the transaction associated with the entry.
	Tx *vutil.Tx

	// Added is the time when the entry was added to the source pool.
	Added time.Time

	// Height is the block height when the entry was added to the source
	// pool.
	Height int32

	// Fee is the total fee the transaction associated with the entry pays.
	Fee vutil.Amount

	// Size is the serialized size of the transaction.
	Size int64

	// Weight is the weight metric of the transaction per the block weight
	// rules.
	Weight int64

	// SigOpCost is the weighted cost of the signature operations the
	// transaction performs.
	SigOpCost int64

	// FeeWithAncestors is the total fee paid by the transaction and all of
	// its unconfirmed ancestors.
	FeeWithAncestors vutil.Amount

	// SizeWithAncestors is the total serialized size of the transaction
	// and all of its unconfirmed ancestors.
	SizeWithAncestors int64

	// SigOpCostWithAncestors is the total signature operation cost of the
	// transaction and all of its unconfirmed ancestors.
	SigOpCostWithAncestors int64

	// CountWithAncestors is the number of transactions in the ancestor
	// package, including the transaction itself.
	CountWithAncestors int64

	// RefsWithAncestors is the number of distinct output addresses across
	// the ancestor package that require a referral.  A zero value lets the
	// assembler skip referral lookups for the whole package.
	RefsWithAncestors int64
}

// RefDesc is a descriptor about a pending referral in a referral source
// along with additional metadata.
type RefDesc struct {
	// Ref is the referral associated with the entry.
	Ref *vutil.Referral

	// Added is the time when the entry was added to the source pool.
	Added time.Time

	// Height is the block height when the entry was added to the source
	// pool.
	Height int32
}

// TxSource represents a source of transactions to consider for inclusion in
// new blocks.
//
// The interface contract requires that all of these methods are safe for
// concurrent access with respect to the source.
type TxSource interface {
	// LastUpdated returns the last time a transaction was added to or
	// removed from the source pool.
	LastUpdated() time.Time

	// MiningDescs returns a slice of mining descriptors for all the
	// transactions in the source pool ordered by descending ancestor fee
	// rate score.  The order must be stable across calls on an unchanged
	// pool.
	MiningDescs() []*TxDesc

	// TxAncestors returns the descriptors of every unconfirmed ancestor
	// of the passed transaction hash, keyed by transaction hash.  The
	// result does not include the transaction itself.
	TxAncestors(hash *chainhash.Hash) map[chainhash.Hash]*TxDesc

	// TxDescendants returns the descriptors of every transaction in the
	// source pool that descends from the passed transaction hash, keyed
	// by transaction hash.
	TxDescendants(hash *chainhash.Hash) map[chainhash.Hash]*TxDesc

	// HaveTransaction returns whether or not the passed transaction hash
	// exists in the source pool.
	HaveTransaction(hash *chainhash.Hash) bool

	// Count returns the number of transactions in the source pool.
	Count() int
}

// ReferralSource represents a source of pending referrals to consider for
// inclusion in new blocks, together with a view of which addresses have
// already been vouched for on chain.
//
// The interface contract requires that all of these methods are safe for
// concurrent access with respect to the source.
type ReferralSource interface {
	// LastUpdated returns the last time a referral was added to or removed
	// from the source pool.
	LastUpdated() time.Time

	// RefDescs returns a slice of descriptors for all pending referrals in
	// the source pool in ascending referral hash order.
	RefDescs() []*RefDesc

	// HaveReferral returns whether or not a pending referral for the
	// passed address exists in the source pool.
	HaveReferral(addr wire.AddressID) bool

	// ConfirmedReferral returns whether or not the passed address has
	// already been vouched for on chain.
	ConfirmedReferral(addr wire.AddressID) bool

	// ReferralDesc returns the descriptor of the pending referral for the
	// passed address, or nil when no such referral exists.
	ReferralDesc(addr wire.AddressID) *RefDesc
}

// Chain represents the subset of chain state the block assembler consumes: a
// snapshot of the current best tip and the difficulty a block built on that
// tip must meet.
type Chain interface {
	// BestSnapshot returns the state of the current best chain tip.
	BestSnapshot() *blockchain.BestState

	// CalcNextRequiredDifficulty returns the difficulty bits a block
	// created with the given timestamp on top of the current best tip must
	// satisfy.
	CalcNextRequiredDifficulty(timestamp time.Time) (uint32, error)
}

// BlockTemplate houses a block that has yet to be solved along with
// additional details about the fees and the number of signature operations
// for each transaction in the block.
type BlockTemplate struct {
	// Block is a block that is ready to be solved by miners.  Thus, it is
	// completely valid with the exception of satisfying the proof-of-work
	// requirement.
	Block *wire.MsgBlock

	// Fees contains the amount of fees each transaction in the generated
	// template pays in base units.  Since the first transaction is the
	// coinbase, the first entry (offset 0) will contain the negative of
	// the sum of the fees of all other transactions.
	Fees []vutil.Amount

	// SigOpCosts contains the number of signature operations each
	// transaction in the generated template performs.
	SigOpCosts []int64

	// CoinbaseCommitment is the combined witness and referral commitment
	// carried by the last output of the coinbase.
	CoinbaseCommitment []byte

	// Height is the height at which the block template connects to the
	// chain.
	Height int32
}
