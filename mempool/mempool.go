// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/btree"
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/mining"
	"github.com/vouchnet/vouchd/txscript"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// scoreTreeDegree is the branching factor of the btree that orders pool
// entries by mining score.
const scoreTreeDegree = 32

// Config is a descriptor containing the transaction pool configuration.
type Config struct {
	// ChainParams identifies which chain parameters the pool is
	// associated with.
	ChainParams *chaincfg.Params

	// Policy defines the various pool configuration options related to
	// policy.
	Policy Policy

	// VouchedOnChain defines an optional function to use to determine
	// whether an address has already been vouched for on chain.  When
	// set, addresses it reports as vouched are excluded from the
	// referral-requiring aggregates of new entries.  An address reported
	// as vouched must stay vouched for the life of the pool.
	VouchedOnChain func(wire.AddressID) bool
}

// TxDesc is a descriptor containing a transaction in the pool along with
// additional metadata.
type TxDesc struct {
	mining.TxDesc

	// RefAddresses is the set of distinct output addresses of the
	// transaction that can require a referral before the transaction can
	// be mined.  Addresses already vouched for on chain at acceptance
	// time are excluded.
	RefAddresses []wire.AddressID
}

// txEntry is the pool bookkeeping for a single transaction.  It pairs the
// descriptor handed out to callers with the parent and child links the
// ancestor aggregates are maintained through.
type txEntry struct {
	desc     *TxDesc
	parents  map[chainhash.Hash]*txEntry
	children map[chainhash.Hash]*txEntry
}

// Less implements btree.Item by ordering entries ascending by mining score,
// so descending iteration over the tree starts at the best candidate.
func (e *txEntry) Less(than btree.Item) bool {
	other := than.(*txEntry)
	return mining.TxScoreLess(e.desc.FeeWithAncestors,
		e.desc.SizeWithAncestors, e.desc.Tx.Hash(),
		other.desc.FeeWithAncestors, other.desc.SizeWithAncestors,
		other.desc.Tx.Hash())
}

// TxPool is used as a source of transactions that need to be mined into
// blocks and relayed to other peers.  It is safe for concurrent access from
// multiple peers.
type TxPool struct {
	// The following variables must only be used atomically.
	lastUpdated int64 // last time pool was updated

	mtx       sync.RWMutex
	cfg       Config
	pool      map[chainhash.Hash]*txEntry
	outpoints map[wire.OutPoint]*txEntry
	score     *btree.BTree
}

// Ensure the TxPool type implements the mining.TxSource interface.
var _ mining.TxSource = (*TxPool)(nil)

// haveTransaction returns whether or not the passed transaction exists in
// the pool.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) haveTransaction(hash *chainhash.Hash) bool {
	_, exists := mp.pool[*hash]
	return exists
}

// HaveTransaction returns whether or not the passed transaction exists in
// the pool.
//
// This function is safe for concurrent access.
func (mp *TxPool) HaveTransaction(hash *chainhash.Hash) bool {
	mp.mtx.RLock()
	haveTx := mp.haveTransaction(hash)
	mp.mtx.RUnlock()

	return haveTx
}

// collectAncestors adds every pool entry the passed entry transitively
// depends on to the passed map, keyed by transaction hash.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) collectAncestors(entry *txEntry, ancestors map[chainhash.Hash]*txEntry) {
	for hash, parent := range entry.parents {
		if _, exists := ancestors[hash]; exists {
			continue
		}
		ancestors[hash] = parent
		mp.collectAncestors(parent, ancestors)
	}
}

// ancestorsOf returns every pool entry the passed entry transitively depends
// on, keyed by transaction hash.  The entry itself is not included.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) ancestorsOf(entry *txEntry) map[chainhash.Hash]*txEntry {
	ancestors := make(map[chainhash.Hash]*txEntry)
	mp.collectAncestors(entry, ancestors)
	return ancestors
}

// collectDescendants adds every pool entry that transitively depends on the
// passed entry to the passed map, keyed by transaction hash.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) collectDescendants(entry *txEntry, descendants map[chainhash.Hash]*txEntry) {
	for hash, child := range entry.children {
		if _, exists := descendants[hash]; exists {
			continue
		}
		descendants[hash] = child
		mp.collectDescendants(child, descendants)
	}
}

// referralAddresses extracts the distinct output addresses of the passed
// transaction that can require a referral.  Addresses the configured chain
// view reports as already vouched for are excluded.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) referralAddresses(tx *vutil.Tx) []wire.AddressID {
	var addrs []wire.AddressID
	seen := make(map[wire.AddressID]struct{})
	for _, txOut := range tx.MsgTx().TxOut {
		addr, ok := txscript.ExtractAddressID(txOut.PkScript)
		if !ok {
			continue
		}
		if _, exists := seen[addr]; exists {
			continue
		}
		seen[addr] = struct{}{}

		if mp.cfg.VouchedOnChain != nil && mp.cfg.VouchedOnChain(addr) {
			continue
		}
		addrs = append(addrs, addr)
	}

	return addrs
}

// packageRefCount returns the number of distinct referral-requiring output
// addresses across the passed entry and ancestor set.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) packageRefCount(entry *txEntry, ancestors map[chainhash.Hash]*txEntry) int64 {
	distinct := make(map[wire.AddressID]struct{})
	for _, addr := range entry.desc.RefAddresses {
		distinct[addr] = struct{}{}
	}
	for _, ancestor := range ancestors {
		for _, addr := range ancestor.desc.RefAddresses {
			distinct[addr] = struct{}{}
		}
	}

	return int64(len(distinct))
}

// checkPoolDoubleSpend checks whether or not the passed transaction is
// attempting to spend coins already spent by other transactions in the pool.
// Note it does not check for double spends against transactions already in
// the main chain.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) checkPoolDoubleSpend(tx *vutil.Tx) error {
	for _, txIn := range tx.MsgTx().TxIn {
		if entry, exists := mp.outpoints[txIn.PreviousOutPoint]; exists {
			str := fmt.Sprintf("output %v already spent by "+
				"transaction %v in the memory pool",
				txIn.PreviousOutPoint, entry.desc.Tx.Hash())
			return ruleError(ErrDoubleSpend, str)
		}
	}

	return nil
}

// maybeAcceptTransaction is the internal function which implements the
// public ProcessTransaction.  See the comment for ProcessTransaction for
// more details.
//
// This function MUST be called with the pool lock held (for writes).
func (mp *TxPool) maybeAcceptTransaction(tx *vutil.Tx, fee vutil.Amount,
	sigOpCost int64, height int32) (*TxDesc, error) {

	txHash := tx.Hash()

	// Don't accept the transaction if it already exists in the pool.
	if mp.haveTransaction(txHash) {
		str := fmt.Sprintf("already have transaction %v", txHash)
		return nil, ruleError(ErrDuplicate, str)
	}

	// Perform preliminary sanity checks on the transaction.  This makes
	// use of blockchain which contains the invariant rules for what
	// transactions are allowed into blocks.
	err := blockchain.CheckTransactionSanity(tx)
	if err != nil {
		return nil, err
	}

	// A standalone transaction must not be a coinbase transaction.
	if blockchain.IsCoinBase(tx) {
		str := fmt.Sprintf("transaction %v is an individual coinbase",
			txHash)
		return nil, ruleError(ErrCoinbase, str)
	}

	// Don't accept transactions with a version above the maximum the
	// policy allows unless the network relays non-standard transactions.
	msgTx := tx.MsgTx()
	if !mp.cfg.ChainParams.RelayNonStdTxs {
		if msgTx.Version > mp.cfg.Policy.MaxTxVersion || msgTx.Version < 1 {
			str := fmt.Sprintf("transaction version %d is not "+
				"in the valid range of %d-%d", msgTx.Version,
				1, mp.cfg.Policy.MaxTxVersion)
			return nil, ruleError(ErrTxVersion, str)
		}
	}

	// The transaction may not use any of the same outputs as other
	// transactions already in the pool.
	err = mp.checkPoolDoubleSpend(tx)
	if err != nil {
		return nil, err
	}

	// Reject the transaction when one of its outputs is already spent by
	// a transaction in the pool.  That can only happen when a descendant
	// was accepted first, and the ancestor aggregates of the descendant
	// no longer cover its whole package.
	for i := uint32(0); i < uint32(len(msgTx.TxOut)); i++ {
		prevOut := wire.OutPoint{Hash: *txHash, Index: i}
		if entry, exists := mp.outpoints[prevOut]; exists {
			str := fmt.Sprintf("output %v is already spent by "+
				"transaction %v in the memory pool", prevOut,
				entry.desc.Tx.Hash())
			return nil, ruleError(ErrOutOfOrder, str)
		}
	}

	// Don't allow transactions with fees too low to get into a mined
	// block.
	serializedSize := int64(msgTx.SerializeSize())
	minFee := calcMinRequiredTxRelayFee(serializedSize,
		mp.cfg.Policy.MinRelayTxFee)
	if int64(fee) < minFee {
		str := fmt.Sprintf("transaction %v has %d fees which is under "+
			"the required amount of %d", txHash, fee, minFee)
		return nil, ruleError(ErrInsufficientFee, str)
	}

	// Link the transaction to its unconfirmed parents.  Inputs that do not
	// reference a pool transaction spend confirmed outputs.
	entry := &txEntry{
		parents:  make(map[chainhash.Hash]*txEntry),
		children: make(map[chainhash.Hash]*txEntry),
	}
	for _, txIn := range msgTx.TxIn {
		prevHash := txIn.PreviousOutPoint.Hash
		if parent, exists := mp.pool[prevHash]; exists {
			entry.parents[prevHash] = parent
		}
	}

	// Don't allow the transaction when its unconfirmed ancestor package
	// would grow beyond the policy limit.
	ancestors := mp.ancestorsOf(entry)
	if len(ancestors)+1 > mp.cfg.Policy.MaxAncestors {
		str := fmt.Sprintf("transaction %v would have %d transactions "+
			"in its unconfirmed ancestor package which exceeds the "+
			"limit of %d", txHash, len(ancestors)+1,
			mp.cfg.Policy.MaxAncestors)
		return nil, ruleError(ErrAncestorLimit, str)
	}

	// Build the descriptor with the with-ancestor aggregates covering the
	// transaction itself plus every unconfirmed ancestor.
	desc := &TxDesc{
		TxDesc: mining.TxDesc{
			Tx:                     tx,
			Added:                  time.Now(),
			Height:                 height,
			Fee:                    fee,
			Size:                   serializedSize,
			Weight:                 blockchain.GetTransactionWeight(tx),
			SigOpCost:              sigOpCost,
			FeeWithAncestors:       fee,
			SizeWithAncestors:      serializedSize,
			SigOpCostWithAncestors: sigOpCost,
			CountWithAncestors:     1,
		},
		RefAddresses: mp.referralAddresses(tx),
	}
	entry.desc = desc
	for _, ancestor := range ancestors {
		desc.FeeWithAncestors += ancestor.desc.Fee
		desc.SizeWithAncestors += ancestor.desc.Size
		desc.SigOpCostWithAncestors += ancestor.desc.SigOpCost
		desc.CountWithAncestors++
	}
	desc.RefsWithAncestors = mp.packageRefCount(entry, ancestors)

	// Add the transaction to the pool, link it into its parents and mark
	// the referenced outpoints as spent by the pool.
	mp.pool[*txHash] = entry
	for _, parent := range entry.parents {
		parent.children[*txHash] = entry
	}
	for _, txIn := range msgTx.TxIn {
		mp.outpoints[txIn.PreviousOutPoint] = entry
	}
	mp.score.ReplaceOrInsert(entry)
	atomic.StoreInt64(&mp.lastUpdated, time.Now().Unix())

	log.Debugf("Accepted transaction %v (pool size: %v)", txHash,
		len(mp.pool))

	return desc, nil
}

// ProcessTransaction adds the passed transaction to the pool.  The fee and
// signature operation cost are supplied by the caller since input resolution
// and script validation are performed before a transaction reaches the pool.
//
// Only acceptance rules the pool can verify on its own are applied: the
// transaction must not already exist, must pass the context-free sanity
// checks, must not double spend an outpoint consumed by the pool, must pay
// the minimum relay fee for its size and must not grow an unconfirmed
// ancestor package beyond the policy limit.  Transactions must be submitted
// in dependency order.
//
// This function is safe for concurrent access.
func (mp *TxPool) ProcessTransaction(tx *vutil.Tx, fee vutil.Amount,
	sigOpCost int64, height int32) (*TxDesc, error) {

	log.Tracef("Processing transaction %v", tx.Hash())

	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	return mp.maybeAcceptTransaction(tx, fee, sigOpCost, height)
}

// removeTransaction is the internal function which implements the public
// RemoveTransaction.  See the comment for RemoveTransaction for more
// details.
//
// This function MUST be called with the pool lock held (for writes).
func (mp *TxPool) removeTransaction(tx *vutil.Tx, removeRedeemers bool) {
	txHash := tx.Hash()
	if removeRedeemers {
		// Remove any transactions which rely on this one.
		for i := uint32(0); i < uint32(len(tx.MsgTx().TxOut)); i++ {
			prevOut := wire.OutPoint{Hash: *txHash, Index: i}
			if entry, exists := mp.outpoints[prevOut]; exists {
				mp.removeTransaction(entry.desc.Tx, true)
			}
		}
	}

	entry, exists := mp.pool[*txHash]
	if !exists {
		return
	}

	// Subtract the totals of the removed transaction from the ancestor
	// aggregates of every descendant that stays behind.  The sort key of
	// a descendant changes with its totals, so each one leaves the score
	// index while it mutates.
	descendants := make(map[chainhash.Hash]*txEntry)
	mp.collectDescendants(entry, descendants)
	for _, descendant := range descendants {
		mp.score.Delete(descendant)
		descendant.desc.FeeWithAncestors -= entry.desc.Fee
		descendant.desc.SizeWithAncestors -= entry.desc.Size
		descendant.desc.SigOpCostWithAncestors -= entry.desc.SigOpCost
		descendant.desc.CountWithAncestors--
		mp.score.ReplaceOrInsert(descendant)
	}

	// Unlink the entry and mark the referenced outpoints as unspent by
	// the pool.
	for _, parent := range entry.parents {
		delete(parent.children, *txHash)
	}
	for _, child := range entry.children {
		delete(child.parents, *txHash)
	}
	for _, txIn := range entry.desc.Tx.MsgTx().TxIn {
		delete(mp.outpoints, txIn.PreviousOutPoint)
	}
	mp.score.Delete(entry)
	delete(mp.pool, *txHash)

	// With the entry unlinked, the referral-requiring aggregates of the
	// remaining descendants cover their reduced ancestor packages.
	for _, descendant := range descendants {
		descendant.desc.RefsWithAncestors = mp.packageRefCount(
			descendant, mp.ancestorsOf(descendant))
	}

	atomic.StoreInt64(&mp.lastUpdated, time.Now().Unix())
}

// RemoveTransaction removes the passed transaction from the pool.  When the
// removeRedeemers flag is set, any transactions that redeem outputs from the
// removed transaction are also removed recursively from the pool, as they
// would otherwise become orphans.  Otherwise the remaining descendants keep
// their places with their ancestor aggregates reduced, as if the removed
// transaction had been mined.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveTransaction(tx *vutil.Tx, removeRedeemers bool) {
	mp.mtx.Lock()
	mp.removeTransaction(tx, removeRedeemers)
	mp.mtx.Unlock()
}

// removeDoubleSpends is the internal function which implements the public
// RemoveDoubleSpends.  See the comment for RemoveDoubleSpends for more
// details.
//
// This function MUST be called with the pool lock held (for writes).
func (mp *TxPool) removeDoubleSpends(tx *vutil.Tx) {
	for _, txIn := range tx.MsgTx().TxIn {
		if entry, ok := mp.outpoints[txIn.PreviousOutPoint]; ok {
			if !entry.desc.Tx.Hash().IsEqual(tx.Hash()) {
				mp.removeTransaction(entry.desc.Tx, true)
			}
		}
	}
}

// RemoveDoubleSpends removes all transactions which spend outputs spent by
// the passed transaction from the pool.  Removing those transactions then
// leads to removing all transactions which rely on them, recursively.  This
// is necessary when a block is connected to the main chain because the block
// may contain transactions which were previously unknown to the pool.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveDoubleSpends(tx *vutil.Tx) {
	mp.mtx.Lock()
	mp.removeDoubleSpends(tx)
	mp.mtx.Unlock()
}

// RemoveForBlock removes every transaction mined into the passed block from
// the pool, along with any pool transactions that double spend inputs the
// block consumed.  Descendants left behind keep their places with their
// ancestor aggregates reduced by the mined transactions.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveForBlock(txns []*vutil.Tx) {
	mp.mtx.Lock()
	for _, tx := range txns {
		if blockchain.IsCoinBase(tx) {
			continue
		}
		mp.removeTransaction(tx, false)
		mp.removeDoubleSpends(tx)
	}
	mp.mtx.Unlock()
}

// Count returns the number of transactions in the pool.
//
// This is part of the mining.TxSource interface implementation and is safe
// for concurrent access as required by the interface contract.
func (mp *TxPool) Count() int {
	mp.mtx.RLock()
	count := len(mp.pool)
	mp.mtx.RUnlock()

	return count
}

// TxDescs returns a slice of descriptors for all the transactions in the
// pool.  The descriptors are to be treated as read only.
//
// This function is safe for concurrent access.
func (mp *TxPool) TxDescs() []*TxDesc {
	mp.mtx.RLock()
	descs := make([]*TxDesc, len(mp.pool))
	i := 0
	for _, entry := range mp.pool {
		descs[i] = entry.desc
		i++
	}
	mp.mtx.RUnlock()

	return descs
}

// MiningDescs returns a slice of mining descriptors for all the transactions
// in the pool ordered by descending ancestor fee rate score.  The order is
// stable across calls on an unchanged pool.
//
// This is part of the mining.TxSource interface implementation and is safe
// for concurrent access as required by the interface contract.
func (mp *TxPool) MiningDescs() []*mining.TxDesc {
	mp.mtx.RLock()
	descs := make([]*mining.TxDesc, 0, len(mp.pool))
	mp.score.Descend(func(item btree.Item) bool {
		descs = append(descs, &item.(*txEntry).desc.TxDesc)
		return true
	})
	mp.mtx.RUnlock()

	return descs
}

// TxAncestors returns the descriptors of every unconfirmed ancestor of the
// passed transaction hash, keyed by transaction hash.  The result does not
// include the transaction itself.
//
// This is part of the mining.TxSource interface implementation and is safe
// for concurrent access as required by the interface contract.
func (mp *TxPool) TxAncestors(hash *chainhash.Hash) map[chainhash.Hash]*mining.TxDesc {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	entry, exists := mp.pool[*hash]
	if !exists {
		return nil
	}

	ancestors := mp.ancestorsOf(entry)
	descs := make(map[chainhash.Hash]*mining.TxDesc, len(ancestors))
	for ancestorHash, ancestor := range ancestors {
		descs[ancestorHash] = &ancestor.desc.TxDesc
	}

	return descs
}

// TxDescendants returns the descriptors of every transaction in the pool
// that descends from the passed transaction hash, keyed by transaction hash.
//
// This is part of the mining.TxSource interface implementation and is safe
// for concurrent access as required by the interface contract.
func (mp *TxPool) TxDescendants(hash *chainhash.Hash) map[chainhash.Hash]*mining.TxDesc {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	entry, exists := mp.pool[*hash]
	if !exists {
		return nil
	}

	descendants := make(map[chainhash.Hash]*txEntry)
	mp.collectDescendants(entry, descendants)
	descs := make(map[chainhash.Hash]*mining.TxDesc, len(descendants))
	for descendantHash, descendant := range descendants {
		descs[descendantHash] = &descendant.desc.TxDesc
	}

	return descs
}

// LastUpdated returns the last time a transaction was added to or removed
// from the pool.
//
// This is part of the mining.TxSource interface implementation and is safe
// for concurrent access as required by the interface contract.
func (mp *TxPool) LastUpdated() time.Time {
	return time.Unix(atomic.LoadInt64(&mp.lastUpdated), 0)
}

// New returns a new memory pool for storing validated transactions until
// they are mined into a block.
func New(cfg *Config) *TxPool {
	pool := &TxPool{
		cfg:       *cfg,
		pool:      make(map[chainhash.Hash]*txEntry),
		outpoints: make(map[wire.OutPoint]*txEntry),
		score:     btree.New(scoreTreeDegree),
	}
	pool.cfg.Policy = normalizePolicy(cfg.Policy)

	return pool
}
