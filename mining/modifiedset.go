// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/btree"
	"github.com/vouchnet/vouchd/vutil"
)

// modifiedTreeDegree is the branching factor of the btree that orders
// modified entries by mining score.
const modifiedTreeDegree = 32

// modifiedEntry pairs a source transaction descriptor with package totals
// that have been adjusted for ancestors already committed to the block under
// construction.  The totals shadow the corresponding fields of the source
// descriptor, which continues to describe the unmodified pool state.
type modifiedEntry struct {
	desc *TxDesc

	feeWithAncestors       vutil.Amount
	sizeWithAncestors      int64
	sigOpCostWithAncestors int64
	countWithAncestors     int64
}

// newModifiedEntry returns a modified entry seeded with the package totals of
// the passed source descriptor.
func newModifiedEntry(desc *TxDesc) *modifiedEntry {
	return &modifiedEntry{
		desc:                   desc,
		feeWithAncestors:       desc.FeeWithAncestors,
		sizeWithAncestors:      desc.SizeWithAncestors,
		sigOpCostWithAncestors: desc.SigOpCostWithAncestors,
		countWithAncestors:     desc.CountWithAncestors,
	}
}

// Less implements btree.Item by ordering entries ascending by mining score,
// so the maximum element of the tree is the best remaining candidate.
func (e *modifiedEntry) Less(than btree.Item) bool {
	other := than.(*modifiedEntry)
	return TxScoreLess(e.feeWithAncestors, e.sizeWithAncestors,
		e.desc.Tx.Hash(), other.feeWithAncestors,
		other.sizeWithAncestors, other.desc.Tx.Hash())
}

// modifiedTxSet tracks the transactions whose package totals no longer match
// the source pool because one or more of their ancestors has been committed
// to the block under construction.  Entries are indexed by transaction hash
// and by mining score.
type modifiedTxSet struct {
	byHash  map[chainhash.Hash]*modifiedEntry
	byScore *btree.BTree
}

// newModifiedTxSet returns an empty modified transaction set.
func newModifiedTxSet() *modifiedTxSet {
	return &modifiedTxSet{
		byHash:  make(map[chainhash.Hash]*modifiedEntry),
		byScore: btree.New(modifiedTreeDegree),
	}
}

// get returns the entry tracked for the given transaction hash or nil when
// the transaction is not tracked.
func (s *modifiedTxSet) get(hash *chainhash.Hash) *modifiedEntry {
	return s.byHash[*hash]
}

// best returns the tracked entry with the highest mining score or nil when
// the set is empty.
func (s *modifiedTxSet) best() *modifiedEntry {
	max := s.byScore.Max()
	if max == nil {
		return nil
	}
	return max.(*modifiedEntry)
}

// remove drops the entry tracked for the given transaction hash.  Removing a
// transaction that is not tracked is a no-op.
func (s *modifiedTxSet) remove(hash *chainhash.Hash) {
	entry, exists := s.byHash[*hash]
	if !exists {
		return
	}

	delete(s.byHash, *hash)
	s.byScore.Delete(entry)
}

// decrementAncestor adjusts the tracked package totals of the passed
// descendant for the inclusion of the passed ancestor in the block under
// construction.  The descendant is inserted into the set on first touch.
//
// The entry is pulled out of the score index before its totals change and
// reinserted afterwards since mutating the sort key of a resident item would
// corrupt the tree.
func (s *modifiedTxSet) decrementAncestor(descendant, ancestor *TxDesc) {
	descHash := descendant.Tx.Hash()
	entry, exists := s.byHash[*descHash]
	if !exists {
		entry = newModifiedEntry(descendant)
		s.byHash[*descHash] = entry
	} else {
		s.byScore.Delete(entry)
	}

	entry.feeWithAncestors -= ancestor.Fee
	entry.sizeWithAncestors -= ancestor.Size
	entry.sigOpCostWithAncestors -= ancestor.SigOpCost
	entry.countWithAncestors--
	s.byScore.ReplaceOrInsert(entry)
}

// size returns the number of tracked entries.
func (s *modifiedTxSet) size() int {
	return len(s.byHash)
}
