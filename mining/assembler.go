// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/txscript"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

const (
	// generatedBlockVersion is the version of the block being generated.
	generatedBlockVersion = 1

	// blockHeaderOverhead is the max number of bytes it takes to serialize
	// a block header along with the transaction and referral count
	// varints.
	blockHeaderOverhead = wire.MaxBlockHeaderPayload + 2*wire.MaxVarIntPayload

	// maxConsecutivePackageFailures is the number of consecutive candidate
	// packages that may fail the block budget checks before transaction
	// selection gives up early on a block that is close to its weight
	// limit.
	maxConsecutivePackageFailures = 1000
)

// blockState tracks the contents and running totals of a block while the
// selection passes fill it.
type blockState struct {
	height         int32
	lockTimeCutoff time.Time
	includeWitness bool

	blockTxns    []*vutil.Tx
	blockRefs    []*vutil.Referral
	txFees       []vutil.Amount
	txSigOpCosts []int64

	blockWeight  uint32
	blockSize    uint32
	blockTxBytes uint32
	blockSigOps  int64
	totalFees    vutil.Amount

	txsInBlock       map[chainhash.Hash]struct{}
	refsInBlock      map[wire.AddressID]struct{}
	refHashesInBlock map[chainhash.Hash]struct{}
	failedTx         map[chainhash.Hash]struct{}
}

// commitTx adds the passed transaction to the block under construction and
// updates the running totals.
func (s *blockState) commitTx(desc *TxDesc) {
	s.blockTxns = append(s.blockTxns, desc.Tx)
	s.txFees = append(s.txFees, desc.Fee)
	s.txSigOpCosts = append(s.txSigOpCosts, desc.SigOpCost)
	s.blockWeight += uint32(desc.Weight)
	s.blockSize += uint32(desc.Size)
	s.blockTxBytes += uint32(desc.Size)
	s.blockSigOps += desc.SigOpCost
	s.totalFees += desc.Fee
	s.txsInBlock[*desc.Tx.Hash()] = struct{}{}
}

// commitReferral adds the passed referral to the block under construction and
// updates the running totals.  Referrals carry no witness data, so every
// serialized byte is a base byte for weight purposes.
func (s *blockState) commitReferral(refDesc *RefDesc) {
	ref := refDesc.Ref
	size := ref.MsgReferral().SerializeSize()
	s.blockRefs = append(s.blockRefs, ref)
	s.blockWeight += uint32(size * blockchain.WitnessScaleFactor)
	s.blockSize += uint32(size)
	s.refsInBlock[ref.AddressID()] = struct{}{}
	s.refHashesInBlock[*ref.Hash()] = struct{}{}
}

// BlockAssembler provides a type that can be used to generate block templates
// based on a given mining policy and sources of transactions and referrals to
// choose from.  It also houses additional state required in order to ensure
// the templates are built on top of the current best chain and adhere to the
// consensus rules.
type BlockAssembler struct {
	policy      *Policy
	chainParams *chaincfg.Params
	txSource    TxSource
	refSource   ReferralSource
	chain       Chain
	timeSource  blockchain.MedianTimeSource
}

// NewBlockAssembler returns a new block assembler for the given policy using
// transactions from the provided transaction source and referrals from the
// provided referral source.
//
// The additional state-related fields are required in order to ensure the
// templates are built on top of the current best chain and adhere to the
// consensus rules.
//
// An explicitly configured limit below the floor required to hold a coinbase
// transaction is rejected with an Error whose code identifies the offending
// limit.  Zero valued limits select their defaults, and limits above the
// supported maximums are clamped.
func NewBlockAssembler(policy *Policy, chainParams *chaincfg.Params,
	txSource TxSource, refSource ReferralSource, chain Chain,
	timeSource blockchain.MedianTimeSource) (*BlockAssembler, error) {

	if policy.BlockMaxWeight != 0 && policy.BlockMaxWeight < MinBlockWeight {
		str := fmt.Sprintf("block maximum weight of %d is below the "+
			"minimum of %d", policy.BlockMaxWeight, MinBlockWeight)
		return nil, miningError(ErrBlockWeightTooSmall, str)
	}
	if policy.BlockMaxSize != 0 && policy.BlockMaxSize < MinBlockSize {
		str := fmt.Sprintf("block maximum size of %d is below the "+
			"minimum of %d", policy.BlockMaxSize, MinBlockSize)
		return nil, miningError(ErrBlockSizeTooSmall, str)
	}
	if policy.TxMaxAggregateSize != 0 &&
		policy.TxMaxAggregateSize < MinBlockSize {

		str := fmt.Sprintf("transaction aggregate size limit of %d is "+
			"below the minimum of %d", policy.TxMaxAggregateSize,
			MinBlockSize)
		return nil, miningError(ErrTxSizeLimitTooSmall, str)
	}

	normalized := NormalizePolicy(*policy)
	return &BlockAssembler{
		policy:      &normalized,
		chainParams: chainParams,
		txSource:    txSource,
		refSource:   refSource,
		chain:       chain,
		timeSource:  timeSource,
	}, nil
}

// TxSource returns the associated transaction source.
//
// This function is safe for concurrent access.
func (g *BlockAssembler) TxSource() TxSource {
	return g.txSource
}

// ReferralSource returns the associated referral source.
//
// This function is safe for concurrent access.
func (g *BlockAssembler) ReferralSource() ReferralSource {
	return g.refSource
}

// BestSnapshot returns information about the current best chain block and
// related state as of the current point in time using the chain instance
// associated with the block template generator.  The returned state must be
// treated as immutable since it is shared by all callers.
//
// This function is safe for concurrent access.
func (g *BlockAssembler) BestSnapshot() *blockchain.BestState {
	return g.chain.BestSnapshot()
}

// sortForBlock sorts the passed package into a valid in-block order.  Entries
// are ordered by ancestor count with ties broken by transaction hash.  A
// transaction always has a higher ancestor count than any of its ancestors,
// so the order places ancestors before descendants.
func sortForBlock(pkg []*TxDesc) {
	sort.Slice(pkg, func(i, j int) bool {
		if pkg[i].CountWithAncestors != pkg[j].CountWithAncestors {
			return pkg[i].CountWithAncestors <
				pkg[j].CountWithAncestors
		}
		return bytes.Compare(pkg[i].Tx.Hash()[:],
			pkg[j].Tx.Hash()[:]) < 0
	})
}

// materializePackage returns the candidate transaction along with every
// unconfirmed ancestor that is not already in the block, sorted into a valid
// in-block order.
func (g *BlockAssembler) materializePackage(state *blockState,
	candidate *TxDesc) []*TxDesc {

	ancestors := g.txSource.TxAncestors(candidate.Tx.Hash())
	pkg := make([]*TxDesc, 0, len(ancestors)+1)
	for hash, ancestor := range ancestors {
		if _, exists := state.txsInBlock[hash]; exists {
			continue
		}
		pkg = append(pkg, ancestor)
	}
	pkg = append(pkg, candidate)
	sortForBlock(pkg)
	return pkg
}

// testPackage returns whether a candidate package with the given aggregate
// serialized size and signature operation cost fits within the remaining
// block budgets.  The weight check scales the serialized size by the witness
// scale factor, which never underestimates the true package weight.
func (g *BlockAssembler) testPackage(state *blockState, packageSize,
	packageSigOpCost int64) bool {

	weight := uint64(state.blockWeight) +
		uint64(packageSize)*blockchain.WitnessScaleFactor
	if weight >= uint64(g.policy.BlockMaxWeight) {
		return false
	}
	if state.blockSigOps+packageSigOpCost >= blockchain.MaxBlockSigOpsCost {
		return false
	}
	if uint64(state.blockSize)+uint64(packageSize) >=
		uint64(g.policy.BlockMaxSize) {

		return false
	}
	if uint64(state.blockTxBytes)+uint64(packageSize) >=
		uint64(g.policy.TxMaxAggregateSize) {

		return false
	}
	return true
}

// testPackageContent performs the checks on each transaction in a candidate
// package that budget accounting alone does not cover: every transaction must
// be finalized at the template height, must not carry witness data when the
// block does not commit to witnesses, and the serialized sizes accumulated a
// transaction at a time must keep the block within its size limits.  These
// checks succeed for any package produced by a well maintained source pool.
func (g *BlockAssembler) testPackageContent(state *blockState,
	pkg []*TxDesc) bool {

	potentialBlockSize := uint64(state.blockSize)
	potentialTxBytes := uint64(state.blockTxBytes)
	for _, desc := range pkg {
		if !blockchain.IsFinalizedTransaction(desc.Tx, state.height,
			state.lockTimeCutoff) {

			log.Tracef("Skipping non-finalized tx %s", desc.Tx.Hash())
			return false
		}
		if !state.includeWitness && desc.Tx.HasWitness() {
			log.Tracef("Skipping tx %s with premature witness",
				desc.Tx.Hash())
			return false
		}

		txSize := uint64(desc.Size)
		if potentialBlockSize+txSize >= uint64(g.policy.BlockMaxSize) {
			return false
		}
		potentialBlockSize += txSize
		if potentialTxBytes+txSize >=
			uint64(g.policy.TxMaxAggregateSize) {

			return false
		}
		potentialTxBytes += txSize
	}
	return true
}

// checkReferrals returns the pending referrals the candidate package needs so
// that every output of its transactions pays a vouched for address, in the
// order the package first needs them.  The boolean return is false when an
// output pays an address that neither the chain, the block under
// construction, nor the pending referral pool vouches for, in which case the
// whole package is unusable.
//
// Outputs that do not pay a recognizable address carry no referral
// requirement.
func (g *BlockAssembler) checkReferrals(state *blockState,
	pkg []*TxDesc) ([]*RefDesc, bool) {

	var needed []*RefDesc
	var neededSet map[wire.AddressID]struct{}
	for _, desc := range pkg {
		for _, txOut := range desc.Tx.MsgTx().TxOut {
			addr, ok := txscript.ExtractAddressID(txOut.PkScript)
			if !ok {
				continue
			}
			if _, exists := state.refsInBlock[addr]; exists {
				continue
			}
			if _, exists := neededSet[addr]; exists {
				continue
			}
			if g.refSource.ConfirmedReferral(addr) {
				continue
			}

			refDesc := g.refSource.ReferralDesc(addr)
			if refDesc == nil {
				log.Tracef("Skipping tx %s which pays "+
					"address %v with no referral",
					desc.Tx.Hash(), addr)
				return nil, false
			}
			needed = append(needed, refDesc)
			if neededSet == nil {
				neededSet = make(map[wire.AddressID]struct{})
			}
			neededSet[addr] = struct{}{}
		}
	}
	return needed, true
}

// testReferralBudget returns whether a candidate package of the given
// aggregate serialized size still fits within the remaining block budgets
// once the passed referrals are included with it.
func (g *BlockAssembler) testReferralBudget(state *blockState,
	packageSize int64, refs []*RefDesc) bool {

	if len(refs) == 0 {
		return true
	}

	combined := packageSize
	for _, refDesc := range refs {
		combined += int64(refDesc.Ref.MsgReferral().SerializeSize())
	}

	weight := uint64(state.blockWeight) +
		uint64(combined)*blockchain.WitnessScaleFactor
	if weight >= uint64(g.policy.BlockMaxWeight) {
		return false
	}
	if uint64(state.blockSize)+uint64(combined) >=
		uint64(g.policy.BlockMaxSize) {

		return false
	}
	return true
}

// withReferralAncestors expands the passed referrals so that every pending
// referral a member vouches through is committed ahead of it.  Each referral
// is replaced by its chain of not yet included pending ancestors, oldest
// first, followed by the referral itself.  Walking stops at a previous
// referral hash that is neither pending nor already in the block, since the
// pool only admits referrals whose parent is pending or confirmed on chain.
func (g *BlockAssembler) withReferralAncestors(state *blockState,
	pending map[chainhash.Hash]*RefDesc, refs []*RefDesc) []*RefDesc {

	expanded := make([]*RefDesc, 0, len(refs))
	included := make(map[chainhash.Hash]struct{}, len(refs))
	for _, refDesc := range refs {
		// Collect the unconfirmed chain child first, then reverse the
		// new entries so parents serialize ahead of children.
		mark := len(expanded)
		for refDesc != nil {
			hash := *refDesc.Ref.Hash()
			if _, exists := state.refHashesInBlock[hash]; exists {
				break
			}
			if _, exists := included[hash]; exists {
				break
			}
			expanded = append(expanded, refDesc)
			included[hash] = struct{}{}
			refDesc = pending[refDesc.Ref.MsgReferral().PrevReferral]
		}
		for i, j := mark, len(expanded)-1; i < j; i, j = i+1, j-1 {
			expanded[i], expanded[j] = expanded[j], expanded[i]
		}
	}
	return expanded
}

// updatePackagesForAdded adjusts the tracked package totals of every source
// pool descendant of the passed committed package and returns the number of
// descendant entries that were updated.  Descendants that are part of the
// package itself are skipped.
func (g *BlockAssembler) updatePackagesForAdded(modified *modifiedTxSet,
	pkg []*TxDesc) int {

	inPackage := make(map[chainhash.Hash]struct{}, len(pkg))
	for _, desc := range pkg {
		inPackage[*desc.Tx.Hash()] = struct{}{}
	}

	updated := 0
	for _, added := range pkg {
		descendants := g.txSource.TxDescendants(added.Tx.Hash())
		for hash, descendant := range descendants {
			if _, exists := inPackage[hash]; exists {
				continue
			}
			modified.decrementAncestor(descendant, added)
			updated++
		}
	}
	return updated
}

// addPackageTxs fills the block under construction with transactions from
// the source pool, selecting whole ancestor packages in descending package
// fee rate order.  It returns the number of packages selected and the number
// of descendant entries whose package totals were adjusted along the way.
func (g *BlockAssembler) addPackageTxs(state *blockState,
	pendingRefs map[chainhash.Hash]*RefDesc) (int, int) {

	sourceDescs := g.txSource.MiningDescs()
	modified := newModifiedTxSet()

	packagesSelected := 0
	descendantsUpdated := 0
	consecutiveFailures := 0

	srcIdx := 0
	for srcIdx < len(sourceDescs) || modified.size() > 0 {
		// Advance past source entries that have been committed to the
		// block, failed earlier, or disappeared from the source pool.
		// A source entry tracked by the modified set is skipped as
		// well: one of its ancestors is already in the block, so its
		// source totals are stale and it is only reachable through
		// the tracker under its corrected totals.
		if srcIdx < len(sourceDescs) {
			desc := sourceDescs[srcIdx]
			hash := desc.Tx.Hash()
			_, inBlock := state.txsInBlock[*hash]
			_, failed := state.failedTx[*hash]
			if inBlock || failed ||
				!g.txSource.HaveTransaction(hash) ||
				modified.get(hash) != nil {

				srcIdx++
				continue
			}
		}

		// Choose between the best remaining source entry and the best
		// modified entry.
		var candidate *TxDesc
		var packageFee vutil.Amount
		var packageSize, packageSigOps int64
		var usingModified bool

		if srcIdx >= len(sourceDescs) {
			// The source entries are exhausted, so only modified
			// entries remain.
			entry := modified.best()
			candidate = entry.desc
			packageFee = entry.feeWithAncestors
			packageSize = entry.sizeWithAncestors
			packageSigOps = entry.sigOpCostWithAncestors
			usingModified = true
		} else {
			desc := sourceDescs[srcIdx]
			candidate = desc
			packageFee = desc.FeeWithAncestors
			packageSize = desc.SizeWithAncestors
			packageSigOps = desc.SigOpCostWithAncestors

			entry := modified.best()
			if entry != nil && TxScoreLess(packageFee, packageSize,
				desc.Tx.Hash(), entry.feeWithAncestors,
				entry.sizeWithAncestors, entry.desc.Tx.Hash()) {

				// The best modified entry outranks the source
				// entry, so evaluate it instead.
				candidate = entry.desc
				packageFee = entry.feeWithAncestors
				packageSize = entry.sizeWithAncestors
				packageSigOps = entry.sigOpCostWithAncestors
				usingModified = true
			} else {
				// The source entry is evaluated now, so the
				// next iteration moves past it either way.
				srcIdx++
			}
		}

		candidateHash := candidate.Tx.Hash()

		// Every candidate from this point on pays a lower package fee
		// rate, so the first package that cannot pay the minimum rate
		// ends the selection.
		if g.policy.BlockMinFeeRate > 0 {
			minFee := int64(g.policy.BlockMinFeeRate) *
				packageSize / 1000
			if int64(packageFee) < minFee {
				break
			}
		}

		// Enforce the block budgets against the aggregate package
		// totals.
		if !g.testPackage(state, packageSize, packageSigOps) {
			if usingModified {
				// The failed entry has to be removed so the
				// next best modified entry can be considered
				// on the next iteration.
				modified.remove(candidateHash)
				state.failedTx[*candidateHash] = struct{}{}
			}

			consecutiveFailures++
			if consecutiveFailures > maxConsecutivePackageFailures &&
				state.blockWeight >
					g.policy.BlockMaxWeight-MinBlockWeight {

				log.Debugf("Giving up on a nearly full block "+
					"after %d consecutive failed packages",
					consecutiveFailures)
				break
			}
			continue
		}

		// Materialize the rest of the package and run the per
		// transaction checks on it.
		pkg := g.materializePackage(state, candidate)
		if !g.testPackageContent(state, pkg) {
			if usingModified {
				modified.remove(candidateHash)
				state.failedTx[*candidateHash] = struct{}{}
			}
			continue
		}

		// Ensure every output across the package pays an address the
		// chain, the block, or the pending referral pool vouches for,
		// and that the referrals the package pulls in fit the block
		// alongside it together with their pending ancestors.
		var neededRefs []*RefDesc
		if candidate.RefsWithAncestors != 0 {
			var ok bool
			neededRefs, ok = g.checkReferrals(state, pkg)
			if !ok {
				if usingModified {
					modified.remove(candidateHash)
					state.failedTx[*candidateHash] = struct{}{}
				}
				continue
			}
			neededRefs = g.withReferralAncestors(state,
				pendingRefs, neededRefs)
		}
		if !g.testReferralBudget(state, packageSize, neededRefs) {
			if usingModified {
				modified.remove(candidateHash)
				state.failedTx[*candidateHash] = struct{}{}
			}
			consecutiveFailures++
			continue
		}

		// The package makes it in.  Commit its transactions in a
		// valid order along with the referrals it needs.
		consecutiveFailures = 0
		for _, desc := range pkg {
			state.commitTx(desc)
			modified.remove(desc.Tx.Hash())
		}
		for _, refDesc := range neededRefs {
			state.commitReferral(refDesc)
		}
		packagesSelected++

		// Reconsider the remaining descendants of the package with
		// totals that no longer charge them for the members that are
		// now in the block.
		descendantsUpdated += g.updatePackagesForAdded(modified, pkg)
	}

	log.Debugf("Selected %d packages and updated %d descendants",
		packagesSelected, descendantsUpdated)
	return packagesSelected, descendantsUpdated
}

// addReferrals appends the remaining pending referrals to the block under
// construction in ascending referral hash order until the block budgets are
// exhausted.  Each referral enters the block together with its not yet
// included pending ancestors, parents first, so the block never vouches
// through a referral it does not also carry ahead of the reference.
// Referrals for addresses that are already vouched for by the chain or by
// the block are skipped.  It returns the number of referrals appended.
func (g *BlockAssembler) addReferrals(state *blockState,
	pendingRefs map[chainhash.Hash]*RefDesc) int {

	appended := 0
	for _, refDesc := range g.refSource.RefDescs() {
		addr := refDesc.Ref.AddressID()
		if _, exists := state.refsInBlock[addr]; exists {
			continue
		}
		if g.refSource.ConfirmedReferral(addr) {
			continue
		}

		chain := g.withReferralAncestors(state, pendingRefs,
			[]*RefDesc{refDesc})
		if !g.testReferralBudget(state, 0, chain) {
			break
		}

		for _, chained := range chain {
			state.commitReferral(chained)
			appended++
		}
	}
	return appended
}

// NewBlockTemplate returns a new block template that is ready to be solved
// using the transactions from the associated transaction source pool, the
// referrals from the associated referral source pool, and a coinbase that
// either pays to the passed payout script if it is not nil, or a coinbase
// that is redeemable by anyone if it is nil.  The nil script functionality is
// useful since there are cases such as external mining software being
// responsible for creating its own coinbase which will replace the one
// generated for the block template.
//
// Transactions are selected a whole ancestor package at a time in descending
// package fee rate order, where the package of a transaction consists of the
// transaction itself and every unconfirmed ancestor that is not already in
// the block.  A package only makes it into the block when it fits the
// remaining weight, size, and signature operation budgets, every transaction
// in it is finalized, and every output it pays is covered by a referral the
// chain, the block, or the pending referral pool vouches for.  Pending
// referrals a package depends on enter the block together with the package,
// preceded by the pending referrals they are vouched through, and the space
// that remains after transaction selection is filled with the other pending
// referrals chained the same way.
//
// Two templates built from identical source pools, chain state, and adjusted
// time are identical, including the order of the transactions and referrals
// within them.
//
// The resulting block will be of the following layout:
//
//	 -----------------------------------  --
//	|      Coinbase Transaction         |   |
//	|-----------------------------------|   |
//	|                                   |   |
//	|   Transactions selected by        |   |
//	|   descending package fee rate,    |   | ----- policy.BlockMaxWeight
//	|   each preceded by the ancestors  |   |       policy.BlockMaxSize
//	|   it depends on                   |   |
//	|                                   |   |
//	|-----------------------------------|   |
//	|                                   |   |
//	|   Referrals the transactions      |   |
//	|   depend on, followed by the      |   |
//	|   remaining pending referrals     |   |
//	|                                   |   |
//	 -----------------------------------  --
func (g *BlockAssembler) NewBlockTemplate(payoutScript []byte) (*BlockTemplate, error) {
	// Extend the most recently known best block.
	best := g.chain.BestSnapshot()
	nextBlockHeight := best.Height + 1

	// Create a standard coinbase transaction paying to the provided
	// payout script.
	//
	// NOTE: The coinbase value will be updated to include the fees from
	// the selected transactions once they have been selected.  It is
	// created here to accurately account for the space it consumes.
	extraNonce := uint64(0)
	coinbaseScript, err := standardCoinbaseScript(nextBlockHeight, extraNonce)
	if err != nil {
		return nil, err
	}
	coinbaseTx, err := createCoinbaseTx(g.chainParams, coinbaseScript,
		nextBlockHeight, payoutScript)
	if err != nil {
		return nil, err
	}
	coinbaseSigOpCost := int64(blockchain.CountSigOps(coinbaseTx)) *
		blockchain.WitnessScaleFactor

	// Seed the block with the coinbase.  The block header overhead
	// accounts for the serialized header along with the transaction and
	// referral count varints.  Witness commitments are active from
	// genesis, so templates always include witness transactions.
	coinbaseSize := coinbaseTx.MsgTx().SerializeSize()
	state := &blockState{
		height:         nextBlockHeight,
		lockTimeCutoff: best.MedianTime,
		includeWitness: true,
		blockWeight: uint32(blockHeaderOverhead*blockchain.WitnessScaleFactor) +
			uint32(blockchain.GetTransactionWeight(coinbaseTx)),
		blockSize:        uint32(blockHeaderOverhead + coinbaseSize),
		blockTxBytes:     uint32(coinbaseSize),
		blockSigOps:      coinbaseSigOpCost,
		txsInBlock:       make(map[chainhash.Hash]struct{}),
		refsInBlock:      make(map[wire.AddressID]struct{}),
		refHashesInBlock: make(map[chainhash.Hash]struct{}),
		failedTx:         make(map[chainhash.Hash]struct{}),
	}
	state.blockTxns = append(state.blockTxns, coinbaseTx)
	state.txFees = append(state.txFees, -1) // Updated once the totals are known.
	state.txSigOpCosts = append(state.txSigOpCosts, coinbaseSigOpCost)

	// Index the pending referrals by hash so a referral needed by the
	// block can pull in the pending ancestors it vouches through.
	pendingDescs := g.refSource.RefDescs()
	pendingRefs := make(map[chainhash.Hash]*RefDesc, len(pendingDescs))
	for _, refDesc := range pendingDescs {
		pendingRefs[*refDesc.Ref.Hash()] = refDesc
	}

	// Select ancestor packages until the budgets are exhausted, then fill
	// the remaining space with pending referrals.
	g.addPackageTxs(state, pendingRefs)
	g.addReferrals(state, pendingRefs)

	// Now that the actual transactions and referrals have been selected,
	// update the coinbase value with the total fees and patch the fee
	// ledger so the coinbase entry carries the negative sum of the fees
	// of the other transactions.
	coinbaseTx.MsgTx().TxOut[0].Value += int64(state.totalFees)
	state.txFees[0] = -state.totalFees

	// Append the coinbase commitment covering the witness and referral
	// merkle roots.  The commitment adds an output to the coinbase, so it
	// must be in place before the transaction merkle root is computed.
	commitment := blockchain.GenerateCoinbaseCommitment(coinbaseTx,
		state.blockTxns, state.blockRefs)

	// Calculate the required difficulty for the block.  The timestamp is
	// potentially adjusted to ensure it comes after the median time of
	// the last several blocks per the chain consensus rules.
	ts := medianAdjustedTime(best, g.timeSource)
	reqDifficulty, err := g.chain.CalcNextRequiredDifficulty(ts)
	if err != nil {
		return nil, err
	}

	// Create a new block ready to be solved.
	merkleRoot := blockchain.CalcTxMerkleRoot(state.blockTxns, false)
	var msgBlock wire.MsgBlock
	msgBlock.Header = wire.BlockHeader{
		Version:    generatedBlockVersion,
		PrevBlock:  best.Hash,
		MerkleRoot: merkleRoot,
		Timestamp:  ts,
		Bits:       reqDifficulty,
	}
	for _, tx := range state.blockTxns {
		if err := msgBlock.AddTransaction(tx.MsgTx()); err != nil {
			return nil, err
		}
	}
	for _, ref := range state.blockRefs {
		if err := msgBlock.AddReferral(ref.MsgReferral()); err != nil {
			return nil, err
		}
	}

	// Finally, check the created block against the coinbase and
	// commitment rules to ensure it only needs a solved header to be a
	// fully valid block.
	block := vutil.NewBlock(&msgBlock)
	block.SetHeight(nextBlockHeight)
	if err := blockchain.CheckBlockCoinbase(block); err != nil {
		return nil, err
	}
	if err := blockchain.ValidateCoinbaseCommitment(block); err != nil {
		return nil, err
	}

	log.Debugf("Created new block template (%d transactions, %d "+
		"referrals, %d in fees, %d signature operations cost, %d "+
		"weight, target difficulty %064x)", len(msgBlock.Transactions),
		len(msgBlock.Referrals), state.totalFees, state.blockSigOps,
		state.blockWeight, blockchain.CompactToBig(msgBlock.Header.Bits))

	return &BlockTemplate{
		Block:              &msgBlock,
		Fees:               state.txFees,
		SigOpCosts:         state.txSigOpCosts,
		CoinbaseCommitment: commitment,
		Height:             nextBlockHeight,
	}, nil
}
