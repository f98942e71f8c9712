// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/mempool"
	"github.com/vouchnet/vouchd/refpool"
	"github.com/vouchnet/vouchd/txscript"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// medianTimeBlocks is the number of previous block timestamps used to
// calculate the median time used to validate block timestamps.
const medianTimeBlocks = 11

// simChain is the minimal chain the simulation runs against.  It tracks the
// best tip snapshot, the timestamps needed for the past median time, and the
// referral state accumulated from connected blocks.  It implements both the
// mining.Chain interface the block assembler consumes and the
// refpool.ChainView interface the referral pool consults.
//
// Blocks are connected without validation since the harness only ever
// connects blocks it assembled itself.
type simChain struct {
	params *chaincfg.Params

	mtx        sync.RWMutex
	best       *blockchain.BestState
	timestamps []time.Time
	totalTxns  uint64
	vouched    map[wire.AddressID]struct{}
	refHashes  map[chainhash.Hash]struct{}
}

// newSimChain returns a simulated chain containing only the genesis block of
// the passed network.  The genesis root referral is registered as confirmed
// so referrals generated by the workload have a confirmed ancestor to vouch
// via from the start.
func newSimChain(params *chaincfg.Params) *simChain {
	genesis := vutil.NewBlock(params.GenesisBlock)
	genesis.SetHeight(0)

	c := &simChain{
		params:     params,
		timestamps: []time.Time{params.GenesisBlock.Header.Timestamp},
		totalTxns:  uint64(len(params.GenesisBlock.Transactions)),
		vouched:    make(map[wire.AddressID]struct{}),
		refHashes:  make(map[chainhash.Hash]struct{}),
	}
	c.registerReferrals(params.GenesisBlock.Referrals)
	c.best = blockchain.NewBestState(genesis, c.totalTxns,
		c.pastMedianTime())
	return c
}

// registerReferrals marks the passed referrals as confirmed on the chain.
//
// This function MUST be called with the chain lock held (for writes) except
// during construction.
func (c *simChain) registerReferrals(refs []*wire.MsgReferral) {
	for _, ref := range refs {
		c.vouched[ref.AddressID] = struct{}{}
		c.refHashes[ref.RefHash()] = struct{}{}
	}
}

// pastMedianTime returns the median of the timestamps of the most recent
// blocks, matching the consensus calculation a validating node performs.
//
// This function MUST be called with the chain lock held (for reads) except
// during construction.
func (c *simChain) pastMedianTime() time.Time {
	num := len(c.timestamps)
	if num > medianTimeBlocks {
		num = medianTimeBlocks
	}
	recent := make([]time.Time, num)
	copy(recent, c.timestamps[len(c.timestamps)-num:])
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Before(recent[j])
	})
	return recent[num/2]
}

// ConnectBlock extends the simulated chain with the passed block.  The block
// must build on the current tip and have its height set.
func (c *simChain) ConnectBlock(block *vutil.Block) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	msgBlock := block.MsgBlock()
	c.timestamps = append(c.timestamps, msgBlock.Header.Timestamp)
	c.totalTxns += uint64(len(msgBlock.Transactions))
	c.registerReferrals(msgBlock.Referrals)
	c.best = blockchain.NewBestState(block, c.totalTxns,
		c.pastMedianTime())

	simLog.Infof("Connected block %s (height %d, %d transactions, %d "+
		"referrals)", block.Hash(), block.Height(),
		len(msgBlock.Transactions), len(msgBlock.Referrals))
}

// BestSnapshot returns the state of the current simulated chain tip.
//
// This function is safe for concurrent access.
func (c *simChain) BestSnapshot() *blockchain.BestState {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return c.best
}

// CalcNextRequiredDifficulty returns the difficulty a block built on the
// current tip must meet.  The simulation never retargets, so every block
// carries the genesis difficulty.
//
// This function is safe for concurrent access.
func (c *simChain) CalcNextRequiredDifficulty(time.Time) (uint32, error) {
	return c.params.GenesisBlock.Header.Bits, nil
}

// VouchedOnChain returns whether or not a referral for the passed address has
// been confirmed on the simulated chain.
//
// This function is safe for concurrent access.
func (c *simChain) VouchedOnChain(addr wire.AddressID) bool {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	_, exists := c.vouched[addr]
	return exists
}

// HaveReferralOnChain returns whether or not the referral with the passed
// hash has been confirmed on the simulated chain.
//
// This function is safe for concurrent access.
func (c *simChain) HaveReferralOnChain(hash *chainhash.Hash) bool {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	_, exists := c.refHashes[*hash]
	return exists
}

// workloadGen fills the transaction and referral pools with a deterministic
// pseudo random workload for the assembler to select from.  Fees, dependency
// chain depths, and the mix of vouched and unvouched payment addresses all
// come from the seeded generator, so runs with a pinned seed reproduce the
// same pools and therefore the same templates.
type workloadGen struct {
	rng      *rand.Rand
	chain    *simChain
	txPool   *mempool.TxPool
	refPool  *refpool.RefPool
	txCount  int
	chainLen int
	refRatio float64

	// lastRefHash is the referral the next generated referral vouches
	// via, forming a chain rooted at the genesis referral.
	lastRefHash chainhash.Hash

	// vouchedAddrs are addresses known to be spendable without a new
	// referral: the genesis founder address plus every address a
	// generated referral has been submitted for.
	vouchedAddrs []wire.AddressID
}

// newWorkloadGen returns a workload generator over the passed pools seeded
// from the passed source.
func newWorkloadGen(rng *rand.Rand, chain *simChain, txPool *mempool.TxPool,
	refPool *refpool.RefPool, txCount, chainLen int,
	refRatio float64) *workloadGen {

	genesis := chain.params.GenesisBlock
	return &workloadGen{
		rng:          rng,
		chain:        chain,
		txPool:       txPool,
		refPool:      refPool,
		txCount:      txCount,
		chainLen:     chainLen,
		refRatio:     refRatio,
		lastRefHash:  genesis.Referrals[0].RefHash(),
		vouchedAddrs: []wire.AddressID{genesis.Referrals[0].AddressID},
	}
}

// randAddressID returns a fresh pseudo random address identifier.
func (w *workloadGen) randAddressID() wire.AddressID {
	var addr wire.AddressID
	w.rng.Read(addr[:])
	return addr
}

// randHash returns a fresh pseudo random hash.
func (w *workloadGen) randHash() chainhash.Hash {
	var hash chainhash.Hash
	w.rng.Read(hash[:])
	return hash
}

// fakeSignatureScript returns a signature script shaped like a standard
// pay-to-pubkey-hash redemption so generated transactions serialize to
// realistic sizes.  The script contents are random since nothing in the
// simulation executes them.
func (w *workloadGen) fakeSignatureScript() []byte {
	script := make([]byte, 107)
	w.rng.Read(script)

	// A 71 byte signature push followed by a 33 byte compressed pubkey
	// push.
	script[0] = 71
	script[72] = 33
	script[73] = 0x02
	return script
}

// submitReferral generates a referral vouching for the passed address and
// submits it to the referral pool.  The referral vouches via the most
// recently generated referral, forming a chain back to the genesis root.
func (w *workloadGen) submitReferral(addr wire.AddressID, height int32) {
	pubKey := make([]byte, wire.ReferralPubKeyLen)
	w.rng.Read(pubKey)
	pubKey[0] = 0x02
	sig := make([]byte, 71)
	w.rng.Read(sig)

	msgRef := &wire.MsgReferral{
		Version:      wire.ReferralVersion,
		PrevReferral: w.lastRefHash,
		AddressID:    addr,
		PubKey:       pubKey,
		Signature:    sig,
	}
	ref := vutil.NewReferral(msgRef)
	if _, err := w.refPool.ProcessReferral(ref, height); err != nil {
		simLog.Debugf("Generated referral rejected: %v", err)
		return
	}
	w.lastRefHash = *ref.Hash()
}

// payeeAddress picks a destination for a generated output.  Most outputs pay
// an address that is already vouched for.  A refRatio share pays a brand new
// address instead, and most of those come with a matching referral submitted
// to the referral pool, while the remainder are left unvouched to exercise
// the assembler's referral exclusion.
func (w *workloadGen) payeeAddress(height int32) wire.AddressID {
	if w.rng.Float64() >= w.refRatio {
		return w.vouchedAddrs[w.rng.Intn(len(w.vouchedAddrs))]
	}

	addr := w.randAddressID()
	if w.rng.Float64() < 0.9 {
		w.submitReferral(addr, height)
		w.vouchedAddrs = append(w.vouchedAddrs, addr)
	}
	return addr
}

// generateTx builds a transaction spending the passed outpoint and submits
// it to the transaction pool.  It returns the transaction and whether the
// pool accepted it.
func (w *workloadGen) generateTx(prevOut wire.OutPoint,
	height int32) (*vutil.Tx, bool) {

	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(wire.NewTxIn(&prevOut, w.fakeSignatureScript(), nil))

	numOuts := 1 + w.rng.Intn(2)
	for i := 0; i < numOuts; i++ {
		addrID := w.payeeAddress(height)
		addr, err := vutil.NewAddressPubKeyHash(addrID[:],
			w.chain.params)
		if err != nil {
			simLog.Errorf("Failed to build payee address: %v", err)
			return nil, false
		}
		pkScript, err := txscript.PayToAddrScript(addr)
		if err != nil {
			simLog.Errorf("Failed to build output script: %v", err)
			return nil, false
		}
		value := int64(10000 + w.rng.Intn(10000000))
		msgTx.AddTxOut(wire.NewTxOut(value, pkScript))
	}

	tx := vutil.NewTx(msgTx)
	fee := vutil.Amount(1000 + w.rng.Intn(50000))
	sigOpCost := int64(numOuts) * blockchain.WitnessScaleFactor
	if _, err := w.txPool.ProcessTransaction(tx, fee, sigOpCost,
		height); err != nil {

		simLog.Debugf("Generated transaction rejected: %v", err)
		return nil, false
	}
	return tx, true
}

// generate fills the pools with one round of workload: txCount transactions
// arranged into dependency chains of up to chainLen links, with payment
// addresses and referrals mixed per refRatio.
func (w *workloadGen) generate() {
	height := w.chain.BestSnapshot().Height + 1

	generated := 0
	for generated < w.txCount {
		depth := 1 + w.rng.Intn(w.chainLen)
		if depth > w.txCount-generated {
			depth = w.txCount - generated
		}

		// The chain head spends an outpoint the pool treats as
		// confirmed, and each link after it spends its parent's first
		// output.
		prevHash := w.randHash()
		prevOut := *wire.NewOutPoint(&prevHash, 0)
		for i := 0; i < depth; i++ {
			tx, ok := w.generateTx(prevOut, height)
			generated++
			if !ok {
				break
			}
			prevOut = *wire.NewOutPoint(tx.Hash(), 0)
		}
	}

	simLog.Infof("Generated workload round (%d transactions in pool, %d "+
		"referrals pending)", w.txPool.Count(), w.refPool.Count())
}
