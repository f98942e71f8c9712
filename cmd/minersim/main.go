// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/internal/version"
	"github.com/vouchnet/vouchd/mempool"
	"github.com/vouchnet/vouchd/mining"
	"github.com/vouchnet/vouchd/mining/cpuminer"
	"github.com/vouchnet/vouchd/refpool"
	"github.com/vouchnet/vouchd/txscript"
	"github.com/vouchnet/vouchd/vutil"
)

// founderAddress returns the address the genesis coinbase pays, which the
// genesis root referral vouches for.  It is the one address guaranteed to be
// spendable on a fresh chain, so the harness mines to it.
func founderAddress() (vutil.Address, error) {
	pkScript := activeNetParams.GenesisBlock.Transactions[0].TxOut[0].PkScript
	addrID, ok := txscript.ExtractAddressID(pkScript)
	if !ok {
		return nil, fmt.Errorf("genesis coinbase output script is " +
			"not a standard payment script")
	}
	return vutil.NewAddressPubKeyHash(addrID[:], activeNetParams)
}

// simMain is the real main function for minersim.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func simMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logRotator.Close()

	simLog.Infof("minersim version %s", version.String())
	simLog.Infof("Simulating %d blocks on %s with seed %d", cfg.Blocks,
		activeNetParams.Name, cfg.Seed)

	// Assemble the simulated chain, the source pools, and the block
	// assembler under test.  The referral pool reads chain state through
	// a cached view the same way a full node would.
	chain := newSimChain(activeNetParams)
	txPool := mempool.New(&mempool.Config{
		ChainParams:    activeNetParams,
		VouchedOnChain: chain.VouchedOnChain,
		Policy: mempool.Policy{
			MinRelayTxFee: vutil.Amount(cfg.MinFeeRate),
		},
	})
	refPool := refpool.New(&refpool.Config{
		ChainView: refpool.NewCachedView(chain, 0),
	})
	assembler, err := mining.NewBlockAssembler(&mining.Policy{
		BlockMaxWeight:  cfg.WeightLimit,
		BlockMinFeeRate: vutil.Amount(cfg.MinFeeRate),
	}, activeNetParams, txPool, refPool, chain, blockchain.NewMedianTime())
	if err != nil {
		return err
	}

	payAddr, err := founderAddress()
	if err != nil {
		return err
	}
	payoutScript, err := txscript.PayToAddrScript(payAddr)
	if err != nil {
		return err
	}

	gen := newWorkloadGen(rand.New(rand.NewSource(cfg.Seed)), chain,
		txPool, refPool, cfg.TxCount, cfg.ChainLen, cfg.RefRatio)

	// connectBlock applies an assembled block to the simulated chain,
	// prunes the pools the way a node does when a block connects, and
	// accumulates the run totals.  The fees collected by a block are the
	// coinbase output value in excess of the subsidy.
	var totalTxns, totalRefs int
	var totalFees vutil.Amount
	connectBlock := func(block *vutil.Block) {
		chain.ConnectBlock(block)
		txPool.RemoveForBlock(block.Transactions())
		refPool.RemoveForBlock(block.Referrals())

		msgBlock := block.MsgBlock()
		var coinbaseValue vutil.Amount
		for _, txOut := range msgBlock.Transactions[0].TxOut {
			coinbaseValue += vutil.Amount(txOut.Value)
		}
		totalTxns += len(msgBlock.Transactions) - 1
		totalRefs += len(msgBlock.Referrals)
		totalFees += coinbaseValue - vutil.Amount(
			blockchain.CalcBlockSubsidy(block.Height(),
				activeNetParams))
	}

	// When solving, the CPU miner drives template creation itself and
	// hands solved blocks back through ProcessBlock.
	var miner *cpuminer.CPUMiner
	if cfg.Solve {
		miner = cpuminer.New(&cpuminer.Config{
			ChainParams:            activeNetParams,
			BlockTemplateGenerator: assembler,
			MiningAddrs: cpuminer.NewDefaultAddrSource(
				[]vutil.Address{payAddr}),
			ProcessBlock: func(block *vutil.Block) (bool, error) {
				connectBlock(block)
				return false, nil
			},
			ConnectedCount: func() int32 { return 0 },
			IsCurrent:      func() bool { return true },
		})
	}

	for i := uint32(0); i < cfg.Blocks; i++ {
		gen.generate()

		if miner != nil {
			if _, err := miner.GenerateNBlocks(1); err != nil {
				return err
			}
			continue
		}

		// Without solving, assemble the template and connect it
		// directly.  The simulated chain does not check proof of
		// work, so the unsolved header connects cleanly.
		template, err := assembler.NewBlockTemplate(payoutScript)
		if err != nil {
			return err
		}
		block := vutil.NewBlock(template.Block)
		block.SetHeight(template.Height)
		connectBlock(block)
	}

	simLog.Infof("Simulation complete: %d blocks, %d transactions mined, "+
		"%d referrals confirmed, %v in fees collected, %d transactions "+
		"and %d referrals left pending", cfg.Blocks, totalTxns,
		totalRefs, totalFees, txPool.Count(), refPool.Count())
	return nil
}

func main() {
	if err := simMain(); err != nil {
		os.Exit(1)
	}
}
