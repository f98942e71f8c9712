// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain_test

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// TestGetTransactionWeight ensures witness bytes are discounted relative to
// base bytes.
func TestGetTransactionWeight(t *testing.T) {
	coinbase := newTestCoinbase(100 * vutil.MotePerVouch)

	// Without witness data every byte is a base byte, so the weight is
	// simply four times the serialized size.
	stripped := newTestSpend(coinbase, 0, 1000)
	size := int64(stripped.MsgTx().SerializeSize())
	if got := blockchain.GetTransactionWeight(stripped); got != size*4 {
		t.Errorf("GetTransactionWeight: got %d, want %d", got, size*4)
	}

	// With witness data the weight must fall below four times the total
	// serialized size while still exceeding four times the stripped size.
	witnessTx := newTestSpend(coinbase, 0, 1000)
	witnessTx.MsgTx().TxIn[0].Witness = wire.TxWitness{
		make([]byte, 72),
		make([]byte, 33),
	}
	baseSize := int64(witnessTx.MsgTx().SerializeSizeStripped())
	totalSize := int64(witnessTx.MsgTx().SerializeSize())
	want := baseSize*(blockchain.WitnessScaleFactor-1) + totalSize

	got := blockchain.GetTransactionWeight(witnessTx)
	if got != want {
		t.Fatalf("GetTransactionWeight: got %d, want %d", got, want)
	}
	if got >= totalSize*4 {
		t.Errorf("witness bytes were not discounted: weight %d, "+
			"total size %d", got, totalSize)
	}
	if got <= baseSize*4 {
		t.Errorf("witness bytes were not counted: weight %d, base "+
			"size %d", got, baseSize)
	}
}

// TestGetBlockWeight ensures block weight covers transactions and referrals.
func TestGetBlockWeight(t *testing.T) {
	coinbase := newTestCoinbase(100 * vutil.MotePerVouch)
	spend := newTestSpend(coinbase, 0, 1000)
	spend.MsgTx().TxIn[0].Witness = wire.TxWitness{{0x01, 0x02, 0x03}}

	header := wire.NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{},
		0x1d00ffff, 0)
	msgBlock := wire.NewMsgBlock(header)
	if err := msgBlock.AddTransaction(coinbase.MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := msgBlock.AddTransaction(spend.MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	blk := vutil.NewBlock(msgBlock)
	baseSize := int64(msgBlock.SerializeSizeStripped())
	totalSize := int64(msgBlock.SerializeSize())
	want := baseSize*(blockchain.WitnessScaleFactor-1) + totalSize
	weightBefore := blockchain.GetBlockWeight(blk)
	if weightBefore != want {
		t.Fatalf("GetBlockWeight: got %d, want %d", weightBefore, want)
	}

	// Adding a referral grows the weight by its full serialized size at
	// base byte cost.
	ref := newTestReferral(0x7f)
	if err := msgBlock.AddReferral(ref.MsgReferral()); err != nil {
		t.Fatalf("AddReferral: %v", err)
	}

	withRef := vutil.NewBlock(msgBlock)
	gotDelta := blockchain.GetBlockWeight(withRef) - weightBefore
	wantDelta := blockchain.GetReferralWeight(ref)
	if gotDelta != wantDelta {
		t.Errorf("referral weight delta: got %d, want %d", gotDelta,
			wantDelta)
	}
}

// TestGetReferralWeight ensures referral weight equals the serialized size at
// base byte cost.
func TestGetReferralWeight(t *testing.T) {
	ref := newTestReferral(0x11)
	size := int64(ref.MsgReferral().SerializeSize())
	want := size * blockchain.WitnessScaleFactor
	if got := blockchain.GetReferralWeight(ref); got != want {
		t.Errorf("GetReferralWeight: got %d, want %d", got, want)
	}
}
