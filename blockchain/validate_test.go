// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain_test

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/blockchain"
	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// TestCalcBlockSubsidy ensures the block subsidy is calculated correctly,
// including the halving schedule and the zero reduction interval special
// case.
func TestCalcBlockSubsidy(t *testing.T) {
	interval := chaincfg.MainNetParams.SubsidyReductionInterval

	tests := []struct {
		height int32
		want   int64
	}{
		{0, 100 * vutil.MotePerVouch},
		{interval - 1, 100 * vutil.MotePerVouch},
		{interval, 50 * vutil.MotePerVouch},
		{interval * 2, 25 * vutil.MotePerVouch},
		{interval * 10, 100 * vutil.MotePerVouch / 1024},
	}
	for _, test := range tests {
		got := blockchain.CalcBlockSubsidy(test.height,
			&chaincfg.MainNetParams)
		if got != test.want {
			t.Errorf("CalcBlockSubsidy(%d): got %d, want %d",
				test.height, got, test.want)
		}
	}

	// A reduction interval of zero disables halving.
	noHalving := chaincfg.MainNetParams
	noHalving.SubsidyReductionInterval = 0
	got := blockchain.CalcBlockSubsidy(1<<30, &noHalving)
	if got != 100*vutil.MotePerVouch {
		t.Errorf("CalcBlockSubsidy with zero interval: got %d, want %d",
			got, int64(100*vutil.MotePerVouch))
	}
}

// TestIsCoinBase ensures coinbase detection works for both the wire and util
// level transactions.
func TestIsCoinBase(t *testing.T) {
	coinbase := newTestCoinbase(100 * vutil.MotePerVouch)
	spend := newTestSpend(coinbase, 0, 1000)

	// A transaction with a null previous outpoint but more than one input
	// is not a coinbase.
	multiIn := wire.NewMsgTx(wire.TxVersion)
	multiIn.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{},
			wire.MaxPrevOutIndex),
	})
	multiIn.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(coinbase.Hash(), 0),
	})

	// A transaction spending index zero of the zero hash is not a
	// coinbase either.
	zeroIndex := wire.NewMsgTx(wire.TxVersion)
	zeroIndex.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{}, 0),
	})

	tests := []struct {
		name string
		tx   *wire.MsgTx
		want bool
	}{
		{"coinbase", coinbase.MsgTx(), true},
		{"regular spend", spend.MsgTx(), false},
		{"multiple inputs", multiIn, false},
		{"zero hash with index zero", zeroIndex, false},
	}

	for _, test := range tests {
		if got := blockchain.IsCoinBaseTx(test.tx); got != test.want {
			t.Errorf("IsCoinBaseTx (%s): got %v, want %v",
				test.name, got, test.want)
			continue
		}

		got := blockchain.IsCoinBase(vutil.NewTx(test.tx))
		if got != test.want {
			t.Errorf("IsCoinBase (%s): got %v, want %v",
				test.name, got, test.want)
		}
	}
}

// TestIsFinalizedTransaction covers the lock time interpretation rules
// including the max sequence override.
func TestIsFinalizedTransaction(t *testing.T) {
	const blockHeight = 300000
	blockTime := time.Unix(1700000000, 0)

	newLockedTx := func(lockTime uint32, sequence uint32) *vutil.Tx {
		msgTx := wire.NewMsgTx(wire.TxVersion)
		msgTx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: *wire.NewOutPoint(
				&chainhash.Hash{0x01}, 0),
			Sequence: sequence,
		})
		msgTx.AddTxOut(wire.NewTxOut(1000, testPayScript))
		msgTx.LockTime = lockTime
		return vutil.NewTx(msgTx)
	}

	tests := []struct {
		name     string
		lockTime uint32
		sequence uint32
		want     bool
	}{
		{"lock time of zero", 0, 0, true},
		{"height below block height", blockHeight - 1, 0, true},
		{"height equal to block height", blockHeight, 0, false},
		{"height above block height", blockHeight + 1, 0, false},
		{"height with max sequence", blockHeight + 1,
			wire.MaxTxInSequenceNum, true},
		{"time below block time", 1700000000 - 1, 0, true},
		{"time equal to block time", 1700000000, 0, false},
		{"time above block time", 1700000000 + 1, 0, false},
		{"time with max sequence", 1700000000 + 1,
			wire.MaxTxInSequenceNum, true},
	}

	for _, test := range tests {
		tx := newLockedTx(test.lockTime, test.sequence)
		got := blockchain.IsFinalizedTransaction(tx, blockHeight,
			blockTime)
		if got != test.want {
			t.Errorf("IsFinalizedTransaction (%s): got %v, want %v",
				test.name, got, test.want)
		}
	}
}

// TestCheckTransactionSanity ensures the context free transaction checks
// reject malformed transactions with the expected error codes.
func TestCheckTransactionSanity(t *testing.T) {
	coinbase := newTestCoinbase(100 * vutil.MotePerVouch)

	tests := []struct {
		name    string
		tx      func() *wire.MsgTx
		wantErr bool
		code    blockchain.ErrorCode
	}{
		{
			name: "valid transaction",
			tx: func() *wire.MsgTx {
				return newTestSpend(coinbase, 0, 1000).MsgTx()
			},
		},
		{
			name: "valid coinbase",
			tx: func() *wire.MsgTx {
				return newTestCoinbase(1000).MsgTx()
			},
		},
		{
			name: "no inputs",
			tx: func() *wire.MsgTx {
				msgTx := wire.NewMsgTx(wire.TxVersion)
				msgTx.AddTxOut(wire.NewTxOut(1000,
					testPayScript))
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrNoTxInputs,
		},
		{
			name: "no outputs",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.TxOut = nil
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrNoTxOutputs,
		},
		{
			name: "oversize transaction",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.TxIn[0].SignatureScript = make([]byte,
					blockchain.MaxTxSize)
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrTxTooBig,
		},
		{
			name: "negative output value",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.TxOut[0].Value = -1
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrBadTxOutValue,
		},
		{
			name: "output value above max",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.TxOut[0].Value = vutil.MaxMotes + 1
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrBadTxOutValue,
		},
		{
			name: "total output value above max",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.TxOut[0].Value = vutil.MaxMotes
				msgTx.AddTxOut(wire.NewTxOut(vutil.MaxMotes,
					testPayScript))
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrBadTxOutValue,
		},
		{
			name: "duplicate inputs",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.AddTxIn(&wire.TxIn{
					PreviousOutPoint: msgTx.TxIn[0].PreviousOutPoint,
				})
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrDuplicateTxInputs,
		},
		{
			name: "coinbase script too short",
			tx: func() *wire.MsgTx {
				msgTx := newTestCoinbase(1000).MsgTx()
				msgTx.TxIn[0].SignatureScript = []byte{0x01}
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrBadCoinbaseScriptLen,
		},
		{
			name: "coinbase script too long",
			tx: func() *wire.MsgTx {
				msgTx := newTestCoinbase(1000).MsgTx()
				msgTx.TxIn[0].SignatureScript = make([]byte,
					blockchain.MaxCoinbaseScriptLen+1)
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrBadCoinbaseScriptLen,
		},
		{
			name: "null prevout in non-coinbase",
			tx: func() *wire.MsgTx {
				msgTx := newTestSpend(coinbase, 0, 1000).MsgTx()
				msgTx.AddTxIn(&wire.TxIn{
					PreviousOutPoint: *wire.NewOutPoint(
						&chainhash.Hash{},
						wire.MaxPrevOutIndex),
				})
				return msgTx
			},
			wantErr: true,
			code:    blockchain.ErrBadTxInput,
		},
	}

	for _, test := range tests {
		err := blockchain.CheckTransactionSanity(vutil.NewTx(test.tx()))
		if !test.wantErr {
			if err != nil {
				t.Errorf("CheckTransactionSanity (%s): "+
					"unexpected error %v", test.name, err)
			}
			continue
		}

		if !blockchain.IsErrorCode(err, test.code) {
			t.Errorf("CheckTransactionSanity (%s): got %v, want "+
				"code %v", test.name, err, test.code)
		}
	}
}

// TestCheckBlockCoinbase ensures the coinbase placement rules for a block.
func TestCheckBlockCoinbase(t *testing.T) {
	newHeader := func() *wire.BlockHeader {
		return wire.NewBlockHeader(1, &chainhash.Hash{},
			&chainhash.Hash{}, 0x1d00ffff, 0)
	}

	coinbase := newTestCoinbase(100 * vutil.MotePerVouch)
	spend := newTestSpend(coinbase, 0, 1000)

	// Well formed block.
	good := wire.NewMsgBlock(newHeader())
	if err := good.AddTransaction(coinbase.MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := good.AddTransaction(spend.MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := blockchain.CheckBlockCoinbase(vutil.NewBlock(good)); err != nil {
		t.Errorf("CheckBlockCoinbase: unexpected error %v", err)
	}

	// Empty block.
	empty := wire.NewMsgBlock(newHeader())
	err := blockchain.CheckBlockCoinbase(vutil.NewBlock(empty))
	if !blockchain.IsErrorCode(err, blockchain.ErrNoTransactions) {
		t.Errorf("CheckBlockCoinbase: got %v, want ErrNoTransactions",
			err)
	}

	// First transaction is not a coinbase.
	noCoinbase := wire.NewMsgBlock(newHeader())
	if err := noCoinbase.AddTransaction(spend.MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	err = blockchain.CheckBlockCoinbase(vutil.NewBlock(noCoinbase))
	if !blockchain.IsErrorCode(err, blockchain.ErrFirstTxNotCoinbase) {
		t.Errorf("CheckBlockCoinbase: got %v, want "+
			"ErrFirstTxNotCoinbase", err)
	}

	// A second coinbase is rejected.
	dupCoinbase := wire.NewMsgBlock(newHeader())
	if err := dupCoinbase.AddTransaction(coinbase.MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := dupCoinbase.AddTransaction(newTestCoinbase(1).MsgTx()); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	err = blockchain.CheckBlockCoinbase(vutil.NewBlock(dupCoinbase))
	if !blockchain.IsErrorCode(err, blockchain.ErrMultipleCoinbases) {
		t.Errorf("CheckBlockCoinbase: got %v, want "+
			"ErrMultipleCoinbases", err)
	}
}
