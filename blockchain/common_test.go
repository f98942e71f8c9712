// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain_test

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// testPayScript is a pay-to-pubkey-hash script with a throwaway hash that the
// test transactions pay to.
var testPayScript = []byte{
	0x76, 0xa9, 0x14,
	0x29, 0x10, 0x2a, 0x8d, 0xc3, 0x4e, 0x02, 0xc0,
	0x21, 0x53, 0x9e, 0xbb, 0x36, 0x78, 0x44, 0x1a,
	0x65, 0xeb, 0x2d, 0xf1,
	0x88, 0xac,
}

// newTestCoinbase returns a coinbase transaction paying the passed value to
// the test script.  The signature script carries a fake serialized height so
// it satisfies the coinbase script length rules.
func newTestCoinbase(value int64) *vutil.Tx {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{},
			wire.MaxPrevOutIndex),
		SignatureScript: []byte{0x03, 0x40, 0x0d, 0x03},
		Sequence:        wire.MaxTxInSequenceNum,
	})
	msgTx.AddTxOut(wire.NewTxOut(value, testPayScript))
	return vutil.NewTx(msgTx)
}

// newTestSpend returns a transaction spending the output at the passed index
// of the parent transaction.
func newTestSpend(parent *vutil.Tx, index uint32, value int64) *vutil.Tx {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(parent.Hash(), index),
		SignatureScript:  []byte{0x51},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	msgTx.AddTxOut(wire.NewTxOut(value, testPayScript))
	return vutil.NewTx(msgTx)
}

// newTestReferral returns a referral whose address id and public key are
// derived from the passed seed so distinct seeds yield distinct hashes.
func newTestReferral(seed byte) *vutil.Referral {
	msgRef := wire.NewMsgReferral(wire.ReferralVersion)
	msgRef.AddressID[0] = seed
	pubKey := make([]byte, wire.ReferralPubKeyLen)
	pubKey[0] = 0x02
	pubKey[1] = seed
	msgRef.PubKey = pubKey
	return vutil.NewReferral(msgRef)
}
