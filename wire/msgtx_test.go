// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// TestTx tests the MsgTx API.
func TestTx(t *testing.T) {
	// Ensure the command is expected value.
	wantCmd := int32(TxVersion)
	msg := NewMsgTx(TxVersion)
	if msg.Version != wantCmd {
		t.Errorf("NewMsgTx: wrong version - got %v, want %v",
			msg.Version, wantCmd)
	}

	// Ensure we get the same transaction output point data back out.
	// NOTE: This is a block hash and made up index, but we're only
	// testing package functionality.
	hashStr := "9df2c3a0be6f465fc5c3bdef3f1d0a9fbd364753cb5111b24a431a4fc5ee6d0a"
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Errorf("NewHashFromStr: %v", err)
	}
	prevOutIndex := uint32(1)
	prevOut := NewOutPoint(hash, prevOutIndex)
	if !prevOut.Hash.IsEqual(hash) {
		t.Errorf("NewOutPoint: wrong hash - got %v, want %v",
			spew.Sprint(&prevOut.Hash), spew.Sprint(hash))
	}
	if prevOut.Index != prevOutIndex {
		t.Errorf("NewOutPoint: wrong index - got %v, want %v",
			prevOut.Index, prevOutIndex)
	}
	prevOutStr := hashStr + ":" + "1"
	if s := prevOut.String(); s != prevOutStr {
		t.Errorf("OutPoint.String: unexpected result - got %v, "+
			"want %v", s, prevOutStr)
	}

	// Ensure we get the same transaction input back out.
	sigScript := []byte{0x04, 0x31, 0xdc, 0x00, 0x1b, 0x01, 0x62}
	witnessData := [][]byte{
		{0x04, 0x31},
		{0x01, 0x43},
	}
	txIn := NewTxIn(prevOut, sigScript, witnessData)
	if !reflect.DeepEqual(&txIn.PreviousOutPoint, prevOut) {
		t.Errorf("NewTxIn: wrong prev outpoint - got %v, want %v",
			spew.Sprint(&txIn.PreviousOutPoint),
			spew.Sprint(prevOut))
	}
	if !bytes.Equal(txIn.SignatureScript, sigScript) {
		t.Errorf("NewTxIn: wrong signature script - got %v, want %v",
			spew.Sdump(txIn.SignatureScript),
			spew.Sdump(sigScript))
	}
	if !reflect.DeepEqual(txIn.Witness, TxWitness(witnessData)) {
		t.Errorf("NewTxIn: wrong witness data - got %v, want %v",
			spew.Sdump(txIn.Witness),
			spew.Sdump(witnessData))
	}

	// Ensure we get the same transaction output back out.
	txValue := int64(5000000000)
	pkScript := []byte{
		0x41, // OP_DATA_65
		0x04, 0xd6, 0x4b, 0xdf, 0xd0, 0x9e, 0xb1, 0xc5,
		0xfe, 0x29, 0x5a, 0xbd, 0xeb, 0x1d, 0xca, 0x42,
		0x81, 0xbe, 0x98, 0x8e, 0x2d, 0xa0, 0xb6, 0xc1,
		0xc6, 0xa5, 0x9d, 0xc2, 0x26, 0xc2, 0x86, 0x24,
		0xe1, 0x81, 0x75, 0xe8, 0x51, 0xc9, 0x6b, 0x97,
		0x3d, 0x81, 0xb0, 0x1c, 0xc3, 0x1f, 0x04, 0x78,
		0x34, 0xbc, 0x06, 0xd6, 0xd6, 0xed, 0xf6, 0x20,
		0xd1, 0x84, 0x24, 0x1a, 0x6a, 0xed, 0x8b, 0x63,
		0xa6, // 65-byte signature
		0xac, // OP_CHECKSIG
	}
	txOut := NewTxOut(txValue, pkScript)
	if txOut.Value != txValue {
		t.Errorf("NewTxOut: wrong pk script - got %v, want %v",
			txOut.Value, txValue)

	}
	if !bytes.Equal(txOut.PkScript, pkScript) {
		t.Errorf("NewTxOut: wrong pk script - got %v, want %v",
			spew.Sdump(txOut.PkScript),
			spew.Sdump(pkScript))
	}

	// Ensure transaction inputs are added properly.
	msg.AddTxIn(txIn)
	if !reflect.DeepEqual(msg.TxIn[0], txIn) {
		t.Errorf("AddTxIn: wrong transaction input added - got %v, want %v",
			spew.Sprint(msg.TxIn[0]), spew.Sprint(txIn))
	}

	// Ensure transaction outputs are added properly.
	msg.AddTxOut(txOut)
	if !reflect.DeepEqual(msg.TxOut[0], txOut) {
		t.Errorf("AddTxIn: wrong transaction output added - got %v, want %v",
			spew.Sprint(msg.TxOut[0]), spew.Sprint(txOut))
	}

	// Ensure the copy produced an identical transaction message.
	newMsg := msg.Copy()
	if !reflect.DeepEqual(newMsg, msg) {
		t.Errorf("Copy: mismatched tx messages - got %v, want %v",
			spew.Sdump(newMsg), spew.Sdump(msg))
	}
}

// TestTxHash tests the ability to generate the hash of a transaction
// accurately.
func TestTxHash(t *testing.T) {
	// A coinbase style transaction.
	msgTx := NewMsgTx(1)
	txIn := TxIn{
		PreviousOutPoint: OutPoint{
			Hash:  chainhash.Hash{},
			Index: 0xffffffff,
		},
		SignatureScript: []byte{0x04, 0x31, 0xdc, 0x00, 0x1b, 0x01, 0x62},
		Sequence:        0xffffffff,
	}
	txOut := TxOut{
		Value: 5000000000,
		PkScript: []byte{
			0x76, // OP_DUP
			0xa9, // OP_HASH160
			0x14, // OP_DATA_20
			0xc3, 0x98, 0xef, 0xa9, 0xc3, 0x92, 0xba, 0x60,
			0x13, 0xc5, 0xe0, 0x4e, 0xe7, 0x29, 0x75, 0x5e,
			0xf7, 0xf5, 0x8b, 0x32,
			0x88, // OP_EQUALVERIFY
			0xac, // OP_CHECKSIG
		},
	}
	msgTx.AddTxIn(&txIn)
	msgTx.AddTxOut(&txOut)
	msgTx.LockTime = 0

	// A transaction without witness data reports the same hash for both
	// the regular and witness hashes.
	txHash := msgTx.TxHash()
	wTxHash := msgTx.WitnessHash()
	if !txHash.IsEqual(&wTxHash) {
		t.Errorf("TxHash/WitnessHash mismatch for non-witness tx: "+
			"%v != %v", txHash, wTxHash)
	}

	// The hash must be stable across invocations.
	txHash2 := msgTx.TxHash()
	if !txHash.IsEqual(&txHash2) {
		t.Errorf("TxHash: hash not stable: %v != %v", txHash, txHash2)
	}

	// Mutating the transaction must change the hash.
	msgTx.LockTime = 1
	txHash3 := msgTx.TxHash()
	if txHash.IsEqual(&txHash3) {
		t.Errorf("TxHash: hash did not change after mutation")
	}
}

// TestWTxSha tests the ability to correctly generate the witness hash of a
// transaction.
func TestWTxSha(t *testing.T) {
	hashStr := "0f167d1385a84d1518cfee208b653fc9163b605ccf1b75347e2850b3e2eb19f3"
	wantHash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Errorf("NewHashFromStr: %v", err)
		return
	}

	// A transaction with witness data set.
	msgTx := NewMsgTx(1)
	txIn := TxIn{
		PreviousOutPoint: OutPoint{
			Hash:  *wantHash,
			Index: 19,
		},
		SignatureScript: []byte{0x51},
		Witness: [][]byte{
			{0x04, 0x31}, // Fake witness data.
			{0x01, 0x43},
		},
		Sequence: 0xffffffff,
	}
	txOut := TxOut{
		Value:    395019,
		PkScript: []byte{0x51},
	}
	msgTx.AddTxIn(&txIn)
	msgTx.AddTxOut(&txOut)

	// The witness hash of a transaction with witness data differs from its
	// txid since the witness serialization covers more data.
	txid := msgTx.TxHash()
	wtxid := msgTx.WitnessHash()
	if txid.IsEqual(&wtxid) {
		t.Errorf("TxHash and WitnessHash should differ for witness " +
			"transactions")
	}

	// Stripping the witness data must bring the two hashes back together.
	msgTx.TxIn[0].Witness = nil
	wtxidStripped := msgTx.WitnessHash()
	if !txid.IsEqual(&wtxidStripped) {
		t.Errorf("WitnessHash: stripped tx hash mismatch - got %v, "+
			"want %v", wtxidStripped, txid)
	}
}

// TestTxWire tests the MsgTx wire encode and decode for various transactions.
func TestTxWire(t *testing.T) {
	hashStr := "9df2c3a0be6f465fc5c3bdef3f1d0a9fbd364753cb5111b24a431a4fc5ee6d0a"
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	// Transaction with one input, two outputs and no witness data.
	noWitnessTx := NewMsgTx(TxVersion)
	noWitnessTx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: *hash, Index: 0},
		SignatureScript:  []byte{0x04, 0x31, 0xdc, 0x00, 0x1b},
		Sequence:         0xffffffff,
	})
	noWitnessTx.AddTxOut(&TxOut{Value: 0x3333, PkScript: []byte{0x51}})
	noWitnessTx.AddTxOut(&TxOut{Value: 0x2123, PkScript: []byte{0x52}})

	// Same transaction with witness data on the input.
	witnessTx := noWitnessTx.Copy()
	witnessTx.TxIn[0].Witness = [][]byte{{0x4d, 0x65, 0x72}, {0x69, 0x74}}

	tests := []struct {
		name string
		in   *MsgTx
		enc  MessageEncoding
	}{
		{"no witness, base encoding", noWitnessTx, BaseEncoding},
		{"no witness, witness encoding", noWitnessTx, WitnessEncoding},
		{"witness, witness encoding", witnessTx, WitnessEncoding},
	}

	for i, test := range tests {
		// Encode the message to wire format.
		var buf bytes.Buffer
		err := test.in.BtcEncode(&buf, ProtocolVersion, test.enc)
		if err != nil {
			t.Errorf("BtcEncode #%d (%s) error %v", i, test.name, err)
			continue
		}

		// Decode the message from wire format.
		var msg MsgTx
		rbuf := bytes.NewReader(buf.Bytes())
		err = msg.BtcDecode(rbuf, ProtocolVersion, test.enc)
		if err != nil {
			t.Errorf("BtcDecode #%d (%s) error %v", i, test.name, err)
			continue
		}
		if !reflect.DeepEqual(&msg, test.in) {
			t.Errorf("BtcDecode #%d (%s)\n got: %s want: %s", i,
				test.name, spew.Sdump(&msg), spew.Sdump(test.in))
			continue
		}
	}

	// Encoding a witness transaction with the base encoding must produce
	// the stripped serialization, which decodes without witness data.
	var buf bytes.Buffer
	if err := witnessTx.BtcEncode(&buf, ProtocolVersion, BaseEncoding); err != nil {
		t.Fatalf("BtcEncode base: %v", err)
	}
	var stripped MsgTx
	if err := stripped.BtcDecode(bytes.NewReader(buf.Bytes()),
		ProtocolVersion, BaseEncoding); err != nil {
		t.Fatalf("BtcDecode base: %v", err)
	}
	if stripped.HasWitness() {
		t.Errorf("base encoding round trip retained witness data")
	}
	strippedHash := stripped.TxHash()
	wantHash := witnessTx.TxHash()
	if !strippedHash.IsEqual(&wantHash) {
		t.Errorf("stripped tx hash mismatch - got %v, want %v",
			strippedHash, wantHash)
	}
}

// TestTxSerializeSize performs tests to ensure the serialize size for various
// transactions is accurate.
func TestTxSerializeSize(t *testing.T) {
	hashStr := "9df2c3a0be6f465fc5c3bdef3f1d0a9fbd364753cb5111b24a431a4fc5ee6d0a"
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	// Empty tx message.
	noTx := NewMsgTx(1)

	// Transaction with an input and an output.
	baseTx := NewMsgTx(1)
	baseTx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Hash: *hash, Index: 0},
		SignatureScript:  []byte{0x04, 0x31, 0xdc, 0x00, 0x1b},
		Sequence:         0xffffffff,
	})
	baseTx.AddTxOut(&TxOut{Value: 0x3333, PkScript: []byte{0x51}})

	// Same transaction with witness data.
	witnessTx := baseTx.Copy()
	witnessTx.TxIn[0].Witness = [][]byte{{0x04, 0x31}, {0x01, 0x43}}

	tests := []struct {
		in *MsgTx // Tx to encode
	}{
		{noTx},
		{baseTx},
		{witnessTx},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		var buf bytes.Buffer
		if err := test.in.Serialize(&buf); err != nil {
			t.Errorf("Serialize #%d error %v", i, err)
			continue
		}
		serializedSize := test.in.SerializeSize()
		if serializedSize != buf.Len() {
			t.Errorf("MsgTx.SerializeSize: #%d got: %d, want: %d", i,
				serializedSize, buf.Len())
			continue
		}

		var strippedBuf bytes.Buffer
		if err := test.in.SerializeNoWitness(&strippedBuf); err != nil {
			t.Errorf("SerializeNoWitness #%d error %v", i, err)
			continue
		}
		strippedSize := test.in.SerializeSizeStripped()
		if strippedSize != strippedBuf.Len() {
			t.Errorf("MsgTx.SerializeSizeStripped: #%d got: %d, want: %d",
				i, strippedSize, strippedBuf.Len())
			continue
		}
	}
}

// TestTxOverflowErrors performs tests to ensure deserializing transactions
// which are intentionally crafted to use large values for the variable number
// of inputs and outputs are handled properly.  This could otherwise potentially
// be used as an attack vector.
func TestTxOverflowErrors(t *testing.T) {
	// Use protocol version 70001 specifically here instead of the latest
	// because the test data is using bytes encoded with that protocol
	// version.
	pver := uint32(70001)

	tests := []struct {
		buf []byte // Wire encoding
		enc MessageEncoding
	}{
		// Transaction that claims to have ~uint64(0) inputs.
		{
			[]byte{
				0x00, 0x00, 0x00, 0x01, // Version
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0xff, // Varint for number of input transactions
			}, BaseEncoding,
		},

		// Transaction that claims to have ~uint64(0) outputs.
		{
			[]byte{
				0x00, 0x00, 0x00, 0x01, // Version
				0x00, // Varint for number of input transactions
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0xff, // Varint for number of output transactions
			}, BaseEncoding,
		},

		// Transaction that has an input with a signature script that
		// claims to have ~uint64(0) length.
		{
			[]byte{
				0x00, 0x00, 0x00, 0x01, // Version
				0x01, // Varint for number of input transactions
				0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a,
				0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a,
				0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a,
				0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, 0x0a, // Previous output hash
				0xff, 0xff, 0xff, 0xff, // Previous output index
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0xff, // Varint for length of signature script
			}, BaseEncoding,
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Decode from wire format.
		var msg MsgTx
		r := bytes.NewReader(test.buf)
		err := msg.BtcDecode(r, pver, test.enc)
		if _, ok := err.(*MessageError); !ok {
			t.Errorf("BtcDecode #%d wrong error got: %v, want: %T",
				i, err, &MessageError{})
			continue
		}
	}
}
