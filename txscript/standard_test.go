// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript_test

import (
	"bytes"
	"testing"

	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/txscript"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// stdTestHash160 is a 20-byte hash used to construct standard scripts in the
// tests below.
var stdTestHash160 = []byte{
	0x0e, 0xf0, 0x30, 0x10, 0x7f, 0xd2, 0x6e, 0x0b, 0x6b, 0xf4,
	0x05, 0x12, 0xbc, 0xa2, 0xce, 0xb1, 0xdd, 0x80, 0xad, 0xaa,
}

// p2pkhScript returns a standard pay-to-pubkey-hash script paying the
// provided 20-byte hash.
func p2pkhScript(hash160 []byte) []byte {
	script := []byte{txscript.OP_DUP, txscript.OP_HASH160,
		txscript.OP_DATA_20}
	script = append(script, hash160...)
	return append(script, txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG)
}

// p2shScript returns a standard pay-to-script-hash script paying the provided
// 20-byte hash.
func p2shScript(hash160 []byte) []byte {
	script := []byte{txscript.OP_HASH160, txscript.OP_DATA_20}
	script = append(script, hash160...)
	return append(script, txscript.OP_EQUAL)
}

// TestGetScriptClass ensures standard scripts are recognized and everything
// else is classified as nonstandard.
func TestGetScriptClass(t *testing.T) {
	t.Parallel()

	// A pay-to-pubkey script, which names no address identifier, for the
	// nonstandard cases.
	p2pk := append([]byte{txscript.OP_DATA_33}, bytes.Repeat([]byte{0x02}, 33)...)
	p2pk = append(p2pk, txscript.OP_CHECKSIG)

	tests := []struct {
		name   string
		script []byte
		class  txscript.ScriptClass
	}{
		{
			name:   "pay-to-pubkey-hash",
			script: p2pkhScript(stdTestHash160),
			class:  txscript.PubKeyHashTy,
		},
		{
			name:   "pay-to-script-hash",
			script: p2shScript(stdTestHash160),
			class:  txscript.ScriptHashTy,
		},
		{
			name:   "bare OP_RETURN",
			script: []byte{txscript.OP_RETURN},
			class:  txscript.NullDataTy,
		},
		{
			name: "OP_RETURN with 36 byte push",
			script: append([]byte{txscript.OP_RETURN, txscript.OP_DATA_36},
				bytes.Repeat([]byte{0x01}, 36)...),
			class: txscript.NullDataTy,
		},
		{
			name:   "OP_RETURN with small int push",
			script: []byte{txscript.OP_RETURN, txscript.OP_4},
			class:  txscript.NullDataTy,
		},
		{
			name: "OP_RETURN with OP_PUSHDATA1 push of 80 bytes",
			script: append([]byte{txscript.OP_RETURN, txscript.OP_PUSHDATA1, 80},
				bytes.Repeat([]byte{0x01}, 80)...),
			class: txscript.NullDataTy,
		},
		{
			name: "OP_RETURN with push past the data carrier limit",
			script: append([]byte{txscript.OP_RETURN, txscript.OP_PUSHDATA1, 81},
				bytes.Repeat([]byte{0x01}, 81)...),
			class: txscript.NonStandardTy,
		},
		{
			name: "OP_RETURN with truncated push",
			script: []byte{txscript.OP_RETURN, txscript.OP_DATA_2,
				0x01},
			class: txscript.NonStandardTy,
		},
		{
			name:   "pay-to-pubkey",
			script: p2pk,
			class:  txscript.NonStandardTy,
		},
		{
			name: "mutated pay-to-pubkey-hash",
			script: func() []byte {
				script := p2pkhScript(stdTestHash160)
				script[len(script)-1] = txscript.OP_EQUAL
				return script
			}(),
			class: txscript.NonStandardTy,
		},
		{
			name:   "truncated pay-to-script-hash",
			script: p2shScript(stdTestHash160)[:22],
			class:  txscript.NonStandardTy,
		},
		{
			name:   "empty script",
			script: nil,
			class:  txscript.NonStandardTy,
		},
	}

	for _, test := range tests {
		class := txscript.GetScriptClass(test.script)
		if class != test.class {
			t.Errorf("%s: got class %v, want %v", test.name, class,
				test.class)
			continue
		}
	}
}

// TestScriptClassStringer ensures script classes format correctly.
func TestScriptClassStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class txscript.ScriptClass
		name  string
	}{
		{txscript.NonStandardTy, "nonstandard"},
		{txscript.PubKeyHashTy, "pubkeyhash"},
		{txscript.ScriptHashTy, "scripthash"},
		{txscript.NullDataTy, "nulldata"},
		{txscript.ScriptClass(255), "Invalid"},
	}

	for _, test := range tests {
		if s := test.class.String(); s != test.name {
			t.Errorf("got %q, want %q", s, test.name)
		}
	}
}

// TestPayToAddrScript ensures standard scripts are generated for the
// supported address types.
func TestPayToAddrScript(t *testing.T) {
	t.Parallel()

	pkhAddr, err := vutil.NewAddressPubKeyHash(stdTestHash160,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressPubKeyHash: %v", err)
	}
	shAddr, err := vutil.NewAddressScriptHashFromHash(stdTestHash160,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressScriptHashFromHash: %v", err)
	}

	script, err := txscript.PayToAddrScript(pkhAddr)
	if err != nil {
		t.Fatalf("PayToAddrScript(p2pkh): %v", err)
	}
	if !bytes.Equal(script, p2pkhScript(stdTestHash160)) {
		t.Fatalf("p2pkh script mismatch\ngot: %x\nwant: %x", script,
			p2pkhScript(stdTestHash160))
	}

	script, err = txscript.PayToAddrScript(shAddr)
	if err != nil {
		t.Fatalf("PayToAddrScript(p2sh): %v", err)
	}
	if !bytes.Equal(script, p2shScript(stdTestHash160)) {
		t.Fatalf("p2sh script mismatch\ngot: %x\nwant: %x", script,
			p2shScript(stdTestHash160))
	}

	// Supported address types with nil pointers and unsupported address
	// types must be rejected.
	if _, err := txscript.PayToAddrScript((*vutil.AddressPubKeyHash)(nil)); !txscript.IsErrorCode(err, txscript.ErrUnsupportedAddress) {
		t.Errorf("nil p2pkh addr: got %v, want ErrUnsupportedAddress", err)
	}
	if _, err := txscript.PayToAddrScript((*vutil.AddressScriptHash)(nil)); !txscript.IsErrorCode(err, txscript.ErrUnsupportedAddress) {
		t.Errorf("nil p2sh addr: got %v, want ErrUnsupportedAddress", err)
	}
	if _, err := txscript.PayToAddrScript(nil); !txscript.IsErrorCode(err, txscript.ErrUnsupportedAddress) {
		t.Errorf("nil addr: got %v, want ErrUnsupportedAddress", err)
	}
}

// TestNullDataScript ensures the provably prunable script form is generated
// correctly and oversized payloads are rejected.
func TestNullDataScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		expected []byte
		code     txscript.ErrorCode
		valid    bool
	}{
		{
			name:     "no data",
			data:     nil,
			expected: []byte{txscript.OP_RETURN, txscript.OP_0},
			valid:    true,
		},
		{
			name: "36 bytes (commitment sized)",
			data: bytes.Repeat([]byte{0x07}, 36),
			expected: append([]byte{txscript.OP_RETURN, txscript.OP_DATA_36},
				bytes.Repeat([]byte{0x07}, 36)...),
			valid: true,
		},
		{
			name: "max data carrier size",
			data: bytes.Repeat([]byte{0x07}, 80),
			expected: append([]byte{txscript.OP_RETURN, txscript.OP_PUSHDATA1, 80},
				bytes.Repeat([]byte{0x07}, 80)...),
			valid: true,
		},
		{
			name:  "too much data",
			data:  bytes.Repeat([]byte{0x07}, 81),
			code:  txscript.ErrTooMuchNullData,
			valid: false,
		},
	}

	for _, test := range tests {
		script, err := txscript.NullDataScript(test.data)
		if test.valid {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
				continue
			}
			if !bytes.Equal(script, test.expected) {
				t.Errorf("%s: wrong script\ngot: %x\nwant: %x",
					test.name, script, test.expected)
				continue
			}
			if class := txscript.GetScriptClass(script); class != txscript.NullDataTy {
				t.Errorf("%s: got class %v, want nulldata",
					test.name, class)
			}
			continue
		}
		if !txscript.IsErrorCode(err, test.code) {
			t.Errorf("%s: got err %v, want code %v", test.name, err,
				test.code)
		}
	}
}

// TestExtractAddressID ensures the two standard script templates yield their
// address identifier and everything else yields none.
func TestExtractAddressID(t *testing.T) {
	t.Parallel()

	p2pk := append([]byte{txscript.OP_DATA_33}, bytes.Repeat([]byte{0x02}, 33)...)
	p2pk = append(p2pk, txscript.OP_CHECKSIG)

	tests := []struct {
		name   string
		script []byte
		want   bool
	}{
		{"pay-to-pubkey-hash", p2pkhScript(stdTestHash160), true},
		{"pay-to-script-hash", p2shScript(stdTestHash160), true},
		{"pay-to-pubkey", p2pk, false},
		{"nulldata", []byte{txscript.OP_RETURN, txscript.OP_4}, false},
		{"empty", nil, false},
		{"truncated p2pkh", p2pkhScript(stdTestHash160)[:24], false},
	}

	for _, test := range tests {
		id, ok := txscript.ExtractAddressID(test.script)
		if ok != test.want {
			t.Errorf("%s: got ok=%v, want %v", test.name, ok, test.want)
			continue
		}
		if ok && !bytes.Equal(id[:], stdTestHash160) {
			t.Errorf("%s: extracted id %v does not match script hash",
				test.name, id)
			continue
		}
		if !ok && id != (wire.AddressID{}) {
			t.Errorf("%s: expected zero address id, got %v", test.name, id)
			continue
		}
	}

	// The generated and extracted forms must agree.
	addr, err := vutil.NewAddressPubKeyHash(stdTestHash160, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressPubKeyHash: %v", err)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("PayToAddrScript: %v", err)
	}
	id, ok := txscript.ExtractAddressID(script)
	if !ok || !bytes.Equal(id[:], addr.ScriptAddress()) {
		t.Fatalf("round trip mismatch: ok=%v id=%v", ok, id)
	}
}
