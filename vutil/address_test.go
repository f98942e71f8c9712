// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vutil_test

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// testHash160 is a well-formed 20-byte hash used to construct addresses
// throughout the tests below.
var testHash160 = []byte{
	0xe3, 0x4c, 0xce, 0x70, 0xc8, 0x63, 0x73, 0x27, 0x3e, 0xfc,
	0xc5, 0x4c, 0xe7, 0xd2, 0xa4, 0x91, 0xbb, 0x4a, 0x0e, 0x84,
}

func TestAddressPubKeyHash(t *testing.T) {
	tests := []struct {
		name     string
		net      *chaincfg.Params
		otherNet *chaincfg.Params
	}{
		{"mainnet p2pkh", &chaincfg.MainNetParams, &chaincfg.SimNetParams},
		{"simnet p2pkh", &chaincfg.SimNetParams, &chaincfg.MainNetParams},
	}

	for _, test := range tests {
		addr, err := vutil.NewAddressPubKeyHash(testHash160, test.net)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}

		// The encoded form must round trip through DecodeAddress back
		// to an equivalent address.
		encoded := addr.EncodeAddress()
		decoded, err := vutil.DecodeAddress(encoded, test.net)
		if err != nil {
			t.Errorf("%s: decode failed: %v", test.name, err)
			continue
		}
		if decoded.EncodeAddress() != encoded {
			t.Errorf("%s: decoded address %q does not match original "+
				"%q", test.name, decoded.EncodeAddress(), encoded)
			continue
		}
		if _, ok := decoded.(*vutil.AddressPubKeyHash); !ok {
			t.Errorf("%s: decoded address is of wrong type %T",
				test.name, decoded)
			continue
		}

		if !bytes.Equal(addr.ScriptAddress(), testHash160) {
			t.Errorf("%s: script address %x does not match expected "+
				"%x", test.name, addr.ScriptAddress(), testHash160)
			continue
		}
		if !addr.IsForNet(test.net) {
			t.Errorf("%s: IsForNet failed for own network", test.name)
			continue
		}
		if addr.IsForNet(test.otherNet) {
			t.Errorf("%s: IsForNet matched wrong network", test.name)
			continue
		}
		if addr.String() != encoded {
			t.Errorf("%s: String %q does not match EncodeAddress %q",
				test.name, addr.String(), encoded)
			continue
		}
		if !bytes.Equal(addr.Hash160()[:], testHash160) {
			t.Errorf("%s: Hash160 mismatch", test.name)
			continue
		}

		// Decoding must associate the address with the encoded network
		// even when a different default network is provided.
		crossDecoded, err := vutil.DecodeAddress(encoded, test.otherNet)
		if err != nil {
			t.Errorf("%s: cross-net decode failed: %v", test.name, err)
			continue
		}
		if !crossDecoded.IsForNet(test.net) {
			t.Errorf("%s: cross-net decode lost network association",
				test.name)
			continue
		}
	}

	// Hashes which are not exactly 20 bytes must be rejected.
	if _, err := vutil.NewAddressPubKeyHash(testHash160[:19], &chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressPubKeyHash accepted a 19-byte hash")
	}
	if _, err := vutil.NewAddressPubKeyHash(append([]byte{0x00}, testHash160...), &chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressPubKeyHash accepted a 21-byte hash")
	}
}

func TestAddressScriptHash(t *testing.T) {
	script := []byte{0x51, 0x87} // OP_1 OP_EQUAL
	scriptHash := vutil.Hash160(script)

	addr, err := vutil.NewAddressScriptHash(script, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressScriptHash: %v", err)
	}
	if !bytes.Equal(addr.ScriptAddress(), scriptHash) {
		t.Fatalf("script address %x does not match hash160 of script %x",
			addr.ScriptAddress(), scriptHash)
	}

	// Constructing from the hash directly must produce the same address.
	fromHash, err := vutil.NewAddressScriptHashFromHash(scriptHash, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressScriptHashFromHash: %v", err)
	}
	if fromHash.EncodeAddress() != addr.EncodeAddress() {
		t.Fatalf("address from hash %q does not match address from "+
			"script %q", fromHash.EncodeAddress(), addr.EncodeAddress())
	}

	decoded, err := vutil.DecodeAddress(addr.EncodeAddress(), &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, ok := decoded.(*vutil.AddressScriptHash); !ok {
		t.Fatalf("decoded address is of wrong type %T", decoded)
	}
	if !addr.IsForNet(&chaincfg.MainNetParams) {
		t.Fatal("IsForNet failed for own network")
	}
	if addr.IsForNet(&chaincfg.SimNetParams) {
		t.Fatal("IsForNet matched wrong network")
	}

	if _, err := vutil.NewAddressScriptHashFromHash(scriptHash[:19], &chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressScriptHashFromHash accepted a 19-byte hash")
	}
}

func TestAddressPubKeyHashFromKey(t *testing.T) {
	privKeyBytes := []byte{
		0xea, 0xf0, 0x2c, 0xa3, 0x48, 0xc5, 0x24, 0xe6,
		0x39, 0x26, 0x55, 0xba, 0x4d, 0x29, 0x60, 0x3c,
		0xd1, 0xa7, 0x34, 0x7d, 0x9d, 0x65, 0xcf, 0xe9,
		0x3c, 0xe1, 0xeb, 0xff, 0xdc, 0xa2, 0x26, 0x94,
	}
	_, pubKey := btcec.PrivKeyFromBytes(privKeyBytes)

	addr, err := vutil.NewAddressPubKeyHashFromKey(pubKey, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressPubKeyHashFromKey: %v", err)
	}

	// The script address must equal the hash160 of the compressed
	// serialization of the public key.
	want := vutil.Hash160(pubKey.SerializeCompressed())
	if !bytes.Equal(addr.ScriptAddress(), want) {
		t.Fatalf("script address %x does not match hash160 of "+
			"compressed pubkey %x", addr.ScriptAddress(), want)
	}

	decoded, err := vutil.DecodeAddress(addr.EncodeAddress(), &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(decoded.ScriptAddress(), want) {
		t.Fatal("decoded script address mismatch")
	}
}

func TestDecodeAddressErrors(t *testing.T) {
	// A version byte no registered network uses.
	unknown := base58.CheckEncode(testHash160, 0x00)
	if _, err := vutil.DecodeAddress(unknown, &chaincfg.MainNetParams); err != vutil.ErrUnknownAddressType {
		t.Errorf("unknown version byte: got %v, want %v", err,
			vutil.ErrUnknownAddressType)
	}

	// A payload which is not 20 bytes.
	badSize := base58.CheckEncode(append([]byte{0x00}, testHash160...),
		chaincfg.MainNetParams.PubKeyHashAddrID)
	if _, err := vutil.DecodeAddress(badSize, &chaincfg.MainNetParams); err == nil {
		t.Error("oversized payload accepted")
	}

	// Not base58check at all.
	if _, err := vutil.DecodeAddress("", &chaincfg.MainNetParams); err == nil {
		t.Error("empty address accepted")
	}

	// Corrupt the final character of a valid address so the checksum no
	// longer verifies.
	valid := base58.CheckEncode(testHash160, chaincfg.MainNetParams.PubKeyHashAddrID)
	corruptChar := byte('1')
	if valid[len(valid)-1] == corruptChar {
		corruptChar = '2'
	}
	corrupt := valid[:len(valid)-1] + string(corruptChar)
	if _, err := vutil.DecodeAddress(corrupt, &chaincfg.MainNetParams); err != vutil.ErrChecksumMismatch {
		t.Errorf("corrupt checksum: got %v, want %v", err,
			vutil.ErrChecksumMismatch)
	}
}

func TestDecodeAddressCollision(t *testing.T) {
	// Register two networks which share an identifier byte, one as a
	// pubkey hash ID and one as a script hash ID.  Decoding an address
	// with that leading byte is then ambiguous.
	collisionID := byte(0x51)
	netA := chaincfg.Params{
		Name:             "collisionneta",
		Net:              wire.VouchNet(0x9aabbccd),
		PubKeyHashAddrID: collisionID,
		ScriptHashAddrID: 0x52,
	}
	netB := chaincfg.Params{
		Name:             "collisionnetb",
		Net:              wire.VouchNet(0x9aabbcce),
		PubKeyHashAddrID: 0x53,
		ScriptHashAddrID: collisionID,
	}
	if err := chaincfg.Register(&netA); err != nil {
		t.Fatalf("register netA: %v", err)
	}
	if err := chaincfg.Register(&netB); err != nil {
		t.Fatalf("register netB: %v", err)
	}

	encoded := base58.CheckEncode(testHash160, collisionID)
	if _, err := vutil.DecodeAddress(encoded, &chaincfg.MainNetParams); err != vutil.ErrAddressCollision {
		t.Errorf("got %v, want %v", err, vutil.ErrAddressCollision)
	}
}
