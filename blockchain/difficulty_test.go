// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain_test

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/blockchain"
)

// TestBigToCompact ensures BigToCompact converts big integers to the expected
// compact representation.
func TestBigToCompact(t *testing.T) {
	tests := []struct {
		in  int64
		out uint32
	}{
		{0, 0},
		{-1, 25231360},
	}

	for x, test := range tests {
		n := big.NewInt(test.in)
		r := blockchain.BigToCompact(n)
		if r != test.out {
			t.Errorf("TestBigToCompact test #%d failed: got %d want %d\n",
				x, r, test.out)
			return
		}
	}
}

// TestCompactToBig ensures CompactToBig converts numbers using the compact
// representation to the expected big integers.
func TestCompactToBig(t *testing.T) {
	tests := []struct {
		in  uint32
		out int64
	}{
		{10000000, 0},
	}

	for x, test := range tests {
		n := blockchain.CompactToBig(test.in)
		want := big.NewInt(test.out)
		if n.Cmp(want) != 0 {
			t.Errorf("TestCompactToBig test #%d failed: got %d want %d\n",
				x, n.Int64(), test.out)
			return
		}
	}
}

// TestCompactRoundTrip ensures the proof of work limit bits survive the
// conversion to a big integer and back.
func TestCompactRoundTrip(t *testing.T) {
	const powLimitBits = 0x1d00ffff

	// 0xffff shifted left 208 bits.
	want := new(big.Int).Lsh(big.NewInt(0xffff), 208)

	n := blockchain.CompactToBig(powLimitBits)
	if n.Cmp(want) != 0 {
		t.Fatalf("CompactToBig: got %x, want %x", n, want)
	}

	if r := blockchain.BigToCompact(n); r != powLimitBits {
		t.Fatalf("BigToCompact: got %08x, want %08x", r, powLimitBits)
	}
}

// TestHashToBig ensures hashes are interpreted with the expected byte order.
func TestHashToBig(t *testing.T) {
	// A hash is little-endian, so a one in its first byte is the least
	// significant byte of the resulting big integer.
	little := chainhash.Hash{0x01}
	if n := blockchain.HashToBig(&little); n.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("HashToBig: got %x, want 1", n)
	}

	// And a one in the final byte is the most significant.
	var bigEnd chainhash.Hash
	bigEnd[chainhash.HashSize-1] = 0x01
	want := new(big.Int).Lsh(big.NewInt(1), 248)
	if n := blockchain.HashToBig(&bigEnd); n.Cmp(want) != 0 {
		t.Errorf("HashToBig: got %x, want %x", n, want)
	}
}

// TestCalcWork ensures CalcWork calculates the expected work value from
// values in compact representation.
func TestCalcWork(t *testing.T) {
	tests := []struct {
		in  uint32
		out int64
	}{
		// Zero compact value yields zero work.
		{0, 0},

		// Negative compact values yield zero work.
		{0x03808000, 0},

		// The proof of work limit bits.
		{0x1d00ffff, 4295032833},
	}

	for x, test := range tests {
		r := blockchain.CalcWork(test.in)
		if r.Cmp(big.NewInt(test.out)) != 0 {
			t.Errorf("TestCalcWork test #%d failed: got %v want %d\n",
				x, r.Int64(), test.out)
			return
		}
	}
}
