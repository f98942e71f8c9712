// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// TestBlockHeader tests the BlockHeader API.
func TestBlockHeader(t *testing.T) {
	nonce := uint32(0x9962e301)

	hashStr := "3ba27aa200b1cecaad478d2b00432346c3f1f3986da1afd33e506"
	prevHash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	merkleHashStr := "14a0810ac680a3eb3f82edc878cea25ec41d6b790744e5daeef"
	merkleHash, err := chainhash.NewHashFromStr(merkleHashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	bits := uint32(0x1d00ffff)
	bh := NewBlockHeader(1, prevHash, merkleHash, bits, nonce)

	// Ensure we get the same data back out.
	if !bh.PrevBlock.IsEqual(prevHash) {
		t.Errorf("NewBlockHeader: wrong prev hash - got %v, want %v",
			spew.Sprint(bh.PrevBlock), spew.Sprint(prevHash))
	}
	if !bh.MerkleRoot.IsEqual(merkleHash) {
		t.Errorf("NewBlockHeader: wrong merkle root - got %v, want %v",
			spew.Sprint(bh.MerkleRoot), spew.Sprint(merkleHash))
	}
	if bh.Bits != bits {
		t.Errorf("NewBlockHeader: wrong bits - got %v, want %v",
			bh.Bits, bits)
	}
	if bh.Nonce != nonce {
		t.Errorf("NewBlockHeader: wrong nonce - got %v, want %v",
			bh.Nonce, nonce)
	}
}

// TestBlockHeaderSerialize tests BlockHeader serialize and deserialize.
func TestBlockHeaderSerialize(t *testing.T) {
	hashStr := "3ba27aa200b1cecaad478d2b00432346c3f1f3986da1afd33e506"
	prevHash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	merkleHashStr := "14a0810ac680a3eb3f82edc878cea25ec41d6b790744e5daeef"
	merkleHash, err := chainhash.NewHashFromStr(merkleHashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	baseBlockHdr := &BlockHeader{
		Version:    1,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleHash,
		Timestamp:  time.Unix(0x495fab29, 0), // 2009-01-03 12:15:05 -0600 CST
		Bits:       0x1d00ffff,
		Nonce:      0x9962e301,
	}

	// Serialize the header.
	var buf bytes.Buffer
	err = baseBlockHdr.Serialize(&buf)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// The serialized header is always exactly 80 bytes.
	if buf.Len() != blockHeaderLen {
		t.Errorf("Serialize: wrong length - got %d, want %d", buf.Len(),
			blockHeaderLen)
	}

	// Deserialize the header.
	var readHdr BlockHeader
	err = readHdr.Deserialize(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !reflect.DeepEqual(&readHdr, baseBlockHdr) {
		t.Errorf("Deserialize:\n got: %s want: %s",
			spew.Sdump(&readHdr), spew.Sdump(baseBlockHdr))
	}
}

// TestBlockHash tests that header hashing is deterministic and sensitive to
// every field used by proof of work.
func TestBlockHash(t *testing.T) {
	hashStr := "3ba27aa200b1cecaad478d2b00432346c3f1f3986da1afd33e506"
	prevHash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	merkleHashStr := "14a0810ac680a3eb3f82edc878cea25ec41d6b790744e5daeef"
	merkleHash, err := chainhash.NewHashFromStr(merkleHashStr)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	header := BlockHeader{
		Version:    1,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleHash,
		Timestamp:  time.Unix(0x495fab29, 0),
		Bits:       0x1d00ffff,
		Nonce:      0x9962e301,
	}

	// Hashing the same header twice yields the same hash.
	first := header.BlockHash()
	second := header.BlockHash()
	if !first.IsEqual(&second) {
		t.Errorf("BlockHash: hash not stable: %v != %v", first, second)
	}

	// Incrementing the nonce yields a different hash.
	header.Nonce++
	bumped := header.BlockHash()
	if first.IsEqual(&bumped) {
		t.Errorf("BlockHash: hash did not change with nonce")
	}
}
