// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"bytes"
	"testing"
)

// TestGenesisBlock tests the genesis block of the main network for internal
// consistency.
func TestGenesisBlock(t *testing.T) {
	block := MainNetParams.GenesisBlock

	// A genesis block carries exactly one transaction and one root
	// referral.
	if len(block.Transactions) != 1 {
		t.Fatalf("genesis block has %d transactions, want 1",
			len(block.Transactions))
	}
	if len(block.Referrals) != 1 {
		t.Fatalf("genesis block has %d referrals, want 1",
			len(block.Referrals))
	}
	if !block.Referrals[0].IsRoot() {
		t.Errorf("genesis referral is not a root referral")
	}

	// The merkle root of a single transaction tree is the transaction
	// hash.
	wantMerkle := block.Transactions[0].TxHash()
	if !block.Header.MerkleRoot.IsEqual(&wantMerkle) {
		t.Errorf("genesis merkle root mismatch - got %v, want %v",
			block.Header.MerkleRoot, wantMerkle)
	}

	// The registered hash must match the header.
	blockHash := block.BlockHash()
	if !MainNetParams.GenesisHash.IsEqual(&blockHash) {
		t.Errorf("genesis hash mismatch - got %v, want %v",
			MainNetParams.GenesisHash, blockHash)
	}

	// The coinbase output must pay the address vouched for by the root
	// referral.  The pay-to-pubkey-hash script embeds the address id at
	// offset 3.
	pkScript := block.Transactions[0].TxOut[0].PkScript
	refID := block.Referrals[0].AddressID
	if !bytes.Equal(pkScript[3:23], refID[:]) {
		t.Errorf("genesis coinbase pays %x but root referral vouches "+
			"for %x", pkScript[3:23], refID[:])
	}

	// Serialization must round trip.
	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != block.SerializeSize() {
		t.Errorf("genesis block serialize size mismatch - got %d, "+
			"want %d", buf.Len(), block.SerializeSize())
	}
}

// TestSimNetGenesisBlock tests the genesis block of the simulation test
// network for internal consistency and ensures it differs from the main
// network genesis block.
func TestSimNetGenesisBlock(t *testing.T) {
	block := SimNetParams.GenesisBlock

	blockHash := block.BlockHash()
	if !SimNetParams.GenesisHash.IsEqual(&blockHash) {
		t.Errorf("simnet genesis hash mismatch - got %v, want %v",
			SimNetParams.GenesisHash, blockHash)
	}

	if SimNetParams.GenesisHash.IsEqual(MainNetParams.GenesisHash) {
		t.Errorf("simnet and mainnet genesis blocks hash identically")
	}

	// Both networks share the root referral.
	mainRef := MainNetParams.GenesisBlock.Referrals[0].RefHash()
	simRef := block.Referrals[0].RefHash()
	if !mainRef.IsEqual(&simRef) {
		t.Errorf("simnet root referral differs from mainnet - got %v, "+
			"want %v", simRef, mainRef)
	}
}
