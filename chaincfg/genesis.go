// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/vouchnet/vouchd/wire"
)

// genesisCoinbaseTx is the coinbase transaction for the genesis blocks for
// the main network and simulation test network.  The input script encodes the
// customary newspaper headline and the single output pays the network
// founder's pay-to-pubkey-hash address, which is vouched for by the root
// referral embedded in the same block.
var genesisCoinbaseTx = wire.MsgTx{
	Version: 1,
	TxIn: []*wire.TxIn{
		{
			PreviousOutPoint: wire.OutPoint{
				Index: 0xffffffff,
			},
			SignatureScript: append([]byte{
				0x04, 0xff, 0xff, 0x00, 0x1d, 0x01, 0x04, 0x42,
			}, []byte("Financial Times 09/Mar/2023 Banks "+
				"scramble as deposits take flight")...),
			Sequence: 0xffffffff,
		},
	},
	TxOut: []*wire.TxOut{
		{
			Value: 0x2540be400, // 100 VCH
			PkScript: []byte{
				0x76, /* OP_DUP */
				0xa9, /* OP_HASH160 */
				0x14, /* OP_DATA_20 */
				0x3d, 0x9f, 0x21, 0x4d, 0x7a, 0x0f, 0x5b, 0x4c,
				0xe8, 0x99, 0x1a, 0x2e, 0xb6, 0xc3, 0x58, 0x30,
				0x7e, 0xd1, 0x46, 0x5a,
				0x88, /* OP_EQUALVERIFY */
				0xac, /* OP_CHECKSIG */
			},
		},
	},
	LockTime: 0,
}

// genesisAddressID is the hash160 of the network founder's public key.  It is
// both the destination of the genesis coinbase output and the subject of the
// root referral.
var genesisAddressID = wire.AddressID{
	0x3d, 0x9f, 0x21, 0x4d, 0x7a, 0x0f, 0x5b, 0x4c,
	0xe8, 0x99, 0x1a, 0x2e, 0xb6, 0xc3, 0x58, 0x30,
	0x7e, 0xd1, 0x46, 0x5a,
}

// genesisReferral is the root referral for the genesis blocks.  It vouches
// for the founder's address, names no previous referral, and carries no
// signature since there is no referrer to sign for it.
var genesisReferral = wire.MsgReferral{
	Version:   1,
	AddressID: genesisAddressID,
	PubKey: []byte{
		0x02, 0xa7, 0xeb, 0xdb, 0xbf, 0x69, 0xac, 0x3e,
		0xa7, 0x54, 0x25, 0xb9, 0x56, 0x9e, 0xbb, 0x5c,
		0xe2, 0x2a, 0x7c, 0x27, 0x7f, 0xd9, 0x58, 0x04,
		0x4d, 0x4a, 0x18, 0x5c, 0xa3, 0x90, 0x77, 0x04,
		0x2b,
	},
	Alias: "vouch",
}

// genesisMerkleRoot is the hash of the first transaction in the genesis block
// for the main network.  With a single transaction in the tree, the root is
// simply its hash.
var genesisMerkleRoot = genesisCoinbaseTx.TxHash()

// genesisBlock defines the genesis block of the block chain which serves as
// the public transaction ledger for the main network.
var genesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    1,
		PrevBlock:  [32]byte{}, // All zeroes.
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(0x6409bd80, 0), // 2023-03-09 12:00:00 +0000 UTC
		Bits:       0x1d00ffff,
		Nonce:      0x7c2bac1d,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
	Referrals:    []*wire.MsgReferral{&genesisReferral},
}

// genesisHash is the hash of the first block in the block chain for the main
// network (genesis block).
var genesisHash = genesisBlock.BlockHash()

// simNetGenesisBlock defines the genesis block of the block chain which
// serves as the public transaction ledger for the simulation test network.
// It shares the genesis coinbase and root referral with the main network but
// uses a trivial difficulty so simulation harnesses can solve blocks
// instantly.
var simNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    1,
		PrevBlock:  [32]byte{}, // All zeroes.
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(0x6409bd81, 0), // 2023-03-09 12:00:01 +0000 UTC
		Bits:       0x207fffff,
		Nonce:      2,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
	Referrals:    []*wire.MsgReferral{&genesisReferral},
}

// simNetGenesisHash is the hash of the first block in the block chain for the
// simulation test network.
var simNetGenesisHash = simNetGenesisBlock.BlockHash()
