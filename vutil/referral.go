// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vutil

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/vouchnet/vouchd/wire"
)

// RefIndexUnknown is the value returned for a referral index that is unknown.
// This is typically because the referral has not been included in a block
// yet.
const RefIndexUnknown = -1

// Referral defines a vouch referral that provides easier and more efficient
// manipulation of raw referrals.  It also memoizes the hash for the referral
// on its first access so subsequent accesses don't have to repeat the
// relatively expensive hashing operations.
type Referral struct {
	msgReferral *wire.MsgReferral // Underlying MsgReferral
	refHash     *chainhash.Hash   // Cached referral hash
	refIndex    int               // Position within a block or RefIndexUnknown
}

// MsgReferral returns the underlying wire.MsgReferral for the referral.
func (r *Referral) MsgReferral() *wire.MsgReferral {
	// Return the cached referral.
	return r.msgReferral
}

// Hash returns the hash of the referral.  This is equivalent to calling
// RefHash on the underlying wire.MsgReferral, however it caches the result so
// subsequent calls are more efficient.
func (r *Referral) Hash() *chainhash.Hash {
	// Return the cached hash if it has already been generated.
	if r.refHash != nil {
		return r.refHash
	}

	// Cache the hash and return it.
	hash := r.msgReferral.RefHash()
	r.refHash = &hash
	return &hash
}

// AddressID returns the identifier of the address the referral vouches for.
func (r *Referral) AddressID() wire.AddressID {
	return r.msgReferral.AddressID
}

// Index returns the saved index of the referral within a block.  This value
// will be RefIndexUnknown if it hasn't already explicitly been set.
func (r *Referral) Index() int {
	return r.refIndex
}

// SetIndex sets the index of the referral in within a block.
func (r *Referral) SetIndex(index int) {
	r.refIndex = index
}

// NewReferral returns a new instance of a vouch referral given an underlying
// wire.MsgReferral.  See Referral.
func NewReferral(msgReferral *wire.MsgReferral) *Referral {
	return &Referral{
		msgReferral: msgReferral,
		refIndex:    RefIndexUnknown,
	}
}

// NewReferralFromBytes returns a new instance of a vouch referral given the
// serialized bytes.  See Referral.
func NewReferralFromBytes(serializedRef []byte) (*Referral, error) {
	br := bytes.NewReader(serializedRef)
	return NewReferralFromReader(br)
}

// NewReferralFromReader returns a new instance of a vouch referral given a
// Reader to deserialize the referral.  See Referral.
func NewReferralFromReader(r io.Reader) (*Referral, error) {
	// Deserialize the bytes into a MsgReferral.
	var msgReferral wire.MsgReferral
	err := msgReferral.Deserialize(r)
	if err != nil {
		return nil, err
	}

	ref := Referral{
		msgReferral: &msgReferral,
		refIndex:    RefIndexUnknown,
	}
	return &ref, nil
}
