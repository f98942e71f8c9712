// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// ReferralVersion is the current latest supported referral version.
	ReferralVersion = 1

	// AddressIDSize is the number of bytes in an address identifier.
	AddressIDSize = 20

	// MaxAliasLength is the maximum number of bytes a referral alias can
	// be.  Aliases are optional and empty aliases are valid.
	MaxAliasLength = 32

	// ReferralPubKeyLen is the required length of the public key in a
	// referral.  Only compressed secp256k1 public keys are valid on the
	// wire.
	ReferralPubKeyLen = 33

	// MaxReferralSignatureLen is the maximum length of the signature in a
	// referral.  DER-encoded ECDSA signatures are at most 72 bytes.  Root
	// referrals, which vouch for themselves, carry no signature at all.
	MaxReferralSignatureLen = 72

	// minReferralPayload is the minimum payload size for a referral.
	// Version 4 bytes + PrevReferral 32 bytes + AddressID 20 bytes +
	// Varint plus key bytes for the public key + Varint for an empty
	// signature + Varint for an empty alias.
	minReferralPayload = 4 + chainhash.HashSize + AddressIDSize +
		1 + ReferralPubKeyLen + 1 + 1
)

// AddressID uniquely identifies an address eligible to be vouched for.  It is
// the RIPEMD160 hash of the SHA256 hash of either a serialized public key or
// a redeem script, matching the payload of the address encodings used by the
// vutil package.
type AddressID [AddressIDSize]byte

// String returns the AddressID as the hexadecimal string of the raw bytes.
func (id AddressID) String() string {
	return hex.EncodeToString(id[:])
}

// NewAddressID returns a new AddressID from the provided byte slice.  An
// error is returned if the slice is not exactly AddressIDSize bytes.
func NewAddressID(b []byte) (*AddressID, error) {
	if len(b) != AddressIDSize {
		return nil, messageError("NewAddressID", fmt.Sprintf(
			"invalid address id length of %d, want %d", len(b),
			AddressIDSize))
	}

	var id AddressID
	copy(id[:], b)
	return &id, nil
}

// MsgReferral implements the Message interface and represents a vouch
// referral message.  A referral vouches for a single address, identified by
// its AddressID, and names the referral that vouches for the referrer via
// PrevReferral.  A referral whose PrevReferral is the zero hash is a root
// referral and vouches for itself.
//
// Outputs paying an address are only valid in a block once a referral for
// that address has been confirmed in the same block or a previous one.
type MsgReferral struct {
	Version      int32
	PrevReferral chainhash.Hash
	AddressID    AddressID
	PubKey       []byte
	Signature    []byte
	Alias        string
}

// RefHash generates the hash of the referral.  The hash covers the full
// serialization and uniquely identifies the referral.
func (msg *MsgReferral) RefHash() chainhash.Hash {
	// Serialize the referral and calculate double sha256 on the result.
	// Ignore the error returns since the only way the encode could fail
	// is being out of memory which would cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// BtcDecode decodes r using the vouch protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgReferral) BtcDecode(r io.Reader, pver uint32) error {
	err := readElements(r, &msg.Version, &msg.PrevReferral, &msg.AddressID)
	if err != nil {
		return err
	}

	msg.PubKey, err = ReadVarBytes(r, pver, ReferralPubKeyLen,
		"referral public key")
	if err != nil {
		return err
	}
	if len(msg.PubKey) != ReferralPubKeyLen {
		str := fmt.Sprintf("invalid public key length of %d, want %d",
			len(msg.PubKey), ReferralPubKeyLen)
		return messageError("MsgReferral.BtcDecode", str)
	}

	msg.Signature, err = ReadVarBytes(r, pver, MaxReferralSignatureLen,
		"referral signature")
	if err != nil {
		return err
	}

	alias, err := ReadVarString(r, pver)
	if err != nil {
		return err
	}
	if len(alias) > MaxAliasLength {
		str := fmt.Sprintf("alias too long [len %d, max %d]",
			len(alias), MaxAliasLength)
		return messageError("MsgReferral.BtcDecode", str)
	}
	msg.Alias = alias

	return nil
}

// BtcEncode encodes the receiver to w using the vouch protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgReferral) BtcEncode(w io.Writer, pver uint32) error {
	err := writeElements(w, msg.Version, &msg.PrevReferral, &msg.AddressID)
	if err != nil {
		return err
	}

	err = WriteVarBytes(w, pver, msg.PubKey)
	if err != nil {
		return err
	}

	err = WriteVarBytes(w, pver, msg.Signature)
	if err != nil {
		return err
	}

	return WriteVarString(w, pver, msg.Alias)
}

// Deserialize decodes a referral from r into the receiver using a format that
// is suitable for long-term storage such as a database.
func (msg *MsgReferral) Deserialize(r io.Reader) error {
	// At the current time, there is no difference between the wire encoding
	// at protocol version 0 and the stable long-term storage format.  As
	// a result, make use of BtcDecode.
	return msg.BtcDecode(r, 0)
}

// Serialize encodes the referral to w using a format that is suitable for
// long-term storage such as a database.
func (msg *MsgReferral) Serialize(w io.Writer) error {
	// At the current time, there is no difference between the wire encoding
	// at protocol version 0 and the stable long-term storage format.  As
	// a result, make use of BtcEncode.
	return msg.BtcEncode(w, 0)
}

// SerializeSize returns the number of bytes it would take to serialize the
// referral.
func (msg *MsgReferral) SerializeSize() int {
	// Version 4 bytes + PrevReferral 32 bytes + AddressID 20 bytes.
	n := 4 + chainhash.HashSize + AddressIDSize

	n += VarIntSerializeSize(uint64(len(msg.PubKey))) + len(msg.PubKey)
	n += VarIntSerializeSize(uint64(len(msg.Signature))) + len(msg.Signature)
	n += VarIntSerializeSize(uint64(len(msg.Alias))) + len(msg.Alias)

	return n
}

// IsRoot returns whether the referral is a root referral.  Root referrals
// vouch for themselves and carry a zero PrevReferral.  They are only valid
// in a genesis block.
func (msg *MsgReferral) IsRoot() bool {
	var zeroHash chainhash.Hash
	return msg.PrevReferral.IsEqual(&zeroHash)
}

// Copy creates a deep copy of a referral so that the original does not get
// modified when the copy is manipulated.
func (msg *MsgReferral) Copy() *MsgReferral {
	newRef := MsgReferral{
		Version:      msg.Version,
		PrevReferral: msg.PrevReferral,
		AddressID:    msg.AddressID,
		Alias:        msg.Alias,
	}

	if len(msg.PubKey) > 0 {
		newRef.PubKey = make([]byte, len(msg.PubKey))
		copy(newRef.PubKey, msg.PubKey)
	}

	if len(msg.Signature) > 0 {
		newRef.Signature = make([]byte, len(msg.Signature))
		copy(newRef.Signature, msg.Signature)
	}

	return &newRef
}

// NewMsgReferral returns a new vouch referral message that conforms to the
// Message interface.
func NewMsgReferral(version int32) *MsgReferral {
	return &MsgReferral{
		Version: version,
	}
}
