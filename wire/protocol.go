// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
)

const (
	// ProtocolVersion is the latest protocol version this package supports.
	ProtocolVersion uint32 = 70020

	// ReferralEncodingVersion is the earliest protocol version which
	// carries referral vectors inside block messages.  Every protocol
	// version this package speaks includes them.
	ReferralEncodingVersion uint32 = 70001

	// MaxMessagePayload is the maximum bytes a message can be regardless
	// of other individual limits imposed by messages themselves.
	MaxMessagePayload = (1024 * 1024 * 32) // 32MB
)

// MessageEncoding represents the wire message encoding format to be used.
type MessageEncoding uint32

const (
	// BaseEncoding encodes all messages in the default format specified
	// for the vouch wire protocol.
	BaseEncoding MessageEncoding = 1 << iota

	// WitnessEncoding encodes all messages other than transaction messages
	// using the default vouch wire protocol specification.  For transaction
	// messages, the new encoding format detailed in BIP0144 will be used.
	WitnessEncoding
)

// LatestEncoding is the most recently specified encoding for the vouch wire
// protocol.
var LatestEncoding = WitnessEncoding

// VouchNet represents which vouch network a message belongs to.
type VouchNet uint32

// Constants used to indicate the message vouch network.  They can also be
// used to seek to the next message when a stream's state is unknown, but
// this package does not provide that functionality since it's generally a
// better idea to simply disconnect clients that are misbehaving over TCP.
const (
	// MainNet represents the main vouch network.
	MainNet VouchNet = 0xd1c5aef0

	// SimNet represents the simulation test network.
	SimNet VouchNet = 0x12141c16
)

// bnStrings is a map of vouch networks back to their constant names for
// pretty printing.
var bnStrings = map[VouchNet]string{
	MainNet: "MainNet",
	SimNet:  "SimNet",
}

// String returns the VouchNet in human-readable form.
func (n VouchNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown VouchNet (%d)", uint32(n))
}
