// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the vouch wire protocol primitives.

This package provides the low-level serialized types that make up vouch
blocks: transactions, referrals, block headers, and blocks themselves,
along with the variable length integer and byte sequence encodings they
are built from.

At a high level, every type provides Serialize and Deserialize functions
which operate on streams using a stable long-term storage format, and
BtcEncode and BtcDecode functions which honor a protocol version and a
message encoding (with or without transaction witness data).

# Determinism

All encodings in this package are canonical.  A value serialized twice
produces identical bytes, and hashes derived from serializations
(transaction, referral, and block hashes) are therefore stable across
processes and platforms.

# Errors

Errors returned by this package are either the raw underlying read or
write error, or of type MessageError for violations of the protocol
encoding itself, such as non-canonical variable length integers and
out-of-range collection sizes.
*/
package wire
