// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package vutil provides vouch-specific convenience functions and types.

# Block Overview

A Block defines a vouch block that provides easier and more efficient
manipulation of raw blocks.  It also memoizes hashes for the block and its
transactions and referrals on their first access so subsequent accesses don't
have to repeat the relatively expensive hashing operations.

# Tx Overview

A Tx defines a vouch transaction that provides more efficient manipulation of
raw transactions.  It memoizes the hash for the transaction on its first
access so subsequent accesses don't have to repeat the relatively expensive
hashing operations.

# Referral Overview

A Referral defines a vouch referral with the same memoization properties as
Tx.

# Address Overview

The Address interface provides an abstraction for a vouch address.  While the
most common type is a pay-to-pubkey-hash address, there is also support for
pay-to-script-hash addresses.
*/
package vutil
