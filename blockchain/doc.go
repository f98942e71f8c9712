// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockchain provides the consensus arithmetic the block template
builder relies on.

It intentionally does not manage chain state.  Chain storage, connection and
reorganization are owned by external components which hand the template
builder a BestState snapshot describing the tip to build on.  What lives
here are the pure rules shared by template construction and by anything
validating a template:

  - Block and transaction weight accounting.
  - Merkle roots over transactions, witnesses and referrals.
  - The coinbase commitment binding the witness and referral trees.
  - Transaction sanity and finalization rules.
  - Compact difficulty bits arithmetic.
  - Network-adjusted (median) time tracking.

# Errors

Errors returned by the validation functions in this package are of type
RuleError which wraps an ErrorCode identifying the violated rule.
*/
package blockchain
