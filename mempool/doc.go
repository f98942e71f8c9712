// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mempool provides a policy-enforced pool of unmined transactions.

A key responsibility of the vouch network is mining transactions into blocks.
In order to facilitate this, the mining process relies on having a readily
available source of transactions to include in a block that is being solved.
At a high level, this package satisfies that requirement by providing an
in-memory pool of fully validated transactions that also maintains the
ancestor package bookkeeping block assembly is driven by.

The pool deliberately does not resolve inputs or execute scripts.  Input
resolution and script validation depend on chain state owned by the node, so
transactions reach the pool already validated, together with their fee and
signature operation cost.  What the pool enforces is everything it can verify
on its own:

  - Reject duplicate transactions
  - Reject transactions that fail the context-free sanity checks
  - Reject standalone coinbase transactions
  - Reject transaction versions beyond the policy maximum on networks that
    forbid the relay of non-standard transactions
  - Reject double spends of outpoints consumed by the pool
  - Reject transactions accepted out of dependency order
  - Reject transactions paying less than the minimum relay fee for their
    serialized size
  - Reject transactions whose unconfirmed ancestor package would grow beyond
    the policy limit

For every entry the pool tracks the transaction itself along with aggregates
covering the entry plus all of its unconfirmed ancestors: total fee, total
serialized size, total signature operation cost, package count, and the
number of distinct output addresses across the package that still require a
referral.  Entries are additionally indexed by ancestor fee rate score so the
pool can serve as a mining.TxSource, handing the block assembler candidate
transactions in best-first order.

# Errors

Errors returned by this package are either the open set of errors forwarded
from the blockchain package sanity checks or a RuleError.  The caller can use
IsErrorCode with a RuleError to determine the specific acceptance rule that
was violated.
*/
package mempool
