// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mining provides block template assembly.

Given read access to a transaction source and a referral source, the block
assembler greedily selects the highest ancestor-feerate transaction packages
that fit the configured weight, size, and signature operation budgets,
appends any pending referrals the remaining space allows, and emits a block
template ready for the proof-of-work search.  Every output paying a
previously unvouched address must be covered by a referral that is either
already recorded on chain or included in the same template.

Template assembly is deterministic: two passes over the same source
snapshots produce identical templates.  The caller is responsible for
holding whatever lock keeps the snapshots stable for the duration of a
pass.
*/
package mining
