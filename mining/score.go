// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"math/bits"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/vutil"
)

// CompareAncestorFeeRate compares the package fee rate feeA/sizeA against the
// package fee rate feeB/sizeB and returns -1, 0, or 1 when the first rate is
// less than, equal to, or greater than the second.
//
// The rates are compared by cross multiplying the fees and sizes into 128-bit
// products instead of dividing, so the result is exact for every representable
// fee and size.  Two rates compare equal only when they are equal as rational
// numbers.  Both fees must be non-negative and both sizes must be positive.
func CompareAncestorFeeRate(feeA vutil.Amount, sizeA int64, feeB vutil.Amount,
	sizeB int64) int {

	// feeA/sizeA < feeB/sizeB <=> feeA*sizeB < feeB*sizeA.
	hiA, loA := bits.Mul64(uint64(feeA), uint64(sizeB))
	hiB, loB := bits.Mul64(uint64(feeB), uint64(sizeA))
	switch {
	case hiA < hiB, hiA == hiB && loA < loB:
		return -1
	case hiA == hiB && loA == loB:
		return 0
	default:
		return 1
	}
}

// TxScoreLess returns whether the transaction with package fee rate
// feeA/sizeA and hash hashA ranks strictly below the transaction with package
// fee rate feeB/sizeB and hash hashB in mining score order.  A higher package
// fee rate ranks higher.  Transactions with equal rates rank by hash, with the
// lexicographically smaller raw bytes ranking higher.
//
// The ordering is total for distinct transactions, so any two candidate sets
// built from the same pool state select transactions in the same order.
func TxScoreLess(feeA vutil.Amount, sizeA int64, hashA *chainhash.Hash,
	feeB vutil.Amount, sizeB int64, hashB *chainhash.Hash) bool {

	switch CompareAncestorFeeRate(feeA, sizeA, feeB, sizeB) {
	case -1:
		return true
	case 1:
		return false
	}

	return bytes.Compare(hashA[:], hashB[:]) > 0
}
