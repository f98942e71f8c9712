// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"fmt"
)

// ErrorCode identifies a kind of transaction pool rule violation.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicate indicates a transaction with the same hash already
	// exists in the pool.
	ErrDuplicate ErrorCode = iota

	// ErrCoinbase indicates the transaction is a coinbase.  Coinbase
	// transactions are only valid inside blocks and are never accepted
	// into the pool.
	ErrCoinbase

	// ErrTxVersion indicates the transaction version is outside the range
	// the pool accepts.
	ErrTxVersion

	// ErrDoubleSpend indicates the transaction spends an outpoint that is
	// already spent by another transaction in the pool.
	ErrDoubleSpend

	// ErrOutOfOrder indicates an output of the transaction is already
	// spent by a transaction in the pool, which means a descendant was
	// accepted before the transaction itself.
	ErrOutOfOrder

	// ErrInsufficientFee indicates the transaction fee is below the
	// minimum relay fee for its serialized size.
	ErrInsufficientFee

	// ErrAncestorLimit indicates accepting the transaction would give it
	// more unconfirmed ancestors than the pool allows.
	ErrAncestorLimit

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicate:       "ErrDuplicate",
	ErrCoinbase:        "ErrCoinbase",
	ErrTxVersion:       "ErrTxVersion",
	ErrDoubleSpend:     "ErrDoubleSpend",
	ErrOutOfOrder:      "ErrOutOfOrder",
	ErrInsufficientFee: "ErrInsufficientFee",
	ErrAncestorLimit:   "ErrAncestorLimit",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a transaction failed due to one of the pool acceptance rules.
// The caller can use type assertions to determine if a failure was
// specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a rule error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	rerr, ok := err.(RuleError)
	return ok && rerr.ErrorCode == c
}
