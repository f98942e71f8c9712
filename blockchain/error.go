// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
)

// ErrorCode identifies a kind of rule violation.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrNoTransactions indicates the block does not have at least one
	// transaction.  A valid block must have at least the coinbase
	// transaction.
	ErrNoTransactions ErrorCode = iota

	// ErrNoTxInputs indicates a transaction does not have any inputs.  A
	// valid transaction must have at least one input.
	ErrNoTxInputs

	// ErrNoTxOutputs indicates a transaction does not have any outputs.  A
	// valid transaction must have at least one output.
	ErrNoTxOutputs

	// ErrTxTooBig indicates a transaction exceeds the maximum allowed size
	// when serialized.
	ErrTxTooBig

	// ErrBadTxOutValue indicates an output value for a transaction is
	// invalid in some way such as being out of range.
	ErrBadTxOutValue

	// ErrDuplicateTxInputs indicates a transaction references the same
	// input more than once.
	ErrDuplicateTxInputs

	// ErrBadTxInput indicates a transaction input is invalid in some way
	// such as referencing a previous transaction outpoint which is out of
	// range or not referencing one at all.
	ErrBadTxInput

	// ErrBadCoinbaseScriptLen indicates the length of the signature script
	// for a coinbase transaction is not within the valid range.
	ErrBadCoinbaseScriptLen

	// ErrFirstTxNotCoinbase indicates the first transaction in a block
	// is not a coinbase transaction.
	ErrFirstTxNotCoinbase

	// ErrMissingCoinbaseCommitment indicates a block carries witness data
	// or referrals, but its coinbase has no commitment output.
	ErrMissingCoinbaseCommitment

	// ErrBadCoinbaseCommitment indicates the commitment in a block's
	// coinbase does not match the witness and referral merkle roots
	// computed from the block contents.
	ErrBadCoinbaseCommitment

	// ErrMultipleCoinbases indicates a block contains more than one
	// coinbase transaction.
	ErrMultipleCoinbases

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrNoTransactions:            "ErrNoTransactions",
	ErrNoTxInputs:                "ErrNoTxInputs",
	ErrNoTxOutputs:               "ErrNoTxOutputs",
	ErrTxTooBig:                  "ErrTxTooBig",
	ErrBadTxOutValue:             "ErrBadTxOutValue",
	ErrDuplicateTxInputs:         "ErrDuplicateTxInputs",
	ErrBadTxInput:                "ErrBadTxInput",
	ErrBadCoinbaseScriptLen:      "ErrBadCoinbaseScriptLen",
	ErrFirstTxNotCoinbase:        "ErrFirstTxNotCoinbase",
	ErrMissingCoinbaseCommitment: "ErrMissingCoinbaseCommitment",
	ErrBadCoinbaseCommitment:     "ErrBadCoinbaseCommitment",
	ErrMultipleCoinbases:         "ErrMultipleCoinbases",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a transaction or block failed due to one of the many
// validation rules.  The caller can use type assertions to determine if a
// failure was specifically due to a rule violation and access the ErrorCode
// field to ascertain the specific reason for the rule violation.
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
