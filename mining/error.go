// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
)

// ErrorCode identifies a kind of assembler configuration error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrBlockWeightTooSmall indicates the configured maximum block weight
	// is too small to hold even a coinbase transaction.
	ErrBlockWeightTooSmall ErrorCode = iota

	// ErrBlockSizeTooSmall indicates the configured maximum block
	// serialized size is too small to hold even a coinbase transaction.
	ErrBlockSizeTooSmall

	// ErrTxSizeLimitTooSmall indicates the configured maximum aggregate
	// transaction size is too small to hold even a coinbase transaction.
	ErrTxSizeLimitTooSmall

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrBlockWeightTooSmall: "ErrBlockWeightTooSmall",
	ErrBlockSizeTooSmall:   "ErrBlockSizeTooSmall",
	ErrTxSizeLimitTooSmall: "ErrTxSizeLimitTooSmall",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies an assembler configuration error.  The caller can use type
// assertions to access the ErrorCode field and ascertain the specific reason
// the configuration was rejected.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// miningError creates an Error given a set of arguments.
func miningError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a mining error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	merr, ok := err.(Error)
	return ok && merr.ErrorCode == c
}
