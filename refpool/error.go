// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refpool

import (
	"fmt"
)

// ErrorCode identifies a kind of referral pool rule violation.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicate indicates a referral with the same hash already exists
	// in the pool.
	ErrDuplicate ErrorCode = iota

	// ErrDuplicateAddress indicates a pending referral for the same
	// address already exists in the pool.  The first referral received
	// for an address wins.
	ErrDuplicateAddress

	// ErrAlreadyVouched indicates the address the referral vouches for
	// has already been vouched for on chain.
	ErrAlreadyVouched

	// ErrRootReferral indicates the referral is a root referral.  Root
	// referrals vouch for themselves and are only valid in a genesis
	// block.
	ErrRootReferral

	// ErrRefVersion indicates the referral version is outside the range
	// the pool accepts.
	ErrRefVersion

	// ErrBadPubKey indicates the referral public key is not a compressed
	// secp256k1 public key.
	ErrBadPubKey

	// ErrBadSignature indicates the referral signature is missing or
	// longer than a DER-encoded ECDSA signature can be.
	ErrBadSignature

	// ErrBadAlias indicates the referral alias is longer than the pool
	// accepts.
	ErrBadAlias

	// ErrMissingParent indicates the referral vouching for the referrer
	// is neither confirmed on chain nor pending in the pool.
	ErrMissingParent

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicate:        "ErrDuplicate",
	ErrDuplicateAddress: "ErrDuplicateAddress",
	ErrAlreadyVouched:   "ErrAlreadyVouched",
	ErrRootReferral:     "ErrRootReferral",
	ErrRefVersion:       "ErrRefVersion",
	ErrBadPubKey:        "ErrBadPubKey",
	ErrBadSignature:     "ErrBadSignature",
	ErrBadAlias:         "ErrBadAlias",
	ErrMissingParent:    "ErrMissingParent",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a referral failed due to one of the pool acceptance rules.
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
