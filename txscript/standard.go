// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

const (
	// MaxDataCarrierSize is the maximum number of bytes allowed in pushed
	// data to be considered a nulldata transaction.
	MaxDataCarrierSize = 80
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment known about in the blockchain.
const (
	NonStandardTy ScriptClass = iota // None of the recognized forms.
	PubKeyHashTy                     // Pay pubkey hash.
	ScriptHashTy                     // Pay to script hash.
	NullDataTy                       // Empty data-only (provably prunable).
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy: "nonstandard",
	PubKeyHashTy:  "pubkeyhash",
	ScriptHashTy:  "scripthash",
	NullDataTy:    "nulldata",
}

// String implements the Stringer interface by returning the name of
// the enum script class. If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) > len(scriptClassToName) || int(t) < 0 {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// extractPubKeyHash extracts the public key hash from the passed script if it
// is a standard pay-to-pubkey-hash script.  It will return nil otherwise.
func extractPubKeyHash(script []byte) []byte {
	// A pay-to-pubkey-hash script is of the form:
	//  OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG
	if len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG {

		return script[3:23]
	}

	return nil
}

// extractScriptHash extracts the script hash from the passed script if it is a
// standard pay-to-script-hash script.  It will return nil otherwise.
func extractScriptHash(script []byte) []byte {
	// A pay-to-script-hash script is of the form:
	//  OP_HASH160 <20-byte scripthash> OP_EQUAL
	if len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL {

		return script[1+1 : 22]
	}

	return nil
}

// isNullDataScript returns whether or not the passed script is a standard
// null data script.
//
// A null data script is one that is of the form OP_RETURN followed by at most
// MaxDataCarrierSize bytes pushed via a single canonical data push.
func isNullDataScript(script []byte) bool {
	// The script can't possibly be a null data script if it doesn't start
	// with OP_RETURN.  Fail fast to avoid more work below.
	if len(script) < 1 || script[0] != OP_RETURN {
		return false
	}

	// Single OP_RETURN.
	if len(script) == 1 {
		return true
	}

	// OP_RETURN followed by a single one-byte push such as a small
	// integer.
	op := script[1]
	if len(script) == 2 &&
		(op == OP_0 || op == OP_1NEGATE ||
			(op >= OP_1 && op <= OP_16)) {

		return true
	}

	// OP_RETURN followed by a direct data push of up to 75 bytes.
	if op >= OP_DATA_1 && op <= OP_DATA_75 {
		return len(script) == 2+int(op)
	}

	// OP_RETURN followed by an OP_PUSHDATA1 data push up to the data
	// carrier limit.  Larger pushes are nonstandard.
	if op == OP_PUSHDATA1 {
		return len(script) >= 3 &&
			int(script[2]) <= MaxDataCarrierSize &&
			len(script) == 3+int(script[2])
	}

	return false
}

// typeOfScript returns the type of the script being inspected from the known
// standard types.
func typeOfScript(script []byte) ScriptClass {
	switch {
	case extractPubKeyHash(script) != nil:
		return PubKeyHashTy
	case extractScriptHash(script) != nil:
		return ScriptHashTy
	case isNullDataScript(script):
		return NullDataTy
	}

	return NonStandardTy
}

// GetScriptClass returns the class of the script passed.
//
// NonStandardTy will be returned when the script does not parse as one of the
// recognized forms.
func GetScriptClass(script []byte) ScriptClass {
	return typeOfScript(script)
}

// ExtractAddressID returns the address identifier the passed public key script
// pays to along with whether the script pays to one at all.
//
// Only the standard pay-to-pubkey-hash and pay-to-script-hash forms name an
// address identifier.  Every other script shape, including provably
// unspendable null data outputs, carries no identifier, so outputs using those
// shapes never require a referral.
func ExtractAddressID(pkScript []byte) (wire.AddressID, bool) {
	if hash := extractPubKeyHash(pkScript); hash != nil {
		var id wire.AddressID
		copy(id[:], hash)
		return id, true
	}

	if hash := extractScriptHash(pkScript); hash != nil {
		var id wire.AddressID
		copy(id[:], hash)
		return id, true
	}

	return wire.AddressID{}, false
}

// payToPubKeyHashScript creates a new script to pay a transaction
// output to a 20-byte pubkey hash. It is expected that the input is a valid
// hash.
func payToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).
		Script()
}

// payToScriptHashScript creates a new script to pay a transaction output to a
// script hash. It is expected that the input is a valid hash.
func payToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_HASH160).AddData(scriptHash).
		AddOp(OP_EQUAL).Script()
}

// PayToAddrScript creates a new script to pay a transaction output to a the
// specified address.
func PayToAddrScript(addr vutil.Address) ([]byte, error) {
	const nilAddrErrStr = "unable to generate payment script for nil address"

	switch addr := addr.(type) {
	case *vutil.AddressPubKeyHash:
		if addr == nil {
			return nil, scriptError(ErrUnsupportedAddress,
				nilAddrErrStr)
		}
		return payToPubKeyHashScript(addr.ScriptAddress())

	case *vutil.AddressScriptHash:
		if addr == nil {
			return nil, scriptError(ErrUnsupportedAddress,
				nilAddrErrStr)
		}
		return payToScriptHashScript(addr.ScriptAddress())
	}

	str := fmt.Sprintf("unable to generate payment script for unsupported "+
		"address type %T", addr)
	return nil, scriptError(ErrUnsupportedAddress, str)
}

// NullDataScript creates a provably-prunable script containing OP_RETURN
// followed by the passed data.  An Error with the error code ErrTooMuchNullData
// will be returned if the length of the passed data exceeds MaxDataCarrierSize.
func NullDataScript(data []byte) ([]byte, error) {
	if len(data) > MaxDataCarrierSize {
		str := fmt.Sprintf("data size %d is larger than max "+
			"allowed size %d", len(data), MaxDataCarrierSize)
		return nil, scriptError(ErrTooMuchNullData, str)
	}

	return NewScriptBuilder().AddOp(OP_RETURN).AddData(data).Script()
}
