// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
)

// MaxPubKeysPerMultiSig is the maximum number of public keys a multisig
// operation can involve, which is also the number of signature operations
// counted for a multisig operation whose key count is not known statically.
const MaxPubKeysPerMultiSig = 20

// GetSigOpCount provides a quick count of the number of signature operations
// in a script.  A CHECKSIG operation counts for 1, and a CHECKMULTISIG for
// MaxPubKeysPerMultiSig.  If the script fails to parse, then the count up to
// the point of failure is returned.
func GetSigOpCount(script []byte) int {
	numSigOps := 0
	for i := 0; i < len(script); {
		op := script[i]
		i++

		switch {
		case op <= OP_DATA_75:
			// The opcode value is the number of bytes pushed.
			i += int(op)
		case op == OP_PUSHDATA1:
			if i >= len(script) {
				return numSigOps
			}
			i += 1 + int(script[i])
		case op == OP_PUSHDATA2:
			if i+1 >= len(script) {
				return numSigOps
			}
			i += 2 + int(binary.LittleEndian.Uint16(script[i:]))
		case op == OP_PUSHDATA4:
			if i+3 >= len(script) {
				return numSigOps
			}
			i += 4 + int(binary.LittleEndian.Uint32(script[i:]))
		case op == OP_CHECKSIG, op == OP_CHECKSIGVERIFY:
			numSigOps++
		case op == OP_CHECKMULTISIG, op == OP_CHECKMULTISIGVERIFY:
			numSigOps += MaxPubKeysPerMultiSig
		}
	}

	return numSigOps
}
