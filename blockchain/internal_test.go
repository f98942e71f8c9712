// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
This test file is part of the blockchain package rather than than the
blockchain_test package so it can bridge access to the internals to properly
test cases which are either not possible or can't reliably be tested via the
public interface.  The functions are only exported while the tests are being
run.
*/

package blockchain

// TstSetMaxMedianTimeEntries makes the ability to set the maximum number of
// median time entries available when running tests.
func TstSetMaxMedianTimeEntries(val int) {
	maxMedianTimeEntries = val
}
