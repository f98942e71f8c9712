// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/vutil"
)

// testAddr returns a pay-to-pubkey-hash address derived from the passed byte.
func testAddr(t *testing.T, b byte) vutil.Address {
	t.Helper()

	pkHash := make([]byte, 20)
	for i := range pkHash {
		pkHash[i] = b
	}
	addr, err := vutil.NewAddressPubKeyHash(pkHash, &chaincfg.MainNetParams)
	require.NoError(t, err)
	return addr
}

// TestDefaultAddrSource ensures the in-memory address source tracks
// membership and only hands out addresses it holds.
func TestDefaultAddrSource(t *testing.T) {
	addr1 := testAddr(t, 0x01)
	addr2 := testAddr(t, 0x02)

	// An empty source has no address to offer.
	empty := NewDefaultAddrSource(nil)
	require.Nil(t, empty.NextAddr())
	require.Equal(t, 0, empty.NumAddrs())

	// Duplicates in the initial set are dropped.
	source := NewDefaultAddrSource([]vutil.Address{addr1, addr2, addr1})
	require.Equal(t, 2, source.NumAddrs())

	encoded := source.ListEncodedAddrs()
	require.ElementsMatch(t, []string{addr1.EncodeAddress(),
		addr2.EncodeAddress()}, encoded)

	for i := 0; i < 10; i++ {
		next := source.NextAddr()
		require.Contains(t, encoded, next.EncodeAddress())
	}

	require.Error(t, source.AddAddr(addr2))
	require.NoError(t, source.RemoveAddr(addr1))
	require.Equal(t, 1, source.NumAddrs())
	require.Error(t, source.RemoveAddr(addr1))
	require.Equal(t, addr2.EncodeAddress(),
		source.NextAddr().EncodeAddress())
}
