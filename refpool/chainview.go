// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refpool

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
	"github.com/vouchnet/vouchd/wire"
)

// defaultVouchCacheSize is the default number of vouched addresses a cached
// view remembers.
const defaultVouchCacheSize = 10000

// ChainView provides access to the referral state of the chain the pool is
// associated with.  The view is owned by whichever component owns the chain.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type ChainView interface {
	// VouchedOnChain returns whether or not a referral for the passed
	// address has been confirmed on the chain.
	VouchedOnChain(addr wire.AddressID) bool

	// HaveReferralOnChain returns whether or not the referral with the
	// passed hash has been confirmed on the chain.
	HaveReferralOnChain(hash *chainhash.Hash) bool
}

// CachedView wraps a chain view with a cache of addresses known to be
// vouched for.  Only positive answers are cached since a confirmed referral
// stays confirmed, while a missing one can arrive with any block.  Referral
// hash lookups pass through uncached as they only run once per accepted
// referral.
type CachedView struct {
	view  ChainView
	cache lru.Cache
}

// Ensure the CachedView type implements the ChainView interface.
var _ ChainView = (*CachedView)(nil)

// NewCachedView returns a view backed by the passed chain view that
// remembers up to cacheSize vouched addresses.
func NewCachedView(view ChainView, cacheSize uint) *CachedView {
	if cacheSize == 0 {
		cacheSize = defaultVouchCacheSize
	}
	return &CachedView{
		view:  view,
		cache: lru.NewCache(cacheSize),
	}
}

// VouchedOnChain returns whether or not a referral for the passed address
// has been confirmed on the chain.
//
// This function is safe for concurrent access.
func (v *CachedView) VouchedOnChain(addr wire.AddressID) bool {
	if v.cache.Contains(addr) {
		return true
	}

	if v.view.VouchedOnChain(addr) {
		v.cache.Add(addr)
		return true
	}

	return false
}

// HaveReferralOnChain returns whether or not the referral with the passed
// hash has been confirmed on the chain.
//
// This function is safe for concurrent access.
func (v *CachedView) HaveReferralOnChain(hash *chainhash.Hash) bool {
	return v.view.HaveReferralOnChain(hash)
}
