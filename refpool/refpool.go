// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package refpool provides a pool of pending referrals together with a view
// of the addresses already vouched for on chain.
//
// Referrals reach the pool with their signatures already validated, the same
// way transactions reach the mempool.  The pool enforces the acceptance
// rules it can verify on its own (shape, duplicates, displaced addresses and
// parent linkage) and serves as a mining.ReferralSource, handing the block
// assembler the pending referrals the transactions it selects depend on.
package refpool

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vouchnet/vouchd/mining"
	"github.com/vouchnet/vouchd/vutil"
	"github.com/vouchnet/vouchd/wire"
)

// Config is a descriptor containing the referral pool configuration.
type Config struct {
	// ChainView provides access to the referral state of the chain the
	// pool is associated with.
	ChainView ChainView

	// MaxAliasLength is the longest alias in bytes the pool accepts.  The
	// wire maximum is used when the value is not positive.
	MaxAliasLength int
}

// RefPool is used as a source of pending referrals that need to be mined
// into blocks.  A single pending referral is tracked per address: the first
// referral received for an address wins and later ones are rejected until it
// is removed or displaced.  It is safe for concurrent access from multiple
// peers.
type RefPool struct {
	// The following variables must only be used atomically.
	lastUpdated int64 // last time pool was updated

	mtx    sync.RWMutex
	cfg    Config
	pool   map[wire.AddressID]*mining.RefDesc
	hashes map[chainhash.Hash]*mining.RefDesc
}

// Ensure the RefPool type implements the mining.ReferralSource interface.
var _ mining.ReferralSource = (*RefPool)(nil)

// haveReferral returns whether or not a pending referral with the passed
// hash exists in the pool.
//
// This function MUST be called with the pool lock held (for reads).
func (rp *RefPool) haveReferral(hash *chainhash.Hash) bool {
	_, exists := rp.hashes[*hash]
	return exists
}

// maybeAcceptReferral is the internal function which implements the public
// ProcessReferral.  See the comment for ProcessReferral for more details.
//
// This function MUST be called with the pool lock held (for writes).
func (rp *RefPool) maybeAcceptReferral(ref *vutil.Referral, height int32) (*mining.RefDesc, error) {
	refHash := ref.Hash()

	// Don't accept the referral if it already exists in the pool.
	if rp.haveReferral(refHash) {
		str := fmt.Sprintf("already have referral %v", refHash)
		return nil, ruleError(ErrDuplicate, str)
	}

	msgRef := ref.MsgReferral()

	// Don't accept referrals with a version outside the supported range.
	if msgRef.Version < 1 || msgRef.Version > wire.ReferralVersion {
		str := fmt.Sprintf("referral version %d is not in the valid "+
			"range of %d-%d", msgRef.Version, 1, wire.ReferralVersion)
		return nil, ruleError(ErrRefVersion, str)
	}

	// A standalone referral must not be a root referral.  Root referrals
	// vouch for themselves and are only valid in a genesis block.
	if msgRef.IsRoot() {
		str := fmt.Sprintf("referral %v is a root referral", refHash)
		return nil, ruleError(ErrRootReferral, str)
	}

	// The public key must be a compressed secp256k1 public key and the
	// signature must be present without exceeding the DER encoding
	// maximum.  Whether the signature actually verifies is established
	// before the referral reaches the pool.
	if len(msgRef.PubKey) != wire.ReferralPubKeyLen {
		str := fmt.Sprintf("referral public key length of %d is not "+
			"the required %d", len(msgRef.PubKey),
			wire.ReferralPubKeyLen)
		return nil, ruleError(ErrBadPubKey, str)
	}
	if len(msgRef.Signature) == 0 {
		return nil, ruleError(ErrBadSignature, "referral has no "+
			"signature")
	}
	if len(msgRef.Signature) > wire.MaxReferralSignatureLen {
		str := fmt.Sprintf("referral signature length of %d exceeds "+
			"the maximum of %d", len(msgRef.Signature),
			wire.MaxReferralSignatureLen)
		return nil, ruleError(ErrBadSignature, str)
	}
	if len(msgRef.Alias) > rp.cfg.MaxAliasLength {
		str := fmt.Sprintf("referral alias length of %d exceeds the "+
			"maximum of %d", len(msgRef.Alias), rp.cfg.MaxAliasLength)
		return nil, ruleError(ErrBadAlias, str)
	}

	// Only one pending referral is tracked per address.
	addr := ref.AddressID()
	if pending, exists := rp.pool[addr]; exists {
		str := fmt.Sprintf("a pending referral for address %v "+
			"already exists (%v)", addr, pending.Ref.Hash())
		return nil, ruleError(ErrDuplicateAddress, str)
	}

	// Don't accept referrals for addresses that have already been vouched
	// for on chain.
	if rp.cfg.ChainView.VouchedOnChain(addr) {
		str := fmt.Sprintf("address %v has already been vouched for",
			addr)
		return nil, ruleError(ErrAlreadyVouched, str)
	}

	// The referral vouching for the referrer must be known, either
	// confirmed on chain or pending in the pool.
	prev := &msgRef.PrevReferral
	if !rp.haveReferral(prev) && !rp.cfg.ChainView.HaveReferralOnChain(prev) {
		str := fmt.Sprintf("referral %v vouches via unknown referral "+
			"%v", refHash, prev)
		return nil, ruleError(ErrMissingParent, str)
	}

	desc := &mining.RefDesc{
		Ref:    ref,
		Added:  time.Now(),
		Height: height,
	}
	rp.pool[addr] = desc
	rp.hashes[*refHash] = desc
	atomic.StoreInt64(&rp.lastUpdated, time.Now().Unix())

	log.Debugf("Accepted referral %v for address %v (pool size: %v)",
		refHash, addr, len(rp.pool))

	return desc, nil
}

// ProcessReferral adds the passed referral to the pool.  The referral
// signature is validated before a referral reaches the pool, so only
// acceptance rules the pool can verify on its own are applied: the referral
// must be new, well formed and not a root referral, it must vouch for an
// address that has neither a pending referral nor a confirmed one, and the
// referral it vouches via must be confirmed on chain or pending in the pool.
//
// This function is safe for concurrent access.
func (rp *RefPool) ProcessReferral(ref *vutil.Referral, height int32) (*mining.RefDesc, error) {
	log.Tracef("Processing referral %v", ref.Hash())

	rp.mtx.Lock()
	defer rp.mtx.Unlock()

	return rp.maybeAcceptReferral(ref, height)
}

// removeReferral is the internal function which implements the public
// RemoveReferral.  See the comment for RemoveReferral for more details.
//
// This function MUST be called with the pool lock held (for writes).
func (rp *RefPool) removeReferral(desc *mining.RefDesc, removeDependents bool) {
	if removeDependents {
		// Remove any pending referrals that vouch via this one.
		refHash := desc.Ref.Hash()
		var dependents []*mining.RefDesc
		for _, pending := range rp.pool {
			if pending.Ref.MsgReferral().PrevReferral.IsEqual(refHash) {
				dependents = append(dependents, pending)
			}
		}
		for _, dependent := range dependents {
			rp.removeReferral(dependent, true)
		}
	}

	addr := desc.Ref.AddressID()
	if pending, exists := rp.pool[addr]; exists && pending == desc {
		delete(rp.pool, addr)
		delete(rp.hashes, *desc.Ref.Hash())
		atomic.StoreInt64(&rp.lastUpdated, time.Now().Unix())
	}
}

// RemoveReferral removes the passed referral from the pool.  When the
// removeDependents flag is set, any pending referrals that vouch via the
// removed referral are also removed recursively from the pool, as they can
// no longer be mined once their parent is gone.
//
// This function is safe for concurrent access.
func (rp *RefPool) RemoveReferral(ref *vutil.Referral, removeDependents bool) {
	rp.mtx.Lock()
	if desc, exists := rp.hashes[*ref.Hash()]; exists {
		rp.removeReferral(desc, removeDependents)
	}
	rp.mtx.Unlock()
}

// RemoveForBlock removes every pending referral displaced by the referrals
// mined into the passed block.  When the mined referral is the pending one
// its dependents stay, since the referral they vouch via is now confirmed.
// A different mined referral for the same address orphans the pending
// dependents, which are removed along with the pending referral they vouch
// via.
//
// This function is safe for concurrent access.
func (rp *RefPool) RemoveForBlock(refs []*vutil.Referral) {
	rp.mtx.Lock()
	for _, ref := range refs {
		desc, exists := rp.pool[ref.AddressID()]
		if !exists {
			continue
		}
		if desc.Ref.Hash().IsEqual(ref.Hash()) {
			rp.removeReferral(desc, false)
		} else {
			rp.removeReferral(desc, true)
		}
	}
	rp.mtx.Unlock()
}

// Count returns the number of pending referrals in the pool.
//
// This function is safe for concurrent access.
func (rp *RefPool) Count() int {
	rp.mtx.RLock()
	count := len(rp.pool)
	rp.mtx.RUnlock()

	return count
}

// HaveReferral returns whether or not a pending referral for the passed
// address exists in the pool.
//
// This is part of the mining.ReferralSource interface implementation and is
// safe for concurrent access as required by the interface contract.
func (rp *RefPool) HaveReferral(addr wire.AddressID) bool {
	rp.mtx.RLock()
	_, exists := rp.pool[addr]
	rp.mtx.RUnlock()

	return exists
}

// ConfirmedReferral returns whether or not the passed address has already
// been vouched for on chain.
//
// This is part of the mining.ReferralSource interface implementation and is
// safe for concurrent access as required by the interface contract.
func (rp *RefPool) ConfirmedReferral(addr wire.AddressID) bool {
	return rp.cfg.ChainView.VouchedOnChain(addr)
}

// ReferralDesc returns the descriptor of the pending referral for the
// passed address, or nil when no such referral exists.
//
// This is part of the mining.ReferralSource interface implementation and is
// safe for concurrent access as required by the interface contract.
func (rp *RefPool) ReferralDesc(addr wire.AddressID) *mining.RefDesc {
	rp.mtx.RLock()
	desc := rp.pool[addr]
	rp.mtx.RUnlock()

	return desc
}

// RefDescs returns a slice of descriptors for all pending referrals in the
// pool in ascending referral hash order.
//
// This is part of the mining.ReferralSource interface implementation and is
// safe for concurrent access as required by the interface contract.
func (rp *RefPool) RefDescs() []*mining.RefDesc {
	rp.mtx.RLock()
	descs := make([]*mining.RefDesc, 0, len(rp.pool))
	for _, desc := range rp.pool {
		descs = append(descs, desc)
	}
	rp.mtx.RUnlock()

	sort.Slice(descs, func(i, j int) bool {
		return bytes.Compare(descs[i].Ref.Hash()[:],
			descs[j].Ref.Hash()[:]) < 0
	})

	return descs
}

// LastUpdated returns the last time a referral was added to or removed from
// the pool.
//
// This is part of the mining.ReferralSource interface implementation and is
// safe for concurrent access as required by the interface contract.
func (rp *RefPool) LastUpdated() time.Time {
	return time.Unix(atomic.LoadInt64(&rp.lastUpdated), 0)
}

// New returns a new referral pool for storing validated pending referrals
// until they are mined into a block.
func New(cfg *Config) *RefPool {
	pool := &RefPool{
		cfg:    *cfg,
		pool:   make(map[wire.AddressID]*mining.RefDesc),
		hashes: make(map[chainhash.Hash]*mining.RefDesc),
	}
	if pool.cfg.MaxAliasLength <= 0 {
		pool.cfg.MaxAliasLength = wire.MaxAliasLength
	}

	return pool
}
