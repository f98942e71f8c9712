// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/vouchnet/vouchd/vutil"
)

// MiningAddrSource defines an interface that provides payment addresses for
// generated blocks.  Implementations must be safe for concurrent access.
type MiningAddrSource interface {
	// NextAddr returns the next payment address to use.  It returns nil
	// when the source has no addresses.
	NextAddr() vutil.Address

	// NumAddrs returns the current number of available addresses.
	NumAddrs() int

	// ListEncodedAddrs returns the string encodings of all available
	// addresses.
	ListEncodedAddrs() []string

	// AddAddr adds a new address to the source.  It returns an error when
	// the address is already present.
	AddAddr(addr vutil.Address) error

	// RemoveAddr removes an address from the source.  It returns an error
	// when the address is not present.
	RemoveAddr(addr vutil.Address) error
}

// DefaultAddrSource is an in-memory mining address store that hands out a
// randomly chosen address per request.  It is safe for concurrent access.
type DefaultAddrSource struct {
	mtx   sync.RWMutex
	addrs []vutil.Address
}

// Ensure the DefaultAddrSource type implements the MiningAddrSource
// interface.
var _ MiningAddrSource = (*DefaultAddrSource)(nil)

// NewDefaultAddrSource returns a new address source seeded with the passed
// addresses.  Duplicates in the initial set are ignored.
func NewDefaultAddrSource(initial []vutil.Address) *DefaultAddrSource {
	s := &DefaultAddrSource{addrs: make([]vutil.Address, 0, len(initial))}
	for _, addr := range initial {
		_ = s.AddAddr(addr)
	}
	return s
}

// NextAddr returns a randomly chosen address from the source, or nil when
// the source is empty.
//
// This function is safe for concurrent access.
func (s *DefaultAddrSource) NextAddr() vutil.Address {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if len(s.addrs) == 0 {
		return nil
	}
	return s.addrs[rand.Intn(len(s.addrs))]
}

// NumAddrs returns the current number of available addresses.
//
// This function is safe for concurrent access.
func (s *DefaultAddrSource) NumAddrs() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.addrs)
}

// ListEncodedAddrs returns the string encodings of all available addresses.
//
// This function is safe for concurrent access.
func (s *DefaultAddrSource) ListEncodedAddrs() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	encoded := make([]string, len(s.addrs))
	for i, addr := range s.addrs {
		encoded[i] = addr.EncodeAddress()
	}
	return encoded
}

// AddAddr adds a new address to the source.  It returns an error when the
// address is already present.
//
// This function is safe for concurrent access.
func (s *DefaultAddrSource) AddAddr(addr vutil.Address) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	encoded := addr.EncodeAddress()
	for _, existing := range s.addrs {
		if existing.EncodeAddress() == encoded {
			return fmt.Errorf("mining address %s already exists",
				encoded)
		}
	}
	s.addrs = append(s.addrs, addr)
	return nil
}

// RemoveAddr removes an address from the source.  It returns an error when
// the address is not present.
//
// This function is safe for concurrent access.
func (s *DefaultAddrSource) RemoveAddr(addr vutil.Address) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	encoded := addr.EncodeAddress()
	for i, existing := range s.addrs {
		if existing.EncodeAddress() == encoded {
			copy(s.addrs[i:], s.addrs[i+1:])
			s.addrs[len(s.addrs)-1] = nil
			s.addrs = s.addrs[:len(s.addrs)-1]
			return nil
		}
	}
	return fmt.Errorf("mining address %s not found", encoded)
}
