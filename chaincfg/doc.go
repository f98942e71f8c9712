// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines chain configuration parameters.
//
// In addition to the main vouch network, which is intended for the transfer
// of monetary value, there is currently a simulation test network.  The
// simulation network is used for private testing at a trivial difficulty and
// its coins carry no value.
//
// For library packages, chaincfg provides the ability to lookup chain
// parameters and encoding magics when passed a *Params.  Older APIs not
// updated to the new convention accept a wire.VouchNet instead.
//
// For main packages, a (typically application specific) network to use is
// chosen and the fields of the Params struct are used to configure
// dependencies, for example the address version to use when encoding keys.
package chaincfg
