// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the subset of the vouch transaction script
language needed to construct and recognize standard scripts.

This package provides data structures and functions to build scripts with
canonical data pushes, to produce the standard pay-to-address script forms,
and to extract the address identifier a standard script pays to.  Script
execution is intentionally out of scope.

# Errors

Errors returned by this package are of type txscript.Error or, for the
script builder, txscript.ErrScriptNotCanonical.  The Error type wraps an
ErrorCode field which callers can inspect to programmatically detect the
failure, while the contextual error message describes the specific issue.
*/
package txscript
