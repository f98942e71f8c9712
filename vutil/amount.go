// Copyright (c) 2013, 2014 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vutil

import (
	"errors"
	"math"
	"strconv"
)

const (
	// MotePerVouchCent is the number of motes in one vouch cent.
	MotePerVouchCent = 1e6

	// MotePerVouch is the number of motes in one vouch (1 VCH).
	MotePerVouch = 1e8

	// MaxMotes is the maximum transaction amount allowed in motes.  The
	// subsidy schedule emits at most 100 million VCH.
	MaxMotes = 100e6 * MotePerVouch
)

// AmountUnit describes a method of converting an Amount to something other
// than the base unit of a vouch.  The value of the AmountUnit is the
// exponent component of the decadic multiple to convert from an amount in
// vouch to an amount counted in units.
type AmountUnit int

// These constants define the various units used when describing a vouch
// monetary amount.
const (
	AmountMegaVCH  AmountUnit = 6
	AmountKiloVCH  AmountUnit = 3
	AmountVCH      AmountUnit = 0
	AmountMilliVCH AmountUnit = -3
	AmountMicroVCH AmountUnit = -6
	AmountMote     AmountUnit = -8
)

// String returns the unit as a string.  For recognized units, the SI prefix
// is used, or "Mote" for the base unit.  For all unrecognized units, "1eN
// VCH" is returned, where N is the AmountUnit.
func (u AmountUnit) String() string {
	switch u {
	case AmountMegaVCH:
		return "MVCH"
	case AmountKiloVCH:
		return "kVCH"
	case AmountVCH:
		return "VCH"
	case AmountMilliVCH:
		return "mVCH"
	case AmountMicroVCH:
		return "μVCH"
	case AmountMote:
		return "Mote"
	default:
		return "1e" + strconv.FormatInt(int64(u), 10) + " VCH"
	}
}

// Amount represents the base vouch monetary unit (colloquially referred to
// as a `Mote').  A single Amount is equal to 1e-8 of a vouch.
type Amount int64

// round converts a floating point number, which may or may not be
// representable as an integer, to the Amount integer type by rounding to the
// nearest integer.  This is performed by adding or subtracting 0.5 depending
// on the sign, and relying on integer truncation to round the value to the
// nearest Amount.
func round(f float64) Amount {
	if f < 0 {
		return Amount(f - 0.5)
	}
	return Amount(f + 0.5)
}

// NewAmount creates an Amount from a floating point value representing some
// value in vouch.  NewAmount errors if f is NaN or +-Infinity, but does not
// check that the amount is within the total amount of vouch producible as f
// may not refer to an amount at a single moment in time.
//
// NewAmount is for specifically for converting VCH to Motes.  For creating a
// new Amount with an int64 value which denotes a quantity of Motes, do a
// simple type conversion from type int64 to Amount.
func NewAmount(f float64) (Amount, error) {
	// The amount is only considered invalid if it cannot be represented
	// as an integer type.  This may happen if f is NaN or +-Infinity.
	switch {
	case math.IsNaN(f):
		fallthrough
	case math.IsInf(f, 1):
		fallthrough
	case math.IsInf(f, -1):
		return 0, errors.New("invalid vouch amount")
	}

	return round(f * MotePerVouch), nil
}

// ToUnit converts a monetary amount counted in vouch base units to a
// floating point value representing an amount of vouch.
func (a Amount) ToUnit(u AmountUnit) float64 {
	return float64(a) / math.Pow10(int(u+8))
}

// ToVCH is the equivalent of calling ToUnit with AmountVCH.
func (a Amount) ToVCH() float64 {
	return a.ToUnit(AmountVCH)
}

// Format formats a monetary amount counted in vouch base units as a string
// for a given unit.  The conversion will succeed for any unit, however, known
// units will be formatted with an appended label describing the units with
// SI notation, or "Mote" for the base unit.
func (a Amount) Format(u AmountUnit) string {
	units := " " + u.String()
	formatted := strconv.FormatFloat(a.ToUnit(u), 'f', -int(u+8), 64)
	return formatted + units
}

// String is the equivalent of calling Format with AmountVCH.
func (a Amount) String() string {
	return a.Format(AmountVCH)
}

// MulF64 multiplies an Amount by a floating point value.  While this is not
// an operation that must typically be done by a full node or wallet, it is
// useful for services that build on top of vouch (for example, calculating
// a fee by multiplying by a percentage).
func (a Amount) MulF64(f float64) Amount {
	return round(float64(a) * f)
}
