// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mistunit provides types for dealing with Sui currency units.
// Mist is the ledger's smallest unit; balances, budgets and gas prices are
// all denominated in it.
package mistunit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MistPerSui is the number of Mist in one SUI.
const MistPerSui = 1_000_000_000

var (
	// ErrAmountOutOfRange is returned when a SUI value cannot be
	// represented as a whole number of Mist.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// Amount is a quantity of Mist.
type Amount uint64

// FromSui converts a SUI value to an Amount, rounding to the nearest Mist.
func FromSui(sui float64) (Amount, error) {
	if math.IsNaN(sui) || math.IsInf(sui, 0) || sui < 0 {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, sui)
	}

	mist := math.Round(sui * MistPerSui)
	if mist > math.MaxUint64 {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, sui)
	}

	return Amount(mist), nil
}

// ToSui returns the amount expressed in SUI.
func (a Amount) ToSui() float64 {
	return float64(a) / MistPerSui
}

// String returns the amount in SUI with full Mist precision, e.g.
// "1.0023 SUI".
func (a Amount) String() string {
	whole := uint64(a) / MistPerSui
	frac := uint64(a) % MistPerSui

	if frac == 0 {
		return strconv.FormatUint(whole, 10) + " SUI"
	}

	// Nine fractional digits, trailing zeros trimmed.
	digits := fmt.Sprintf("%09d", frac)
	for len(digits) > 1 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}

	return fmt.Sprintf("%d.%s SUI", whole, digits)
}

// Mist returns the raw Mist value.
func (a Amount) Mist() uint64 {
	return uint64(a)
}
