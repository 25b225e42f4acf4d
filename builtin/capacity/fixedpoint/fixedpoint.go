// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the ratio types used to derive capacity and rewards.
// Products are evaluated on 256 bits so no intermediate result can overflow.
package fixedpoint

import (
	"github.com/holiman/uint256"
)

const (
	billion = 1_000_000_000
	million = 1_000_000
)

// Perbill is a ratio in parts per billion.
type Perbill uint32

// PerbillFromPercent returns p percent, clamped to 100%.
func PerbillFromPercent(p uint32) Perbill {
	return PerbillFromParts(min(p, 100) * (billion / 100))
}

// PerbillFromParts clamps parts to one billion.
func PerbillFromParts(parts uint32) Perbill {
	return Perbill(min(parts, billion))
}

// MulFloor returns floor(n * p).
func (p Perbill) MulFloor(n uint64) uint64 {
	v, _ := MulDivFloor(n, uint64(p), billion)
	return v
}

// Permill is a ratio in parts per million.
type Permill uint32

// PermillFromParts clamps parts to one million.
func PermillFromParts(parts uint32) Permill {
	return Permill(min(parts, million))
}

// Mul returns n * p rounded to the nearest integer, ties rounded down, saturating at the max uint64.
func (p Permill) Mul(n uint64) uint64 {
	prod := new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(uint64(p)))
	quo, rem := new(uint256.Int).DivMod(prod, uint256.NewInt(million), new(uint256.Int))
	if rem.Uint64()*2 > million {
		quo.AddUint64(quo, 1)
	}
	if !quo.IsUint64() {
		return ^uint64(0)
	}
	return quo.Uint64()
}

// MulDivFloor returns floor(a * b / d). ok is false when d is zero or the result exceeds 64 bits.
func MulDivFloor(a, b, d uint64) (v uint64, ok bool) {
	if d == 0 {
		return 0, false
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	quo := prod.Div(prod, uint256.NewInt(d))
	if !quo.IsUint64() {
		return 0, false
	}
	return quo.Uint64(), true
}

// MulDivCeil returns ceil(a * b / d). ok is false when d is zero or the result exceeds 64 bits.
func MulDivCeil(a, b, d uint64) (v uint64, ok bool) {
	if d == 0 {
		return 0, false
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	prod.AddUint64(prod, d-1)
	quo := prod.Div(prod, uint256.NewInt(d))
	if !quo.IsUint64() {
		return 0, false
	}
	return quo.Uint64(), true
}
