// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/capacity/builtin/capacity/reverts"
)

// CheckedAdd returns a + b or ErrArithmeticOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	v, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticOverflow
	}
	return v, nil
}

// CheckedSub returns a - b or ErrArithmeticUnderflow.
func CheckedSub(a, b uint64) (uint64, error) {
	v, underflow := math.SafeSub(a, b)
	if underflow {
		return 0, reverts.ErrArithmeticUnderflow
	}
	return v, nil
}

// SaturatingAdd returns a + b, capped at the max uint64.
func SaturatingAdd(a, b uint64) uint64 {
	v, overflow := math.SafeAdd(a, b)
	if overflow {
		return ^uint64(0)
	}
	return v
}

// SaturatingSub returns a - b, floored at zero.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
