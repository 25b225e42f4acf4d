// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package economics holds the default reward and boost model.
package economics

import (
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
)

const (
	// DefaultRewardPercentCap caps an era reward at 0.38% of the eligible stake.
	DefaultRewardPercentCap = fixedpoint.Permill(3_800)
	// DefaultRewardPoolPerEra is the reward pool distributed each era.
	DefaultRewardPoolPerEra = uint64(10_000)
)

// DefaultBoostFactor is the share of a boosted stake that issues capacity.
var DefaultBoostFactor = fixedpoint.PerbillFromPercent(50)

// Model computes boosted capacity and era rewards from fixed parameters.
type Model struct {
	BoostFactor      fixedpoint.Perbill
	RewardPercentCap fixedpoint.Permill
	RewardPoolPerEra uint64
}

func Default() *Model {
	return &Model{
		BoostFactor:      DefaultBoostFactor,
		RewardPercentCap: DefaultRewardPercentCap,
		RewardPoolPerEra: DefaultRewardPoolPerEra,
	}
}

// CapacityBoost returns the part of a boosted stake that is converted into capacity.
func (m *Model) CapacityBoost(amount uint64) uint64 {
	return m.BoostFactor.MulFloor(amount)
}

// RewardPoolSize returns the pool for an era. The pool does not depend on the era total.
func (m *Model) RewardPoolSize(uint64) uint64 {
	return m.RewardPoolPerEra
}

// EraStakingReward returns the reward earned by eligible stake out of an era total,
// the smaller of the capped percentage and the proportional pool share.
func (m *Model) EraStakingReward(eligible, total, pool uint64) uint64 {
	if total == 0 {
		return 0
	}
	capped := m.RewardPercentCap.Mul(eligible)
	share, ok := fixedpoint.MulDivFloor(pool, eligible, total)
	if !ok {
		share = ^uint64(0)
	}
	return min(capped, share)
}
