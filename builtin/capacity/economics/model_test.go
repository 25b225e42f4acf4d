// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package economics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEraStakingReward(t *testing.T) {
	m := Default()

	tests := []struct {
		staked, total, pool uint64
		want                uint64
	}{
		{0, 1_000_000, 10_000, 0},
		{30, 1_000_000, 10_000, 0},
		{150, 1_000_000, 10_000, 1},
		{1_000, 1_000_000, 10_000, 4},
		{11_000, 1_000_000, 10_000, 42},
		{888_889, 20_000_000, 11_000_000, 3_378},
		{1_000, 0, 10_000, 0},
		{1_000, 1_000_000, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.EraStakingReward(tt.staked, tt.total, tt.pool), "%+v", tt)
	}
}

func TestEraStakingRewardSaturates(t *testing.T) {
	m := Default()
	m.RewardPercentCap = 1_000_000
	assert.Equal(t, uint64(math.MaxUint64), m.EraStakingReward(math.MaxUint64, 1, math.MaxUint64))
}

func TestCapacityBoost(t *testing.T) {
	m := Default()
	assert.Equal(t, uint64(50), m.CapacityBoost(100))
	assert.Equal(t, uint64(333), m.CapacityBoost(666))
	assert.Equal(t, DefaultRewardPoolPerEra, m.RewardPoolSize(123))
}

func TestEraStakingRewardMonotonic(t *testing.T) {
	m := Default()
	const total, pool = uint64(5_000_000), uint64(10_000)

	prev := uint64(0)
	for eligible := uint64(0); eligible <= total; eligible += 9_973 {
		got := m.EraStakingReward(eligible, total, pool)
		assert.GreaterOrEqual(t, got, prev, "eligible %d", eligible)
		assert.LessOrEqual(t, got, m.RewardPercentCap.Mul(eligible), "eligible %d", eligible)
		prev = got
	}
}
