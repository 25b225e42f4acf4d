// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
)

// Config holds the engine parameters. It is fixed for the lifetime of a Capacity.
type Config struct {
	MinimumStakingAmount uint64 `yaml:"minimum-staking-amount"`
	MinimumTokenBalance  uint64 `yaml:"minimum-token-balance"`
	// CapacityPerToken is in parts per billion.
	CapacityPerToken         fixedpoint.Perbill `yaml:"capacity-per-token"`
	MaxUnlockingChunks       uint32             `yaml:"max-unlocking-chunks"`
	UnstakingThawPeriod      uint32             `yaml:"unstaking-thaw-period"`
	MaxEpochLength           uint32             `yaml:"max-epoch-length"`
	EraLength                uint32             `yaml:"era-length"`
	HistoryLimit             uint32             `yaml:"history-limit"`
	RewardPoolChunkLength    uint32             `yaml:"reward-pool-chunk-length"`
	MaxRetargetsPerRewardEra uint32             `yaml:"max-retargets-per-reward-era"`
}

func DefaultConfig() Config {
	return Config{
		MinimumStakingAmount:     1_000,
		MinimumTokenBalance:      1_000,
		CapacityPerToken:         fixedpoint.PerbillFromPercent(2),
		MaxUnlockingChunks:       30,
		UnstakingThawPeriod:      30,
		MaxEpochLength:           7_200,
		EraLength:                14_400,
		HistoryLimit:             30,
		RewardPoolChunkLength:    5,
		MaxRetargetsPerRewardEra: 16,
	}
}

// Validate checks the parameters that the ledgers depend on.
func (c *Config) Validate() error {
	switch {
	case c.MaxUnlockingChunks == 0:
		return errors.New("max-unlocking-chunks must be positive")
	case c.MaxEpochLength == 0:
		return errors.New("max-epoch-length must be positive")
	case c.EraLength == 0:
		return errors.New("era-length must be positive")
	case c.HistoryLimit == 0:
		return errors.New("history-limit must be positive")
	case c.RewardPoolChunkLength == 0:
		return errors.New("reward-pool-chunk-length must be positive")
	case c.HistoryLimit%c.RewardPoolChunkLength != 0:
		return errors.Errorf("reward-pool-chunk-length %d must divide history-limit %d", c.RewardPoolChunkLength, c.HistoryLimit)
	case c.MaxRetargetsPerRewardEra == 0:
		return errors.New("max-retargets-per-reward-era must be positive")
	case c.CapacityPerToken > fixedpoint.PerbillFromPercent(100):
		return errors.New("capacity-per-token exceeds one")
	}
	return nil
}
