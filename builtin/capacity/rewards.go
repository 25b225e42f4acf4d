// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/thor"
)

// UnclaimedRewardInfo is the reward a booster earned in one closed era.
type UnclaimedRewardInfo struct {
	Era            uint32 `json:"era"`
	ExpiresAtBlock uint32 `json:"expiresAtBlock"`
	StakedAmount   uint64 `json:"stakedAmount"`
	// EligibleAmount is the part of the stake also held through the previous era.
	EligibleAmount uint64 `json:"eligibleAmount"`
	EarnedAmount   uint64 `json:"earnedAmount"`
}

// HasUnclaimedRewards reports whether the staker's history reaches back past the previous era.
// It does not compute the rewards, which may still sum to zero.
func (c *Capacity) HasUnclaimedRewards(staker thor.Address) (bool, error) {
	history, err := c.boostService.History(staker)
	if err != nil {
		return false, err
	}
	info, err := c.eraService.Current()
	if err != nil {
		return false, err
	}
	return history.HasUnclaimed(info.EraIndex), nil
}

// ListUnclaimedRewards lists the rewards for every closed era still in retention
// in which the staker had boosted stake.
func (c *Capacity) ListUnclaimedRewards(staker thor.Address) ([]*UnclaimedRewardInfo, error) {
	history, err := c.boostService.History(staker)
	if err != nil {
		return nil, err
	}
	info, err := c.eraService.Current()
	if err != nil {
		return nil, err
	}
	current := info.EraIndex
	if history.Len() == 0 || current == 0 {
		return nil, nil
	}

	start := fixedpoint.SaturatingSub(uint64(current), uint64(c.config.HistoryLimit))
	var previous uint64
	if start > 0 {
		previous, _ = history.AmountFor(uint32(start) - 1)
	}

	rewards := make([]*UnclaimedRewardInfo, 0, current-uint32(start))
	for era := uint32(start); era < current; era++ {
		staked, _ := history.AmountFor(era)
		if staked > 0 {
			eligible := min(staked, previous)
			total, err := c.eraService.TotalStakeForPastEra(era)
			if err != nil {
				return nil, err
			}
			expires, err := c.eraService.BlockAtEndOfEra(era + c.config.HistoryLimit)
			if err != nil {
				return nil, err
			}
			rewards = append(rewards, &UnclaimedRewardInfo{
				Era:            era,
				ExpiresAtBlock: expires,
				StakedAmount:   staked,
				EligibleAmount: eligible,
				EarnedAmount:   c.model.EraStakingReward(eligible, total, c.model.RewardPoolSize(total)),
			})
		}
		previous = staked
	}
	return rewards, nil
}

// ClaimStakingRewards mints every unclaimed reward to the staker and returns the sum.
// The history is collapsed so claimed eras are not paid twice.
func (c *Capacity) ClaimStakingRewards(staker thor.Address) (claimed uint64, err error) {
	err = c.atomic("claim_staking_rewards", func() (err error) {
		claimed, err = c.claimStakingRewards(staker)
		return err
	})
	if err != nil {
		return 0, err
	}
	metricRewardsMinted().Add(int64(claimed))
	logger.Info("claimed staking rewards", "staker", staker, "amount", claimed)
	return claimed, nil
}

func (c *Capacity) claimStakingRewards(staker thor.Address) (uint64, error) {
	history, err := c.boostService.History(staker)
	if err != nil {
		return 0, err
	}
	if history == nil {
		return 0, reverts.ErrNotAProviderBoostAccount
	}
	rewards, err := c.ListUnclaimedRewards(staker)
	if err != nil {
		return 0, err
	}
	sum, err := sumEarned(rewards)
	if err != nil {
		return 0, err
	}
	if sum == 0 {
		return 0, reverts.ErrNoRewardsEligibleToClaim
	}

	info, err := c.eraService.Current()
	if err != nil {
		return 0, err
	}
	history.Collapse(info.EraIndex)
	if err := c.boostService.SetHistory(staker, history); err != nil {
		return 0, err
	}
	if err := c.token.Mint(staker, sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// ensureNothingToClaim fails when the staker would forfeit earned rewards by changing the boosted stake.
func (c *Capacity) ensureNothingToClaim(staker thor.Address) error {
	has, err := c.HasUnclaimedRewards(staker)
	if err != nil || !has {
		return err
	}
	rewards, err := c.ListUnclaimedRewards(staker)
	if err != nil {
		return err
	}
	sum, err := sumEarned(rewards)
	if err != nil {
		return err
	}
	if sum > 0 {
		return reverts.ErrMustFirstClaimRewards
	}
	return nil
}

func sumEarned(rewards []*UnclaimedRewardInfo) (uint64, error) {
	var (
		sum uint64
		err error
	)
	for _, r := range rewards {
		if sum, err = fixedpoint.CheckedAdd(sum, r.EarnedAmount); err != nil {
			return 0, err
		}
	}
	return sum, nil
}
