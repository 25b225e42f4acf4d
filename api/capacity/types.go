// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/capacity/boost"
	"github.com/vechain/capacity/builtin/capacity/ledger"
	"github.com/vechain/capacity/thor"
)

// StakeRequest is the body of stake, boost and unstake calls.
type StakeRequest struct {
	Staker *thor.Address `json:"staker"`
	Target thor.TargetID `json:"target"`
	Amount uint64        `json:"amount"`
}

func (r *StakeRequest) validate() error {
	if r.Staker == nil {
		return errors.New("staker is required")
	}
	return nil
}

// RetargetRequest moves stake between two targets.
type RetargetRequest struct {
	Staker *thor.Address `json:"staker"`
	From   thor.TargetID `json:"from"`
	To     thor.TargetID `json:"to"`
	Amount uint64        `json:"amount"`
}

// StakerRequest is the body of calls that act on a staker only.
type StakerRequest struct {
	Staker *thor.Address `json:"staker"`
}

type DeductRequest struct {
	Amount uint64 `json:"amount"`
}

type DepositRequest struct {
	Tokens   uint64 `json:"tokens"`
	Capacity uint64 `json:"capacity"`
}

type StakeResult struct {
	Staked         uint64 `json:"staked"`
	CapacityIssued uint64 `json:"capacityIssued"`
}

type UnstakeResult struct {
	Unstaked uint64 `json:"unstaked"`
}

type WithdrawResult struct {
	Withdrawn uint64 `json:"withdrawn"`
}

type ClaimResult struct {
	Claimed uint64 `json:"claimed"`
}

// StakingTarget is a staker's contribution to one target.
type StakingTarget struct {
	Amount   uint64 `json:"amount"`
	Capacity uint64 `json:"capacity"`
}

// Target is the capacity ledger of a target.
type Target struct {
	Remaining            uint64 `json:"remaining"`
	RemainingCapacity    uint64 `json:"remainingCapacity"`
	TotalTokensStaked    uint64 `json:"totalTokensStaked"`
	TotalCapacityIssued  uint64 `json:"totalCapacityIssued"`
	LastReplenishedEpoch uint32 `json:"lastReplenishedEpoch"`
}

type BoostEntry struct {
	Era    uint32 `json:"era"`
	Amount uint64 `json:"amount"`
}

// Boost is a booster's history and retarget usage.
type Boost struct {
	History         []BoostEntry `json:"history"`
	RetargetEra     uint32       `json:"retargetEra"`
	RetargetCount   uint32       `json:"retargetCount"`
	UnclaimedReward bool         `json:"unclaimedReward"`
}

func convertTarget(remaining uint64, d *ledger.CapacityDetails) *Target {
	return &Target{
		Remaining:            remaining,
		RemainingCapacity:    d.RemainingCapacity,
		TotalTokensStaked:    d.TotalTokensStaked,
		TotalCapacityIssued:  d.TotalCapacityIssued,
		LastReplenishedEpoch: d.LastReplenishedEpoch,
	}
}

func convertHistory(h *boost.History) []BoostEntry {
	out := make([]BoostEntry, 0, h.Len())
	if h == nil {
		return out
	}
	for _, e := range h.Entries {
		out = append(out, BoostEntry{Era: e.Era, Amount: e.Amount})
	}
	return out
}
