// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/vechain/capacity/thor"
)

// FreezeReason identifies the engine's hold on staker balances.
const FreezeReason = "capacity-staking"

// Token is the fungible token ledger that stakes are frozen in and rewards minted from.
type Token interface {
	BalanceOf(account thor.Address) (uint64, error)
	// Freeze sets the frozen amount held for reason to total.
	Freeze(reason string, account thor.Address, total uint64) error
	Thaw(reason string, account thor.Address) error
	Mint(account thor.Address, amount uint64) error
}

// TargetValidator reports whether a target may receive stake.
type TargetValidator interface {
	IsValidTarget(target thor.TargetID) (bool, error)
}

// EconomicModel supplies the boost and reward formulas.
type EconomicModel interface {
	CapacityBoost(amount uint64) uint64
	EraStakingReward(eligible, eraTotal, poolSize uint64) uint64
	RewardPoolSize(totalStaked uint64) uint64
}
