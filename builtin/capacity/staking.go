// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/ledger"
	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/thor"
)

//
// Setters - state change
//

// Stake locks up to amount of the staker's free balance against target and issues the target capacity.
// It returns the amount actually staked and the capacity issued.
func (c *Capacity) Stake(staker thor.Address, target thor.TargetID, amount uint64) (staked uint64, issued uint64, err error) {
	err = c.atomic("stake", func() (err error) {
		staked, issued, err = c.stake(staker, target, amount, ledger.MaximumCapacity)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	logger.Debug("staked", "staker", staker, "target", target, "amount", staked, "capacity", issued)
	return staked, issued, nil
}

// ProviderBoost stakes like Stake but issues reduced capacity and makes the stake eligible for era rewards.
func (c *Capacity) ProviderBoost(staker thor.Address, target thor.TargetID, amount uint64) (staked uint64, issued uint64, err error) {
	err = c.atomic("provider_boost", func() (err error) {
		staked, issued, err = c.stake(staker, target, amount, ledger.ProviderBoost)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	logger.Debug("boosted", "staker", staker, "target", target, "amount", staked, "capacity", issued)
	return staked, issued, nil
}

// Unstake moves amount from the staker's active stake on target into the unlock queue.
// It returns the amount unstaked, which includes any residual swept from the target.
func (c *Capacity) Unstake(staker thor.Address, target thor.TargetID, amount uint64) (unstaked uint64, err error) {
	err = c.atomic("unstake", func() (err error) {
		unstaked, err = c.unstake(staker, target, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("unstaked", "staker", staker, "target", target, "amount", unstaked)
	return unstaked, nil
}

// WithdrawUnstaked releases every unlock chunk that has thawed and returns their sum.
func (c *Capacity) WithdrawUnstaked(staker thor.Address) (withdrawn uint64, err error) {
	err = c.atomic("withdraw_unstaked", func() (err error) {
		withdrawn, err = c.withdrawUnstaked(staker)
		return err
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("withdrew unstaked", "staker", staker, "amount", withdrawn)
	return withdrawn, nil
}

// ChangeStakingTarget moves amount of the staker's stake and the matching capacity from one target to another.
func (c *Capacity) ChangeStakingTarget(staker thor.Address, from, to thor.TargetID, amount uint64) error {
	err := c.atomic("change_staking_target", func() error {
		return c.changeStakingTarget(staker, from, to, amount)
	})
	if err != nil {
		return err
	}
	logger.Debug("retargeted", "staker", staker, "from", from, "to", to, "amount", amount)
	return nil
}

func (c *Capacity) stake(staker thor.Address, target thor.TargetID, amount uint64, stakingType ledger.StakingType) (uint64, uint64, error) {
	if amount == 0 {
		return 0, 0, reverts.ErrZeroAmountNotAllowed
	}
	if err := c.ensureValidTarget(target); err != nil {
		return 0, 0, err
	}

	account, err := c.ledgerService.Account(staker)
	if err != nil {
		return 0, 0, err
	}
	if account == nil {
		account = &ledger.StakingDetails{StakingType: stakingType}
	} else if account.StakingType != stakingType {
		return 0, 0, reverts.ErrCannotChangeStakingType
	}

	unlocking, err := c.unlockingTotal(staker)
	if err != nil {
		return 0, 0, err
	}
	frozen, err := fixedpoint.CheckedAdd(account.Active, unlocking)
	if err != nil {
		return 0, 0, err
	}
	balance, err := c.token.BalanceOf(staker)
	if err != nil {
		return 0, 0, err
	}
	free := fixedpoint.SaturatingSub(fixedpoint.SaturatingSub(balance, frozen), c.config.MinimumTokenBalance)
	stakable := min(amount, free)
	if stakable == 0 {
		return 0, 0, reverts.ErrBalanceTooLowToStake
	}
	if err := account.Deposit(stakable); err != nil {
		return 0, 0, err
	}
	if account.Active < c.config.MinimumStakingAmount {
		return 0, 0, reverts.ErrStakingAmountBelowMinimum
	}

	issued := c.capacityFor(stakable, stakingType)
	if err := c.ledgerService.SetAccount(staker, account); err != nil {
		return 0, 0, err
	}
	if err := c.depositToTarget(staker, target, stakable, issued); err != nil {
		return 0, 0, err
	}
	if stakingType == ledger.ProviderBoost {
		if err := c.recordBoost(staker, stakable, true); err != nil {
			return 0, 0, err
		}
	}
	if err := c.refreeze(staker, account.Active, unlocking); err != nil {
		return 0, 0, err
	}
	return stakable, issued, nil
}

func (c *Capacity) unstake(staker thor.Address, target thor.TargetID, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, reverts.ErrUnstakedAmountIsZero
	}
	account, err := c.ledgerService.Account(staker)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, reverts.ErrNotAStakingAccount
	}
	if amount > account.Active {
		return 0, reverts.ErrAmountToUnstakeExceedsAmountStaked
	}
	if account.StakingType == ledger.ProviderBoost {
		if err := c.ensureNothingToClaim(staker); err != nil {
			return 0, err
		}
	}

	unstaked, _, err := c.reduceCapacity(staker, target, amount, account.StakingType)
	if err != nil {
		return 0, err
	}
	account.Withdraw(unstaked)
	if err := c.ledgerService.SetAccount(staker, account); err != nil {
		return 0, err
	}
	if account.StakingType == ledger.ProviderBoost {
		if err := c.recordBoost(staker, unstaked, false); err != nil {
			return 0, err
		}
	}

	currentEpoch, err := c.epochService.Current()
	if err != nil {
		return 0, err
	}
	unlocks, err := c.ledgerService.Unlocks(staker)
	if err != nil {
		return 0, err
	}
	if unlocks, err = unlocks.Add(unstaked, currentEpoch+c.config.UnstakingThawPeriod, c.config.MaxUnlockingChunks); err != nil {
		return 0, err
	}
	if err := c.ledgerService.SetUnlocks(staker, unlocks); err != nil {
		return 0, err
	}
	unlocking, err := unlocks.Total()
	if err != nil {
		return 0, err
	}
	if err := c.refreeze(staker, account.Active, unlocking); err != nil {
		return 0, err
	}
	return unstaked, nil
}

func (c *Capacity) withdrawUnstaked(staker thor.Address) (uint64, error) {
	unlocks, err := c.ledgerService.Unlocks(staker)
	if err != nil {
		return 0, err
	}
	if len(unlocks) == 0 {
		return 0, reverts.ErrNoThawedTokenAvailable
	}
	currentEpoch, err := c.epochService.Current()
	if err != nil {
		return 0, err
	}
	remaining, withdrawn, err := unlocks.ReapThawed(currentEpoch)
	if err != nil {
		return 0, err
	}
	if withdrawn == 0 {
		return 0, reverts.ErrNoThawedTokenAvailable
	}
	if err := c.ledgerService.SetUnlocks(staker, remaining); err != nil {
		return 0, err
	}

	account, err := c.ledgerService.Account(staker)
	if err != nil {
		return 0, err
	}
	var active uint64
	if account != nil {
		active = account.Active
	}
	unlocking, err := remaining.Total()
	if err != nil {
		return 0, err
	}
	if err := c.refreeze(staker, active, unlocking); err != nil {
		return 0, err
	}
	return withdrawn, nil
}

func (c *Capacity) changeStakingTarget(staker thor.Address, from, to thor.TargetID, amount uint64) error {
	info, err := c.eraService.Current()
	if err != nil {
		return err
	}
	if err := c.boostService.RegisterRetarget(staker, info.EraIndex); err != nil {
		return err
	}
	if from == to {
		return reverts.ErrCannotRetargetToSameProvider
	}
	if amount < c.config.MinimumStakingAmount {
		return reverts.ErrStakingAmountBelowMinimum
	}
	if err := c.ensureValidTarget(to); err != nil {
		return err
	}
	account, err := c.ledgerService.Account(staker)
	if err != nil {
		return err
	}
	if account == nil {
		return reverts.ErrNotAStakingAccount
	}

	moved, capacity, err := c.reduceCapacity(staker, from, amount, account.StakingType)
	if err != nil {
		return err
	}
	return c.depositToTarget(staker, to, moved, capacity)
}

// reduceCapacity withdraws amount from the staker's target and removes the capacity it issued.
// A residual under the minimum stake is swept along with it.
func (c *Capacity) reduceCapacity(staker thor.Address, target thor.TargetID, amount uint64, stakingType ledger.StakingType) (uint64, uint64, error) {
	st, err := c.ledgerService.Target(staker, target)
	if err != nil {
		return 0, 0, err
	}
	if st == nil {
		return 0, 0, reverts.ErrStakerTargetRelationshipNotFound
	}
	if amount > st.Amount {
		return 0, 0, reverts.ErrInsufficientStakingBalance
	}
	details, err := c.ledgerService.Capacity(target)
	if err != nil {
		return 0, 0, err
	}
	if details == nil {
		return 0, 0, reverts.ErrTargetCapacityNotFound
	}

	var removed uint64
	switch {
	case st.Amount-amount < c.config.MinimumStakingAmount:
		amount = st.Amount
		removed = st.Capacity
	case stakingType == ledger.ProviderBoost:
		v, ok := fixedpoint.MulDivCeil(amount, st.Capacity, st.Amount)
		if !ok {
			return 0, 0, reverts.ErrArithmeticOverflow
		}
		removed = v
	case details.TotalTokensStaked == 0:
		logger.Error("capacity ledger holds no tokens for an existing stake", "target", target, "staker", staker)
		removed = st.Capacity
	default:
		v, ok := fixedpoint.MulDivCeil(amount, details.TotalCapacityIssued, details.TotalTokensStaked)
		if !ok {
			return 0, 0, reverts.ErrArithmeticOverflow
		}
		removed = v
	}
	removed = min(removed, st.Capacity)

	st.Withdraw(amount, removed)
	if err := c.ledgerService.SetTarget(staker, target, st); err != nil {
		return 0, 0, err
	}
	details.Withdraw(amount, removed)
	if err := c.ledgerService.SetCapacity(target, details); err != nil {
		return 0, 0, err
	}
	return amount, removed, nil
}

// depositToTarget credits the staker's relationship with target and the target's capacity ledger.
func (c *Capacity) depositToTarget(staker thor.Address, target thor.TargetID, amount, capacity uint64) error {
	st, err := c.ledgerService.Target(staker, target)
	if err != nil {
		return err
	}
	if st == nil {
		st = &ledger.StakingTarget{}
	}
	if err := st.Deposit(amount, capacity); err != nil {
		return err
	}
	if err := c.ledgerService.SetTarget(staker, target, st); err != nil {
		return err
	}

	details, err := c.ledgerService.Capacity(target)
	if err != nil {
		return err
	}
	if details == nil {
		details = &ledger.CapacityDetails{}
	}
	if err := details.Deposit(amount, capacity); err != nil {
		return err
	}
	return c.ledgerService.SetCapacity(target, details)
}

// recordBoost updates the staker's boost history and the era pool total for the running era.
func (c *Capacity) recordBoost(staker thor.Address, amount uint64, add bool) error {
	info, err := c.eraService.Current()
	if err != nil {
		return err
	}
	if err := c.boostService.Upsert(staker, info.EraIndex, amount, add); err != nil {
		return err
	}
	if add {
		return c.eraService.AddToRunningTotal(amount)
	}
	return c.eraService.SubFromRunningTotal(amount)
}

func (c *Capacity) capacityFor(amount uint64, stakingType ledger.StakingType) uint64 {
	if stakingType == ledger.ProviderBoost {
		amount = c.model.CapacityBoost(amount)
	}
	return c.config.CapacityPerToken.MulFloor(amount)
}

func (c *Capacity) ensureValidTarget(target thor.TargetID) error {
	valid, err := c.targets.IsValidTarget(target)
	if err != nil {
		return err
	}
	if !valid {
		return reverts.ErrInvalidTarget
	}
	return nil
}

func (c *Capacity) unlockingTotal(staker thor.Address) (uint64, error) {
	unlocks, err := c.ledgerService.Unlocks(staker)
	if err != nil {
		return 0, err
	}
	return unlocks.Total()
}

// refreeze sets the staker's frozen balance to active plus unlocking, thawing when both are zero.
func (c *Capacity) refreeze(staker thor.Address, active, unlocking uint64) error {
	total, err := fixedpoint.CheckedAdd(active, unlocking)
	if err != nil {
		return err
	}
	if total == 0 {
		return c.token.Thaw(FreezeReason, staker)
	}
	return c.token.Freeze(FreezeReason, staker, total)
}
