// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/builtin/capacity/boost"
	"github.com/vechain/capacity/builtin/capacity/economics"
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/ledger"
	"github.com/vechain/capacity/builtin/capacity/reverts"
)

func TestStakeUnstakeWithdraw(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 1_000)

	staked, issued, err := env.capacity.Stake(alice, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), staked)
	assert.Equal(t, uint64(50), issued)
	env.assertFrozen(alice, 100)

	env.advanceTo(50)
	unstaked, err := env.capacity.Unstake(alice, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), unstaked)

	unlocks, err := env.capacity.UnlockChunks(alice)
	require.NoError(t, err)
	assert.Equal(t, ledger.UnlockChunks{{Value: 40, ThawEpoch: 2}}, unlocks)

	account, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), account.Active)

	target, err := env.capacity.StakingTarget(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, &ledger.StakingTarget{Amount: 60, Capacity: 30}, target)

	details, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)
	assert.Equal(t, &ledger.CapacityDetails{RemainingCapacity: 30, TotalTokensStaked: 60, TotalCapacityIssued: 30}, details)
	env.assertFrozen(alice, 100)

	_, err = env.capacity.WithdrawUnstaked(alice)
	assert.ErrorIs(t, err, reverts.ErrNoThawedTokenAvailable)

	env.advanceTo(250)
	epoch, err := env.capacity.CurrentEpoch()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), epoch)

	withdrawn, err := env.capacity.WithdrawUnstaked(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), withdrawn)

	unlocks, err = env.capacity.UnlockChunks(alice)
	require.NoError(t, err)
	assert.Empty(t, unlocks)
	env.assertFrozen(alice, 60)

	_, err = env.capacity.WithdrawUnstaked(alice)
	assert.ErrorIs(t, err, reverts.ErrNoThawedTokenAvailable)
}

func TestStakeValidation(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 100)
	env.fund(bob, 10)

	tests := []struct {
		name    string
		stake   func() error
		wantErr error
	}{
		{"zero amount", func() error { _, _, err := env.capacity.Stake(alice, 1, 0); return err }, reverts.ErrZeroAmountNotAllowed},
		{"invalid target", func() error { _, _, err := env.capacity.Stake(alice, 99, 50); return err }, reverts.ErrInvalidTarget},
		{"nothing free", func() error { _, _, err := env.capacity.Stake(bob, 1, 50); return err }, reverts.ErrBalanceTooLowToStake},
		{"below minimum", func() error { _, _, err := env.capacity.Stake(alice, 1, 5); return err }, reverts.ErrStakingAmountBelowMinimum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.stake(), tt.wantErr)
		})
	}

	account, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	assert.Nil(t, account)
	env.assertFrozen(alice, 0)
}

func TestStakeCapsAtFreeBalance(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 100)

	staked, issued, err := env.capacity.Stake(alice, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(90), staked, "minimum token balance is kept free")
	assert.Equal(t, uint64(45), issued)
	env.assertFrozen(alice, 90)

	_, _, err = env.capacity.Stake(alice, 2, 1)
	assert.ErrorIs(t, err, reverts.ErrBalanceTooLowToStake)

	// a small top-up is fine once the account holds the minimum
	env.fund(alice, 5)
	staked, _, err = env.capacity.Stake(alice, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), staked)
	env.assertFrozen(alice, 95)
}

func TestCannotMixStakingTypes(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 1_000)

	_, _, err := env.capacity.Stake(alice, 1, 100)
	require.NoError(t, err)
	_, _, err = env.capacity.ProviderBoost(alice, 1, 100)
	assert.ErrorIs(t, err, reverts.ErrCannotChangeStakingType)

	env.fund(bob, 1_000)
	_, _, err = env.capacity.ProviderBoost(bob, 1, 100)
	require.NoError(t, err)
	_, _, err = env.capacity.Stake(bob, 1, 100)
	assert.ErrorIs(t, err, reverts.ErrCannotChangeStakingType)
}

func TestUnstakeValidation(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 1_000)
	_, _, err := env.capacity.Stake(alice, 1, 50)
	require.NoError(t, err)
	_, _, err = env.capacity.Stake(alice, 2, 50)
	require.NoError(t, err)

	_, err = env.capacity.Unstake(alice, 1, 0)
	assert.ErrorIs(t, err, reverts.ErrUnstakedAmountIsZero)
	_, err = env.capacity.Unstake(bob, 1, 10)
	assert.ErrorIs(t, err, reverts.ErrNotAStakingAccount)
	_, err = env.capacity.Unstake(alice, 1, 101)
	assert.ErrorIs(t, err, reverts.ErrAmountToUnstakeExceedsAmountStaked)
	_, err = env.capacity.Unstake(alice, 3, 10)
	assert.ErrorIs(t, err, reverts.ErrStakerTargetRelationshipNotFound)
	_, err = env.capacity.Unstake(alice, 1, 60)
	assert.ErrorIs(t, err, reverts.ErrInsufficientStakingBalance)

	env.assertFrozen(alice, 100)
}

func TestUnstakeSweepsDust(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 1_000)
	_, _, err := env.capacity.Stake(alice, 1, 100)
	require.NoError(t, err)

	unstaked, err := env.capacity.Unstake(alice, 1, 95)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), unstaked)

	account, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	assert.Nil(t, account, "account reaped")
	target, err := env.capacity.StakingTarget(alice, 1)
	require.NoError(t, err)
	assert.Nil(t, target)

	details, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)
	assert.Equal(t, &ledger.CapacityDetails{}, details, "ledger kept but emptied")
	env.assertFrozen(alice, 100)
}

func TestStakeRoundTrip(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 1_000)
	env.fund(bob, 1_000)
	_, _, err := env.capacity.Stake(bob, 1, 333)
	require.NoError(t, err)
	before, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)

	_, _, err = env.capacity.Stake(alice, 1, 100)
	require.NoError(t, err)
	_, err = env.capacity.Unstake(alice, 1, 100)
	require.NoError(t, err)

	env.advanceTo(200)
	_, err = env.capacity.WithdrawUnstaked(alice)
	require.NoError(t, err)

	account, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	assert.Nil(t, account)
	freezes, err := env.token.Freezes(alice)
	require.NoError(t, err)
	assert.Empty(t, freezes)
	env.assertFrozen(alice, 0)

	after, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)
	assert.Equal(t, before.TotalTokensStaked, after.TotalTokensStaked)
	assert.Equal(t, before.TotalCapacityIssued, after.TotalCapacityIssued)
}

func TestUnlockChunkBoundLeavesStateUnchanged(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUnlockingChunks = 2
	env := newTestEnv(t, cfg, nil)
	env.fund(alice, 1_000)
	_, _, err := env.capacity.Stake(alice, 1, 100)
	require.NoError(t, err)

	_, err = env.capacity.Unstake(alice, 1, 10)
	require.NoError(t, err)
	env.advanceTo(100)
	_, err = env.capacity.Unstake(alice, 1, 10)
	require.NoError(t, err)
	// merges into the chunk of the same thaw epoch
	_, err = env.capacity.Unstake(alice, 1, 10)
	require.NoError(t, err)

	account, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	target, err := env.capacity.StakingTarget(alice, 1)
	require.NoError(t, err)
	details, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)
	unlocks, err := env.capacity.UnlockChunks(alice)
	require.NoError(t, err)
	assert.Len(t, unlocks, 2)

	env.advanceTo(200)
	_, err = env.capacity.Unstake(alice, 1, 10)
	assert.ErrorIs(t, err, reverts.ErrMaxUnlockingChunksExceeded)

	accountAfter, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	assert.Equal(t, account, accountAfter)
	targetAfter, err := env.capacity.StakingTarget(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, target, targetAfter)
	detailsAfter, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)
	assert.Equal(t, details, detailsAfter)
	unlocksAfter, err := env.capacity.UnlockChunks(alice)
	require.NoError(t, err)
	assert.Equal(t, unlocks, unlocksAfter)
	env.assertFrozen(alice, 100)
}

func TestChangeStakingTarget(t *testing.T) {
	cfg := testConfig()
	cfg.CapacityPerToken = fixedpoint.PerbillFromPercent(10)
	cfg.MaxRetargetsPerRewardEra = 2
	env := newTestEnv(t, cfg, economics.Default())
	env.fund(alice, 10_000)

	_, issued, err := env.capacity.ProviderBoost(alice, 1, 666)
	require.NoError(t, err)
	assert.Equal(t, uint64(33), issued)
	_, issued, err = env.capacity.ProviderBoost(alice, 2, 301)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), issued)

	require.NoError(t, env.capacity.ChangeStakingTarget(alice, 1, 2, 301))
	from, err := env.capacity.StakingTarget(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, &ledger.StakingTarget{Amount: 365, Capacity: 18}, from)
	to, err := env.capacity.StakingTarget(alice, 2)
	require.NoError(t, err)
	assert.Equal(t, &ledger.StakingTarget{Amount: 602, Capacity: 30}, to)

	require.NoError(t, env.capacity.ChangeStakingTarget(alice, 2, 1, 151))
	from, err = env.capacity.StakingTarget(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, &ledger.StakingTarget{Amount: 516, Capacity: 26}, from)
	to, err = env.capacity.StakingTarget(alice, 2)
	require.NoError(t, err)
	assert.Equal(t, &ledger.StakingTarget{Amount: 451, Capacity: 22}, to)

	details, err := env.capacity.CapacityDetails(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(516), details.TotalTokensStaked)
	assert.Equal(t, uint64(26), details.TotalCapacityIssued)

	account, err := env.capacity.StakingDetails(alice)
	require.NoError(t, err)
	assert.Equal(t, &ledger.StakingDetails{Active: 967, StakingType: ledger.ProviderBoost}, account)

	// the per-era bound is checked before anything else
	err = env.capacity.ChangeStakingTarget(alice, 1, 1, 100)
	assert.ErrorIs(t, err, reverts.ErrMaxRetargetsExceeded)

	env.advanceToEra(1)
	record, err := env.capacity.RetargetRecord(alice)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), record.Era)

	err = env.capacity.ChangeStakingTarget(alice, 1, 1, 100)
	assert.ErrorIs(t, err, reverts.ErrCannotRetargetToSameProvider)
	err = env.capacity.ChangeStakingTarget(alice, 1, 2, 5)
	assert.ErrorIs(t, err, reverts.ErrStakingAmountBelowMinimum)
	err = env.capacity.ChangeStakingTarget(alice, 1, 99, 100)
	assert.ErrorIs(t, err, reverts.ErrInvalidTarget)
	err = env.capacity.ChangeStakingTarget(bob, 1, 2, 100)
	assert.ErrorIs(t, err, reverts.ErrNotAStakingAccount)

	// failed attempts do not count
	require.NoError(t, env.capacity.ChangeStakingTarget(alice, 1, 3, 100))
	record, err = env.capacity.RetargetRecord(alice)
	require.NoError(t, err)
	assert.Equal(t, &boost.RetargetRecord{Era: 1, Count: 1}, record)
	env.assertFrozen(alice, 967)
}

func TestBoostUpdatesHistoryAndEraTotal(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.fund(alice, 10_000)
	env.fund(bob, 10_000)

	_, _, err := env.capacity.ProviderBoost(alice, 1, 1_000)
	require.NoError(t, err)
	_, _, err = env.capacity.ProviderBoost(bob, 1, 500)
	require.NoError(t, err)

	total, err := env.capacity.EraRunningTotal()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500), total)

	_, err = env.capacity.Unstake(alice, 1, 400)
	require.NoError(t, err)

	history, err := env.capacity.BoostHistory(alice)
	require.NoError(t, err)
	amount, ok := history.AmountFor(0)
	assert.True(t, ok)
	assert.Equal(t, uint64(600), amount)

	total, err = env.capacity.EraRunningTotal()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_100), total)

	_, err = env.capacity.Unstake(bob, 1, 500)
	require.NoError(t, err)
	history, err = env.capacity.BoostHistory(bob)
	require.NoError(t, err)
	assert.Nil(t, history, "history drained in its only era is deleted")

	env.advanceToEra(2)
	_, err = env.capacity.ClaimStakingRewards(alice)
	require.NoError(t, err)
	_, err = env.capacity.Unstake(alice, 1, 600)
	require.NoError(t, err)
	history, err = env.capacity.BoostHistory(alice)
	require.NoError(t, err)
	require.NotNil(t, history, "drained history keeps its rewarding era")
	assert.Equal(t, []boost.Entry{{Era: 1, Amount: 600}, {Era: 2, Amount: 0}}, history.Entries)
}
