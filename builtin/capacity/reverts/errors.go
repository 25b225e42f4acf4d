// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

var (
	ErrInvalidTarget                      = New(Validation, "invalid staking target")
	ErrZeroAmountNotAllowed               = New(Validation, "amount must be greater than zero")
	ErrUnstakedAmountIsZero               = New(Validation, "unstaked amount must be greater than zero")
	ErrStakingAmountBelowMinimum          = New(Validation, "staking amount is below the minimum")
	ErrCannotChangeStakingType            = New(Validation, "staking account already uses another staking type")
	ErrCannotRetargetToSameProvider       = New(Validation, "cannot retarget to the same target")
	ErrNotAStakingAccount                 = New(Validation, "not a staking account")
	ErrNotAProviderBoostAccount           = New(Validation, "not a provider boost account")
	ErrAmountToUnstakeExceedsAmountStaked = New(Validation, "amount to unstake exceeds amount staked")
	ErrMustFirstClaimRewards              = New(Validation, "unclaimed rewards must be claimed first")
	ErrNoRewardsEligibleToClaim           = New(Validation, "no rewards eligible to claim")

	ErrBalanceTooLowToStake             = New(Resource, "balance too low to stake")
	ErrInsufficientCapacityBalance      = New(Resource, "insufficient capacity balance")
	ErrInsufficientStakingBalance       = New(Resource, "insufficient staking balance for target")
	ErrStakerTargetRelationshipNotFound = New(Resource, "staker target relationship not found")
	ErrTargetCapacityNotFound           = New(Resource, "target capacity not found")
	ErrNoThawedTokenAvailable           = New(Resource, "no thawed token available")
	ErrInsufficientBalance              = New(Resource, "insufficient balance")

	ErrMaxUnlockingChunksExceeded = New(Bound, "max unlocking chunks exceeded")
	ErrMaxRetargetsExceeded       = New(Bound, "max retargets per era exceeded")
	ErrEraOutOfRange              = New(Bound, "era out of range")
	ErrMaxEpochLengthExceeded     = New(Bound, "max epoch length exceeded")

	ErrArithmeticOverflow  = New(Arithmetic, "arithmetic overflow")
	ErrArithmeticUnderflow = New(Arithmetic, "arithmetic underflow")
)
