// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/reverts"
)

// StakingType fixes how an account's stake is converted into capacity.
type StakingType uint8

const (
	// MaximumCapacity converts the whole stake into capacity.
	MaximumCapacity StakingType = iota
	// ProviderBoost converts a reduced share into capacity and earns era rewards.
	ProviderBoost
)

func (t StakingType) String() string {
	switch t {
	case MaximumCapacity:
		return "MaximumCapacity"
	case ProviderBoost:
		return "ProviderBoost"
	default:
		return "Unknown"
	}
}

// StakingDetails is the per-staker account.
type StakingDetails struct {
	Active      uint64
	StakingType StakingType
}

func (d *StakingDetails) Deposit(amount uint64) error {
	active, err := fixedpoint.CheckedAdd(d.Active, amount)
	if err != nil {
		return err
	}
	d.Active = active
	return nil
}

// Withdraw removes amount from the active stake, capped at what is active, and returns the amount removed.
func (d *StakingDetails) Withdraw(amount uint64) uint64 {
	actual := min(amount, d.Active)
	d.Active -= actual
	return actual
}

// UnlockChunk is stake waiting to thaw.
type UnlockChunk struct {
	Value     uint64
	ThawEpoch uint32
}

// UnlockChunks is a staker's unlock queue, bounded by the caller's limit.
type UnlockChunks []UnlockChunk

// Add merges value into the chunk thawing at the same epoch or appends a new chunk.
func (u UnlockChunks) Add(value uint64, thawEpoch uint32, limit uint32) (UnlockChunks, error) {
	for i := range u {
		if u[i].ThawEpoch == thawEpoch {
			merged, err := fixedpoint.CheckedAdd(u[i].Value, value)
			if err != nil {
				return nil, err
			}
			u[i].Value = merged
			return u, nil
		}
	}
	if len(u) >= int(limit) {
		return nil, reverts.ErrMaxUnlockingChunksExceeded
	}
	return append(u, UnlockChunk{Value: value, ThawEpoch: thawEpoch}), nil
}

func (u UnlockChunks) Total() (uint64, error) {
	var (
		total uint64
		err   error
	)
	for _, chunk := range u {
		if total, err = fixedpoint.CheckedAdd(total, chunk.Value); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// ReapThawed splits off chunks thawed by epoch and returns the rest with the reaped sum.
func (u UnlockChunks) ReapThawed(epoch uint32) (UnlockChunks, uint64, error) {
	var (
		remaining UnlockChunks
		reaped    uint64
		err       error
	)
	for _, chunk := range u {
		if chunk.ThawEpoch <= epoch {
			if reaped, err = fixedpoint.CheckedAdd(reaped, chunk.Value); err != nil {
				return nil, 0, err
			}
			continue
		}
		remaining = append(remaining, chunk)
	}
	return remaining, reaped, nil
}

// StakingTarget is a staker's contribution to one target.
type StakingTarget struct {
	Amount   uint64
	Capacity uint64
}

func (t *StakingTarget) Deposit(amount, capacity uint64) error {
	newAmount, err := fixedpoint.CheckedAdd(t.Amount, amount)
	if err != nil {
		return err
	}
	newCapacity, err := fixedpoint.CheckedAdd(t.Capacity, capacity)
	if err != nil {
		return err
	}
	t.Amount, t.Capacity = newAmount, newCapacity
	return nil
}

func (t *StakingTarget) Withdraw(amount, capacity uint64) {
	t.Amount = fixedpoint.SaturatingSub(t.Amount, amount)
	t.Capacity = fixedpoint.SaturatingSub(t.Capacity, capacity)
}

func (t *StakingTarget) IsEmpty() bool {
	return t.Amount == 0 && t.Capacity == 0
}

// CapacityDetails is a target's capacity ledger.
type CapacityDetails struct {
	RemainingCapacity    uint64
	TotalTokensStaked    uint64
	TotalCapacityIssued  uint64
	LastReplenishedEpoch uint32
}

// Deposit records newly staked tokens and the capacity they issue.
func (c *CapacityDetails) Deposit(tokens, capacity uint64) error {
	remaining, err := fixedpoint.CheckedAdd(c.RemainingCapacity, capacity)
	if err != nil {
		return err
	}
	issued, err := fixedpoint.CheckedAdd(c.TotalCapacityIssued, capacity)
	if err != nil {
		return err
	}
	staked, err := fixedpoint.CheckedAdd(c.TotalTokensStaked, tokens)
	if err != nil {
		return err
	}
	c.RemainingCapacity, c.TotalCapacityIssued, c.TotalTokensStaked = remaining, issued, staked
	return nil
}

// Withdraw removes unstaked tokens and their capacity, flooring every field at zero.
func (c *CapacityDetails) Withdraw(tokens, capacity uint64) {
	c.TotalTokensStaked = fixedpoint.SaturatingSub(c.TotalTokensStaked, tokens)
	c.TotalCapacityIssued = fixedpoint.SaturatingSub(c.TotalCapacityIssued, capacity)
	c.RemainingCapacity = fixedpoint.SaturatingSub(c.RemainingCapacity, capacity)
}

// CanReplenish reports whether the ledger has not yet been refilled in epoch.
func (c *CapacityDetails) CanReplenish(epoch uint32) bool {
	return c.LastReplenishedEpoch < epoch
}

// ReplenishAll refills remaining capacity to the issued total.
func (c *CapacityDetails) ReplenishAll(epoch uint32) {
	c.RemainingCapacity = c.TotalCapacityIssued
	c.LastReplenishedEpoch = epoch
}

// ReplenishByAmount adds amount to the remaining capacity, capped at the issued total.
func (c *CapacityDetails) ReplenishByAmount(amount uint64, epoch uint32) {
	c.RemainingCapacity = min(fixedpoint.SaturatingAdd(c.RemainingCapacity, amount), c.TotalCapacityIssued)
	c.LastReplenishedEpoch = epoch
}

// Deduct consumes amount of remaining capacity.
func (c *CapacityDetails) Deduct(amount uint64) error {
	if c.RemainingCapacity < amount {
		return reverts.ErrInsufficientCapacityBalance
	}
	c.RemainingCapacity -= amount
	return nil
}
