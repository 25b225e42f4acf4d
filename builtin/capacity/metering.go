// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/vechain/capacity/builtin/capacity/ledger"
	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/thor"
)

// Remaining returns the capacity the target can still spend, as stored.
// It does not account for a replenishment due in the current epoch.
func (c *Capacity) Remaining(target thor.TargetID) (uint64, error) {
	details, err := c.ledgerService.Capacity(target)
	if err != nil || details == nil {
		return 0, err
	}
	return details.RemainingCapacity, nil
}

// Deduct spends amount of the target's capacity, refilling it first when a new epoch has started.
func (c *Capacity) Deduct(target thor.TargetID, amount uint64) error {
	err := c.atomic("deduct", func() error {
		return c.updateCapacity(target, func(details *ledger.CapacityDetails, epoch uint32) error {
			if details.CanReplenish(epoch) {
				details.ReplenishAll(epoch)
			}
			return details.Deduct(amount)
		})
	})
	if err != nil {
		return err
	}
	metricCapacityDeducted().Add(int64(amount))
	return nil
}

// Deposit credits tokens and capacity to an existing target ledger.
func (c *Capacity) Deposit(target thor.TargetID, tokens, capacity uint64) error {
	return c.atomic("deposit", func() error {
		return c.updateCapacity(target, func(details *ledger.CapacityDetails, _ uint32) error {
			return details.Deposit(tokens, capacity)
		})
	})
}

// ReplenishAllFor refills the target's remaining capacity to the issued total.
func (c *Capacity) ReplenishAllFor(target thor.TargetID) error {
	return c.atomic("replenish_all", func() error {
		return c.updateCapacity(target, func(details *ledger.CapacityDetails, epoch uint32) error {
			details.ReplenishAll(epoch)
			return nil
		})
	})
}

// ReplenishByAmount refills amount of the target's capacity, capped at the issued total.
func (c *Capacity) ReplenishByAmount(target thor.TargetID, amount uint64) error {
	return c.atomic("replenish_by_amount", func() error {
		return c.updateCapacity(target, func(details *ledger.CapacityDetails, epoch uint32) error {
			details.ReplenishByAmount(amount, epoch)
			return nil
		})
	})
}

// CanReplenish reports whether the target has not been refilled in the current epoch.
func (c *Capacity) CanReplenish(target thor.TargetID) (bool, error) {
	details, err := c.ledgerService.Capacity(target)
	if err != nil || details == nil {
		return false, err
	}
	epoch, err := c.epochService.Current()
	if err != nil {
		return false, err
	}
	return details.CanReplenish(epoch), nil
}

func (c *Capacity) updateCapacity(target thor.TargetID, fn func(details *ledger.CapacityDetails, epoch uint32) error) error {
	details, err := c.ledgerService.Capacity(target)
	if err != nil {
		return err
	}
	if details == nil {
		return reverts.ErrTargetCapacityNotFound
	}
	epoch, err := c.epochService.Current()
	if err != nil {
		return err
	}
	if err := fn(details, epoch); err != nil {
		return err
	}
	return c.ledgerService.SetCapacity(target, details)
}
