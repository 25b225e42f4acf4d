// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/thor"
)

var (
	slotAccounts   = thor.BytesToBytes32([]byte("staking-accounts"))
	slotTargets    = thor.BytesToBytes32([]byte("staking-targets"))
	slotCapacities = thor.BytesToBytes32([]byte("capacity-ledgers"))
	slotUnlocks    = thor.BytesToBytes32([]byte("unlock-chunks"))
)

type stakerTargetKey struct {
	staker thor.Address
	target thor.TargetID
}

func (k stakerTargetKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.staker.Bytes(), uint64(k.target))
}

// Service stores staking accounts, staker-target relationships, capacity ledgers and unlock queues.
// Absent records read as nil.
type Service struct {
	accounts   *solidity.Mapping[thor.Address, *StakingDetails]
	targets    *solidity.Mapping[stakerTargetKey, *StakingTarget]
	capacities *solidity.Mapping[thor.TargetID, *CapacityDetails]
	unlocks    *solidity.Mapping[thor.Address, UnlockChunks]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		accounts:   solidity.NewMapping[thor.Address, *StakingDetails](sctx, slotAccounts),
		targets:    solidity.NewMapping[stakerTargetKey, *StakingTarget](sctx, slotTargets),
		capacities: solidity.NewMapping[thor.TargetID, *CapacityDetails](sctx, slotCapacities),
		unlocks:    solidity.NewMapping[thor.Address, UnlockChunks](sctx, slotUnlocks),
	}
}

func (s *Service) Account(staker thor.Address) (*StakingDetails, error) {
	account, err := s.accounts.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking account")
	}
	return account, nil
}

// SetAccount stores the account, reaping it once nothing is active.
func (s *Service) SetAccount(staker thor.Address, account *StakingDetails) error {
	if account == nil || account.Active == 0 {
		s.accounts.Delete(staker)
		return nil
	}
	return s.accounts.Set(staker, account)
}

func (s *Service) Target(staker thor.Address, target thor.TargetID) (*StakingTarget, error) {
	t, err := s.targets.Get(stakerTargetKey{staker, target})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking target")
	}
	return t, nil
}

// SetTarget stores the relationship, deleting it once it holds no stake.
func (s *Service) SetTarget(staker thor.Address, target thor.TargetID, t *StakingTarget) error {
	key := stakerTargetKey{staker, target}
	if t == nil || t.Amount == 0 {
		s.targets.Delete(key)
		return nil
	}
	return s.targets.Set(key, t)
}

func (s *Service) Capacity(target thor.TargetID) (*CapacityDetails, error) {
	c, err := s.capacities.Get(target)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get capacity ledger")
	}
	return c, nil
}

func (s *Service) SetCapacity(target thor.TargetID, c *CapacityDetails) error {
	return s.capacities.Set(target, c)
}

func (s *Service) Unlocks(staker thor.Address) (UnlockChunks, error) {
	u, err := s.unlocks.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unlock chunks")
	}
	return u, nil
}

// SetUnlocks stores the queue, deleting it when empty.
func (s *Service) SetUnlocks(staker thor.Address, u UnlockChunks) error {
	if len(u) == 0 {
		s.unlocks.Delete(staker)
		return nil
	}
	return s.unlocks.Set(staker, u)
}
