// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boost

import (
	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/thor"
)

var (
	slotHistories = thor.BytesToBytes32([]byte("boost-histories"))
	slotRetargets = thor.BytesToBytes32([]byte("retarget-records"))
)

// Service stores booster histories and retarget records.
type Service struct {
	histories *solidity.Mapping[thor.Address, *History]
	retargets *solidity.Mapping[thor.Address, *RetargetRecord]

	historyLimit uint32
	maxRetargets uint32
}

func New(sctx *solidity.Context, historyLimit, maxRetargets uint32) *Service {
	return &Service{
		histories:    solidity.NewMapping[thor.Address, *History](sctx, slotHistories),
		retargets:    solidity.NewMapping[thor.Address, *RetargetRecord](sctx, slotRetargets),
		historyLimit: historyLimit,
		maxRetargets: maxRetargets,
	}
}

// History returns the staker's boost history, nil if none.
func (s *Service) History(staker thor.Address) (*History, error) {
	h, err := s.histories.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get boost history")
	}
	return h, nil
}

// SetHistory stores the history, deleting it when no entry holds stake.
// A drained history with an earlier non-zero entry is kept, it can still earn rewards.
func (s *Service) SetHistory(staker thor.Address, h *History) error {
	if h.IsZero() {
		s.histories.Delete(staker)
		return nil
	}
	return s.histories.Set(staker, h)
}

// Upsert adds or subtracts amount at era in the staker's history.
func (s *Service) Upsert(staker thor.Address, era uint32, amount uint64, add bool) error {
	h, err := s.History(staker)
	if err != nil {
		return err
	}
	if h == nil {
		h = &History{}
	}
	if add {
		err = h.Add(era, amount, s.historyLimit)
	} else {
		err = h.Subtract(era, amount, s.historyLimit)
	}
	if err != nil {
		return err
	}
	return s.SetHistory(staker, h)
}

// RetargetRecord returns the staker's record, nil if none.
func (s *Service) RetargetRecord(staker thor.Address) (*RetargetRecord, error) {
	r, err := s.retargets.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get retarget record")
	}
	return r, nil
}

// RegisterRetarget counts one retarget for the staker in era.
func (s *Service) RegisterRetarget(staker thor.Address, era uint32) error {
	r, err := s.RetargetRecord(staker)
	if err != nil {
		return err
	}
	if r == nil {
		r = &RetargetRecord{}
	}
	if err := r.Update(era, s.maxRetargets); err != nil {
		return err
	}
	return s.retargets.Set(staker, r)
}
