// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/thor"
)

var (
	slotCurrent = thor.BytesToBytes32([]byte("epoch-current"))
	slotInfo    = thor.BytesToBytes32([]byte("epoch-info"))
	slotLength  = thor.BytesToBytes32([]byte("epoch-length"))
)

// Info describes the running epoch.
type Info struct {
	EpochStart uint32
}

// Service tracks the capacity epoch, the period after which capacity may be replenished.
type Service struct {
	current *solidity.Raw[uint32]
	info    *solidity.Raw[Info]
	length  *solidity.Raw[uint32]

	maxLength uint32
}

func New(sctx *solidity.Context, maxLength uint32) *Service {
	return &Service{
		current:   solidity.NewRaw[uint32](sctx, slotCurrent),
		info:      solidity.NewRaw[Info](sctx, slotInfo),
		length:    solidity.NewRaw[uint32](sctx, slotLength),
		maxLength: maxLength,
	}
}

func (s *Service) Current() (uint32, error) {
	epoch, err := s.current.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get current epoch")
	}
	return epoch, nil
}

func (s *Service) Info() (Info, error) {
	info, err := s.info.Get()
	if err != nil {
		return Info{}, errors.Wrap(err, "failed to get epoch info")
	}
	return info, nil
}

// Length returns the configured epoch length in blocks. Zero means the maximum.
func (s *Service) Length() (uint32, error) {
	length, err := s.length.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get epoch length")
	}
	return length, nil
}

// EffectiveLength resolves a zero length to the maximum.
func (s *Service) EffectiveLength() (uint32, error) {
	length, err := s.Length()
	if err != nil {
		return 0, err
	}
	if length == 0 {
		return s.maxLength, nil
	}
	return length, nil
}

func (s *Service) SetLength(length uint32) error {
	if length > s.maxLength {
		return reverts.ErrMaxEpochLengthExceeded
	}
	return s.length.Upsert(length)
}

// OnBlock starts a new epoch once the current one has lasted its length.
func (s *Service) OnBlock(height uint32) (bool, error) {
	info, err := s.Info()
	if err != nil {
		return false, err
	}
	length, err := s.EffectiveLength()
	if err != nil {
		return false, err
	}
	if height < info.EpochStart || height-info.EpochStart < length {
		return false, nil
	}

	current, err := s.Current()
	if err != nil {
		return false, err
	}
	if err := s.current.Upsert(current + 1); err != nil {
		return false, errors.Wrap(err, "failed to set current epoch")
	}
	if err := s.info.Upsert(Info{EpochStart: height}); err != nil {
		return false, errors.Wrap(err, "failed to set epoch info")
	}
	return true, nil
}
