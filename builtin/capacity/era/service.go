// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/thor"
)

var (
	slotInfo         = thor.BytesToBytes32([]byte("era-info"))
	slotRunningTotal = thor.BytesToBytes32([]byte("era-running-total"))
	slotChunks       = thor.BytesToBytes32([]byte("era-chunks"))
)

// Params fixes the era clock and the retention window of the reward pool history.
type Params struct {
	EraLength    uint32
	HistoryLimit uint32
	ChunkLength  uint32
}

// Service keeps the reward era clock and the rotating history of per-era boosted totals.
// The history is a ring of HistoryLimit/ChunkLength+1 chunks addressed by ChunkIndex.
type Service struct {
	info         *solidity.Raw[Info]
	runningTotal *solidity.Raw[uint64]
	chunks       *solidity.Mapping[chunkKey, *Chunk]

	params Params
}

func New(sctx *solidity.Context, params Params) *Service {
	return &Service{
		info:         solidity.NewRaw[Info](sctx, slotInfo),
		runningTotal: solidity.NewRaw[uint64](sctx, slotRunningTotal),
		chunks:       solidity.NewMapping[chunkKey, *Chunk](sctx, slotChunks),
		params:       params,
	}
}

func (s *Service) Params() Params {
	return s.params
}

// ChunkIndex maps an era onto its slot in the ring.
func (s *Service) ChunkIndex(era uint32) uint32 {
	return (era % (s.params.HistoryLimit + s.params.ChunkLength)) / s.params.ChunkLength
}

// ChunkCount is the number of distinct chunk slots.
func (s *Service) ChunkCount() uint32 {
	return s.params.HistoryLimit/s.params.ChunkLength + 1
}

func (s *Service) Current() (Info, error) {
	info, err := s.info.Get()
	if err != nil {
		return Info{}, errors.Wrap(err, "failed to get era info")
	}
	return info, nil
}

func (s *Service) RunningTotal() (uint64, error) {
	total, err := s.runningTotal.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get era running total")
	}
	return total, nil
}

// AddToRunningTotal increases the boosted total of the running era.
func (s *Service) AddToRunningTotal(amount uint64) error {
	total, err := s.RunningTotal()
	if err != nil {
		return err
	}
	total, err = fixedpoint.CheckedAdd(total, amount)
	if err != nil {
		return err
	}
	return s.runningTotal.Upsert(total)
}

// SubFromRunningTotal decreases the boosted total of the running era, floored at zero.
func (s *Service) SubFromRunningTotal(amount uint64) error {
	total, err := s.RunningTotal()
	if err != nil {
		return err
	}
	return s.runningTotal.Upsert(fixedpoint.SaturatingSub(total, amount))
}

// Chunk returns the chunk stored at index, nil if none.
func (s *Service) Chunk(index uint32) (*Chunk, error) {
	chunk, err := s.chunks.Get(chunkKey(index))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get reward pool chunk %d", index)
	}
	return chunk, nil
}

// Record stores the boosted total of a closed era.
func (s *Service) Record(era uint32, total uint64) error {
	index := s.ChunkIndex(era)
	chunk, err := s.Chunk(index)
	if err != nil {
		return err
	}
	if chunk == nil {
		chunk = &Chunk{}
	}
	chunk.set(era, total, s.params.ChunkLength)
	return s.chunks.Set(chunkKey(index), chunk)
}

// OnBlock closes the running era once it has lasted EraLength blocks.
// The running total carries into the new era unchanged.
func (s *Service) OnBlock(height uint32) (bool, error) {
	info, err := s.Current()
	if err != nil {
		return false, err
	}
	if height < info.StartedAt || height-info.StartedAt < s.params.EraLength {
		return false, nil
	}

	total, err := s.RunningTotal()
	if err != nil {
		return false, err
	}
	if err := s.Record(info.EraIndex, total); err != nil {
		return false, err
	}
	next := Info{EraIndex: info.EraIndex + 1, StartedAt: height}
	if err := s.info.Upsert(next); err != nil {
		return false, errors.Wrap(err, "failed to set era info")
	}
	return true, nil
}

// TotalStakeForPastEra returns the boosted total of a closed era still inside the retention window.
func (s *Service) TotalStakeForPastEra(era uint32) (uint64, error) {
	info, err := s.Current()
	if err != nil {
		return 0, err
	}
	if era >= info.EraIndex || uint64(era)+uint64(s.params.HistoryLimit) < uint64(info.EraIndex) {
		return 0, reverts.ErrEraOutOfRange
	}
	chunk, err := s.Chunk(s.ChunkIndex(era))
	if err != nil {
		return 0, err
	}
	total, ok := chunk.Get(era)
	if !ok {
		return 0, reverts.ErrEraOutOfRange
	}
	return total, nil
}

// BlockAtEndOfEra returns the last block of era, projected from the running era.
// Eras at or before the running one resolve to its last block.
func (s *Service) BlockAtEndOfEra(era uint32) (uint32, error) {
	info, err := s.Current()
	if err != nil {
		return 0, err
	}
	eras := uint32(1)
	if era > info.EraIndex {
		eras = era - info.EraIndex + 1
	}
	return info.StartedAt + s.params.EraLength*eras - 1, nil
}

// Reset sets the clock to era starting at height. Used at genesis.
func (s *Service) Reset(era, height uint32) error {
	return s.info.Upsert(Info{EraIndex: era, StartedAt: height})
}
