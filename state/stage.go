// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Stage abstracts the changes made since the last commit.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes into the underlying store in one batch and
// drops the journal of the state.
func (s *Stage) Commit() error {
	batch := s.state.store.NewBatch()
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.dbKey())
		} else {
			err = batch.Put(k.dbKey(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	for _, k := range s.order {
		s.state.cache.Add(k, s.changes[k])
	}
	s.state.reset()
	metricCommits().Add(1)
	metricCommittedSlots().Add(int64(len(s.order)))
	return nil
}
