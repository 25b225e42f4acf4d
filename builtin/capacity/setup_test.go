// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/builtin/capacity/economics"
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/token"
	"github.com/vechain/capacity/lvldb"
	"github.com/vechain/capacity/state"
	"github.com/vechain/capacity/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

type targetSet map[thor.TargetID]bool

func (s targetSet) IsValidTarget(target thor.TargetID) (bool, error) {
	return s[target], nil
}

func testConfig() Config {
	return Config{
		MinimumStakingAmount:     10,
		MinimumTokenBalance:      10,
		CapacityPerToken:         fixedpoint.PerbillFromPercent(50),
		MaxUnlockingChunks:       4,
		UnstakingThawPeriod:      2,
		MaxEpochLength:           100,
		EraLength:                10,
		HistoryLimit:             30,
		RewardPoolChunkLength:    5,
		MaxRetargetsPerRewardEra: 2,
	}
}

type testEnv struct {
	t        *testing.T
	capacity *Capacity
	token    *token.Token
	state    *state.State
	height   uint32
}

func newTestEnv(t *testing.T, cfg Config, model EconomicModel) *testEnv {
	require.NoError(t, cfg.Validate())
	if model == nil {
		model = economics.Default()
	}
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	tk := token.New(thor.BytesToAddress([]byte("token")), st)
	c := New(thor.BytesToAddress([]byte("capacity")), st, cfg, tk, targetSet{1: true, 2: true, 3: true}, model)
	return &testEnv{t: t, capacity: c, token: tk, state: st}
}

func (e *testEnv) fund(account thor.Address, amount uint64) {
	require.NoError(e.t, e.token.Mint(account, amount))
}

// advanceTo runs the block hook for every height up to and including height.
func (e *testEnv) advanceTo(height uint32) {
	for e.height < height {
		e.height++
		_, err := e.capacity.OnBlock(e.height)
		require.NoError(e.t, err)
	}
}

// advanceToEra runs blocks until the era index reaches target.
func (e *testEnv) advanceToEra(target uint32) {
	for {
		info, err := e.capacity.CurrentEra()
		require.NoError(e.t, err)
		if info.EraIndex >= target {
			return
		}
		e.advanceTo(e.height + 1)
	}
}

// assertFrozen checks the token hold matches active plus unlocking stake.
func (e *testEnv) assertFrozen(account thor.Address, want uint64) {
	frozen, err := e.token.Frozen(account)
	require.NoError(e.t, err)
	expected, err := e.capacity.FrozenTotal(account)
	require.NoError(e.t, err)
	assert.Equal(e.t, expected, frozen, "frozen balance diverged from ledger")
	assert.Equal(e.t, want, frozen)
}
