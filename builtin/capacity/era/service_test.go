// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/lvldb"
	"github.com/vechain/capacity/state"
	"github.com/vechain/capacity/thor"
)

func newSvc(t *testing.T, params Params) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(thor.BytesToAddress([]byte("era")), state.New(db)), params)
}

var testParams = Params{EraLength: 10, HistoryLimit: 12, ChunkLength: 3}

// runEra adds amount to the running total and closes the era.
func runEra(t *testing.T, svc *Service, amount uint64) {
	require.NoError(t, svc.AddToRunningTotal(amount))
	info, err := svc.Current()
	require.NoError(t, err)
	rotated, err := svc.OnBlock(info.StartedAt + svc.params.EraLength)
	require.NoError(t, err)
	require.True(t, rotated)
}

func TestChunkIndex(t *testing.T) {
	svc := newSvc(t, testParams)

	tests := []struct {
		era  uint32
		want uint32
	}{
		{0, 0}, {1, 0}, {2, 0},
		{3, 1}, {5, 1},
		{6, 2}, {10, 3}, {14, 4},
		{15, 0}, {21, 2}, {54, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.ChunkIndex(tt.era), "era %d", tt.era)
	}
	assert.Equal(t, uint32(5), svc.ChunkCount())

	for era := uint32(0); era < 200; era++ {
		assert.Equal(t, svc.ChunkIndex(era), svc.ChunkIndex(era+15))
		assert.Less(t, svc.ChunkIndex(era), svc.ChunkCount())
	}
}

func TestRotation(t *testing.T) {
	svc := newSvc(t, testParams)

	rotated, err := svc.OnBlock(9)
	require.NoError(t, err)
	assert.False(t, rotated)

	require.NoError(t, svc.AddToRunningTotal(100))
	rotated, err = svc.OnBlock(10)
	require.NoError(t, err)
	assert.True(t, rotated)

	info, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, Info{EraIndex: 1, StartedAt: 10}, info)

	// running total carries over
	total, err := svc.RunningTotal()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), total)

	past, err := svc.TotalStakeForPastEra(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), past)

	_, err = svc.TotalStakeForPastEra(1)
	assert.ErrorIs(t, err, reverts.ErrEraOutOfRange)
}

func TestChunksCycle(t *testing.T) {
	svc := newSvc(t, testParams)

	for rep := 0; rep < 15; rep++ {
		runEra(t, svc, 100)
	}
	// eras 0..14 closed with totals 100..1500
	for index := uint32(0); index < 5; index++ {
		chunk, err := svc.Chunk(index)
		require.NoError(t, err)
		assert.True(t, chunk.IsFull(3), "chunk %d", index)
		earliest, ok := chunk.Earliest()
		require.True(t, ok)
		assert.Equal(t, index*3, earliest.Era)
		assert.Equal(t, uint64(index*3+1)*100, earliest.Amount)
	}

	runEra(t, svc, 100) // era 15 reuses chunk 0
	chunk, err := svc.Chunk(0)
	require.NoError(t, err)
	assert.False(t, chunk.IsFull(3))
	assert.Equal(t, []Entry{{Era: 15, Amount: 1600}}, chunk.Entries)

	for index := uint32(1); index < 5; index++ {
		chunk, err := svc.Chunk(index)
		require.NoError(t, err)
		assert.True(t, chunk.IsFull(3), "chunk %d", index)
	}

	chunk, err = svc.Chunk(5)
	require.NoError(t, err)
	assert.Nil(t, chunk)
}

func TestTotalStakeForPastEraWindow(t *testing.T) {
	svc := newSvc(t, testParams)
	for rep := 0; rep < 20; rep++ {
		runEra(t, svc, 10)
	}
	// current era is 20, window is [8, 19]
	for era := uint32(8); era < 20; era++ {
		total, err := svc.TotalStakeForPastEra(era)
		require.NoError(t, err, "era %d", era)
		assert.Equal(t, uint64(era+1)*10, total)
	}
	_, err := svc.TotalStakeForPastEra(7)
	assert.ErrorIs(t, err, reverts.ErrEraOutOfRange)
	_, err = svc.TotalStakeForPastEra(20)
	assert.ErrorIs(t, err, reverts.ErrEraOutOfRange)
}

func TestSubFromRunningTotalSaturates(t *testing.T) {
	svc := newSvc(t, testParams)
	require.NoError(t, svc.AddToRunningTotal(5))
	require.NoError(t, svc.SubFromRunningTotal(10))
	total, err := svc.RunningTotal()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBlockAtEndOfEra(t *testing.T) {
	svc := newSvc(t, Params{EraLength: 10, HistoryLimit: 12, ChunkLength: 3})

	require.NoError(t, svc.Reset(1, 1))
	end, err := svc.BlockAtEndOfEra(10)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), end)

	require.NoError(t, svc.Reset(7, 61))
	end, err = svc.BlockAtEndOfEra(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(70), end)
	end, err = svc.BlockAtEndOfEra(10)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), end)

	require.NoError(t, svc.Reset(99, 2342))
	end, err = svc.BlockAtEndOfEra(99)
	require.NoError(t, err)
	assert.Equal(t, uint32(2351), end)
	end, err = svc.BlockAtEndOfEra(108)
	require.NoError(t, err)
	assert.Equal(t, uint32(2441), end)
}
