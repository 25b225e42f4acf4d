// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/lvldb"
	"github.com/vechain/capacity/thor"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateRawStorage(t *testing.T) {
	st, _ := newTestState(t)
	addr := thor.BytesToAddress([]byte("acc1"))
	key := thor.BytesToBytes32([]byte("slot"))

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)

	enc, _ := rlp.EncodeToBytes(uint64(42))
	st.SetRawStorage(addr, key, enc)

	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue(enc), raw)

	var v uint64
	require.NoError(t, st.DecodeStorage(addr, key, func(b []byte) error {
		return rlp.DecodeBytes(b, &v)
	}))
	assert.Equal(t, uint64(42), v)
}

func TestStateCheckpoint(t *testing.T) {
	st, _ := newTestState(t)
	addr := thor.BytesToAddress([]byte("acc1"))
	key := thor.BytesToBytes32([]byte("slot"))

	st.SetRawStorage(addr, key, []byte{0x01})
	rev := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte{0x02})

	raw, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, rlp.RawValue{0x02}, raw)

	st.RevertTo(rev)
	raw, _ = st.GetRawStorage(addr, key)
	assert.Equal(t, rlp.RawValue{0x01}, raw)
}

func TestStageCommit(t *testing.T) {
	st, db := newTestState(t)
	addr := thor.BytesToAddress([]byte("acc1"))
	k1 := thor.BytesToBytes32([]byte("s1"))
	k2 := thor.BytesToBytes32([]byte("s2"))

	st.SetRawStorage(addr, k1, []byte{0x01})
	st.SetRawStorage(addr, k2, []byte{0x02})
	st.SetRawStorage(addr, k1, []byte{0x03})

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())

	// a fresh state over the same store sees committed values
	fresh := New(db)
	raw, err := fresh.GetRawStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue{0x03}, raw)

	// journal is empty after commit
	assert.Equal(t, 0, st.Stage().Len())

	// clearing a slot deletes the key
	st.SetRawStorage(addr, k2, nil)
	require.NoError(t, st.Stage().Commit())
	has, err := db.Has(storageKey{addr, k2}.dbKey())
	require.NoError(t, err)
	assert.False(t, has)

	raw, err = st.GetRawStorage(addr, k2)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDecodeStorageError(t *testing.T) {
	st, _ := newTestState(t)
	addr := thor.BytesToAddress([]byte("acc1"))
	key := thor.BytesToBytes32([]byte("slot"))

	decErr := errors.New("bad value")
	err := st.DecodeStorage(addr, key, func([]byte) error { return decErr })
	assert.ErrorIs(t, err, decErr)

	var se *Error
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "state: bad value", err.Error())
}
