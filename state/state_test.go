// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/kv"
	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/thor"
)

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return kv.Bucket("s/").NewStore(db)
}

func TestStateReadWrite(t *testing.T) {
	st := New(newStore(t))
	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("key"))
	value := thor.BytesToBytes32([]byte("value"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	st.SetStorage(addr, key, thor.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	st := New(newStore(t))
	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("key"))

	values := []thor.Bytes32{
		thor.BytesToBytes32([]byte("v1")),
		thor.BytesToBytes32([]byte("v2")),
		thor.BytesToBytes32([]byte("v3")),
	}
	var revisions []int
	for _, v := range values {
		revisions = append(revisions, st.NewCheckpoint())
		st.SetStorage(addr, key, v)
	}

	for i := len(values) - 1; i >= 0; i-- {
		got, err := st.GetStorage(addr, key)
		require.NoError(t, err)
		assert.Equal(t, values[i], got)
		st.RevertTo(revisions[i])
	}
	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// revert below the base level keeps the state usable
	st.RevertTo(0)
	st.SetStorage(addr, key, values[0])
	got, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, values[0], got)
}

func TestStateCommit(t *testing.T) {
	store := newStore(t)
	st := New(store)
	addr := thor.BytesToAddress([]byte("account1"))
	keep := thor.BytesToBytes32([]byte("keep"))
	drop := thor.BytesToBytes32([]byte("drop"))

	require.NoError(t, st.EncodeStorage(addr, keep, func() ([]byte, error) {
		return rlp.EncodeToBytes(big.NewInt(1234))
	}))
	st.SetStorage(addr, drop, thor.BytesToBytes32([]byte("x")))
	require.NoError(t, st.Commit())

	st.SetStorage(addr, drop, thor.Bytes32{})
	require.NoError(t, st.Commit())

	// a fresh state over the same store sees committed values
	reloaded := New(store)
	var n big.Int
	require.NoError(t, reloaded.DecodeStorage(addr, keep, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &n)
	}))
	assert.Equal(t, int64(1234), n.Int64())

	raw, err := reloaded.GetRawStorage(addr, drop)
	require.NoError(t, err)
	assert.Empty(t, raw)

	has, err := store.Has(storageKey{addr, drop}.bytes())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStateCommitIsolatesUncommitted(t *testing.T) {
	store := newStore(t)
	st := New(store)
	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("key"))

	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte("v")))
	st.RevertTo(cp)
	require.NoError(t, st.Commit())

	has, err := store.Has(storageKey{addr, key}.bytes())
	require.NoError(t, err)
	assert.False(t, has)
}
