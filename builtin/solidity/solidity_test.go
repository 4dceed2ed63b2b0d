// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/test/datagen"
	"github.com/vechain/mineauction/thor"
)

type TestStruct struct {
	Field1 uint64
	Field2 uint32
	Addr1  thor.Address
	Bytes1 thor.Bytes32
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, thor.Bytes32{1})

	got, err := address.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	value := datagen.RandAddress()
	address.Set(value)
	got, err = address.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)

	address.Set(thor.Address{})
	got, err = address.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.Equal(t, thor.Address{1}, ctx.Address())
	assert.NotNil(t, ctx.State())
}

func TestAddress_InvalidStorage(t *testing.T) {
	ctx := newContext(t)
	slot := thor.BytesToBytes32([]byte("slot"))
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	addr, err := NewAddress(ctx, slot).Get()
	assert.Error(t, err)
	assert.True(t, addr.IsZero())
}

func TestUint256(t *testing.T) {
	u := NewUint256(newContext(t), thor.Bytes32{2})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(40)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(61)), errUnderflow)

	u.Set(thor.MaxUint256)
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, thor.MaxUint256, v)
}

func TestMapping_StructPointer(t *testing.T) {
	mapping := NewMapping[thor.Bytes32, *TestStruct](newContext(t), thor.Bytes32{1})
	key := datagen.RandomHash()

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got, "absent entry reads nil")

	value := &TestStruct{Field1: 100, Field2: 200, Addr1: datagen.RandAddress(), Bytes1: datagen.RandomHash()}
	require.NoError(t, mapping.Set(key, value))
	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	require.NoError(t, mapping.Set(key, nil))
	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapping_ValueTypes(t *testing.T) {
	ctx := newContext(t)
	flags := NewMapping[thor.Address, bool](ctx, thor.Bytes32{1})
	amounts := NewMapping[PairKey[thor.Address, thor.Address], *big.Int](ctx, thor.Bytes32{2})
	byID := NewMapping[Uint64Key, thor.Address](ctx, thor.Bytes32{3})

	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, flags.Set(alice, true))
	ok, err := flags.Get(alice)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = flags.Get(bob)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, flags.Set(alice, false))
	raw, err := ctx.State().GetRawStorage(ctx.Address(), flags.position(alice))
	require.NoError(t, err)
	assert.Empty(t, raw, "false clears the slot")

	require.NoError(t, amounts.Set(PairKey[thor.Address, thor.Address]{alice, bob}, big.NewInt(7)))
	amt, err := amounts.Get(PairKey[thor.Address, thor.Address]{alice, bob})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), amt)
	amt, err = amounts.Get(PairKey[thor.Address, thor.Address]{bob, alice})
	require.NoError(t, err)
	assert.Nil(t, amt, "pair keys are ordered")

	require.NoError(t, byID.Set(Uint64Key(42), bob))
	got, err := byID.Get(Uint64Key(42))
	require.NoError(t, err)
	assert.Equal(t, bob, got)
	byID.Delete(Uint64Key(42))
	got, err = byID.Get(Uint64Key(42))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestMapping_Fuzz(t *testing.T) {
	mapping := NewMapping[thor.Bytes32, TestStruct](newContext(t), thor.Bytes32{9})
	f := fuzz.New().NilChance(0)

	for range 50 {
		var (
			key   thor.Bytes32
			value TestStruct
		)
		f.Fuzz(&key)
		f.Fuzz(&value)

		require.NoError(t, mapping.Set(key, value))
		got, err := mapping.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestArray(t *testing.T) {
	ctx := newContext(t)
	arr := NewArray[*TestStruct](ctx, thor.Bytes32{5})

	n, err := arr.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = arr.Get(0)
	assert.Error(t, err)

	for i := range uint64(3) {
		idx, err := arr.Push(&TestStruct{Field1: i})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	n, err = arr.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	require.NoError(t, arr.Set(1, &TestStruct{Field1: 10}))
	v, err := arr.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v.Field1)

	assert.Error(t, arr.Set(3, &TestStruct{}))

	// the length shares the base slot with a plain Uint256
	l, err := NewUint256(ctx, thor.Bytes32{5}).Get()
	require.NoError(t, err)
	assert.Equal(t, int64(3), l.Int64())
}
